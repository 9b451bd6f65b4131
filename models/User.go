package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Email       string         `json:"email" gorm:"uniqueIndex"`
	Password    string         `json:"-"`
	AvatarURL   string         `json:"avatarURL"`
	SavedHotels datatypes.JSON `json:"savedHotels"`
	Role        string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, host
	Hotels      []Hotel        `json:"hotels" gorm:"foreignKey:UserID;references:ID"`
}

// Custom JSON marshaling so the saved-hotels JSON column serializes as an
// array of ids instead of raw bytes.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		SavedHotels []uint `json:"savedHotels"`
		*Alias
	}{
		SavedHotels: []uint{},
		Alias:       (*Alias)(u),
	}

	if u.SavedHotels != nil {
		var saved []uint
		if err := json.Unmarshal(u.SavedHotels, &saved); err == nil {
			aux.SavedHotels = saved
		}
	}

	return json.Marshal(aux)
}
