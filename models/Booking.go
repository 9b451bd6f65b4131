package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking ties a guest, a room and a payment intent together. A row is
// inserted unpaid when the intent is created and only occupies the room's
// calendar once Paid is flipped by the payment confirmation.
type Booking struct {
	gorm.Model
	UserID            uint      `json:"userID" gorm:"index"`
	UserName          string    `json:"userName"`
	UserEmail         string    `json:"userEmail"`
	HotelOwnerID      uint      `json:"hotelOwnerID" gorm:"index"`
	HotelID           uint      `json:"hotelID" gorm:"index"`
	RoomID            uint      `json:"roomID" gorm:"index"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	BreakfastIncluded bool      `json:"breakfastIncluded"`
	Currency          string    `json:"currency"`
	TotalPrice        float32   `json:"totalPrice"`
	PaymentIntentID   string    `json:"paymentIntentID" gorm:"uniqueIndex"`
	Paid              bool      `json:"paid" gorm:"default:false"`

	// Relationships
	Hotel *Hotel `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
	Room  *Room  `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
