package models

import (
	"gorm.io/gorm"
)

type Hotel struct {
	gorm.Model
	UserID              uint   `json:"userID" gorm:"index"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	Image               string `json:"image"`
	Country             string `json:"country"`
	State               string `json:"state"`
	City                string `json:"city"`
	LocationDescription string `json:"locationDescription"`

	// Amenities
	Gym          bool `json:"gym"`
	Spa          bool `json:"spa"`
	Bar          bool `json:"bar"`
	Laundry      bool `json:"laundry"`
	Restaurant   bool `json:"restaurant"`
	Shopping     bool `json:"shopping"`
	FreeParking  bool `json:"freeParking"`
	BikeRental   bool `json:"bikeRental"`
	FreeWifi     bool `json:"freeWifi"`
	MovieNights  bool `json:"movieNights"`
	SwimmingPool bool `json:"swimmingPool"`
	CoffeeShop   bool `json:"coffeeShop"`

	// Relationships
	Rooms    []Room    `json:"rooms"`
	Bookings []Booking `json:"bookings,omitempty"`
	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:UserID;references:ID"`
}
