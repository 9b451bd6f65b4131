package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model
	HotelID        uint    `json:"hotelID" gorm:"index"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Image          string  `json:"image"`
	BedCount       int     `json:"bedCount"`
	GuestCount     int     `json:"guestCount"`
	BathroomCount  int     `json:"bathroomCount"`
	KingBed        int     `json:"kingBed"`
	QueenBed       int     `json:"queenBed"`
	RoomPrice      float32 `json:"roomPrice"`
	BreakfastPrice float32 `json:"breakfastPrice"`

	// Amenities
	RoomService  bool `json:"roomService"`
	TV           bool `json:"tv"`
	Balcony      bool `json:"balcony"`
	FreeWifi     bool `json:"freeWifi"`
	CityView     bool `json:"cityView"`
	OceanView    bool `json:"oceanView"`
	ForestView   bool `json:"forestView"`
	MountainView bool `json:"mountainView"`
	AirCondition bool `json:"airCondition"`
	SoundProofed bool `json:"soundProofed"`

	// Relationships
	Bookings []Booking `json:"bookings,omitempty"`
}
