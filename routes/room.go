package routes

import (
	"log"

	"github.com/SameerManjrekar/hotel-booking/models"
	"github.com/SameerManjrekar/hotel-booking/storage"
	"github.com/SameerManjrekar/hotel-booking/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type CreateRoomInput struct {
	HotelID        uint    `json:"hotelId" validate:"required"`
	Title          string  `json:"title" validate:"required,min=3,max=256"`
	Description    string  `json:"description" validate:"required,min=10"`
	Image          string  `json:"image" validate:"required"`
	BedCount       int     `json:"bedCount" validate:"required,gte=1"`
	GuestCount     int     `json:"guestCount" validate:"required,gte=1"`
	BathroomCount  int     `json:"bathroomCount" validate:"required,gte=1"`
	KingBed        int     `json:"kingBed" validate:"gte=0"`
	QueenBed       int     `json:"queenBed" validate:"gte=0"`
	RoomPrice      float32 `json:"roomPrice" validate:"required,gt=0"`
	BreakfastPrice float32 `json:"breakfastPrice" validate:"gte=0"`
	RoomService    bool    `json:"roomService"`
	TV             bool    `json:"tv"`
	Balcony        bool    `json:"balcony"`
	FreeWifi       bool    `json:"freeWifi"`
	CityView       bool    `json:"cityView"`
	OceanView      bool    `json:"oceanView"`
	ForestView     bool    `json:"forestView"`
	MountainView   bool    `json:"mountainView"`
	AirCondition   bool    `json:"airCondition"`
	SoundProofed   bool    `json:"soundProofed"`
}

// CreateRoom adds a room to a hotel; only the hotel owner may do so.
func CreateRoom(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var hotel models.Hotel
	hotelExists := storage.DB.Limit(1).Find(&hotel, "id = ?", input.HotelID)
	if hotelExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if hotelExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Hotel not found", ctx)
		return
	}

	if hotel.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	room := models.Room{
		HotelID:        hotel.ID,
		Title:          input.Title,
		Description:    input.Description,
		Image:          input.Image,
		BedCount:       input.BedCount,
		GuestCount:     input.GuestCount,
		BathroomCount:  input.BathroomCount,
		KingBed:        input.KingBed,
		QueenBed:       input.QueenBed,
		RoomPrice:      input.RoomPrice,
		BreakfastPrice: input.BreakfastPrice,
		RoomService:    input.RoomService,
		TV:             input.TV,
		Balcony:        input.Balcony,
		FreeWifi:       input.FreeWifi,
		CityView:       input.CityView,
		OceanView:      input.OceanView,
		ForestView:     input.ForestView,
		MountainView:   input.MountainView,
		AirCondition:   input.AirCondition,
		SoundProofed:   input.SoundProofed,
	}

	if err := storage.DB.Create(&room).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create room", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(room)
}

// UpdateRoomInput mirrors UpdateHotelInput: nil fields are untouched.
type UpdateRoomInput struct {
	Title          *string  `json:"title" validate:"omitempty,min=3,max=256"`
	Description    *string  `json:"description" validate:"omitempty,min=10"`
	Image          *string  `json:"image"`
	BedCount       *int     `json:"bedCount" validate:"omitempty,gte=1"`
	GuestCount     *int     `json:"guestCount" validate:"omitempty,gte=1"`
	BathroomCount  *int     `json:"bathroomCount" validate:"omitempty,gte=1"`
	KingBed        *int     `json:"kingBed" validate:"omitempty,gte=0"`
	QueenBed       *int     `json:"queenBed" validate:"omitempty,gte=0"`
	RoomPrice      *float32 `json:"roomPrice" validate:"omitempty,gt=0"`
	BreakfastPrice *float32 `json:"breakfastPrice" validate:"omitempty,gte=0"`
	RoomService    *bool    `json:"roomService"`
	TV             *bool    `json:"tv"`
	Balcony        *bool    `json:"balcony"`
	FreeWifi       *bool    `json:"freeWifi"`
	CityView       *bool    `json:"cityView"`
	OceanView      *bool    `json:"oceanView"`
	ForestView     *bool    `json:"forestView"`
	MountainView   *bool    `json:"mountainView"`
	AirCondition   *bool    `json:"airCondition"`
	SoundProofed   *bool    `json:"soundProofed"`
}

func (in *UpdateRoomInput) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Image != nil {
		updates["image"] = *in.Image
	}
	if in.BedCount != nil {
		updates["bed_count"] = *in.BedCount
	}
	if in.GuestCount != nil {
		updates["guest_count"] = *in.GuestCount
	}
	if in.BathroomCount != nil {
		updates["bathroom_count"] = *in.BathroomCount
	}
	if in.KingBed != nil {
		updates["king_bed"] = *in.KingBed
	}
	if in.QueenBed != nil {
		updates["queen_bed"] = *in.QueenBed
	}
	if in.RoomPrice != nil {
		updates["room_price"] = *in.RoomPrice
	}
	if in.BreakfastPrice != nil {
		updates["breakfast_price"] = *in.BreakfastPrice
	}
	setIfBool := func(column string, v *bool) {
		if v != nil {
			updates[column] = *v
		}
	}
	setIfBool("room_service", in.RoomService)
	setIfBool("tv", in.TV)
	setIfBool("balcony", in.Balcony)
	setIfBool("free_wifi", in.FreeWifi)
	setIfBool("city_view", in.CityView)
	setIfBool("ocean_view", in.OceanView)
	setIfBool("forest_view", in.ForestView)
	setIfBool("mountain_view", in.MountainView)
	setIfBool("air_condition", in.AirCondition)
	setIfBool("sound_proofed", in.SoundProofed)
	return updates
}

func UpdateRoom(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	room, hotel := getRoomWithHotel(id, ctx)
	if room == nil {
		return
	}

	if hotel.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdateRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Image != nil && *input.Image != room.Image && room.Image != "" {
		if !storage.DeleteImage(room.Image) {
			log.Printf("UpdateRoom: failed to delete replaced image for room %d", room.ID)
		}
	}

	updates := input.updates()
	if len(updates) > 0 {
		if err := storage.DB.Model(room).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	storage.DB.First(room, room.ID)
	ctx.JSON(room)
}

func DeleteRoom(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	room, hotel := getRoomWithHotel(id, ctx)
	if room == nil {
		return
	}

	if hotel.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if room.Image != "" && !storage.DeleteImage(room.Image) {
		log.Printf("DeleteRoom: failed to delete image for room %d", room.ID)
	}

	// Bookings go with the room so a reused room id cannot inherit them
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", room.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, room.ID).Error
	})
	if txErr != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", txErr.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Room deleted successfully"})
}

// getRoomWithHotel loads a room and its owning hotel, writing the error
// response itself when either is missing.
func getRoomWithHotel(id string, ctx iris.Context) (*models.Room, *models.Hotel) {
	var room models.Room
	roomExists := storage.DB.Limit(1).Find(&room, "id = ?", id)
	if roomExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil, nil
	}
	if roomExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil, nil
	}

	var hotel models.Hotel
	if err := storage.DB.First(&hotel, room.HotelID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return nil, nil
	}

	return &room, &hotel
}
