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

type CreateHotelInput struct {
	Title               string `json:"title" validate:"required,min=3,max=256"`
	Description         string `json:"description" validate:"required,min=10"`
	Image               string `json:"image" validate:"required"`
	Country             string `json:"country" validate:"required"`
	State               string `json:"state"`
	City                string `json:"city"`
	LocationDescription string `json:"locationDescription"`
	Gym                 bool   `json:"gym"`
	Spa                 bool   `json:"spa"`
	Bar                 bool   `json:"bar"`
	Laundry             bool   `json:"laundry"`
	Restaurant          bool   `json:"restaurant"`
	Shopping            bool   `json:"shopping"`
	FreeParking         bool   `json:"freeParking"`
	BikeRental          bool   `json:"bikeRental"`
	FreeWifi            bool   `json:"freeWifi"`
	MovieNights         bool   `json:"movieNights"`
	SwimmingPool        bool   `json:"swimmingPool"`
	CoffeeShop          bool   `json:"coffeeShop"`
}

func CreateHotel(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateHotelInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	hotel := models.Hotel{
		UserID:              claims.ID,
		Title:               input.Title,
		Description:         input.Description,
		Image:               input.Image,
		Country:             input.Country,
		State:               input.State,
		City:                input.City,
		LocationDescription: input.LocationDescription,
		Gym:                 input.Gym,
		Spa:                 input.Spa,
		Bar:                 input.Bar,
		Laundry:             input.Laundry,
		Restaurant:          input.Restaurant,
		Shopping:            input.Shopping,
		FreeParking:         input.FreeParking,
		BikeRental:          input.BikeRental,
		FreeWifi:            input.FreeWifi,
		MovieNights:         input.MovieNights,
		SwimmingPool:        input.SwimmingPool,
		CoffeeShop:          input.CoffeeShop,
	}

	if err := storage.DB.Create(&hotel).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", "Failed to create hotel", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(hotel)
}

func GetHotel(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var hotel models.Hotel
	hotelExists := storage.DB.Preload("Rooms").Limit(1).Find(&hotel, "id = ?", id)
	if hotelExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if hotelExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(hotel)
}

// GetHotels searches by title substring and exact location fields; empty
// params are ignored.
func GetHotels(ctx iris.Context) {
	title := ctx.URLParamDefault("title", "")
	country := ctx.URLParamDefault("country", "")
	state := ctx.URLParamDefault("state", "")
	city := ctx.URLParamDefault("city", "")

	query := storage.DB.Preload("Rooms")
	if title != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+title+"%")
	}
	if country != "" {
		query = query.Where("country = ?", country)
	}
	if state != "" {
		query = query.Where("state = ?", state)
	}
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var hotels []models.Hotel
	if err := query.Find(&hotels).Error; err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", err.Error(), ctx)
		return
	}

	ctx.JSON(hotels)
}

func GetHotelsByUserID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var hotels []models.Hotel
	hotelsExist := storage.DB.Preload("Rooms").Where("user_id = ?", id).Find(&hotels)
	if hotelsExist.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", hotelsExist.Error.Error(), ctx)
		return
	}

	ctx.JSON(hotels)
}

// UpdateHotelInput carries only the fields a PATCH may change; nil means
// "leave as is".
type UpdateHotelInput struct {
	Title               *string `json:"title" validate:"omitempty,min=3,max=256"`
	Description         *string `json:"description" validate:"omitempty,min=10"`
	Image               *string `json:"image"`
	Country             *string `json:"country"`
	State               *string `json:"state"`
	City                *string `json:"city"`
	LocationDescription *string `json:"locationDescription"`
	Gym                 *bool   `json:"gym"`
	Spa                 *bool   `json:"spa"`
	Bar                 *bool   `json:"bar"`
	Laundry             *bool   `json:"laundry"`
	Restaurant          *bool   `json:"restaurant"`
	Shopping            *bool   `json:"shopping"`
	FreeParking         *bool   `json:"freeParking"`
	BikeRental          *bool   `json:"bikeRental"`
	FreeWifi            *bool   `json:"freeWifi"`
	MovieNights         *bool   `json:"movieNights"`
	SwimmingPool        *bool   `json:"swimmingPool"`
	CoffeeShop          *bool   `json:"coffeeShop"`
}

func (in *UpdateHotelInput) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	setIfString := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	setIfBool := func(column string, v *bool) {
		if v != nil {
			updates[column] = *v
		}
	}

	setIfString("title", in.Title)
	setIfString("description", in.Description)
	setIfString("image", in.Image)
	setIfString("country", in.Country)
	setIfString("state", in.State)
	setIfString("city", in.City)
	setIfString("location_description", in.LocationDescription)
	setIfBool("gym", in.Gym)
	setIfBool("spa", in.Spa)
	setIfBool("bar", in.Bar)
	setIfBool("laundry", in.Laundry)
	setIfBool("restaurant", in.Restaurant)
	setIfBool("shopping", in.Shopping)
	setIfBool("free_parking", in.FreeParking)
	setIfBool("bike_rental", in.BikeRental)
	setIfBool("free_wifi", in.FreeWifi)
	setIfBool("movie_nights", in.MovieNights)
	setIfBool("swimming_pool", in.SwimmingPool)
	setIfBool("coffee_shop", in.CoffeeShop)
	return updates
}

// UpdateHotel applies a partial update; only fields present in the payload
// change, and a replaced image is removed from the upload service.
func UpdateHotel(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var hotel models.Hotel
	hotelExists := storage.DB.Limit(1).Find(&hotel, "id = ?", id)
	if hotelExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if hotelExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if hotel.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdateHotelInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Image != nil && *input.Image != hotel.Image && hotel.Image != "" {
		if !storage.DeleteImage(hotel.Image) {
			log.Printf("UpdateHotel: failed to delete replaced image for hotel %d", hotel.ID)
		}
	}

	updates := input.updates()
	if len(updates) > 0 {
		if err := storage.DB.Model(&hotel).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	storage.DB.Preload("Rooms").First(&hotel, hotel.ID)
	ctx.JSON(hotel)
}

// DeleteHotel removes the hotel, its rooms and their bookings in one
// transaction, plus any stored images.
func DeleteHotel(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var hotel models.Hotel
	hotelExists := storage.DB.Preload("Rooms").Limit(1).Find(&hotel, "id = ?", id)
	if hotelExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if hotelExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if hotel.UserID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	for _, room := range hotel.Rooms {
		if room.Image != "" && !storage.DeleteImage(room.Image) {
			log.Printf("DeleteHotel: failed to delete image for room %d", room.ID)
		}
	}
	if hotel.Image != "" && !storage.DeleteImage(hotel.Image) {
		log.Printf("DeleteHotel: failed to delete image for hotel %d", hotel.ID)
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hotel_id = ?", hotel.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hotel_id = ?", hotel.ID).Delete(&models.Room{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Hotel{}, hotel.ID).Error
	})
	if txErr != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", txErr.Error(), ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Hotel deleted successfully"})
}
