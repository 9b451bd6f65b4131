package routes

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/SameerManjrekar/hotel-booking/models"
	"github.com/SameerManjrekar/hotel-booking/services"
	"github.com/SameerManjrekar/hotel-booking/storage"
	"github.com/SameerManjrekar/hotel-booking/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Wired from main; tests swap in fakes.
var (
	Payments services.PaymentProcessor
	BookRoom *services.BookRoomStore
)

var bgContext = context.Background()

var errDatesAlreadyBooked = errors.New("dates already booked")

type BookingInput struct {
	HotelID           uint      `json:"hotelId" validate:"required"`
	RoomID            uint      `json:"roomId" validate:"required"`
	StartDate         time.Time `json:"startDate" validate:"required"`
	EndDate           time.Time `json:"endDate" validate:"required"`
	BreakfastIncluded bool      `json:"breakfastIncluded"`
	TotalPrice        float32   `json:"totalPrice" validate:"required,gt=0"`
	Currency          string    `json:"currency"`
}

type CreatePaymentIntentInput struct {
	Booking         BookingInput `json:"booking"`
	PaymentIntentID string       `json:"payment_intent_id"`
}

// CreatePaymentIntent asks the processor for a payment intent and inserts the
// matching unpaid booking row. When a prior intent id is supplied the
// existing intent and row are updated in place instead.
func CreatePaymentIntent(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePaymentIntentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.Booking.StartDate.Before(input.Booking.EndDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be before endDate", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "User not found", ctx)
		return
	}

	var hotel models.Hotel
	if err := storage.DB.First(&hotel, input.Booking.HotelID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Hotel not found", ctx)
		return
	}

	var room models.Room
	if err := storage.DB.First(&room, input.Booking.RoomID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room not found", ctx)
		return
	}
	if room.HotelID != hotel.ID {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Room does not belong to the hotel", ctx)
		return
	}

	currency := input.Booking.Currency
	if currency == "" {
		currency = "usd"
	}
	// Processor amounts are in the currency's smallest unit; round so prices
	// like 19.99 do not lose a cent to float truncation
	amount := int64(math.Round(float64(input.Booking.TotalPrice) * 100))

	if input.PaymentIntentID != "" {
		var booking models.Booking
		found := storage.DB.
			Where("payment_intent_id = ? AND user_id = ?", input.PaymentIntentID, claims.ID).
			Limit(1).Find(&booking)
		if found.Error != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		if found.RowsAffected == 0 {
			utils.CreateError(iris.StatusNotFound, "Not Found", "No booking for the payment intent", ctx)
			return
		}

		if _, err := Payments.RetrieveIntent(input.PaymentIntentID); err != nil {
			log.Printf("CreatePaymentIntent: retrieve intent %s failed: %v", input.PaymentIntentID, err)
			utils.CreateInternalServerError(ctx)
			return
		}

		intent, err := Payments.UpdateIntent(input.PaymentIntentID, amount)
		if err != nil {
			log.Printf("CreatePaymentIntent: update intent %s failed: %v", input.PaymentIntentID, err)
			utils.CreateInternalServerError(ctx)
			return
		}

		booking.HotelID = hotel.ID
		booking.RoomID = room.ID
		booking.HotelOwnerID = hotel.UserID
		booking.StartDate = input.Booking.StartDate
		booking.EndDate = input.Booking.EndDate
		booking.BreakfastIncluded = input.Booking.BreakfastIncluded
		booking.TotalPrice = input.Booking.TotalPrice
		booking.Currency = currency

		if err := storage.DB.Save(&booking).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}

		stagePaymentIntent(claims.ID, intent)

		ctx.JSON(iris.Map{"paymentIntent": intent})
		return
	}

	intent, err := Payments.CreateIntent(amount, currency)
	if err != nil {
		log.Printf("CreatePaymentIntent: create intent failed: %v", err)
		utils.CreateInternalServerError(ctx)
		return
	}

	booking := models.Booking{
		UserID:            claims.ID,
		UserName:          user.FirstName,
		UserEmail:         user.Email,
		HotelOwnerID:      hotel.UserID,
		HotelID:           hotel.ID,
		RoomID:            room.ID,
		StartDate:         input.Booking.StartDate,
		EndDate:           input.Booking.EndDate,
		BreakfastIncluded: input.Booking.BreakfastIncluded,
		Currency:          currency,
		TotalPrice:        input.Booking.TotalPrice,
		PaymentIntentID:   intent.ID,
	}

	if err := storage.DB.Create(&booking).Error; err != nil {
		log.Printf("CreatePaymentIntent: booking insert failed for intent %s: %v", intent.ID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	stagePaymentIntent(claims.ID, intent)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"paymentIntent": intent})
}

func stagePaymentIntent(userID uint, intent *services.PaymentIntent) {
	if err := BookRoom.SetPaymentIntentID(bgContext, userID, intent.ID); err != nil {
		log.Printf("CreatePaymentIntent: staging intent id failed: %v", err)
		return
	}
	if err := BookRoom.SetClientSecret(bgContext, userID, intent.ClientSecret); err != nil {
		log.Printf("CreatePaymentIntent: staging client secret failed: %v", err)
	}
}

// ConfirmBooking flips the booking matching the payment intent to paid. The
// transaction takes the room row's lock before rerunning the overlap check,
// so confirmations for the same room are serialized: locking only the
// already-paid rows would let two racing confirmations of unpaid bookings
// miss each other and both commit.
func ConfirmBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	intentID := ctx.Params().Get("paymentIntentId")

	if intentID == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "payment intent id is required", ctx)
		return
	}

	var booking models.Booking
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Where("payment_intent_id = ?", intentID).
			First(&booking).Error; err != nil {
			return err
		}

		// Serialization point for the room
		var room models.Room
		if err := lockForUpdate(tx).First(&room, booking.RoomID).Error; err != nil {
			return err
		}

		yesterday := time.Now().AddDate(0, 0, -1)
		var existing []models.Booking
		if err := lockForUpdate(tx).
			Where("room_id = ? AND paid = ? AND end_date > ? AND id <> ?",
				booking.RoomID, true, yesterday, booking.ID).
			Find(&existing).Error; err != nil {
			return err
		}

		ranges := make([]utils.DateRange, 0, len(existing))
		for _, b := range existing {
			ranges = append(ranges, utils.DateRange{StartDate: b.StartDate, EndDate: b.EndDate})
		}

		if utils.HasOverlap(booking.StartDate, booking.EndDate, ranges) {
			return errDatesAlreadyBooked
		}

		return tx.Model(&booking).Update("paid", true).Error
	})

	if txErr != nil {
		switch {
		case errors.Is(txErr, gorm.ErrRecordNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "No booking for the payment intent", ctx)
		case errors.Is(txErr, errDatesAlreadyBooked):
			utils.CreateError(iris.StatusConflict, "Conflict",
				"Some of the requested days have already been reserved", ctx)
		default:
			log.Printf("ConfirmBooking: transaction failed for intent %s: %v", intentID, txErr)
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	if err := BookRoom.Reset(bgContext, claims.ID); err != nil {
		log.Printf("ConfirmBooking: draft reset failed for user %d: %v", claims.ID, err)
	}

	ctx.JSON(booking)
}

// lockForUpdate adds a row lock on dialects that support it.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// DeleteBooking removes a booking row. Allowed for the booking user and the
// hotel owner; a second delete of the same id reports not found.
func DeleteBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var booking models.Booking
	bookingExists := storage.DB.Limit(1).Find(&booking, "id = ?", id)
	if bookingExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if bookingExists.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if booking.UserID != claims.ID && booking.HotelOwnerID != claims.ID {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if err := storage.DB.Delete(&models.Booking{}, booking.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "Booking deleted successfully"})
}

// GetBookingsByRoomID lists the paid, still-relevant bookings for a room. It
// is public so clients can run the advisory overlap check before paying.
func GetBookingsByRoomID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	yesterday := time.Now().AddDate(0, 0, -1)

	var bookings []models.Booking
	res := storage.DB.
		Where("room_id = ? AND paid = ? AND end_date > ?", id, true, yesterday).
		Order("start_date ASC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}

func GetUserBookings(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var bookings []models.Booking
	res := storage.DB.
		Preload("Hotel").Preload("Room").
		Where("user_id = ?", id).
		Order("created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetHostBookings returns bookings across all hotels owned by the caller.
func GetHostBookings(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var bookings []models.Booking
	res := storage.DB.
		Preload("Hotel").Preload("Room").
		Where("hotel_owner_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateError(iris.StatusInternalServerError, "Error", res.Error.Error(), ctx)
		return
	}

	ctx.JSON(bookings)
}

type SetBookingDraftInput struct {
	RoomID            uint      `json:"roomId" validate:"required"`
	TotalPrice        float32   `json:"totalPrice" validate:"required,gt=0"`
	BreakfastIncluded bool      `json:"breakfastIncluded"`
	StartDate         time.Time `json:"startDate" validate:"required"`
	EndDate           time.Time `json:"endDate" validate:"required"`
}

// SetBookingDraft stages the caller's pending selection so it survives the
// redirect to the payment page.
func SetBookingDraft(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input SetBookingDraftInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.StartDate.Before(input.EndDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be before endDate", ctx)
		return
	}

	var room models.Room
	if err := storage.DB.First(&room, input.RoomID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room not found", ctx)
		return
	}

	draft := services.BookingDraft{
		RoomID:            input.RoomID,
		TotalPrice:        input.TotalPrice,
		BreakfastIncluded: input.BreakfastIncluded,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
	}

	if err := BookRoom.SetDraft(bgContext, claims.ID, &draft); err != nil {
		log.Printf("SetBookingDraft: staging failed for user %d: %v", claims.ID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"draft": draft})
}

func GetBookingDraft(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	state, err := BookRoom.Get(bgContext, claims.ID)
	if err != nil {
		log.Printf("GetBookingDraft: lookup failed for user %d: %v", claims.ID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(state)
}

func ResetBookingDraft(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	if err := BookRoom.Reset(bgContext, claims.ID); err != nil {
		log.Printf("ResetBookingDraft: reset failed for user %d: %v", claims.ID, err)
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
