package main

import (
	"fmt"
	"log"
	"os"

	"github.com/SameerManjrekar/hotel-booking/routes"
	"github.com/SameerManjrekar/hotel-booking/services"
	"github.com/SameerManjrekar/hotel-booking/storage"
	"github.com/SameerManjrekar/hotel-booking/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeUploads()

	routes.Payments = services.NewStripeProcessor()
	routes.BookRoom = services.NewBookRoomStore(storage.Redis)

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	// Health check endpoint
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Get("/{id}/hotels/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserSavedHotels)
		user.Patch("/{id}/hotels/saved", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.AlterUserSavedHotels)
	}

	hotel := app.Party("/api/hotel")
	{
		hotel.Post("/", accessTokenVerifierMiddleware, routes.CreateHotel)
		hotel.Get("/", routes.GetHotels)
		hotel.Get("/{id}", routes.GetHotel)
		hotel.Get("/userid/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetHotelsByUserID)
		hotel.Patch("/{id}", accessTokenVerifierMiddleware, routes.UpdateHotel)
		hotel.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteHotel)
	}

	room := app.Party("/api/room")
	{
		room.Post("/", accessTokenVerifierMiddleware, routes.CreateRoom)
		room.Patch("/{id}", accessTokenVerifierMiddleware, routes.UpdateRoom)
		room.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteRoom)
	}

	booking := app.Party("/api/booking")
	{
		booking.Get("/room/{id}", routes.GetBookingsByRoomID)
		booking.Get("/user/{id}", accessTokenVerifierMiddleware, utils.UserIDMiddleware, routes.GetUserBookings)
		booking.Get("/host/bookings", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetHostBookings)
		booking.Patch("/{paymentIntentId}/pay", accessTokenVerifierMiddleware, routes.ConfirmBooking)
		booking.Delete("/{id}", accessTokenVerifierMiddleware, routes.DeleteBooking)
		booking.Put("/draft", accessTokenVerifierMiddleware, routes.SetBookingDraft)
		booking.Get("/draft", accessTokenVerifierMiddleware, routes.GetBookingDraft)
		booking.Delete("/draft", accessTokenVerifierMiddleware, routes.ResetBookingDraft)
	}

	app.Post("/api/create-payment-intent", accessTokenVerifierMiddleware, routes.CreatePaymentIntent)

	upload := app.Party("/api/upload")
	{
		upload.Post("/", accessTokenVerifierMiddleware, routes.UploadImage)
		upload.Post("/delete", accessTokenVerifierMiddleware, routes.DeleteUploadedImage)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	fmt.Printf("Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
