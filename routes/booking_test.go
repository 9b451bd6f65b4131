package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/SameerManjrekar/hotel-booking/models"
	"github.com/SameerManjrekar/hotel-booking/services"
	"github.com/SameerManjrekar/hotel-booking/storage"
	"github.com/SameerManjrekar/hotel-booking/utils"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeProcessor stands in for the payment gateway.
type fakeProcessor struct {
	created    int
	lastAmount int64
}

func (f *fakeProcessor) CreateIntent(amount int64, currency string) (*services.PaymentIntent, error) {
	f.created++
	f.lastAmount = amount
	id := fmt.Sprintf("pi_test_%d", f.created)
	return &services.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       amount,
		Status:       "requires_payment_method",
	}, nil
}

func (f *fakeProcessor) UpdateIntent(id string, amount int64) (*services.PaymentIntent, error) {
	f.lastAmount = amount
	return &services.PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       amount,
		Status:       "requires_payment_method",
	}, nil
}

func (f *fakeProcessor) RetrieveIntent(id string) (*services.PaymentIntent, error) {
	return &services.PaymentIntent{ID: id, ClientSecret: id + "_secret"}, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Hotel{}, &models.Room{}, &models.Booking{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	storage.DB = db
	return db
}

func setupBookRoom(t *testing.T) {
	t.Helper()

	mr := miniredis.RunT(t)
	storage.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	BookRoom = services.NewBookRoomStore(storage.Redis)
}

// buildTestApp creates a minimal iris app with the booking, hotel and room
// routes behind a JWT verifier.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()

	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	os.Setenv("REFRESH_TOKEN_SECRET", "testrefreshsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	authMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	user := app.Party("/api/user")
	{
		user.Post("/register", Register)
		user.Post("/login", Login)
		user.Get("/{id}/hotels/saved", authMiddleware, utils.UserIDMiddleware, GetUserSavedHotels)
		user.Patch("/{id}/hotels/saved", authMiddleware, utils.UserIDMiddleware, AlterUserSavedHotels)
	}

	hotel := app.Party("/api/hotel")
	{
		hotel.Post("/", authMiddleware, CreateHotel)
		hotel.Get("/{id}", GetHotel)
		hotel.Patch("/{id}", authMiddleware, UpdateHotel)
		hotel.Delete("/{id}", authMiddleware, DeleteHotel)
	}

	room := app.Party("/api/room")
	{
		room.Post("/", authMiddleware, CreateRoom)
		room.Patch("/{id}", authMiddleware, UpdateRoom)
		room.Delete("/{id}", authMiddleware, DeleteRoom)
	}

	booking := app.Party("/api/booking")
	{
		booking.Get("/room/{id}", GetBookingsByRoomID)
		booking.Get("/user/{id}", authMiddleware, utils.UserIDMiddleware, GetUserBookings)
		booking.Get("/host/bookings", authMiddleware, utils.UserIDFromTokenMiddleware, GetHostBookings)
		booking.Patch("/{paymentIntentId}/pay", authMiddleware, ConfirmBooking)
		booking.Delete("/{id}", authMiddleware, DeleteBooking)
		booking.Put("/draft", authMiddleware, SetBookingDraft)
		booking.Get("/draft", authMiddleware, GetBookingDraft)
		booking.Delete("/draft", authMiddleware, ResetBookingDraft)
	}

	app.Post("/api/create-payment-intent", authMiddleware, CreatePaymentIntent)

	upload := app.Party("/api/upload")
	{
		upload.Post("/", authMiddleware, UploadImage)
		upload.Post("/delete", authMiddleware, DeleteUploadedImage)
	}

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build test app: %v", err)
	}
	return app
}

func signTestToken(id uint) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), time.Hour)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: "user"})
	return string(token)
}

func doJSON(app *iris.Application, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{FirstName: "Test", LastName: "User", Email: email, Password: "hashed"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedHotelAndRoom(t *testing.T, db *gorm.DB, ownerID uint) (models.Hotel, models.Room) {
	t.Helper()
	hotel := models.Hotel{
		UserID:      ownerID,
		Title:       "Seaside Resort",
		Description: "A quiet resort by the shore with plenty of space",
		Country:     "IN",
		City:        "Goa",
		Gym:         true,
	}
	if err := db.Create(&hotel).Error; err != nil {
		t.Fatalf("failed to seed hotel: %v", err)
	}
	room := models.Room{
		HotelID:     hotel.ID,
		Title:       "Deluxe King",
		Description: "King bed, ocean view, breakfast available",
		BedCount:    1,
		GuestCount:  2,
		RoomPrice:   120,
	}
	if err := db.Create(&room).Error; err != nil {
		t.Fatalf("failed to seed room: %v", err)
	}
	return hotel, room
}

func paymentIntentPayload(hotel models.Hotel, room models.Room, start, end time.Time, priorIntent string) map[string]interface{} {
	return map[string]interface{}{
		"booking": map[string]interface{}{
			"hotelId":           hotel.ID,
			"roomId":            room.ID,
			"startDate":         start.Format(time.RFC3339),
			"endDate":           end.Format(time.RFC3339),
			"breakfastIncluded": true,
			"totalPrice":        600,
			"currency":          "usd",
		},
		"payment_intent_id": priorIntent,
	}
}

func TestCreatePaymentIntentCreatesUnpaidBooking(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	processor := &fakeProcessor{}
	Payments = processor
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)
	end := start.AddDate(0, 0, 5)

	resp := doJSON(app, http.MethodPost, "/api/create-payment-intent", signTestToken(guest.ID),
		paymentIntentPayload(hotel, room, start, end, ""))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var booking models.Booking
	if err := db.First(&booking, "payment_intent_id = ?", "pi_test_1").Error; err != nil {
		t.Fatalf("expected booking row for fresh intent: %v", err)
	}
	if booking.Paid {
		t.Fatal("a freshly created booking must be unpaid")
	}
	if booking.UserID != guest.ID || booking.HotelOwnerID != owner.ID {
		t.Fatalf("booking links wrong users: %+v", booking)
	}
	if processor.lastAmount != 60000 {
		t.Fatalf("expected amount in cents (60000), got %d", processor.lastAmount)
	}

	state, err := BookRoom.Get(bgContext, guest.ID)
	if err != nil {
		t.Fatalf("draft store lookup failed: %v", err)
	}
	if state.PaymentIntentID != "pi_test_1" || state.ClientSecret != "pi_test_1_secret" {
		t.Fatalf("intent not staged for the redirect: %+v", state)
	}
}

func TestCreatePaymentIntentUpdatesExistingBooking(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	processor := &fakeProcessor{}
	Payments = processor
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)
	end := start.AddDate(0, 0, 5)

	first := doJSON(app, http.MethodPost, "/api/create-payment-intent", signTestToken(guest.ID),
		paymentIntentPayload(hotel, room, start, end, ""))
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	// Resubmit with the prior intent and shifted dates
	second := doJSON(app, http.MethodPost, "/api/create-payment-intent", signTestToken(guest.ID),
		paymentIntentPayload(hotel, room, start.AddDate(0, 0, 1), end.AddDate(0, 0, 1), "pi_test_1"))
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d: %s", second.Code, second.Body.String())
	}

	var count int64
	db.Model(&models.Booking{}).Where("user_id = ?", guest.ID).Count(&count)
	if count != 1 {
		t.Fatalf("update must not create a second row, found %d", count)
	}
	if processor.created != 1 {
		t.Fatalf("update must reuse the intent, processor created %d", processor.created)
	}
}

func TestConfirmBookingFlipsOnlyMatchingRow(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)
	mkBooking := func(intentID string, start, end time.Time) models.Booking {
		b := models.Booking{
			UserID: guest.ID, HotelOwnerID: owner.ID, HotelID: hotel.ID, RoomID: room.ID,
			StartDate: start, EndDate: end, TotalPrice: 600, Currency: "usd",
			PaymentIntentID: intentID,
		}
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("failed to seed booking: %v", err)
		}
		return b
	}
	mkBooking("pi_a", start, start.AddDate(0, 0, 3))
	mkBooking("pi_b", start.AddDate(0, 0, 10), start.AddDate(0, 0, 13))

	resp := doJSON(app, http.MethodPatch, "/api/booking/pi_a/pay", signTestToken(guest.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var a, b models.Booking
	db.First(&a, "payment_intent_id = ?", "pi_a")
	db.First(&b, "payment_intent_id = ?", "pi_b")
	if !a.Paid {
		t.Fatal("confirmed booking must be paid")
	}
	if b.Paid {
		t.Fatal("other bookings must be untouched")
	}

	// Unknown intent id
	missing := doJSON(app, http.MethodPatch, "/api/booking/pi_nope/pay", signTestToken(guest.ID), nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown intent, got %d", missing.Code)
	}
}

func TestConfirmBookingRejectsOverlappingDates(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	rival := seedUser(t, db, "rival@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)

	paid := models.Booking{
		UserID: rival.ID, HotelOwnerID: owner.ID, HotelID: hotel.ID, RoomID: room.ID,
		StartDate: start, EndDate: start.AddDate(0, 0, 5), TotalPrice: 600, Currency: "usd",
		PaymentIntentID: "pi_paid", Paid: true,
	}
	if err := db.Create(&paid).Error; err != nil {
		t.Fatalf("failed to seed paid booking: %v", err)
	}

	pending := models.Booking{
		UserID: guest.ID, HotelOwnerID: owner.ID, HotelID: hotel.ID, RoomID: room.ID,
		StartDate: start.AddDate(0, 0, 4), EndDate: start.AddDate(0, 0, 10), TotalPrice: 720, Currency: "usd",
		PaymentIntentID: "pi_pending",
	}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("failed to seed pending booking: %v", err)
	}

	resp := doJSON(app, http.MethodPatch, "/api/booking/pi_pending/pay", signTestToken(guest.ID), nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping dates, got %d: %s", resp.Code, resp.Body.String())
	}

	var after models.Booking
	db.First(&after, "payment_intent_id = ?", "pi_pending")
	if after.Paid {
		t.Fatal("conflicting booking must stay unpaid")
	}
}

func TestConfirmBookingSecondRivalGetsConflict(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	rival := seedUser(t, db, "rival@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)

	// Two unpaid bookings for overlapping dates on the same room; neither is
	// paid yet, so the overlap is only visible once one of them confirms.
	first := models.Booking{
		UserID: guest.ID, HotelOwnerID: owner.ID, HotelID: hotel.ID, RoomID: room.ID,
		StartDate: start, EndDate: start.AddDate(0, 0, 5), TotalPrice: 600, Currency: "usd",
		PaymentIntentID: "pi_first",
	}
	second := models.Booking{
		UserID: rival.ID, HotelOwnerID: owner.ID, HotelID: hotel.ID, RoomID: room.ID,
		StartDate: start.AddDate(0, 0, 2), EndDate: start.AddDate(0, 0, 8), TotalPrice: 720, Currency: "usd",
		PaymentIntentID: "pi_second",
	}
	for _, b := range []*models.Booking{&first, &second} {
		if err := db.Create(b).Error; err != nil {
			t.Fatalf("failed to seed booking: %v", err)
		}
	}

	winner := doJSON(app, http.MethodPatch, "/api/booking/pi_first/pay", signTestToken(guest.ID), nil)
	if winner.Code != http.StatusOK {
		t.Fatalf("expected 200 for the first confirmation, got %d: %s", winner.Code, winner.Body.String())
	}

	loser := doJSON(app, http.MethodPatch, "/api/booking/pi_second/pay", signTestToken(rival.ID), nil)
	if loser.Code != http.StatusConflict {
		t.Fatalf("expected 409 for the rival confirmation, got %d: %s", loser.Code, loser.Body.String())
	}

	var paidCount int64
	db.Model(&models.Booking{}).Where("room_id = ? AND paid = ?", room.ID, true).Count(&paidCount)
	if paidCount != 1 {
		t.Fatalf("exactly one booking may hold the room, %d are paid", paidCount)
	}
}

func TestCreatePaymentIntentRejectsInvertedDates(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)

	resp := doJSON(app, http.MethodPost, "/api/create-payment-intent", signTestToken(guest.ID),
		paymentIntentPayload(hotel, room, start, start.AddDate(0, 0, -3), ""))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for endDate before startDate, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	if count != 0 {
		t.Fatalf("no booking row may exist after a rejected payload, found %d", count)
	}
}

func TestSetBookingDraftRejectsInvertedDates(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	_, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)
	payload := map[string]interface{}{
		"roomId":     room.ID,
		"totalPrice": 600,
		"startDate":  start.Format(time.RFC3339),
		"endDate":    start.AddDate(0, 0, -2).Format(time.RFC3339),
	}

	resp := doJSON(app, http.MethodPut, "/api/booking/draft", signTestToken(guest.ID), payload)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for endDate before startDate, got %d: %s", resp.Code, resp.Body.String())
	}

	state, err := BookRoom.Get(bgContext, guest.ID)
	if err != nil {
		t.Fatalf("draft store lookup failed: %v", err)
	}
	if state.Draft != nil {
		t.Fatalf("rejected draft must not be staged: %+v", state)
	}
}

func TestCreatePaymentIntentRoundsAmountToCents(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	processor := &fakeProcessor{}
	Payments = processor
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)
	payload := paymentIntentPayload(hotel, room, start, start.AddDate(0, 0, 5), "")
	payload["booking"].(map[string]interface{})["totalPrice"] = 19.99

	resp := doJSON(app, http.MethodPost, "/api/create-payment-intent", signTestToken(guest.ID), payload)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if processor.lastAmount != 1999 {
		t.Fatalf("19.99 must charge 1999 cents, got %d", processor.lastAmount)
	}
}

func TestDeleteBookingIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	booking := models.Booking{
		UserID: guest.ID, HotelOwnerID: owner.ID, HotelID: hotel.ID, RoomID: room.ID,
		StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 2), TotalPrice: 240, Currency: "usd",
		PaymentIntentID: "pi_del",
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	path := fmt.Sprintf("/api/booking/%d", booking.ID)

	first := doJSON(app, http.MethodDelete, path, signTestToken(guest.ID), nil)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 on first delete, got %d", first.Code)
	}

	second := doJSON(app, http.MethodDelete, path, signTestToken(guest.ID), nil)
	if second.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", second.Code)
	}
}

func TestDeleteBookingRequiresOwnership(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	stranger := seedUser(t, db, "stranger@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	booking := models.Booking{
		UserID: guest.ID, HotelOwnerID: owner.ID, HotelID: hotel.ID, RoomID: room.ID,
		StartDate: time.Now(), EndDate: time.Now().AddDate(0, 0, 2), TotalPrice: 240, Currency: "usd",
		PaymentIntentID: "pi_own",
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}

	path := fmt.Sprintf("/api/booking/%d", booking.ID)

	forbidden := doJSON(app, http.MethodDelete, path, signTestToken(stranger.ID), nil)
	if forbidden.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for stranger, got %d", forbidden.Code)
	}

	// The hotel owner may delete a guest's booking
	allowed := doJSON(app, http.MethodDelete, path, signTestToken(owner.ID), nil)
	if allowed.Code != http.StatusOK {
		t.Fatalf("expected 200 for hotel owner, got %d", allowed.Code)
	}
}

func TestGetBookingsByRoomFiltersUnpaidAndEnded(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	hotel, room := seedHotelAndRoom(t, db, owner.ID)

	now := time.Now()
	seed := func(intentID string, start, end time.Time, paid bool) {
		b := models.Booking{
			UserID: guest.ID, HotelOwnerID: owner.ID, HotelID: hotel.ID, RoomID: room.ID,
			StartDate: start, EndDate: end, TotalPrice: 100, Currency: "usd",
			PaymentIntentID: intentID, Paid: paid,
		}
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("failed to seed booking: %v", err)
		}
	}
	seed("pi_past", now.AddDate(0, 0, -10), now.AddDate(0, 0, -5), true)
	seed("pi_unpaid", now.AddDate(0, 0, 1), now.AddDate(0, 0, 4), false)
	seed("pi_active", now.AddDate(0, 0, 5), now.AddDate(0, 0, 9), true)

	resp := doJSON(app, http.MethodGet, fmt.Sprintf("/api/booking/room/%d", room.ID), "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var bookings []models.Booking
	if err := json.Unmarshal(resp.Body.Bytes(), &bookings); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected exactly the active paid booking, got %d rows", len(bookings))
	}
	if bookings[0].PaymentIntentID != "pi_active" {
		t.Fatalf("wrong booking returned: %s", bookings[0].PaymentIntentID)
	}
}

func TestBookingDraftRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	owner := seedUser(t, db, "owner@example.com")
	guest := seedUser(t, db, "guest@example.com")
	_, room := seedHotelAndRoom(t, db, owner.ID)

	start := time.Now().AddDate(0, 0, 7)
	payload := map[string]interface{}{
		"roomId":            room.ID,
		"totalPrice":        600,
		"breakfastIncluded": true,
		"startDate":         start.Format(time.RFC3339),
		"endDate":           start.AddDate(0, 0, 5).Format(time.RFC3339),
	}

	put := doJSON(app, http.MethodPut, "/api/booking/draft", signTestToken(guest.ID), payload)
	if put.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", put.Code, put.Body.String())
	}

	get := doJSON(app, http.MethodGet, "/api/booking/draft", signTestToken(guest.ID), nil)
	if get.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", get.Code)
	}
	var state services.BookRoomState
	if err := json.Unmarshal(get.Body.Bytes(), &state); err != nil {
		t.Fatalf("failed to decode draft state: %v", err)
	}
	if state.Draft == nil || state.Draft.RoomID != room.ID {
		t.Fatalf("draft not staged: %+v", state)
	}

	del := doJSON(app, http.MethodDelete, "/api/booking/draft", signTestToken(guest.ID), nil)
	if del.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", del.Code)
	}

	after := doJSON(app, http.MethodGet, "/api/booking/draft", signTestToken(guest.ID), nil)
	var cleared services.BookRoomState
	if err := json.Unmarshal(after.Body.Bytes(), &cleared); err != nil {
		t.Fatalf("failed to decode cleared state: %v", err)
	}
	if cleared.Draft != nil || cleared.PaymentIntentID != "" {
		t.Fatalf("reset must clear the staged state: %+v", cleared)
	}
}

func TestBookingEndpointsRejectMissingToken(t *testing.T) {
	setupTestDB(t)
	setupBookRoom(t)
	Payments = &fakeProcessor{}
	app := buildTestApp(t)

	resp := doJSON(app, http.MethodPost, "/api/create-payment-intent", "", map[string]interface{}{})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}
