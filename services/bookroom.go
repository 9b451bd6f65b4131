package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Staged drafts expire with the same 24h window as an unconfirmed payment.
const bookRoomTTL = 24 * time.Hour

// BookingDraft is the in-progress selection a guest carries through the
// redirect to the payment page and back.
type BookingDraft struct {
	RoomID            uint      `json:"roomID"`
	TotalPrice        float32   `json:"totalPrice"`
	BreakfastIncluded bool      `json:"breakfastIncluded"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
}

// BookRoomState is everything staged for one user's pending booking.
type BookRoomState struct {
	Draft           *BookingDraft `json:"draft"`
	PaymentIntentID string        `json:"paymentIntentID"`
	ClientSecret    string        `json:"clientSecret"`
}

// BookRoomStore keeps exactly one staged booking per user in Redis. Keying by
// user id means a second tab sees the same staged record instead of racing a
// tab-local copy.
type BookRoomStore struct {
	redis *redis.Client
}

func NewBookRoomStore(client *redis.Client) *BookRoomStore {
	return &BookRoomStore{redis: client}
}

func (s *BookRoomStore) key(userID uint) string {
	return fmt.Sprintf("bookroom:%d", userID)
}

// Get returns the staged state for the user, or an empty state when nothing
// is staged.
func (s *BookRoomStore) Get(ctx context.Context, userID uint) (*BookRoomState, error) {
	raw, err := s.redis.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return &BookRoomState{}, nil
	}
	if err != nil {
		return nil, err
	}

	var state BookRoomState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *BookRoomStore) SetDraft(ctx context.Context, userID uint, draft *BookingDraft) error {
	state, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	state.Draft = draft
	return s.save(ctx, userID, state)
}

func (s *BookRoomStore) SetPaymentIntentID(ctx context.Context, userID uint, paymentIntentID string) error {
	state, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	state.PaymentIntentID = paymentIntentID
	return s.save(ctx, userID, state)
}

func (s *BookRoomStore) SetClientSecret(ctx context.Context, userID uint, clientSecret string) error {
	state, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	state.ClientSecret = clientSecret
	return s.save(ctx, userID, state)
}

// Reset clears the staged booking entirely.
func (s *BookRoomStore) Reset(ctx context.Context, userID uint) error {
	return s.redis.Del(ctx, s.key(userID)).Err()
}

func (s *BookRoomStore) save(ctx context.Context, userID uint, state *BookRoomState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.key(userID), raw, bookRoomTTL).Err()
}
