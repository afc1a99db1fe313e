package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conversation steps awaiting user input.
const (
	StepAwaitingReferralCode  = "awaiting_referral_code"
	StepChoosingMethod        = "choosing_method"
	StepAwaitingMethodDetails = "awaiting_method_details"
)

// State is the short-lived conversation context between two chat turns,
// keyed by user id. It lives in redis with a TTL so abandoned flows expire
// instead of accumulating in process memory.
type State struct {
	Step        string `json:"step"`
	MethodType  string `json:"method_type,omitempty"`
	AmountCents int64  `json:"amount_cents,omitempty"`
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("session:%d", userID)
}

func (s *Store) Set(ctx context.Context, userID int64, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(userID), payload, s.ttl).Err()
}

// Get returns the pending state, or (nil, nil) when the user has no active
// conversation.
func (s *Store) Get(ctx context.Context, userID int64) (*State, error) {
	payload, err := s.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) Clear(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}
