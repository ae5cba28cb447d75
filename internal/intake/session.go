package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/redis"
)

// defaultSessionTTL is the sliding idle window after which a conversation
// resets when no TTL is configured.
const defaultSessionTTL = 30 * time.Minute

// Conversation modes. A session either walks the registration steps or
// waits for a single complaint number to look up.
const (
	modeCollect     = "collect"
	modeCheckStatus = "check_complaint"
)

// Session holds the state of one WhatsApp conversation, keyed by the
// sender's phone number.
type Session struct {
	Mode string `json:"mode"`
	Step int    `json:"step"`

	ApplicantName     string `json:"applicant_name,omitempty"`
	ApplicantPhone    string `json:"applicant_phone,omitempty"`
	ApplicantWhatsapp string `json:"applicant_whatsapp,omitempty"`
	ApplicantAddress  string `json:"applicant_address,omitempty"`
	// BranchIDs preserves the order of the branch menu shown to the
	// applicant so the numeric reply can be resolved.
	BranchIDs     []uint `json:"branch_ids,omitempty"`
	BranchID      uint   `json:"branch_id,omitempty"`
	ComplaintType string `json:"complaint_type,omitempty"`
	Brand         string `json:"brand,omitempty"`
}

// SessionStore persists conversation state between webhook deliveries.
type SessionStore interface {
	// Get returns the session for the phone, or nil when none exists.
	Get(ctx context.Context, phone string) (*Session, error)
	// Put stores the session and resets its idle TTL.
	Put(ctx context.Context, phone string, sess *Session) error
	Delete(ctx context.Context, phone string) error
}

type redisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore builds a redis-backed session store with the given
// sliding idle TTL.
func NewSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &redisSessions{client: client, ttl: ttl}
}

func (s *redisSessions) Get(ctx context.Context, phone string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.client.IntakeSessionKey(phone))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading intake session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decoding intake session: %w", err)
	}
	return &sess, nil
}

func (s *redisSessions) Put(ctx context.Context, phone string, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding intake session: %w", err)
	}
	if err := s.client.Set(ctx, s.client.IntakeSessionKey(phone), string(raw), s.ttl); err != nil {
		return fmt.Errorf("storing intake session: %w", err)
	}
	return nil
}

func (s *redisSessions) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, s.client.IntakeSessionKey(phone)); err != nil {
		return fmt.Errorf("clearing intake session: %w", err)
	}
	return nil
}
