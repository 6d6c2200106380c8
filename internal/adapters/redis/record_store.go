package redis

// Package redis provides Redis-based adapters for the fraudwatch system.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/fraudwatch-ui-api/internal/domain/auth"
	"github.com/target/fraudwatch-ui-api/internal/ports"
)

// DefaultRecordTTL bounds how long an untouched session record survives.
// Every Save refreshes the TTL; the token inside still has to pass
// verification, so this is a storage bound, not an auth decision.
const DefaultRecordTTL = 30 * 24 * time.Hour

// RecordStore persists session records under a fixed key prefix.
type RecordStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SessionRecordStore = (*RecordStore)(nil)

// NewRecordStore creates a Redis-backed session record store.
func NewRecordStore(client redis.UniversalClient) *RecordStore {
	return NewRecordStoreWithPrefix(client, "session:")
}

// NewRecordStoreWithPrefix creates a record store with a custom key prefix.
func NewRecordStoreWithPrefix(client redis.UniversalClient, prefix string) *RecordStore {
	return &RecordStore{client: client, prefix: prefix, ttl: DefaultRecordTTL}
}

// WithTTL overrides the record TTL. Non-positive values keep the default.
func (s *RecordStore) WithTTL(ttl time.Duration) *RecordStore {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

func (s *RecordStore) key(sessionID string) string { return s.prefix + sessionID }

// Save writes the record, replacing any previous value for the session.
func (s *RecordStore) Save(ctx context.Context, sessionID string, rec domainauth.Record) error {
	if sessionID == "" {
		return errors.New("session ID cannot be empty")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	return s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err()
}

// Get loads the record for a session. A missing key returns ErrNotFound.
func (s *RecordStore) Get(ctx context.Context, sessionID string) (domainauth.Record, error) {
	if sessionID == "" {
		return domainauth.Record{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Record{}, ErrNotFound
		}
		return domainauth.Record{}, fmt.Errorf("redis get: %w", err)
	}

	// Unknown fields in older/newer record versions are ignored on decode.
	var rec domainauth.Record
	if unmarshalErr := json.Unmarshal([]byte(data), &rec); unmarshalErr != nil {
		return domainauth.Record{}, fmt.Errorf("unmarshal session record: %w", unmarshalErr)
	}
	return rec, nil
}

// Delete removes the record. Deleting an absent session is a no-op.
func (s *RecordStore) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

// ErrNotFound aliases the port-level sentinel so callers holding the
// concrete type do not need to import ports.
var ErrNotFound = ports.ErrRecordNotFound
