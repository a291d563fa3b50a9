// Package session stores bearer sessions in Redis.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neupaneprasanna/prasannarent-sub002/internal/model"
)

const (
	keyPrefix  = "session:"
	tokenBytes = 32
)

// ErrInvalid is returned for unknown, expired or revoked tokens.
var ErrInvalid = errors.New("invalid session")

// Session is the value stored under a token
type Session struct {
	UserID string     `json:"userId"`
	Role   model.Role `json:"role"`
}

// Store issues and resolves session tokens
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a session store whose sessions expire after ttl
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Create issues a new token for the user
func (s *Store) Create(ctx context.Context, sess Session) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get resolves a token. Unknown tokens yield ErrInvalid.
func (s *Store) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalid
	}
	data, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrInvalid
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Revoke deletes a token. Revoking an unknown token is not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
