// Package store provides the narrow key-value collaborator the rest of
// the service persists through. The core never assumes anything about
// its durability or concurrency.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// KVStore is the whole persistence contract: get, set, remove.
type KVStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

var (
	// ErrNotFound is returned when a key is absent. Callers degrade
	// gracefully (redirect to setup/login) rather than treating it as
	// fatal.
	ErrNotFound = errors.New("kv: key not found")

	// ErrNotAvailable is returned when no backing store is configured.
	ErrNotAvailable = errors.New("kv: store not available")
)

// Fixed key layout. These are the only persisted artifacts.
const (
	keyExamSettings = "exam:settings:%s" // per user, written at setup, deleted at submit
	keyLastSession  = "exam:last:%s"     // per user, written at submit
	keyTheme        = "pref:theme:%s"    // per user
	keyAuthToken    = "auth:token:%s"    // per token
)

func ExamSettingsKey(userID string) string { return fmt.Sprintf(keyExamSettings, userID) }
func LastSessionKey(userID string) string  { return fmt.Sprintf(keyLastSession, userID) }
func ThemeKey(userID string) string        { return fmt.Sprintf(keyTheme, userID) }
func AuthTokenKey(token string) string     { return fmt.Sprintf(keyAuthToken, token) }

// IsNotFound reports whether err means the key was simply absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
