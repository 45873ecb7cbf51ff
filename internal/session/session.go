// Package session models the browser profile's persistent key-value
// storage: cart and identity continuity across page loads.
package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Storage keys shared with the original browser client.
const (
	KeyUserID    = "userId"
	KeyUserEmail = "userEmail"
	KeyUserName  = "userName"
	KeyCart      = "cart"
)

// Store is one browser profile's key-value storage. The cart is one
// JSON-serialized list under KeyCart; identity is an opaque id under
// KeyUserID.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Identity returns the effective user identity, or "" when none is stored.
func Identity(ctx context.Context, s Store) string {
	id, ok, err := s.Get(ctx, KeyUserID)
	if err != nil || !ok {
		return ""
	}
	return id
}

// EnsureIdentity returns the stored identity, minting and persisting an
// anonymous one when the profile has none yet.
func EnsureIdentity(ctx context.Context, s Store) (string, error) {
	if id := Identity(ctx, s); id != "" {
		return id, nil
	}
	id := "anon_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if err := s.Set(ctx, KeyUserID, id); err != nil {
		return "", err
	}
	return id, nil
}
