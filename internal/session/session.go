// Package session maps opaque client session identifiers to room membership
// so a dropped connection can rejoin its game. Records expire after the
// reconnection grace window; the backing store is shared by all rooms and
// its unavailability must never block gameplay.
package session

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a session is unknown or its record expired.
var ErrNotFound = errors.New("session: not found")

// Record ties a session identifier back to a player slot.
type Record struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
}

// Store is the affinity store. Lookup returns ErrNotFound for a missing or
// expired session. Implementations namespace keys per session, so there is
// no cross-room contention.
type Store interface {
	Save(ctx context.Context, sessionID string, rec Record) error
	Lookup(ctx context.Context, sessionID string) (Record, error)
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}
