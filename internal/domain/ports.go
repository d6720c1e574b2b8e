package domain

import (
	"context"
	"net"
)

// FountainRepository is the catalog of record maintained by the ingestor.
type FountainRepository interface {
	UpsertFountains(ctx context.Context, fs []Fountain) error
	ListFountains(ctx context.Context) ([]Fountain, error)
}

// RatingStore maps fountain ids to star ratings. Both operations fail
// soft: storage errors surface as 0, never as an error to the caller.
type RatingStore interface {
	// Get returns the stored rating, or 0 when absent or on failure.
	Get(ctx context.Context, id string) int
	// SetOnce persists value only if no rating exists yet and returns the
	// authoritative value: the new one on success, the prior one when the
	// fountain is already locked, 0 on storage failure.
	SetOnce(ctx context.Context, id string, value int) int
}

// LocationCache remembers the last resolved position per client so the
// map screen has a coordinate before a fresh lookup completes.
type LocationCache interface {
	LastPosition(ctx context.Context, key string) (UserPosition, bool)
	StorePosition(ctx context.Context, key string, pos UserPosition)
}

// Locator resolves a client address to an approximate position.
// ok is false when the position could not be determined.
type Locator interface {
	Locate(ip net.IP) (pos UserPosition, ok bool)
}
