package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestStore(t *testing.T) (*RatingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRatingStore(mr.Addr(), "", 0), mr
}

func TestGetUnsetReturnsZero(t *testing.T) {
	s, _ := newTestStore(t)
	if got := s.Get(context.Background(), "node/1"); got != 0 {
		t.Fatalf("Get on unset id = %d, want 0", got)
	}
}

func TestSetOnceLocksFirstValue(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if got := s.SetOnce(ctx, "F1", 4); got != 4 {
		t.Fatalf("first SetOnce = %d, want 4", got)
	}
	if got := s.SetOnce(ctx, "F1", 2); got != 4 {
		t.Fatalf("second SetOnce = %d, want locked value 4", got)
	}
	if got := s.Get(ctx, "F1"); got != 4 {
		t.Fatalf("Get after lock = %d, want 4", got)
	}
}

func TestSetOnceClampsRange(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	if got := s.SetOnce(ctx, "hi", 17); got != 5 {
		t.Fatalf("SetOnce(17) = %d, want clamp to 5", got)
	}
	if got := s.Get(ctx, "hi"); got != 5 {
		t.Fatalf("Get after clamp = %d", got)
	}
}

func TestStorageFailureFailsSoft(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close() // every call now errors

	if got := s.Get(ctx, "F1"); got != 0 {
		t.Fatalf("Get on dead backend = %d, want 0", got)
	}
	if got := s.SetOnce(ctx, "F1", 3); got != 0 {
		t.Fatalf("SetOnce on dead backend = %d, want 0", got)
	}
}

func TestGarbageValueReadsAsUnset(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Set("rating_weird", "not-a-number")
	if got := s.Get(context.Background(), "weird"); got != 0 {
		t.Fatalf("garbage value = %d, want 0", got)
	}
}

func TestRatingsAreKeyedPerFountain(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.SetOnce(ctx, "node/1", 5)
	if got := s.Get(ctx, "node/2"); got != 0 {
		t.Fatalf("unrelated id = %d, want 0", got)
	}
}
