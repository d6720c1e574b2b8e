package bridge

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/AlexSkos/drinkmap/internal/adapters/observability"
	"github.com/AlexSkos/drinkmap/internal/domain"
)

// Bridge translates render-surface messages into rating-store and
// navigation actions. One connection is served by a single read loop, so
// messages from a given surface are already processed in order; the
// per-id locks extend the ordering guarantee across connections sharing
// the store.
type Bridge struct {
	ratings domain.RatingStore
	locks   [16]sync.Mutex
}

func New(ratings domain.RatingStore) *Bridge {
	return &Bridge{ratings: ratings}
}

func (b *Bridge) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &b.locks[h.Sum32()%uint32(len(b.locks))]
}

// Handle dispatches one inbound message and returns the reply to push,
// if any. Host-originated kinds arriving inbound are dropped.
func (b *Bridge) Handle(ctx context.Context, msg Message) (Message, bool) {
	switch m := msg.(type) {
	case GetRating:
		observability.ObserveBridge("getRating")
		return RatingPushed{ID: m.ID, Value: b.ratings.Get(ctx, m.ID)}, true

	case SetRatingOnce:
		observability.ObserveBridge("setRatingOnce")
		mu := b.lockFor(m.ID)
		mu.Lock()
		v := b.ratings.SetOnce(ctx, m.ID, m.Value)
		mu.Unlock()
		return RatingPushed{ID: m.ID, Value: v}, true

	case GoMenu:
		observability.ObserveBridge("goMenu")
		return Navigate{Target: "menu"}, true

	default:
		observability.ObserveBridge("ignored")
		return nil, false
	}
}
