package redisstore

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/AlexSkos/drinkmap/internal/adapters/observability"
	"github.com/AlexSkos/drinkmap/internal/domain"
)

// RatingStore keeps one integer rating per fountain id under
// "rating_<id>". Writes are first-rating-wins: SetNX makes the
// conditional write atomic, so the lock invariant holds even with
// concurrent callers. Ratings were per-device in the mobile app; here a
// single server store applies the same rule per fountain id globally.
//
// Every failure degrades to 0 ("no rating") instead of surfacing an
// error; losing a star rating is never worth failing the map screen.
type RatingStore struct{ c *redis.Client }

var _ domain.RatingStore = (*RatingStore)(nil)

func NewRatingStore(addr, pass string, db int) *RatingStore {
	return &RatingStore{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func ratingKey(id string) string { return "rating_" + id }

func (s *RatingStore) Get(ctx context.Context, id string) int {
	v, err := s.c.Get(ctx, ratingKey(id)).Result()
	if err == redis.Nil {
		observability.ObserveRating("get", "unset")
		return domain.RatingUnset
	}
	if err != nil {
		observability.ObserveRating("get", "error")
		log.Debug().Err(err).Str("id", id).Msg("rating get failed, returning unset")
		return domain.RatingUnset
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		observability.ObserveRating("get", "error")
		return domain.RatingUnset
	}
	observability.ObserveRating("get", "hit")
	return domain.ClampRating(n)
}

// SetOnce persists value only when the id has no rating yet and returns
// the authoritative stored value. A lost race or an existing rating
// returns the prior value; storage failures return 0 and write nothing.
func (s *RatingStore) SetOnce(ctx context.Context, id string, value int) int {
	value = domain.ClampRating(value)
	ok, err := s.c.SetNX(ctx, ratingKey(id), strconv.Itoa(value), 0).Result()
	if err != nil {
		observability.ObserveRating("set_once", "error")
		log.Debug().Err(err).Str("id", id).Msg("rating setnx failed")
		return domain.RatingUnset
	}
	if ok {
		observability.ObserveRating("set_once", "written")
		return value
	}
	// Already rated: hand back whatever is locked in.
	observability.ObserveRating("set_once", "locked")
	return s.Get(ctx, id)
}
