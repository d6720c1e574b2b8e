package redisstore

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/AlexSkos/drinkmap/internal/adapters/observability"
	"github.com/AlexSkos/drinkmap/internal/domain"
)

// LocationCache remembers the last position resolved per client so the
// map screen has a coordinate across restarts without a fresh lookup.
// Independent of the rating keys; same soft-fail policy.
type LocationCache struct{ c *redis.Client }

var _ domain.LocationCache = (*LocationCache)(nil)

func NewLocationCache(addr, pass string, db int) *LocationCache {
	return &LocationCache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

type cachedPosition struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Accuracy *float64 `json:"accuracyMeters,omitempty"`
}

func positionKey(key string) string { return "lastpos_" + key }

func (l *LocationCache) LastPosition(ctx context.Context, key string) (domain.UserPosition, bool) {
	raw, err := l.c.Get(ctx, positionKey(key)).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("location", "miss")
		return domain.UserPosition{}, false
	}
	if err != nil {
		return domain.UserPosition{}, false
	}
	var p cachedPosition
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.UserPosition{}, false
	}
	observability.ObserveCache("location", "hit")
	return domain.UserPosition{Lat: p.Lat, Lng: p.Lng, AccuracyMeters: p.Accuracy}, true
}

func (l *LocationCache) StorePosition(ctx context.Context, key string, pos domain.UserPosition) {
	b, _ := json.Marshal(cachedPosition{Lat: pos.Lat, Lng: pos.Lng, Accuracy: pos.AccuracyMeters})
	observability.ObserveCache("location", "set")
	_ = l.c.Set(ctx, positionKey(key), b, 0).Err()
}
