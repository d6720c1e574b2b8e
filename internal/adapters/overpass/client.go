// Package overpass fetches drinking-water POIs from the Overpass API for
// the offline data-preparation step.
package overpass

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlexSkos/drinkmap/internal/adapters/observability"
	"github.com/AlexSkos/drinkmap/internal/dataset"
)

const DefaultBase = "https://overpass-api.de/api/interpreter"

// queryTemplate selects every drinking_water amenity inside an
// administrative area matched by name (admin_level=8, i.e. a city).
const queryTemplate = `
[out:json][timeout:60];
area[boundary=administrative]["name"~%q]["admin_level"="8"]->.a;
(
  node["amenity"="drinking_water"](area.a);
  way["amenity"="drinking_water"](area.a);
  relation["amenity"="drinking_water"](area.a);
);
out center tags;`

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

// New builds a client with client-side rate limiting. Overpass is a
// shared public service; rps should stay low (1-2).
func New(base string, rps int) *Client {
	if base == "" {
		base = DefaultBase
	}
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: 90 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

var ErrBadStatus = errors.New("overpass: bad status")

type response struct {
	Elements []dataset.Element `json:"elements"`
}

// FetchDrinkingWater queries all drinking-water POIs in the named area.
// Retries transient failures (429/5xx) with backoff, honoring Retry-After.
func (c *Client) FetchDrinkingWater(ctx context.Context, areaName string) ([]dataset.Element, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(queryTemplate, areaPattern(areaName))
	body := url.Values{"data": {query}}.Encode()

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
		req.Header.Set("User-Agent", "drinkmap/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return nil, lastErr
		}
		observability.ObserveExternal("overpass", "interpreter", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			var out response
			err := json.NewDecoder(resp.Body).Decode(&out)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("overpass: decode: %w", err)
			}
			return out.Elements, nil

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			return nil, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d: %s", ErrBadStatus, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}
	return nil, lastErr
}

// areaPattern builds the name regex; Valencia gets its accented variant.
func areaPattern(name string) string {
	if strings.EqualFold(name, "valencia") {
		return "^Val(è|e)ncia$|^Valencia$"
	}
	return "^" + name + "$"
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses the Retry-After header (seconds or HTTP-date).
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles per attempt (200ms, 400ms, 800ms...) with jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
