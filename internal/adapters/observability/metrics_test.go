package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlexSkos/drinkmap/internal/adapters/observability"
)

func TestServeDisabledWithoutAddr(t *testing.T) {
	t.Setenv("METRICS_ADDR", "")
	observability.Serve(observability.InitRegistry()) // must return without listening
}

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveHTTP("/map", "GET", 200, 12*time.Millisecond)
	observability.ObserveRating("set_once", "written")
	observability.ObserveBridge("getRating")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"drinkmap_http_requests_total",
		"drinkmap_rating_events_total",
		"drinkmap_bridge_messages_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}
