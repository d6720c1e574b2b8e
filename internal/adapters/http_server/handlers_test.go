package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlexSkos/drinkmap/internal/domain"
)

type fakeSource struct {
	fountains []domain.Fountain
	err       error
}

func (f *fakeSource) ListFountains(context.Context) ([]domain.Fountain, error) {
	return f.fountains, f.err
}

type fakeCache struct {
	positions map[string]domain.UserPosition
	stored    int
}

func (c *fakeCache) LastPosition(_ context.Context, key string) (domain.UserPosition, bool) {
	p, ok := c.positions[key]
	return p, ok
}

func (c *fakeCache) StorePosition(_ context.Context, key string, pos domain.UserPosition) {
	c.positions[key] = pos
	c.stored++
}

type fakeLocator struct {
	pos domain.UserPosition
	ok  bool
}

func (l *fakeLocator) Locate(net.IP) (domain.UserPosition, bool) { return l.pos, l.ok }

func newTestServer(h *Handlers) *httptest.Server {
	s := New()
	s.MountHandlers(h)
	return httptest.NewServer(s.Mux())
}

func defaultHandlers() *Handlers {
	return &Handlers{
		Source: &fakeSource{fountains: []domain.Fountain{
			{ID: "node/1", Lat: 39.4700, Lng: -0.3760, Title: "Font close"},
			{ID: "node/2", Lat: 39.5500, Lng: -0.3760, Title: "Font far"},
		}},
		Cache:      &fakeCache{positions: map[string]domain.UserPosition{}},
		Default:    domain.UserPosition{Lat: 39.4699, Lng: -0.3763},
		TileFilter: "blue",
	}
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 32*1024)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return resp.StatusCode, sb.String()
}

func TestRootRedirectsToMenu(t *testing.T) {
	srv := newTestServer(defaultHandlers())
	defer srv.Close()

	client := srv.Client()
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := client.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/menu" {
		t.Errorf("Location = %q", loc)
	}
}

func TestMenuLocalized(t *testing.T) {
	srv := newTestServer(defaultHandlers())
	defer srv.Close()

	status, body := get(t, srv, "/menu?lang=es")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	for _, want := range []string{"Guía de fuentes de Valencia", "Mapa de fuentes", "Apoyar el proyecto"} {
		if !strings.Contains(body, want) {
			t.Errorf("menu missing %q", want)
		}
	}

	_, body = get(t, srv, "/menu")
	if !strings.Contains(body, "Valencia fountains guide") {
		t.Error("default menu should be English")
	}
}

func TestMapUsesExplicitCoordinates(t *testing.T) {
	h := defaultHandlers()
	srv := newTestServer(h)
	defer srv.Close()

	status, body := get(t, srv, "/map?lat=39.4700&lng=-0.3760")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, "center = [39.470000, -0.376000]") {
		t.Error("map should center on the supplied coordinates")
	}
	// Only the close fountain is within a kilometer.
	if !strings.Contains(body, `var NEARBY_POINTS = [{"id":"node/1"`) {
		t.Error("nearby dataset should hold the close fountain")
	}
	if strings.Contains(body, `NEARBY_POINTS = [{"id":"node/2"`) {
		t.Error("far fountain leaked into the nearby dataset")
	}
	if c := h.Cache.(*fakeCache); c.stored != 1 {
		t.Errorf("explicit coordinates should refresh the cache, stored=%d", c.stored)
	}
}

func TestMapFallsBackToDefaultCenter(t *testing.T) {
	srv := newTestServer(defaultHandlers())
	defer srv.Close()

	_, body := get(t, srv, "/map")
	if !strings.Contains(body, "center = [39.469900, -0.376300]") {
		t.Error("map should fall back to the city default")
	}
}

func TestMapUsesGeoIPWhenAvailable(t *testing.T) {
	h := defaultHandlers()
	h.Locator = &fakeLocator{pos: domain.UserPosition{Lat: 39.5500, Lng: -0.3760}, ok: true}
	srv := newTestServer(h)
	defer srv.Close()

	_, body := get(t, srv, "/map")
	if !strings.Contains(body, "center = [39.550000, -0.376000]") {
		t.Error("map should center on the GeoIP position")
	}
}

func TestMapUsesCachedPositionWhenLookupMisses(t *testing.T) {
	h := defaultHandlers()
	cache := h.Cache.(*fakeCache)
	for k := range cache.positions {
		delete(cache.positions, k)
	}
	cache.positions["127.0.0.1"] = domain.UserPosition{Lat: 39.4800, Lng: -0.3900}
	srv := newTestServer(h)
	defer srv.Close()

	_, body := get(t, srv, "/map")
	if !strings.Contains(body, "center = [39.480000, -0.390000]") {
		t.Error("map should reuse the cached position")
	}
}

func TestMapRejectsMalformedCoordinates(t *testing.T) {
	srv := newTestServer(defaultHandlers())
	defer srv.Close()

	for _, q := range []string{"?lat=abc&lng=1", "?lat=91&lng=0", "?lat=1&lng=999", "?lat=1"} {
		_, body := get(t, srv, "/map"+q)
		if !strings.Contains(body, "center = [39.469900, -0.376300]") {
			t.Errorf("bad coordinates %q should fall back to the default", q)
		}
	}
}

func TestMapRendersEmptyWhenDatasetFails(t *testing.T) {
	h := defaultHandlers()
	h.Source = &fakeSource{err: errors.New("boom")}
	srv := newTestServer(h)
	defer srv.Close()

	status, body := get(t, srv, "/map")
	if status != http.StatusOK {
		t.Fatalf("status = %d, map must render without a dataset", status)
	}
	if !strings.Contains(body, "var NEARBY_POINTS = [];") {
		t.Error("failed dataset should render empty point arrays")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(defaultHandlers())
	defer srv.Close()

	status, body := get(t, srv, "/healthz")
	if status != http.StatusOK || body != "ok" {
		t.Fatalf("healthz = %d %q", status, body)
	}
}
