package bridge

import (
	"context"
	"sync"
	"testing"
)

// memRatings mimics the store's soft-fail write-once semantics in memory.
type memRatings struct {
	mu   sync.Mutex
	vals map[string]int
	fail bool
}

func (m *memRatings) Get(_ context.Context, id string) int {
	if m.fail {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vals[id]
}

func (m *memRatings) SetOnce(_ context.Context, id string, value int) int {
	if m.fail {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prior, ok := m.vals[id]; ok {
		return prior
	}
	if m.vals == nil {
		m.vals = map[string]int{}
	}
	m.vals[id] = value
	return value
}

func TestDecodeRoundTrip(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"setRatingOnce","id":"node/1","value":4}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	set, ok := msg.(SetRatingOnce)
	if !ok || set.ID != "node/1" || set.Value != 4 {
		t.Fatalf("decoded %#v", msg)
	}

	if _, err := Decode([]byte(`{"type":"getRating","id":"x"}`)); err != nil {
		t.Fatalf("getRating decode: %v", err)
	}
	if _, err := Decode([]byte(`{"type":"goMenu"}`)); err != nil {
		t.Fatalf("goMenu decode: %v", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := []string{
		`not json at all`,
		`{"type":"selfDestruct"}`,
		`{"type":"getRating"}`,
		`{"type":"setRatingOnce","id":"x"}`,
		`{}`,
	}
	for _, c := range cases {
		if _, err := Decode([]byte(c)); err == nil {
			t.Errorf("Decode(%q) accepted", c)
		}
	}
}

func TestEncodeEnvelopes(t *testing.T) {
	got := string(Encode(RatingPushed{ID: "node/1", Value: 5}))
	want := `{"type":"ratingPushed","id":"node/1","value":5}`
	if got != want {
		t.Errorf("Encode = %s, want %s", got, want)
	}
	got = string(Encode(Navigate{Target: "menu"}))
	want = `{"type":"navigate","target":"menu"}`
	if got != want {
		t.Errorf("Encode = %s, want %s", got, want)
	}
}

func TestHandleGetRatingUnset(t *testing.T) {
	b := New(&memRatings{})
	reply, ok := b.Handle(context.Background(), GetRating{ID: "node/9"})
	if !ok {
		t.Fatal("expected a reply")
	}
	push, ok := reply.(RatingPushed)
	if !ok || push.ID != "node/9" || push.Value != 0 {
		t.Fatalf("reply = %#v, want ratingPushed 0", reply)
	}
}

func TestHandleSetOnceKeepsFirstWrite(t *testing.T) {
	b := New(&memRatings{})
	ctx := context.Background()

	reply, _ := b.Handle(ctx, SetRatingOnce{ID: "F1", Value: 4})
	if push := reply.(RatingPushed); push.Value != 4 {
		t.Fatalf("first write pushed %d, want 4", push.Value)
	}
	reply, _ = b.Handle(ctx, SetRatingOnce{ID: "F1", Value: 2})
	if push := reply.(RatingPushed); push.Value != 4 {
		t.Fatalf("conflicting write pushed %d, want locked 4", push.Value)
	}
	reply, _ = b.Handle(ctx, GetRating{ID: "F1"})
	if push := reply.(RatingPushed); push.Value != 4 {
		t.Fatalf("get after lock pushed %d, want 4", push.Value)
	}
}

func TestHandleGoMenu(t *testing.T) {
	b := New(&memRatings{})
	reply, ok := b.Handle(context.Background(), GoMenu{})
	if !ok {
		t.Fatal("expected a reply")
	}
	nav, ok := reply.(Navigate)
	if !ok || nav.Target != "menu" {
		t.Fatalf("reply = %#v", reply)
	}
}

func TestHandleDropsHostKinds(t *testing.T) {
	b := New(&memRatings{})
	if _, ok := b.Handle(context.Background(), RatingPushed{ID: "x", Value: 1}); ok {
		t.Fatal("inbound ratingPushed must be dropped")
	}
}

func TestHandleStorageFailurePushesZero(t *testing.T) {
	b := New(&memRatings{fail: true})
	ctx := context.Background()
	reply, _ := b.Handle(ctx, SetRatingOnce{ID: "F1", Value: 3})
	if push := reply.(RatingPushed); push.Value != 0 {
		t.Fatalf("failed store pushed %d, want 0", push.Value)
	}
	reply, _ = b.Handle(ctx, GetRating{ID: "F1"})
	if push := reply.(RatingPushed); push.Value != 0 {
		t.Fatalf("failed store get pushed %d, want 0", push.Value)
	}
}

func TestConcurrentSetOnceSingleWinner(t *testing.T) {
	b := New(&memRatings{})
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reply, _ := b.Handle(ctx, SetRatingOnce{ID: "raced", Value: i%5 + 1})
			results[i] = reply.(RatingPushed).Value
		}(i)
	}
	wg.Wait()

	first := results[0]
	for _, r := range results {
		if r != first {
			t.Fatalf("divergent winners: %v", results)
		}
	}
}
