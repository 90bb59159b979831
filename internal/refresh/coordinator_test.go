package refresh

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/avolkov/teesheet/internal/channel"
	"github.com/avolkov/teesheet/internal/lookup"
	"github.com/avolkov/teesheet/internal/table"
)

type fakeFinder struct {
	credential func(ctx context.Context) (string, error)
	find       func(ctx context.Context, credential, number string) (lookup.Record, bool, error)
}

func (f *fakeFinder) Credential(ctx context.Context) (string, error) {
	if f.credential == nil {
		return "tok", nil
	}
	return f.credential(ctx)
}

func (f *fakeFinder) Find(ctx context.Context, credential, number string) (lookup.Record, bool, error) {
	return f.find(ctx, credential, number)
}

// recorder collects dispatched actions and sent intents and replays the
// actions through the reducer so tests can assert on the resulting state.
type recorder struct {
	mu      sync.Mutex
	actions []table.Action
	intents []channel.Intent
}

func (r *recorder) dispatch(a table.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
}

func (r *recorder) send(i channel.Intent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, i)
}

func (r *recorder) state(initial table.State) table.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := initial
	for _, a := range r.actions {
		s = table.Reduce(s, a)
	}
	return s
}

func (r *recorder) count(match func(table.Action) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.actions {
		if match(a) {
			n++
		}
	}
	return n
}

func (r *recorder) updateIntents() []channel.Intent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []channel.Intent
	for _, i := range r.intents {
		if i.Kind == channel.KindUpdateRow {
			out = append(out, i)
		}
	}
	return out
}

func await(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("session did not drain")
	}
}

func testRows() []table.Row {
	return []table.Row{
		{ID: "r1", Order: 1, Number: "000001"},
		{ID: "r2", Order: 2, Number: "000002"},
		{ID: "r3", Order: 3, Number: "000003"},
	}
}

func TestCoordinator_MixedOutcomesWithCancellation(t *testing.T) {
	rec := &recorder{}

	finder := &fakeFinder{
		find: func(ctx context.Context, credential, number string) (lookup.Record, bool, error) {
			switch number {
			case "000001":
				return lookup.Record{Number: "000001", Name: "Абахов Олег", Gender: "м", HI: "15,2"}, true, nil
			case "000002":
				return lookup.Record{}, false, nil
			default:
				<-ctx.Done()
				return lookup.Record{}, false, ctx.Err()
			}
		},
	}

	// Signal once rows 1 and 2 have fully resolved so the cancellation
	// deterministically hits only row 3.
	resolved := make(chan struct{}, 8)
	dispatch := func(a table.Action) {
		rec.dispatch(a)
		switch a.(type) {
		case table.ResolveRow, table.RejectRow:
			resolved <- struct{}{}
		}
	}

	c := New(finder, dispatch, rec.send, 0)
	done := c.Start(context.Background(), testRows())

	<-resolved
	<-resolved
	c.Cancel()
	await(t, done)

	s := rec.state(table.Reduce(table.NewState(), table.Load{Rows: testRows()}))
	if _, ok := s.Fetch["r1"]; ok {
		t.Fatalf("resolved row still tracked: %v", s.Fetch)
	}
	if st, ok := s.Fetch["r2"]; !ok || st != table.FetchError {
		t.Fatalf("not-found row status = %v, %v, want error", st, ok)
	}
	if _, ok := s.Fetch["r3"]; ok {
		t.Fatalf("cancelled row not cleared: %v", s.Fetch)
	}
	if s.FetchErr != "" {
		t.Fatalf("cancellation produced a failure message: %q", s.FetchErr)
	}

	updates := rec.updateIntents()
	if len(updates) != 1 || updates[0].Row.ID != "r1" {
		t.Fatalf("update intents = %+v, want exactly one for r1", updates)
	}
	if updates[0].Row.HI != "15.20" || updates[0].Row.Gender != "м" {
		t.Fatalf("update intent not normalized: %+v", updates[0].Row)
	}

	clears := rec.count(func(a table.Action) bool { _, ok := a.(table.ResolveRows); return ok })
	if clears != 1 {
		t.Fatalf("session-wide clears = %d, want exactly 1", clears)
	}
}

func TestCoordinator_CredentialFailureRejectsSession(t *testing.T) {
	rec := &recorder{}
	finder := &fakeFinder{
		credential: func(ctx context.Context) (string, error) {
			return "", lookup.ErrNoCredential
		},
	}

	c := New(finder, rec.dispatch, rec.send, 0)
	await(t, c.Start(context.Background(), testRows()))

	s := rec.state(table.Reduce(table.NewState(), table.Load{Rows: testRows()}))
	if len(s.Fetch) != 0 {
		t.Fatalf("loading rows survived session failure: %v", s.Fetch)
	}
	if !strings.Contains(s.FetchErr, lookup.ErrNoCredential.Error()) {
		t.Fatalf("FetchErr = %q, want credential failure message", s.FetchErr)
	}
	if len(rec.updateIntents()) != 0 {
		t.Fatalf("update intents emitted on failed session: %+v", rec.intents)
	}
	rejects := rec.count(func(a table.Action) bool { _, ok := a.(table.RejectRows); return ok })
	if rejects != 1 {
		t.Fatalf("RejectRows count = %d, want exactly 1", rejects)
	}
}

func TestCoordinator_PerRowHardFailureRejectsOnce(t *testing.T) {
	rec := &recorder{}
	finder := &fakeFinder{
		find: func(ctx context.Context, credential, number string) (lookup.Record, bool, error) {
			return lookup.Record{}, false, errors.New("connection reset")
		},
	}

	c := New(finder, rec.dispatch, rec.send, 0)
	await(t, c.Start(context.Background(), testRows()))

	rejects := rec.count(func(a table.Action) bool { _, ok := a.(table.RejectRows); return ok })
	if rejects != 1 {
		t.Fatalf("RejectRows count = %d, want exactly 1", rejects)
	}
}

func TestCoordinator_NoEligibleRowsResolvesImmediately(t *testing.T) {
	rec := &recorder{}
	c := New(&fakeFinder{}, rec.dispatch, rec.send, 0)

	rows := []table.Row{{ID: "r1", Order: 1}, {ID: "r2", Order: 2}}
	await(t, c.Start(context.Background(), rows))

	if n := rec.count(func(a table.Action) bool { _, ok := a.(table.ResolveRows); return ok }); n != 1 {
		t.Fatalf("ResolveRows count = %d, want 1", n)
	}
	if n := rec.count(func(a table.Action) bool { _, ok := a.(table.FetchRows); return ok }); n != 0 {
		t.Fatalf("FetchRows dispatched with no eligible rows")
	}
}

func TestCoordinator_SupersededSessionIsSilent(t *testing.T) {
	rec := &recorder{}
	block := make(chan struct{})
	started := make(chan struct{}, 8)

	finder := &fakeFinder{
		find: func(ctx context.Context, credential, number string) (lookup.Record, bool, error) {
			if number == "000001" {
				started <- struct{}{}
				<-block
				return lookup.Record{Number: number, Name: "late", Gender: "м", HI: "1,0"}, true, nil
			}
			return lookup.Record{Number: number, Name: "fresh", Gender: "ж", HI: "2,0"}, true, nil
		},
	}

	c := New(finder, rec.dispatch, rec.send, 0)
	first := c.Start(context.Background(), []table.Row{{ID: "old", Order: 1, Number: "000001"}})
	<-started

	second := c.Start(context.Background(), []table.Row{{ID: "new", Order: 1, Number: "000002"}})
	await(t, second)
	close(block)
	await(t, first)

	for _, i := range rec.updateIntents() {
		if i.Row.ID == "old" {
			t.Fatalf("superseded session emitted an update: %+v", i.Row)
		}
	}
	if n := rec.count(func(a table.Action) bool {
		r, ok := a.(table.ResolveRow)
		return ok && r.ID == "old"
	}); n != 0 {
		t.Fatal("superseded session resolved its row")
	}
}

func TestCoordinator_RefreshOne(t *testing.T) {
	rec := &recorder{}
	finder := &fakeFinder{
		find: func(ctx context.Context, credential, number string) (lookup.Record, bool, error) {
			return lookup.Record{Number: number, Name: "Кто-То", Gender: "ж", HI: "21,1"}, true, nil
		},
	}

	c := New(finder, rec.dispatch, rec.send, 0)
	row := table.Row{ID: "r9", Order: 9, Number: "000009"}
	await(t, c.RefreshOne(context.Background(), row))

	s := rec.state(table.Reduce(table.NewState(), table.Load{Rows: []table.Row{row}}))
	if len(s.Fetch) != 0 {
		t.Fatalf("fetch map not drained: %v", s.Fetch)
	}
	updates := rec.updateIntents()
	if len(updates) != 1 || updates[0].Row.ID != "r9" || updates[0].Row.HI != "21.10" {
		t.Fatalf("update intents = %+v", updates)
	}

	// Rows without a number are ignored outright.
	await(t, c.RefreshOne(context.Background(), table.Row{ID: "empty"}))
}
