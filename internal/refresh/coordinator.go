// Package refresh orchestrates the cancellable bulk refresh: one session per
// attempt, a sequential credential step, then one concurrent lookup per
// eligible row, all sharing the session's cancellation context.
package refresh

import (
	"context"
	"fmt"
	"sync"

	"github.com/avolkov/teesheet/internal/channel"
	"github.com/avolkov/teesheet/internal/lookup"
	"github.com/avolkov/teesheet/internal/table"
)

// Dispatcher delivers a reducer action to the state store. It is called from
// the session's goroutines and must be safe for concurrent use (the UI backs
// it with the program's message queue).
type Dispatcher func(table.Action)

// Sender emits an outbound intent on the synchronization channel.
type Sender func(channel.Intent)

// Coordinator owns at most one live refresh session. Starting a session
// supersedes and cancels the previous one; emissions from a superseded
// session are dropped by identity comparison, so late arrivals from an old
// session can never interleave into the current status map.
type Coordinator struct {
	client   lookup.Finder
	dispatch Dispatcher
	send     Sender
	limit    int

	mu      sync.Mutex
	current *session
}

type session struct {
	ctx    context.Context
	cancel context.CancelFunc

	// terminal guards the single session-wide outcome: the first cancelled
	// resolution or hard failure wins, later ones are suppressed.
	terminal sync.Once
}

// New builds a Coordinator. limit bounds concurrent lookups; zero or
// negative means unbounded.
func New(client lookup.Finder, dispatch Dispatcher, send Sender, limit int) *Coordinator {
	return &Coordinator{client: client, dispatch: dispatch, send: send, limit: limit}
}

// Start begins a bulk refresh over the given rows. Rows with an empty number
// are skipped; with no eligible rows the session resolves immediately. The
// returned channel closes when the session has fully drained.
func (c *Coordinator) Start(ctx context.Context, rows []table.Row) <-chan struct{} {
	eligible := make([]table.Row, 0, len(rows))
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Number == "" {
			continue
		}
		eligible = append(eligible, row)
		ids = append(ids, row.ID)
	}

	s := c.supersede(ctx)
	done := make(chan struct{})

	if len(eligible) == 0 {
		c.emit(s, table.ResolveRows{})
		close(done)
		return done
	}

	c.emit(s, table.FetchRows{IDs: ids})
	go func() {
		defer close(done)
		c.run(s, eligible)
	}()
	return done
}

// RefreshOne refreshes a single row through the same pipeline. It supersedes
// any running bulk session.
func (c *Coordinator) RefreshOne(ctx context.Context, row table.Row) <-chan struct{} {
	done := make(chan struct{})
	if row.Number == "" {
		close(done)
		return done
	}

	s := c.supersede(ctx)
	c.emit(s, table.FetchRow{ID: row.ID})
	go func() {
		defer close(done)
		c.run(s, []table.Row{row})
	}()
	return done
}

// Cancel cooperatively cancels the current session. Requests already
// dispatched keep running, but every resolution observed after this point is
// treated as the cancelled outcome.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s != nil {
		s.cancel()
	}
}

func (c *Coordinator) supersede(ctx context.Context) *session {
	sctx, cancel := context.WithCancel(ctx)
	s := &session{ctx: sctx, cancel: cancel}

	c.mu.Lock()
	prev := c.current
	c.current = s
	c.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
	return s
}

func (c *Coordinator) run(s *session, rows []table.Row) {
	credential, err := c.client.Credential(s.ctx)
	if err != nil {
		if s.ctx.Err() != nil {
			c.finish(s, table.ResolveRows{})
			return
		}
		c.finish(s, table.RejectRows{Message: failureMessage(err)})
		return
	}

	var sem chan struct{}
	if c.limit > 0 {
		sem = make(chan struct{}, c.limit)
	}

	var wg sync.WaitGroup
	for _, row := range rows {
		wg.Add(1)
		go func(row table.Row) {
			defer wg.Done()
			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-s.ctx.Done():
					c.finish(s, table.ResolveRows{})
					return
				}
			}
			c.lookupRow(s, credential, row)
		}(row)
	}
	wg.Wait()
}

func (c *Coordinator) lookupRow(s *session, credential string, row table.Row) {
	record, found, err := c.client.Find(s.ctx, credential, row.Number)

	// Once the session token is marked cancelled, every resolution counts as
	// the cancelled outcome regardless of how the request itself ended.
	if s.ctx.Err() != nil {
		c.finish(s, table.ResolveRows{})
		return
	}
	if err != nil {
		c.finish(s, table.RejectRows{Message: failureMessage(err)})
		return
	}
	if !found {
		c.emit(s, table.RejectRow{ID: row.ID})
		return
	}

	updated := mergeRecord(row, record)
	c.sendIntent(s, channel.Intent{Kind: channel.KindUpdateRow, Row: &updated})
	c.emit(s, table.ResolveRow{ID: row.ID})
}

// finish emits the session-wide terminal action exactly once and cancels the
// remaining in-flight lookups.
func (c *Coordinator) finish(s *session, a table.Action) {
	s.terminal.Do(func() {
		s.cancel()
		c.emit(s, a)
	})
}

func (c *Coordinator) emit(s *session, a table.Action) {
	if c.stale(s) {
		return
	}
	c.dispatch(a)
}

func (c *Coordinator) sendIntent(s *session, i channel.Intent) {
	if c.stale(s) {
		return
	}
	c.send(i)
}

func (c *Coordinator) stale(s *session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != s
}

// mergeRecord folds the looked-up record into the row, canonicalizing each
// field. Normalize hands back the trimmed raw value on format errors, which
// is the right fallback for remote data.
func mergeRecord(row table.Row, rec lookup.Record) table.Row {
	row.Number, _ = table.Normalize(table.FieldNumber, rec.Number)
	row.Name, _ = table.Normalize(table.FieldName, rec.Name)
	row.Gender, _ = table.Normalize(table.FieldGender, rec.Gender)
	row.HI, _ = table.Normalize(table.FieldHI, rec.HI)
	return row
}

func failureMessage(err error) string {
	return fmt.Sprintf("Не удалось обновить данные: %v", err)
}
