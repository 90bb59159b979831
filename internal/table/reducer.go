package table

import (
	"maps"
	"slices"
)

// historyCap bounds the undo stack. Only the top entry is restorable, so the
// tail exists purely as a safety margin against rapid deletions; the oldest
// entry is dropped on overflow.
const historyCap = 32

// State is the complete in-memory projection of the table. It is a value:
// Reduce never mutates its input, so two reductions of the same state and
// action yield identical results.
type State struct {
	Rows    []Row
	Columns []Column
	Cursor  EditCursor
	History []HistoryEntry
	Fetch   map[string]FetchStatus
	Status  Status

	// FetchErr holds the single session-wide refresh failure message, empty
	// when the last session did not hard-fail.
	FetchErr string
}

// NewState returns the initial pre-snapshot state.
func NewState() State {
	return State{Fetch: map[string]FetchStatus{}, Status: StatusLoading}
}

// RowIndex returns the position of the row with the given id, or -1.
func (s State) RowIndex(id string) int {
	return slices.IndexFunc(s.Rows, func(r Row) bool { return r.ID == id })
}

// ColumnIndex returns the position of the column with the given id, or -1.
func (s State) ColumnIndex(id string) int {
	return slices.IndexFunc(s.Columns, func(c Column) bool { return c.ID == id })
}

// LastHistory returns the top undo entry without popping it.
func (s State) LastHistory() (HistoryEntry, bool) {
	if len(s.History) == 0 {
		return HistoryEntry{}, false
	}
	return s.History[len(s.History)-1], true
}

// Action is one reducer input. The set is closed; Reduce ignores anything
// else.
type Action interface{ isAction() }

// Load replaces rows and columns wholesale with the authoritative snapshot.
type Load struct {
	Rows    []Row
	Columns []Column
}

// InsertRow splices a confirmed row in at its order rank.
type InsertRow struct{ Row Row }

// InsertColumn splices a confirmed column in at its order rank.
type InsertColumn struct{ Column Column }

// UpdateRow merges confirmed fields into the row matching Row.ID.
type UpdateRow struct{ Row Row }

// UpdateColumn merges confirmed fields into the column matching Column.ID.
type UpdateColumn struct{ Column Column }

// RemoveRow deletes a row and records it for undo.
type RemoveRow struct{ ID string }

// RemoveColumn deletes a column and records it for undo.
type RemoveColumn struct{ ID string }

// EditCell moves the edit cursor. The previous target is implicitly cleared.
type EditCell struct{ Cursor EditCursor }

// Undo pops the top history entry. The caller re-issues the insert intent for
// the popped entity; the entity itself comes back through the normal
// InsertRow/InsertColumn confirmation.
type Undo struct{}

// FetchRows marks the given rows as loading for a new refresh session and
// clears any previous session failure message.
type FetchRows struct{ IDs []string }

// FetchRow marks a single row as loading (per-row refresh).
type FetchRow struct{ ID string }

// ResolveRow clears a row's fetch entry after a successful lookup.
type ResolveRow struct{ ID string }

// RejectRow marks a row as not found by the lookup service.
type RejectRow struct{ ID string }

// ResolveRows clears every still-loading row: cancellation, or a session with
// no eligible rows.
type ResolveRows struct{}

// RejectRows aborts the session: every still-loading row is cleared and one
// human-readable failure message is recorded.
type RejectRows struct{ Message string }

func (Load) isAction()         {}
func (InsertRow) isAction()    {}
func (InsertColumn) isAction() {}
func (UpdateRow) isAction()    {}
func (UpdateColumn) isAction() {}
func (RemoveRow) isAction()    {}
func (RemoveColumn) isAction() {}
func (EditCell) isAction()     {}
func (Undo) isAction()         {}
func (FetchRows) isAction()    {}
func (FetchRow) isAction()     {}
func (ResolveRow) isAction()   {}
func (RejectRow) isAction()    {}
func (ResolveRows) isAction()  {}
func (RejectRows) isAction()   {}

// Reduce applies one action to the state and returns the next state. It is a
// pure, total function: unknown ids and duplicate removals are no-ops, and
// the input state is never modified. Rows and columns only enter the
// collections through confirmed channel events, so Reduce runs on a single
// strictly ordered action stream and needs no locking.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Load:
		s.Rows = slices.Clone(a.Rows)
		s.Columns = slices.Clone(a.Columns)
		s.Status = StatusIdle
		return s

	case InsertRow:
		i := InsertionIndex(s.Rows, a.Row, CompareRows)
		s.Rows = slices.Insert(slices.Clone(s.Rows), i, a.Row)
		return s

	case InsertColumn:
		i := InsertionIndex(s.Columns, a.Column, CompareColumns)
		s.Columns = slices.Insert(slices.Clone(s.Columns), i, a.Column)
		return s

	case UpdateRow:
		i := s.RowIndex(a.Row.ID)
		if i < 0 {
			return s
		}
		rows := slices.Clone(s.Rows)
		rows[i] = mergeRow(rows[i], a.Row)
		s.Rows = rows
		if s.Cursor.TargetID == a.Row.ID {
			s.Cursor = EditCursor{}
		}
		return s

	case UpdateColumn:
		i := s.ColumnIndex(a.Column.ID)
		if i < 0 {
			return s
		}
		cols := slices.Clone(s.Columns)
		cols[i] = mergeColumn(cols[i], a.Column)
		s.Columns = cols
		if s.Cursor.TargetID == a.Column.ID {
			s.Cursor = EditCursor{}
		}
		return s

	case RemoveRow:
		i := s.RowIndex(a.ID)
		if i < 0 {
			return s
		}
		s.History = pushHistory(s.History, HistoryEntry{Kind: HistoryRow, Row: s.Rows[i]})
		s.Rows = slices.Delete(slices.Clone(s.Rows), i, i+1)
		return s

	case RemoveColumn:
		i := s.ColumnIndex(a.ID)
		if i < 0 {
			return s
		}
		s.History = pushHistory(s.History, HistoryEntry{Kind: HistoryColumn, Column: s.Columns[i]})
		s.Columns = slices.Delete(slices.Clone(s.Columns), i, i+1)
		return s

	case EditCell:
		s.Cursor = a.Cursor
		return s

	case Undo:
		if len(s.History) == 0 {
			return s
		}
		s.History = slices.Clone(s.History[:len(s.History)-1])
		return s

	case FetchRows:
		fetch := cloneFetch(s.Fetch)
		for _, id := range a.IDs {
			fetch[id] = FetchLoading
		}
		s.Fetch = fetch
		s.FetchErr = ""
		return s

	case FetchRow:
		fetch := cloneFetch(s.Fetch)
		fetch[a.ID] = FetchLoading
		s.Fetch = fetch
		s.FetchErr = ""
		return s

	case ResolveRow:
		if _, ok := s.Fetch[a.ID]; !ok {
			return s
		}
		fetch := maps.Clone(s.Fetch)
		delete(fetch, a.ID)
		s.Fetch = fetch
		return s

	case RejectRow:
		fetch := cloneFetch(s.Fetch)
		fetch[a.ID] = FetchError
		s.Fetch = fetch
		return s

	case ResolveRows:
		s.Fetch = clearLoading(s.Fetch)
		return s

	case RejectRows:
		s.Fetch = clearLoading(s.Fetch)
		s.FetchErr = a.Message
		return s
	}
	return s
}

// mergeRow applies a partial update on top of an existing row. A zero Order
// keeps the current rank; text fields are authoritative as sent, matching
// the full-row update messages the store confirms.
func mergeRow(cur, upd Row) Row {
	upd.ID = cur.ID
	if upd.Order == 0 {
		upd.Order = cur.Order
	}
	return upd
}

func mergeColumn(cur, upd Column) Column {
	upd.ID = cur.ID
	if upd.Order == 0 {
		upd.Order = cur.Order
	}
	if upd.Width == 0 {
		upd.Width = cur.Width
	}
	return upd
}

func pushHistory(history []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	next := slices.Clone(history)
	if len(next) >= historyCap {
		next = slices.Delete(next, 0, 1)
	}
	return append(next, entry)
}

func cloneFetch(fetch map[string]FetchStatus) map[string]FetchStatus {
	if fetch == nil {
		return map[string]FetchStatus{}
	}
	return maps.Clone(fetch)
}

func clearLoading(fetch map[string]FetchStatus) map[string]FetchStatus {
	next := maps.Clone(fetch)
	for id, st := range next {
		if st == FetchLoading {
			delete(next, id)
		}
	}
	return next
}
