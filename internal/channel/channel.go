// Package channel is the boundary between the UI and the document store: an
// asynchronous, ordered, bidirectional message pair. Intents flow from the UI
// to the store; every mutating intent produces exactly one confirmation
// event back, and only confirmed events reach the reducer.
package channel

import (
	"github.com/avolkov/teesheet/internal/table"
)

// Kind tags intents and events. The same tag set is used in both directions.
type Kind string

const (
	KindLoad         Kind = "load"
	KindInsertRow    Kind = "insert_row"
	KindUpdateRow    Kind = "update_row"
	KindRemoveRow    Kind = "remove_row"
	KindInsertColumn Kind = "insert_column"
	KindUpdateColumn Kind = "update_column"
	KindRemoveColumn Kind = "remove_column"
)

// Intent is an outbound mutation request. Row/Column carry the optimistic
// payload (no id on inserts); ID names the target of a removal.
type Intent struct {
	Kind   Kind
	Row    *table.Row
	Column *table.Column
	ID     string
}

// Event is an inbound authoritative confirmation. Load carries the full
// snapshot; everything else carries the id-assigned payload of the intent it
// confirms.
type Event struct {
	Kind    Kind
	Rows    []table.Row
	Columns []table.Column
	Row     *table.Row
	Column  *table.Column
	ID      string
}

// Action converts a confirmation into the reducer action it implies. The
// second return is false for tags the reducer does not consume.
func (e Event) Action() (table.Action, bool) {
	switch e.Kind {
	case KindLoad:
		return table.Load{Rows: e.Rows, Columns: e.Columns}, true
	case KindInsertRow:
		if e.Row == nil {
			return nil, false
		}
		return table.InsertRow{Row: *e.Row}, true
	case KindUpdateRow:
		if e.Row == nil {
			return nil, false
		}
		return table.UpdateRow{Row: *e.Row}, true
	case KindRemoveRow:
		return table.RemoveRow{ID: e.ID}, true
	case KindInsertColumn:
		if e.Column == nil {
			return nil, false
		}
		return table.InsertColumn{Column: *e.Column}, true
	case KindUpdateColumn:
		if e.Column == nil {
			return nil, false
		}
		return table.UpdateColumn{Column: *e.Column}, true
	case KindRemoveColumn:
		return table.RemoveColumn{ID: e.ID}, true
	}
	return nil, false
}

// Channel couples the two ordered queues. Both directions are buffered FIFO;
// a single producer and single consumer per direction keeps delivery order
// identical to send order.
type Channel struct {
	intents chan Intent
	events  chan Event
}

// New builds a channel with the given per-direction buffer.
func New(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 64
	}
	return &Channel{
		intents: make(chan Intent, buffer),
		events:  make(chan Event, buffer),
	}
}

// Send queues an outbound intent.
func (c *Channel) Send(i Intent) { c.intents <- i }

// Intents exposes the store-side end of the outbound queue.
func (c *Channel) Intents() <-chan Intent { return c.intents }

// Publish queues an inbound confirmation.
func (c *Channel) Publish(e Event) { c.events <- e }

// Events exposes the UI-side end of the inbound queue.
func (c *Channel) Events() <-chan Event { return c.events }
