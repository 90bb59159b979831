package docstore

import (
	"context"
	"log"
	"slices"

	"github.com/google/uuid"

	"github.com/avolkov/teesheet/internal/channel"
	"github.com/avolkov/teesheet/internal/table"
)

// Serve consumes intents from the channel until the context is cancelled,
// applying each to the collections and publishing the authoritative
// confirmation. Intents are handled strictly in arrival order, which gives
// the UI its single ordered inbound stream.
func (s *Store) Serve(ctx context.Context, ch *channel.Channel) {
	for {
		select {
		case <-ctx.Done():
			return
		case intent := <-ch.Intents():
			ch.Publish(s.apply(intent))
		}
	}
}

func (s *Store) apply(intent channel.Intent) channel.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch intent.Kind {
	case channel.KindLoad:
		return channel.Event{
			Kind:    channel.KindLoad,
			Rows:    slices.Clone(s.rows),
			Columns: slices.Clone(s.columns),
		}

	case channel.KindInsertRow:
		row := table.Row{}
		if intent.Row != nil {
			row = *intent.Row
		}
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		i := table.InsertionIndex(s.rows, row, table.CompareRows)
		s.rows = slices.Insert(s.rows, i, row)
		s.persistRowsLogged()
		return channel.Event{Kind: channel.KindInsertRow, Row: &row}

	case channel.KindUpdateRow:
		if intent.Row == nil {
			return channel.Event{Kind: channel.KindUpdateRow}
		}
		row := *intent.Row
		if i := slices.IndexFunc(s.rows, func(r table.Row) bool { return r.ID == row.ID }); i >= 0 {
			if row.Order == 0 {
				row.Order = s.rows[i].Order
			}
			s.rows[i] = row
			s.persistRowsLogged()
		}
		return channel.Event{Kind: channel.KindUpdateRow, Row: &row}

	case channel.KindRemoveRow:
		if i := slices.IndexFunc(s.rows, func(r table.Row) bool { return r.ID == intent.ID }); i >= 0 {
			s.rows = slices.Delete(s.rows, i, i+1)
			s.persistRowsLogged()
		}
		return channel.Event{Kind: channel.KindRemoveRow, ID: intent.ID}

	case channel.KindInsertColumn:
		col := table.Column{}
		if intent.Column != nil {
			col = *intent.Column
		}
		if col.ID == "" {
			col.ID = uuid.NewString()
		}
		i := table.InsertionIndex(s.columns, col, table.CompareColumns)
		s.columns = slices.Insert(s.columns, i, col)
		s.persistColumnsLogged()
		return channel.Event{Kind: channel.KindInsertColumn, Column: &col}

	case channel.KindUpdateColumn:
		if intent.Column == nil {
			return channel.Event{Kind: channel.KindUpdateColumn}
		}
		col := *intent.Column
		if i := slices.IndexFunc(s.columns, func(c table.Column) bool { return c.ID == col.ID }); i >= 0 {
			if col.Order == 0 {
				col.Order = s.columns[i].Order
			}
			if col.Width == 0 {
				col.Width = s.columns[i].Width
			}
			s.columns[i] = col
			s.persistColumnsLogged()
		}
		return channel.Event{Kind: channel.KindUpdateColumn, Column: &col}

	case channel.KindRemoveColumn:
		if i := slices.IndexFunc(s.columns, func(c table.Column) bool { return c.ID == intent.ID }); i >= 0 {
			s.columns = slices.Delete(s.columns, i, i+1)
			s.persistColumnsLogged()
		}
		return channel.Event{Kind: channel.KindRemoveColumn, ID: intent.ID}
	}

	return channel.Event{Kind: intent.Kind}
}

func (s *Store) persistRowsLogged() {
	if err := s.persistRows(); err != nil {
		log.Printf("persist rows failed: %v", err)
	}
}

func (s *Store) persistColumnsLogged() {
	if err := s.persistColumns(); err != nil {
		log.Printf("persist columns failed: %v", err)
	}
}
