package docstore

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/avolkov/teesheet/internal/channel"
	"github.com/avolkov/teesheet/internal/table"
)

const seedCSV = "number;name;club;gender;hi\r\n" +
	"RU000873;Абахов Олег Евгеньевич;GC;м;15,2\r\n" +
	"RU004852;Авдеева Наталия Витальевна;GC;ж;21,1\r\n"

func TestOpen_SeedsFromCSVAndDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "players.csv"), []byte(seedCSV), 0o644); err != nil {
		t.Fatalf("write players.csv: %v", err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("seeded rows = %d, want 2", len(rows))
	}
	if rows[0].Number != "RU000873" || rows[0].Gender != table.GenderMale || rows[0].HI != "15.2" {
		t.Fatalf("seeded row = %+v", rows[0])
	}
	if rows[1].Gender != table.GenderFemale {
		t.Fatalf("gender not normalized: %+v", rows[1])
	}
	if rows[0].ID == "" || rows[0].ID == rows[1].ID {
		t.Fatalf("seed ids not assigned: %q %q", rows[0].ID, rows[1].ID)
	}
	if rows[0].Order >= rows[1].Order {
		t.Fatalf("seed orders not increasing: %v %v", rows[0].Order, rows[1].Order)
	}

	cols := s.Columns()
	if len(cols) != 7 {
		t.Fatalf("default columns = %d, want 7", len(cols))
	}
	if !slices.IsSortedFunc(cols, table.CompareColumns) {
		t.Fatalf("columns not sorted: %+v", cols)
	}
	if cols[5].Percent != "25" || cols[6].Order != 10000 {
		t.Fatalf("default layout wrong: %+v", cols)
	}

	// Reopening must load the persisted collections, not reseed.
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	if diff := cmp.Diff(s.Rows(), s2.Rows()); diff != "" {
		t.Fatalf("rows changed across reopen (-first +second):\n%s", diff)
	}
}

func TestOpen_EmptyDirStartsEmptyRoster(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if len(s.Rows()) != 0 {
		t.Fatalf("rows = %d, want 0 without players.csv", len(s.Rows()))
	}
	if len(s.Columns()) != 7 {
		t.Fatalf("columns = %d, want default 7", len(s.Columns()))
	}
}

func TestServe_ConfirmsEveryIntentInOrder(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	ch := channel.New(16)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Serve(ctx, ch)

	next := func() channel.Event {
		t.Helper()
		select {
		case e := <-ch.Events():
			return e
		case <-time.After(2 * time.Second):
			t.Fatal("no confirmation event")
			return channel.Event{}
		}
	}

	ch.Send(channel.Intent{Kind: channel.KindLoad})
	load := next()
	if load.Kind != channel.KindLoad || len(load.Columns) != 7 {
		t.Fatalf("load event = %+v", load)
	}

	ch.Send(channel.Intent{Kind: channel.KindInsertRow, Row: &table.Row{Order: 1, Name: "new"}})
	ins := next()
	if ins.Kind != channel.KindInsertRow || ins.Row == nil || ins.Row.ID == "" {
		t.Fatalf("insert confirmation = %+v", ins)
	}
	id := ins.Row.ID

	ch.Send(channel.Intent{Kind: channel.KindUpdateRow, Row: &table.Row{ID: id, Name: "upd", HI: "7.50"}})
	upd := next()
	if upd.Kind != channel.KindUpdateRow || upd.Row.HI != "7.50" {
		t.Fatalf("update confirmation = %+v", upd)
	}
	if got := s.Rows()[0]; got.Order != 1 {
		t.Fatalf("update dropped order: %+v", got)
	}

	ch.Send(channel.Intent{Kind: channel.KindRemoveRow, ID: id})
	if rem := next(); rem.Kind != channel.KindRemoveRow || rem.ID != id {
		t.Fatalf("remove confirmation = %+v", rem)
	}
	// Duplicate removal still gets its confirmation and changes nothing.
	ch.Send(channel.Intent{Kind: channel.KindRemoveRow, ID: id})
	if rem := next(); rem.Kind != channel.KindRemoveRow {
		t.Fatalf("duplicate remove confirmation = %+v", rem)
	}
	if len(s.Rows()) != 0 {
		t.Fatalf("rows after removal = %+v", s.Rows())
	}

	ch.Send(channel.Intent{Kind: channel.KindInsertColumn, Column: &table.Column{Order: 7, Width: 75, Percent: "10"}})
	colIns := next()
	if colIns.Column == nil || colIns.Column.ID == "" {
		t.Fatalf("column insert confirmation = %+v", colIns)
	}
	if len(s.Columns()) != 8 {
		t.Fatalf("columns = %d, want 8", len(s.Columns()))
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	ev := s.apply(channel.Intent{Kind: channel.KindInsertRow, Row: &table.Row{Order: 3, Number: "000042", Name: "кто-то"}})
	if ev.Row == nil {
		t.Fatal("no confirmation payload")
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	rows := s2.Rows()
	if len(rows) != 1 || rows[0].Number != "000042" || rows[0].Name != "кто-то" {
		t.Fatalf("persisted rows = %+v", rows)
	}
}
