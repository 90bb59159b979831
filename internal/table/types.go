package table

// Field names shared by the normalizer, the reducer, and the UI. They match
// the JSON keys used by the document store.
const (
	FieldNumber  = "number"
	FieldName    = "name"
	FieldGender  = "gender"
	FieldHI      = "hi"
	FieldPercent = "percent"
)

// Gender display values. The roster follows the federation convention.
const (
	GenderMale   = "Муж."
	GenderFemale = "Жен."
)

// Row is one player record. ID is assigned by the document store on insert
// and is empty on a locally created row awaiting confirmation. All data
// fields are free-form text; empty means not yet entered.
type Row struct {
	ID     string  `json:"_id,omitempty"`
	Order  float64 `json:"order"`
	Number string  `json:"number"`
	Name   string  `json:"name"`
	Gender string  `json:"gender"`
	HI     string  `json:"hi"`
}

// Column describes one table column. Percent is non-empty only for derived
// percentage columns; structural columns carry width and order alone.
type Column struct {
	ID      string  `json:"_id,omitempty"`
	Order   float64 `json:"order"`
	Width   int     `json:"width"`
	Percent string  `json:"percent,omitempty"`
}

// IsPercent reports whether the column is a user-insertable percentage column.
func (c Column) IsPercent() bool { return c.Percent != "" }

// EditCursor identifies the single cell currently being edited. The zero
// value means no cell is being edited. TargetID may name a row or a column;
// a column's percent value and a row's fields share this one cursor.
type EditCursor struct {
	TargetID string
	Field    string
}

// HistoryKind discriminates HistoryEntry payloads.
type HistoryKind int

const (
	HistoryRow HistoryKind = iota
	HistoryColumn
)

// HistoryEntry records one removed entity for undo. Exactly one of Row or
// Column is meaningful, selected by Kind.
type HistoryEntry struct {
	Kind   HistoryKind
	Row    Row
	Column Column
}

// FetchStatus tracks a row's part in an in-flight bulk refresh.
type FetchStatus int

const (
	// FetchLoading marks a row whose lookup request has not resolved yet.
	FetchLoading FetchStatus = iota
	// FetchError marks a row the lookup service has no record for.
	FetchError
)

// Status is the coarse session flag: loading until the initial snapshot
// arrives, idle afterwards.
type Status int

const (
	StatusLoading Status = iota
	StatusIdle
)
