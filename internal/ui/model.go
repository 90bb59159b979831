// Package ui provides the Bubble Tea TUI for the roster table editor.
package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avolkov/teesheet/internal/channel"
	"github.com/avolkov/teesheet/internal/lookup"
	"github.com/avolkov/teesheet/internal/prefs"
	"github.com/avolkov/teesheet/internal/refresh"
	"github.com/avolkov/teesheet/internal/table"
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Channel     *channel.Channel
	Lookup      lookup.Finder
	Concurrency int
	Prefs       prefs.Prefs
	PrefsPath   string
}

// colKind classifies a rendered column.
type colKind int

const (
	colGutter colKind = iota
	colNumber
	colName
	colGender
	colHI
	colPercent
	colControls
)

// columnView pairs a stored column with its rendering role.
type columnView struct {
	col  table.Column
	kind colKind
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ch        *channel.Channel
	coord     *refresh.Coordinator
	prefs     prefs.Prefs
	prefsPath string

	state table.State
	theme Theme
	style Styles
	keys  keyMap

	width  int
	height int

	// Selection: cursorRow indexes state.Rows, cursorCol indexes the
	// selectable columns returned by selectableColumns.
	cursorRow int
	cursorCol int

	// Editing
	editing bool
	editor  textinput.Model

	// Per-cell validation markers, keyed by targetID + "\x00" + field.
	invalid map[string]struct{}

	spin spinner.Model

	showHelp  bool
	showError bool
	errorText string
}

// eventMsg wraps an inbound confirmation from the synchronization channel.
type eventMsg struct{ event channel.Event }

// actionMsg wraps a reducer action dispatched from outside the channel, such
// as the refresh coordinator's status updates.
type actionMsg struct{ action table.Action }

// New creates the root model. The coordinator is built by Run so its
// dispatcher can feed actions back into the running program.
func New(opts Options, coord *refresh.Coordinator) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := ThemeByName(opts.Prefs.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	editor := textinput.New()
	editor.Prompt = ""
	editor.CharLimit = 64

	return Model{
		ctx:       ctx,
		ch:        opts.Channel,
		coord:     coord,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		state:     table.NewState(),
		theme:     theme,
		style:     theme.Styles(),
		keys:      DefaultKeyMap(),
		editor:    editor,
		invalid:   map[string]struct{}{},
		spin:      sp,
		showHelp:  opts.Prefs.ShowHelp,
	}
}

// Init requests the initial snapshot and starts listening for confirmations.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.sendIntent(channel.Intent{Kind: channel.KindLoad}),
		m.waitForEvent(),
		m.spin.Tick,
	)
}

// waitForEvent blocks on the next confirmation. Re-issued after every event
// so the inbound stream is consumed one message at a time, in order.
func (m Model) waitForEvent() tea.Cmd {
	ch := m.ch
	return func() tea.Msg {
		return eventMsg{event: <-ch.Events()}
	}
}

func (m Model) sendIntent(i channel.Intent) tea.Cmd {
	ch := m.ch
	return func() tea.Msg {
		ch.Send(i)
		return nil
	}
}

// columnViews classifies the stored columns in display order. The first five
// non-percent columns are the gutter and the four data fields; the final
// non-percent column is the fixed trailing controls column.
func (m Model) columnViews() []columnView {
	structural := []colKind{colGutter, colNumber, colName, colGender, colHI}
	views := make([]columnView, 0, len(m.state.Columns))
	seen := 0
	for _, col := range m.state.Columns {
		switch {
		case col.IsPercent():
			views = append(views, columnView{col: col, kind: colPercent})
		case seen < len(structural):
			views = append(views, columnView{col: col, kind: structural[seen]})
			seen++
		default:
			views = append(views, columnView{col: col, kind: colControls})
		}
	}
	return views
}

// selectableColumns filters columnViews down to the cells the cursor can
// land on.
func (m Model) selectableColumns() []columnView {
	var out []columnView
	for _, v := range m.columnViews() {
		switch v.kind {
		case colNumber, colName, colGender, colHI, colPercent:
			out = append(out, v)
		}
	}
	return out
}

func (m Model) currentRow() (table.Row, bool) {
	if m.cursorRow < 0 || m.cursorRow >= len(m.state.Rows) {
		return table.Row{}, false
	}
	return m.state.Rows[m.cursorRow], true
}

func (m Model) currentColumn() (columnView, bool) {
	sel := m.selectableColumns()
	if m.cursorCol < 0 || m.cursorCol >= len(sel) {
		return columnView{}, false
	}
	return sel[m.cursorCol], true
}

func (m *Model) clampCursor() {
	if n := len(m.state.Rows); m.cursorRow >= n {
		m.cursorRow = n - 1
	}
	if m.cursorRow < 0 {
		m.cursorRow = 0
	}
	if n := len(m.selectableColumns()); m.cursorCol >= n {
		m.cursorCol = n - 1
	}
	if m.cursorCol < 0 {
		m.cursorCol = 0
	}
}

func fieldFor(kind colKind) string {
	switch kind {
	case colNumber:
		return table.FieldNumber
	case colName:
		return table.FieldName
	case colGender:
		return table.FieldGender
	case colHI:
		return table.FieldHI
	case colPercent:
		return table.FieldPercent
	}
	return ""
}

func invalidKey(targetID, field string) string {
	return targetID + "\x00" + field
}
