package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avolkov/teesheet/internal/channel"
	"github.com/avolkov/teesheet/internal/prefs"
	"github.com/avolkov/teesheet/internal/table"
)

// trailingOrder is the fixed rank of the controls column. User-inserted
// percent columns always land strictly below it.
const trailingOrder = 10000

// Update is the single message loop. Confirmed channel events and coordinator
// actions both funnel into the reducer here, so the action stream stays
// strictly ordered.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case eventMsg:
		if action, ok := msg.event.Action(); ok {
			m.state = table.Reduce(m.state, action)
			m.clampCursor()
		}
		return m, m.waitForEvent()

	case actionMsg:
		m.state = table.Reduce(m.state, msg.action)
		if reject, ok := msg.action.(table.RejectRows); ok {
			m.showError = true
			m.errorText = reject.Message
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.editing:
			return m.updateEditing(msg)
		case m.showError:
			return m.updateError(msg)
		case m.showHelp:
			return m.updateHelp(msg)
		default:
			return m.updateTable(msg)
		}
	}

	return m, nil
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.coord.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = NextTheme(m.theme.Name)
		m.style = m.theme.Styles()
		m.prefs.Theme = m.theme.Name
		return m, m.savePrefs()

	case key.Matches(msg, m.keys.Up):
		m.cursorRow--
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.cursorRow++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.cursorCol--
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.cursorCol++
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.cursorRow = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.cursorRow = len(m.state.Rows) - 1
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keys.AddRow):
		return m.addRow()

	case key.Matches(msg, m.keys.AddColumn):
		return m.addPercentColumn()

	case key.Matches(msg, m.keys.Delete):
		return m.deleteCurrent()

	case key.Matches(msg, m.keys.Undo):
		return m.undo()

	case key.Matches(msg, m.keys.RefreshAll):
		m.coord.Start(m.ctx, m.state.Rows)
		return m, nil

	case key.Matches(msg, m.keys.RefreshRow):
		if row, ok := m.currentRow(); ok {
			m.coord.RefreshOne(m.ctx, row)
		}
		return m, nil

	case key.Matches(msg, m.keys.CancelRefresh):
		m.coord.Cancel()
		return m, nil
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.editing = false
		m.editor.Blur()
		m.state = table.Reduce(m.state, table.EditCell{})
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		return m.commitEdit()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.coord.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Escape):
		m.showHelp = false
		return m, nil

	case key.Matches(msg, m.keys.ToggleStartupHelp):
		m.prefs.ShowHelp = !m.prefs.ShowHelp
		return m, m.savePrefs()
	}

	return m, nil
}

func (m Model) updateError(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.coord.Cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Confirm):
		m.showError = false
		m.errorText = ""
		return m, nil
	}

	return m, nil
}

// startEdit opens the inline editor for the selected cell. The gender field
// has only two values, so it toggles immediately instead of opening a text
// editor.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	view, ok := m.currentColumn()
	if !ok {
		return m, nil
	}

	if view.kind == colPercent {
		m.state = table.Reduce(m.state, table.EditCell{
			Cursor: table.EditCursor{TargetID: view.col.ID, Field: table.FieldPercent},
		})
		m.editing = true
		m.editor.SetValue(view.col.Percent)
		m.editor.CursorEnd()
		m.editor.Focus()
		return m, nil
	}

	row, ok := m.currentRow()
	if !ok {
		return m, nil
	}

	if view.kind == colGender {
		next := row
		if row.Gender == table.GenderMale {
			next.Gender = table.GenderFemale
		} else {
			next.Gender = table.GenderMale
		}
		return m, m.sendIntent(channel.Intent{Kind: channel.KindUpdateRow, Row: &next})
	}

	field := fieldFor(view.kind)
	m.state = table.Reduce(m.state, table.EditCell{
		Cursor: table.EditCursor{TargetID: row.ID, Field: field},
	})
	m.editing = true
	m.editor.SetValue(rowField(row, field))
	m.editor.CursorEnd()
	m.editor.Focus()
	return m, nil
}

// commitEdit normalizes the edited value and sends the update intent. On a
// format error the cell keeps its old value and gets a validation marker; the
// bad value is never sent to the store.
func (m Model) commitEdit() (tea.Model, tea.Cmd) {
	cursor := m.state.Cursor
	m.editing = false
	m.editor.Blur()
	m.state = table.Reduce(m.state, table.EditCell{})

	if cursor.TargetID == "" {
		return m, nil
	}

	value, err := table.Normalize(cursor.Field, m.editor.Value())
	if err != nil {
		m.invalid[invalidKey(cursor.TargetID, cursor.Field)] = struct{}{}
		return m, nil
	}
	delete(m.invalid, invalidKey(cursor.TargetID, cursor.Field))

	if cursor.Field == table.FieldPercent {
		i := m.state.ColumnIndex(cursor.TargetID)
		if i < 0 || value == "" {
			return m, nil
		}
		col := m.state.Columns[i]
		col.Percent = value
		return m, m.sendIntent(channel.Intent{Kind: channel.KindUpdateColumn, Column: &col})
	}

	i := m.state.RowIndex(cursor.TargetID)
	if i < 0 {
		return m, nil
	}
	row := m.state.Rows[i]
	setRowField(&row, cursor.Field, value)
	return m, m.sendIntent(channel.Intent{Kind: channel.KindUpdateRow, Row: &row})
}

// addRow inserts an empty row directly after the selected one. When the
// float64 interval between neighbours is exhausted, every row is renumbered
// to integer ranks first; the update and insert intents travel in order, so
// the confirmed state comes back sorted.
func (m Model) addRow() (tea.Model, tea.Cmd) {
	rows := m.state.Rows
	cmds := make([]tea.Cmd, 0, 1)

	var order float64
	switch {
	case len(rows) == 0 || m.cursorRow >= len(rows)-1:
		order = table.NextOrder(rows)
	default:
		var ok bool
		order, ok = table.OrderBetween(rows[m.cursorRow].Order, rows[m.cursorRow+1].Order)
		if !ok {
			for i, row := range rows {
				renumbered := row
				renumbered.Order = float64(i + 1)
				cmds = append(cmds, m.sendIntent(channel.Intent{Kind: channel.KindUpdateRow, Row: &renumbered}))
			}
			order = float64(m.cursorRow+1) + 0.5
		}
	}

	row := table.Row{Order: order}
	cmds = append(cmds, m.sendIntent(channel.Intent{Kind: channel.KindInsertRow, Row: &row}))
	return m, tea.Sequence(cmds...)
}

// addPercentColumn inserts a new percentage column just before the trailing
// controls column, with the same renumber fallback as addRow applied to the
// percent columns alone.
func (m Model) addPercentColumn() (tea.Model, tea.Cmd) {
	cols := m.state.Columns
	cmds := make([]tea.Cmd, 0, 1)

	lo := 0.0
	for _, col := range cols {
		if col.Order < trailingOrder && col.Order > lo {
			lo = col.Order
		}
	}

	order, ok := table.OrderBetween(lo, trailingOrder)
	if !ok {
		next := 6.0
		for _, col := range cols {
			if !col.IsPercent() {
				continue
			}
			renumbered := col
			renumbered.Order = next
			next++
			cmds = append(cmds, m.sendIntent(channel.Intent{Kind: channel.KindUpdateColumn, Column: &renumbered}))
		}
		order = next
	}

	col := table.Column{Order: order, Width: 75, Percent: "25"}
	cmds = append(cmds, m.sendIntent(channel.Intent{Kind: channel.KindInsertColumn, Column: &col}))
	return m, tea.Sequence(cmds...)
}

// deleteCurrent removes the selected percent column, or the selected row when
// the cursor is on a structural column. Structural columns cannot be removed.
func (m Model) deleteCurrent() (tea.Model, tea.Cmd) {
	if view, ok := m.currentColumn(); ok && view.kind == colPercent {
		return m, m.sendIntent(channel.Intent{Kind: channel.KindRemoveColumn, ID: view.col.ID})
	}
	if row, ok := m.currentRow(); ok {
		return m, m.sendIntent(channel.Intent{Kind: channel.KindRemoveRow, ID: row.ID})
	}
	return m, nil
}

// undo restores the most recently deleted entity. The history entry is popped
// locally; the entity itself returns through the normal insert confirmation,
// keeping its original id and rank.
func (m Model) undo() (tea.Model, tea.Cmd) {
	entry, ok := m.state.LastHistory()
	if !ok {
		return m, nil
	}
	m.state = table.Reduce(m.state, table.Undo{})

	switch entry.Kind {
	case table.HistoryRow:
		row := entry.Row
		return m, m.sendIntent(channel.Intent{Kind: channel.KindInsertRow, Row: &row})
	default:
		col := entry.Column
		return m, m.sendIntent(channel.Intent{Kind: channel.KindInsertColumn, Column: &col})
	}
}

func (m Model) savePrefs() tea.Cmd {
	path, p := m.prefsPath, m.prefs
	return func() tea.Msg {
		_ = prefs.Save(path, p)
		return nil
	}
}

func rowField(r table.Row, field string) string {
	switch field {
	case table.FieldNumber:
		return r.Number
	case table.FieldName:
		return r.Name
	case table.FieldGender:
		return r.Gender
	case table.FieldHI:
		return r.HI
	}
	return ""
}

func setRowField(r *table.Row, field, value string) {
	switch field {
	case table.FieldNumber:
		r.Number = value
	case table.FieldName:
		r.Name = value
	case table.FieldGender:
		r.Gender = value
	case table.FieldHI:
		r.HI = value
	}
}
