package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/avolkov/teesheet/internal/table"
)

// cellScale converts a stored pixel width into terminal columns.
const cellScale = 7

// View renders the full screen: title, table, footer, and any active overlay.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewTitle())
	b.WriteString("\n\n")
	b.WriteString(m.viewTable())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	content := b.String()

	switch {
	case m.showError:
		return m.overlay(content, m.viewError())
	case m.showHelp:
		return m.overlay(content, m.viewHelp())
	}
	return content
}

func (m Model) viewTitle() string {
	title := m.style.Accent.Bold(true).Render("teesheet")

	var status string
	switch {
	case m.state.Status == table.StatusLoading:
		status = m.style.MutedText.Render("загрузка...")
	case m.refreshing():
		status = m.style.Accent.Render(m.spin.View() + "обновление HI")
	}
	if status == "" {
		return title
	}
	return title + "  " + status
}

func (m Model) viewTable() string {
	views := m.columnViews()
	selected, _ := m.currentColumn()

	var rows []string
	rows = append(rows, m.viewHeader(views))
	for i, row := range m.state.Rows {
		rows = append(rows, m.viewRow(views, selected, i, row))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) viewHeader(views []columnView) string {
	var cells []string
	for _, v := range views {
		cells = append(cells, m.style.Header.Render(pad(headerLabel(v), cellWidth(v.col))))
	}
	return strings.Join(cells, " ")
}

func (m Model) viewRow(views []columnView, selected columnView, idx int, row table.Row) string {
	var cells []string
	for _, v := range views {
		cells = append(cells, m.viewCell(v, selected, idx, row))
	}
	return strings.Join(cells, " ")
}

func (m Model) viewCell(v columnView, selected columnView, idx int, row table.Row) string {
	width := cellWidth(v.col)

	if m.editing && m.editTargets(v, row) {
		return m.style.Editing.MaxWidth(width).Render(m.editor.View())
	}

	text := m.cellText(v, idx, row)

	style := m.style.Cell
	switch {
	case idx == m.cursorRow && v.col.ID == selected.col.ID && v.kind == selected.kind:
		style = m.style.Selected
	case v.kind == colGutter:
		style = m.style.MutedText
	case m.cellInvalid(v, row):
		style = m.style.Danger
	case v.kind == colPercent:
		style = m.style.MutedText
	}

	return style.Render(pad(text, width))
}

// editTargets reports whether the open editor belongs to this cell.
func (m Model) editTargets(v columnView, row table.Row) bool {
	cursor := m.state.Cursor
	if v.kind == colPercent {
		return cursor.TargetID == v.col.ID && cursor.Field == table.FieldPercent
	}
	return cursor.TargetID == row.ID && cursor.Field == fieldFor(v.kind)
}

func (m Model) cellInvalid(v columnView, row table.Row) bool {
	target := row.ID
	if v.kind == colPercent {
		target = v.col.ID
	}
	_, bad := m.invalid[invalidKey(target, fieldFor(v.kind))]
	return bad
}

func (m Model) cellText(v columnView, idx int, row table.Row) string {
	switch v.kind {
	case colGutter:
		return strconv.Itoa(idx + 1)
	case colNumber:
		return row.Number
	case colName:
		return row.Name
	case colGender:
		return row.Gender
	case colHI:
		return row.HI
	case colPercent:
		return percentValue(row.HI, v.col.Percent)
	case colControls:
		if st, ok := m.state.Fetch[row.ID]; ok {
			if st == table.FetchLoading {
				return m.spin.View()
			}
			return "⚠ не найден"
		}
	}
	return ""
}

// percentValue derives the playing handicap cell: the handicap index scaled
// by the column's percentage, or a dash when the index is absent or
// unparsable.
func percentValue(hi, percent string) string {
	if strings.TrimSpace(hi) == "" {
		return "-"
	}
	h, err := strconv.ParseFloat(strings.ReplaceAll(hi, ",", "."), 64)
	if err != nil {
		return "-"
	}
	p, err := strconv.ParseFloat(strings.ReplaceAll(percent, ",", "."), 64)
	if err != nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", h*p/100)
}

func headerLabel(v columnView) string {
	switch v.kind {
	case colGutter:
		return "#"
	case colNumber:
		return "№"
	case colName:
		return "Фамилия Имя Отчество"
	case colGender:
		return "Пол"
	case colHI:
		return "HI"
	case colPercent:
		return v.col.Percent + "%"
	}
	return ""
}

func cellWidth(c table.Column) int {
	w := c.Width / cellScale
	if w < 4 {
		w = 4
	}
	if w > 40 {
		w = 40
	}
	return w
}

// pad fits text into the given terminal width, truncating with an ellipsis
// rune when it overflows.
func pad(text string, width int) string {
	runes := []rune(text)
	if len(runes) > width {
		return string(runes[:width-1]) + "…"
	}
	return text + strings.Repeat(" ", width-len(runes))
}

func (m Model) viewFooter() string {
	bindings := []string{
		"↑↓←→ выбор",
		"enter правка",
		"a строка",
		"A колонка",
		"d удалить",
		"ctrl+z вернуть",
		"R обновить HI",
		"r обновить строку",
		"c отмена",
		"? помощь",
		"q выход",
	}
	return m.style.Footer.Render(strings.Join(bindings, " · "))
}

func (m Model) viewHelp() string {
	lines := []string{
		m.style.Accent.Bold(true).Render("Управление"),
		"",
		"↑/↓/←/→, hjkl  перемещение по таблице",
		"g / G          первая / последняя строка",
		"enter          правка ячейки (Пол переключается сразу)",
		"a              новая строка после текущей",
		"A              новая процентная колонка",
		"d              удалить строку или процентную колонку",
		"ctrl+z, u      вернуть последнее удаление",
		"R              обновить HI всех игроков",
		"r              обновить HI текущей строки",
		"c              отменить обновление",
		"T              сменить тему",
		"q, ctrl+c      выход",
		"",
	}
	if m.prefs.ShowHelp {
		lines = append(lines, m.style.MutedText.Render("n  не показывать при запуске"))
	} else {
		lines = append(lines, m.style.MutedText.Render("n  показывать при запуске"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewError() string {
	return m.style.Danger.Render("Ошибка") + "\n\n" + m.errorText + "\n\n" +
		m.style.MutedText.Render("esc закрыть")
}

func (m Model) overlay(base, content string) string {
	box := m.style.Overlay.Render(content)
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) refreshing() bool {
	for _, st := range m.state.Fetch {
		if st == table.FetchLoading {
			return true
		}
	}
	return false
}
