package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/evanschultz/tavla/internal/domain"
	"github.com/evanschultz/tavla/internal/drag"
)

const (
	minColumnWidth = 22
	maxColumnWidth = 40
	// columnOverhead is border, horizontal padding and the gap between columns.
	columnOverhead = 5
	footerLines    = 3
)

// boardLayout is one measured render of the board area.
type boardLayout struct {
	header  string
	top     int
	blocks  []string
	columns []columnSlot
}

// columnSlot is a rendered column and the screen cells it covers.
type columnSlot struct {
	index int
	id    string
	rect  drag.Rect
	cards []cardSlot
}

// cardSlot is a rendered card and the rows it covers.
type cardSlot struct {
	index int
	rect  drag.Rect
}

// cardRows records where a card landed inside a column body.
type cardRows struct {
	index int
	start int
	end   int
}

// boardHit identifies the column and card under a point. card is -1 when
// the point is on the column but not on a card.
type boardHit struct {
	column int
	card   int
}

// columnRects returns the drop regions for the drag controller.
func (l boardLayout) columnRects() []drag.ColumnRect {
	out := make([]drag.ColumnRect, 0, len(l.columns))
	for _, col := range l.columns {
		out = append(out, drag.ColumnRect{ColumnID: col.id, Rect: col.rect})
	}
	return out
}

// hit resolves p to a column and card.
func (l boardLayout) hit(p drag.Point) (boardHit, bool) {
	for _, col := range l.columns {
		if !col.rect.Contains(p) {
			continue
		}
		for _, slot := range col.cards {
			if slot.rect.Contains(p) {
				return boardHit{column: col.index, card: slot.index}, true
			}
		}
		return boardHit{column: col.index, card: -1}, true
	}
	return boardHit{}, false
}

// columnWidth returns the content width of each column.
func (m Model) columnWidth() int {
	n := max(1, len(m.view.Columns))
	if m.width <= 0 {
		return 28
	}
	return clamp((m.width-n*columnOverhead)/n, minColumnWidth, maxColumnWidth)
}

// visibleColumnCount returns how many columns fit side by side.
func (m Model) visibleColumnCount() int {
	n := len(m.view.Columns)
	if n == 0 {
		return 0
	}
	if m.width <= 0 {
		return n
	}
	return clamp(m.width/(m.columnWidth()+columnOverhead), 1, n)
}

// columnHeight returns the outer height of each column block.
func (m Model) columnHeight(top int) int {
	if m.height <= 0 {
		return 20
	}
	return max(6, m.height-top-footerLines)
}

// layoutBoard renders the header and visible columns and measures them.
func (m Model) layoutBoard() boardLayout {
	header := m.renderHeader()
	top := lipgloss.Height(header) + 1
	out := boardLayout{header: header, top: top}

	width := m.columnWidth()
	height := m.columnHeight(top)
	visible := m.visibleColumnCount()
	x := 0
	for idx := m.columnOffset; idx < len(m.view.Columns) && idx < m.columnOffset+visible; idx++ {
		block, rows := m.renderColumn(idx, width, height)
		w := lipgloss.Width(block)
		rect := drag.Rect{
			Left:   x,
			Top:    top,
			Right:  x + w - 1,
			Bottom: top + lipgloss.Height(block) - 1,
		}
		slot := columnSlot{index: idx, id: m.view.Columns[idx].ID, rect: rect}
		for _, r := range rows {
			slot.cards = append(slot.cards, cardSlot{
				index: r.index,
				rect: drag.Rect{
					Left:   rect.Left,
					Top:    top + 1 + r.start,
					Right:  rect.Right,
					Bottom: top + 1 + r.end,
				},
			})
		}
		if len(out.blocks) > 0 {
			out.blocks = append(out.blocks, " ")
		}
		out.blocks = append(out.blocks, block)
		out.columns = append(out.columns, slot)
		x += w + 1
	}
	return out
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	p := m.palette
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent))
	nameStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Text))
	metaStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle))

	stats := m.state.Board.Stats()
	left := titleStyle.Render("tavla") + "  " + nameStyle.Render(m.state.Name)
	left += metaStyle.Render("  " + pluralize(stats.Cards, "card") + " · " + pluralize(stats.Columns, "list"))
	if q := strings.TrimSpace(m.filter.Query); q != "" {
		left += metaStyle.Render("  search: " + truncate(q, 24))
	}
	if m.filter.Priority != domain.PriorityNone {
		left += metaStyle.Render("  priority: " + string(m.filter.Priority))
	}
	if !m.filter.IsIdentity() {
		left += metaStyle.Render(fmt.Sprintf("  showing %d of %d", m.view.CardCount(), stats.Cards))
	}

	avatar := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.StatusFg)).
		Background(lipgloss.Color(p.Accent)).
		Padding(0, 1).
		Render(m.state.Profile.Initial())
	right := avatar + " " + metaStyle.Render(m.state.Profile.Name)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left + "  " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderColumn renders one column block and reports where its cards landed
// relative to the first row inside the border.
func (m Model) renderColumn(idx, width, height int) (string, []cardRows) {
	p := m.palette
	col := m.view.Columns[idx]
	dv := m.drag.View()
	inner := max(4, width-2)
	accent := lipgloss.Color(col.Color)

	count := fmt.Sprintf("(%d)", len(col.Cards))
	if full, ok := m.state.Board.Column(col.ID); ok && len(full.Cards) != len(col.Cards) {
		count = fmt.Sprintf("(%d/%d)", len(col.Cards), len(full.Cards))
	}
	titleLine := lipgloss.NewStyle().Foreground(accent).Render("●") + " " +
		lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Text)).Render(truncate(col.Title, max(1, inner-len(count)-3))) + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle)).Render(count)
	rule := lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("─", inner))
	if dv.DropTarget == col.ID {
		rule = lipgloss.NewStyle().Foreground(lipgloss.Color(p.DropTarget)).Bold(true).Render(strings.Repeat("━", inner))
	}
	headerLines := []string{titleLine, rule}

	lines := make([]string, 0, len(col.Cards)*3)
	rows := make([]cardRows, 0, len(col.Cards))
	selectedStart, selectedEnd := -1, -1
	if len(col.Cards) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle)).Italic(true).Render("drop cards here"))
	}
	for i, card := range col.Cards {
		if i > 0 {
			lines = append(lines, "")
		}
		selected := idx == m.selectedColumn && i == m.selectedCard
		start := len(lines)
		lines = append(lines, m.renderCardLines(card, selected, dv.Dimmed == card.ID, inner)...)
		rows = append(rows, cardRows{index: i, start: start, end: len(lines) - 1})
		if selected {
			selectedStart, selectedEnd = start, len(lines)-1
		}
	}

	innerHeight := max(1, height-2)
	window := max(1, innerHeight-len(headerLines))
	scrollTop := 0
	if idx == m.selectedColumn && selectedStart >= 0 && selectedEnd >= window {
		scrollTop = selectedEnd - window + 1
	}
	scrollTop = clamp(scrollTop, 0, max(0, len(lines)-window))
	if len(lines) > window {
		lines = lines[scrollTop : scrollTop+window]
	}

	visibleRows := make([]cardRows, 0, len(rows))
	for _, r := range rows {
		start, end := r.start-scrollTop, r.end-scrollTop
		if end < 0 || start >= window {
			continue
		}
		visibleRows = append(visibleRows, cardRows{
			index: r.index,
			start: len(headerLines) + max(0, start),
			end:   len(headerLines) + min(window-1, end),
		})
	}

	border := p.Border
	switch {
	case m.flashColumn == col.ID:
		border = p.Flash
	case dv.DropTarget == col.ID:
		border = p.DropTarget
	case idx == m.selectedColumn:
		border = p.Selected
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(width)
	content := fitLines(strings.Join(append(headerLines, lines...), "\n"), innerHeight)
	return style.Render(content), visibleRows
}

// renderCardLines renders a card as a few prefixed lines.
func (m Model) renderCardLines(card domain.Card, selected, dimmed bool, width int) []string {
	p := m.palette
	bar := "  "
	if selected {
		bar = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Selected)).Render("▌ ")
	}
	check := "[ ]"
	if card.Completed {
		check = "[x]"
	}
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Text))
	if selected {
		titleStyle = titleStyle.Bold(true)
	}
	if card.Completed {
		titleStyle = titleStyle.Strikethrough(true).Foreground(lipgloss.Color(p.Subtle))
	}
	textWidth := max(1, width-6)
	lines := []string{bar + check + " " + titleStyle.Render(truncate(card.Title, textWidth))}

	if meta := m.cardMeta(card); meta != "" {
		lines = append(lines, bar+"    "+meta)
	}
	if m.showDescriptions {
		if desc := firstLine(card.Description); desc != "" {
			lines = append(lines, bar+"    "+lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle)).Render(truncate(desc, textWidth)))
		}
	}

	faint := lipgloss.NewStyle().Faint(true)
	for i, line := range lines {
		if dimmed {
			line = faint.Render(ansi.Strip(line))
		}
		lines[i] = ansi.Truncate(line, width, "…")
	}
	return lines
}

// cardMeta renders the priority and due badges.
func (m Model) cardMeta(card domain.Card) string {
	p := m.palette
	var parts []string
	if card.Priority != domain.PriorityNone {
		color := p.PriorityLow
		switch card.Priority {
		case domain.PriorityHigh:
			color = p.PriorityHigh
		case domain.PriorityMedium:
			color = p.PriorityMedium
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("● "+string(card.Priority)))
	}
	if due := domain.FormatDueDate(card.DueDate); due != "" {
		if card.IsOverdue(m.now()) {
			parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Danger)).Render("overdue "+due))
		} else {
			parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle)).Render("due "+due))
		}
	}
	return strings.Join(parts, " ")
}

// View renders the board, drag feedback and any open modal.
func (m Model) View() tea.View {
	p := m.palette
	if m.err != nil {
		return m.newView("error: " + m.err.Error() + "\n\npress q to quit\n")
	}
	if !m.ready {
		return m.newView("loading...")
	}

	layout := m.layoutBoard()
	body := lipgloss.JoinHorizontal(lipgloss.Top, layout.blocks...)
	if len(layout.blocks) == 0 {
		body = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle)).Render("No lists yet. Press C to add one.")
	}
	content := strings.Join([]string{layout.header, "", body}, "\n")

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.StatusFg))
	status := ""
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		status = statusStyle.Render(truncate(m.status, max(1, m.width-2)))
	}

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Subtle)).
		BorderTop(true).
		BorderForeground(lipgloss.Color(p.Border)).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)-1))
	}
	full := content + "\n" + status + "\n" + helpLine
	height := lipgloss.Height(full)
	if m.height > 0 {
		height = m.height
	}

	if dv := m.drag.View(); dv.GhostVisible {
		full = m.composeGhost(full, dv, max(1, m.width), max(1, height))
	}
	overlay := m.renderModeOverlay(m.width - 8)
	if overlay == "" && m.help.ShowAll {
		overlay = m.renderHelpOverlay(m.width - 8)
	}
	if overlay != "" {
		full = overlayOnContent(full, overlay, max(1, m.width), max(1, height))
	}
	return m.newView(full)
}

// newView wraps content with the terminal modes the board needs.
func (m Model) newView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	v.ReportFocus = true
	return v
}

// composeGhost draws the floating card clone at the pointer offset.
func (m Model) composeGhost(base string, dv drag.View, width, height int) string {
	ghost := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.palette.Ghost)).
		Foreground(lipgloss.Color(m.palette.Text)).
		Bold(true).
		Padding(0, 1).
		Render(truncate(dv.GhostTitle, max(8, m.columnWidth()-4)))
	x := clamp(dv.Ghost.X, 0, max(0, width-lipgloss.Width(ghost)))
	y := clamp(dv.Ghost.Y, 0, max(0, height-lipgloss.Height(ghost)))

	canvas := lipgloss.NewCanvas(width, height)
	canvas.Compose(lipgloss.NewLayer(fitLines(base, height)).X(0).Y(0).Z(0))
	canvas.Compose(lipgloss.NewLayer(ghost).X(x).Y(y).Z(5))
	return canvas.Render()
}

// fitLines pads or trims content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay over base.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centered := lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, overlay)
	overlayLayer := lipgloss.NewLayer(centered).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}
