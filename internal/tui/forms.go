package tui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/evanschultz/tavla/internal/app"
	"github.com/evanschultz/tavla/internal/domain"
	"github.com/evanschultz/tavla/internal/theme"
)

const (
	cardFieldTitle = iota
	cardFieldDescription
	cardFieldPriority
	cardFieldDue
)

const (
	columnFieldTitle = iota
	columnFieldColor
)

// priorityOptions is the cycle order in the card form.
var priorityOptions = []domain.Priority{
	domain.PriorityNone,
	domain.PriorityLow,
	domain.PriorityMedium,
	domain.PriorityHigh,
}

// menuAction identifies one entry in an action menu.
type menuAction int

const (
	actionEdit menuAction = iota
	actionMove
	actionDuplicate
	actionToggle
	actionCopy
	actionInfo
	actionDelete
	actionEditProfile
	actionClearCards
	actionDeleteColumn
)

// menuItem is one selectable menu row.
type menuItem struct {
	label  string
	action menuAction
}

// confirmState holds a pending destructive action.
type confirmState struct {
	prompt   string
	action   menuAction
	columnID string
	title    string
}

// enterMode opens a modal. A modal takes over input, so any gesture ends.
func (m *Model) enterMode(mode inputMode) {
	m.drag.Cancel()
	m.mode = mode
}

// closeMode returns to the board.
func (m *Model) closeMode() {
	m.mode = modeNone
	m.formInputs = nil
	m.formFocus = 0
	m.editingCardID = ""
	m.formColumnID = ""
	m.menuItems = nil
	m.menuCursor = 0
	m.confirm = confirmState{}
}

// startCardForm opens the add form, or the edit form when card is set.
func (m *Model) startCardForm(card *domain.Card) tea.Cmd {
	col, ok := m.currentColumn()
	if !ok && card == nil {
		m.status = "no list selected"
		return nil
	}
	m.enterMode(modeAddCard)
	m.formInputs = []textinput.Model{
		newModalInput("", "card title", "", 120),
		newModalInput("", "details (markdown)", "", 1000),
		newModalInput("", "", "", 10),
		newModalInput("", domain.DueDateLayout, "", 10),
	}
	m.priorityIdx = 0
	m.formColumnID = col.ID
	m.status = "new card in " + col.Title
	if card != nil {
		m.mode = modeEditCard
		m.editingCardID = card.ID
		m.formColumnID = card.ColumnID
		m.formInputs[cardFieldTitle].SetValue(card.Title)
		m.formInputs[cardFieldDescription].SetValue(card.Description)
		m.formInputs[cardFieldDue].SetValue(domain.FormatDueDate(card.DueDate))
		m.priorityIdx = priorityIndex(card.Priority)
		m.status = "edit " + card.Title
	}
	m.formInputs[cardFieldPriority].SetValue(priorityLabel(priorityOptions[m.priorityIdx]))
	return m.focusFormField(cardFieldTitle)
}

// startColumnForm opens the add column form.
func (m *Model) startColumnForm() tea.Cmd {
	m.enterMode(modeAddColumn)
	m.colorIdx = 0
	colors := theme.ColumnColors()
	m.formInputs = []textinput.Model{
		newModalInput("", "list title", "", 60),
		newModalInput("", "", colors[0].Name, 20),
	}
	m.status = "new list"
	return m.focusFormField(columnFieldTitle)
}

// focusFormField focuses one form field. Selector fields take no text focus.
func (m *Model) focusFormField(idx int) tea.Cmd {
	if len(m.formInputs) == 0 {
		return nil
	}
	idx = clamp(idx, 0, len(m.formInputs)-1)
	m.formFocus = idx
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	if m.isSelectorField(idx) {
		return nil
	}
	return m.formInputs[idx].Focus()
}

// isSelectorField reports whether idx cycles with h/l instead of typing.
func (m Model) isSelectorField(idx int) bool {
	switch m.mode {
	case modeAddCard, modeEditCard:
		return idx == cardFieldPriority
	case modeAddColumn:
		return idx == columnFieldColor
	}
	return false
}

// cycleSelector advances the focused selector field.
func (m *Model) cycleSelector(delta int) {
	switch m.mode {
	case modeAddCard, modeEditCard:
		m.priorityIdx = (m.priorityIdx + delta + len(priorityOptions)) % len(priorityOptions)
		m.formInputs[cardFieldPriority].SetValue(priorityLabel(priorityOptions[m.priorityIdx]))
	case modeAddColumn:
		colors := theme.ColumnColors()
		m.colorIdx = (m.colorIdx + delta + len(colors)) % len(colors)
		m.formInputs[columnFieldColor].SetValue(colors[m.colorIdx].Name)
	}
}

// priorityIndex returns the form option index for p.
func priorityIndex(p domain.Priority) int {
	for i, opt := range priorityOptions {
		if opt == p {
			return i
		}
	}
	return 0
}

// startSearch opens the live search prompt.
func (m *Model) startSearch() tea.Cmd {
	m.enterMode(modeSearch)
	m.searchInput.SetValue(m.filter.Query)
	m.searchInput.CursorEnd()
	m.status = "search"
	return m.searchInput.Focus()
}

// startNameInput opens the board rename or profile name prompt.
func (m *Model) startNameInput(mode inputMode, value string) tea.Cmd {
	m.enterMode(mode)
	placeholder := "board name"
	if mode == modeEditProfile {
		placeholder = "your name"
	}
	m.nameInput = newModalInput("", placeholder, value, 60)
	m.nameInput.CursorEnd()
	return m.nameInput.Focus()
}

// openCardActions opens the action menu for card.
func (m *Model) openCardActions(card domain.Card) {
	m.enterMode(modeCardActions)
	toggle := "Mark complete"
	if card.Completed {
		toggle = "Mark incomplete"
	}
	m.menuCard = card
	m.menuCursor = 0
	m.menuItems = []menuItem{
		{label: "Edit", action: actionEdit},
		{label: "Move to…", action: actionMove},
		{label: "Duplicate", action: actionDuplicate},
		{label: toggle, action: actionToggle},
		{label: "Copy to clipboard", action: actionCopy},
		{label: "Details", action: actionInfo},
		{label: "Delete", action: actionDelete},
	}
}

// openProfile opens the profile panel.
func (m *Model) openProfile() {
	m.enterMode(modeProfile)
	m.menuCursor = 0
	m.menuItems = []menuItem{
		{label: "Edit profile", action: actionEditProfile},
		{label: "Clear all cards", action: actionClearCards},
	}
}

// openCardInfo opens the card details view.
func (m *Model) openCardInfo(card domain.Card) {
	m.enterMode(modeCardInfo)
	m.menuCard = card
}

// openMovePicker lists destination columns for card.
func (m *Model) openMovePicker(card domain.Card) {
	m.enterMode(modeMovePicker)
	m.menuCard = card
	m.pickerCursor = 0
	for i, col := range m.state.Board.Columns {
		if col.ID != card.ColumnID {
			m.pickerCursor = i
			break
		}
	}
	m.status = "move " + card.Title
}

// startDeleteColumn asks before removing the focused column.
func (m *Model) startDeleteColumn() {
	col, ok := m.currentColumn()
	if !ok {
		m.status = "no list selected"
		return
	}
	if len(m.state.Board.Columns) <= 1 {
		m.status = "cannot delete the only list"
		return
	}
	full, _ := m.state.Board.Column(col.ID)
	m.enterMode(modeConfirm)
	m.confirm = confirmState{
		prompt:   fmt.Sprintf("Delete list %q and its %s?", col.Title, pluralize(len(full.Cards), "card")),
		action:   actionDeleteColumn,
		columnID: col.ID,
		title:    col.Title,
	}
}

// handleInputModeKey handles keys while a modal owns input.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAddCard, modeEditCard, modeAddColumn:
		return m.handleFormKey(msg)
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeMovePicker:
		return m.handleMovePickerKey(msg)
	case modeCardActions, modeProfile:
		return m.handleMenuKey(msg)
	case modeCardInfo:
		switch msg.String() {
		case "esc", "enter", "i", "q":
			m.closeMode()
		case "e":
			card := m.menuCard
			m.closeMode()
			return m, m.startCardForm(&card)
		}
		return m, nil
	case modeRenameBoard, modeEditProfile:
		return m.handleNameKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	}
	return m, nil
}

// handleFormKey handles the card and column forms.
func (m Model) handleFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Code == tea.KeyEscape || msg.String() == "esc":
		m.closeMode()
		m.status = "cancelled"
		return m, nil
	case msg.Code == tea.KeyTab || msg.String() == "tab" || msg.String() == "down":
		return m, m.focusFormField((m.formFocus + 1) % len(m.formInputs))
	case msg.String() == "shift+tab" || msg.String() == "up":
		return m, m.focusFormField((m.formFocus - 1 + len(m.formInputs)) % len(m.formInputs))
	case msg.Code == tea.KeyEnter || msg.String() == "enter":
		if m.mode == modeAddColumn {
			return m.submitColumnForm()
		}
		return m.submitCardForm()
	}
	if m.isSelectorField(m.formFocus) {
		switch msg.String() {
		case "h", "left":
			m.cycleSelector(-1)
		case "l", "right", "space", " ":
			m.cycleSelector(1)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// submitCardForm validates the card form and sends it to the service.
func (m Model) submitCardForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formInputs[cardFieldTitle].Value())
	if title == "" {
		m.status = "title is required"
		return m, m.focusFormField(cardFieldTitle)
	}
	due, err := domain.ParseDueDate(m.formInputs[cardFieldDue].Value())
	if err != nil {
		m.status = errorStatus(err)
		return m, m.focusFormField(cardFieldDue)
	}
	description := strings.TrimSpace(m.formInputs[cardFieldDescription].Value())
	priority := priorityOptions[m.priorityIdx]
	mode, cardID, columnID := m.mode, m.editingCardID, m.formColumnID
	m.closeMode()

	if mode == modeEditCard {
		m.status = "saving..."
		return m, m.editCardCmd(app.UpdateCardInput{
			CardID:      cardID,
			Title:       title,
			Description: description,
			Priority:    priority,
			DueDate:     due,
		})
	}
	m.status = "adding..."
	return m, m.addCardCmd(app.CreateCardInput{
		ColumnID:    columnID,
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     due,
	})
}

// submitColumnForm validates the column form and sends it to the service.
func (m Model) submitColumnForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formInputs[columnFieldTitle].Value())
	if title == "" {
		m.status = "title is required"
		return m, m.focusFormField(columnFieldTitle)
	}
	id := domain.ColumnIDFromTitle(title)
	if m.state.Board.HasColumn(id) {
		m.status = errorStatus(app.ErrDuplicateColumn)
		return m, nil
	}
	color := theme.ColumnColors()[m.colorIdx].Hex
	m.closeMode()
	return m, m.addColumnCmd(title, color)
}

// handleSearchKey applies the query as it is typed.
func (m Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Code == tea.KeyEscape || msg.String() == "esc":
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.filter.Query = ""
		m.applyFilter()
		m.closeMode()
		m.status = "search cleared"
		return m, nil
	case msg.Code == tea.KeyEnter || msg.String() == "enter":
		m.searchInput.Blur()
		m.closeMode()
		if strings.TrimSpace(m.filter.Query) == "" {
			m.status = "ready"
		} else {
			m.status = fmt.Sprintf("%s match %q", pluralize(m.view.CardCount(), "card"), m.filter.Query)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.filter.Query = m.searchInput.Value()
	m.applyFilter()
	return m, cmd
}

// handleMovePickerKey chooses a destination column.
func (m Model) handleMovePickerKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	cols := m.state.Board.Columns
	switch msg.String() {
	case "esc", "q":
		m.closeMode()
		m.status = "move cancelled"
		return m, nil
	case "j", "down":
		m.pickerCursor = clamp(m.pickerCursor+1, 0, len(cols)-1)
		return m, nil
	case "k", "up":
		m.pickerCursor = clamp(m.pickerCursor-1, 0, len(cols)-1)
		return m, nil
	case "enter":
		return m.submitMove(m.pickerCursor)
	}
	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(cols) {
		return m.submitMove(n - 1)
	}
	return m, nil
}

// submitMove moves the picker card to the column at idx.
func (m Model) submitMove(idx int) (tea.Model, tea.Cmd) {
	cols := m.state.Board.Columns
	if idx < 0 || idx >= len(cols) {
		return m, nil
	}
	card := m.menuCard
	target := cols[idx]
	if target.ID == card.ColumnID {
		m.status = "already in " + target.Title
		return m, nil
	}
	m.closeMode()
	m.status = "moving..."
	return m, m.moveCardCmd(card.ID, target.ID, "moved "+card.Title+" to "+target.Title)
}

// handleMenuKey drives the card action menu and the profile panel.
func (m Model) handleMenuKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.closeMode()
		return m, nil
	case "j", "down":
		m.menuCursor = clamp(m.menuCursor+1, 0, len(m.menuItems)-1)
		return m, nil
	case "k", "up":
		m.menuCursor = clamp(m.menuCursor-1, 0, len(m.menuItems)-1)
		return m, nil
	case "enter":
		if len(m.menuItems) == 0 {
			return m, nil
		}
		return m.runMenuAction(m.menuItems[m.menuCursor].action)
	}
	return m, nil
}

// runMenuAction executes a menu entry.
func (m Model) runMenuAction(action menuAction) (tea.Model, tea.Cmd) {
	card := m.menuCard
	m.closeMode()
	switch action {
	case actionEdit:
		return m, m.startCardForm(&card)
	case actionMove:
		m.openMovePicker(card)
		return m, nil
	case actionDuplicate:
		return m, m.duplicateCardCmd(card)
	case actionToggle:
		return m, m.toggleCompleteCmd(card)
	case actionCopy:
		m.copyCard(card)
		return m, nil
	case actionInfo:
		m.openCardInfo(card)
		return m, nil
	case actionDelete:
		return m, m.removeCardCmd(card)
	case actionEditProfile:
		return m, m.startNameInput(modeEditProfile, m.state.Profile.Name)
	case actionClearCards:
		m.enterMode(modeConfirm)
		m.confirm = confirmState{
			prompt: fmt.Sprintf("Remove all %s from the board?", pluralize(m.state.Board.CardCount(), "card")),
			action: actionClearCards,
		}
		return m, nil
	}
	return m, nil
}

// handleNameKey handles the board rename and profile prompts.
func (m Model) handleNameKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Code == tea.KeyEscape || msg.String() == "esc":
		m.closeMode()
		m.status = "cancelled"
		return m, nil
	case msg.Code == tea.KeyEnter || msg.String() == "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.status = "name is required"
			return m, nil
		}
		mode := m.mode
		m.closeMode()
		if mode == modeEditProfile {
			return m, m.updateProfileCmd(name)
		}
		return m, m.renameBoardCmd(name)
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// handleConfirmKey accepts or rejects the pending destructive action.
func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		c := m.confirm
		m.closeMode()
		switch c.action {
		case actionDeleteColumn:
			return m, m.removeColumnCmd(c.columnID, c.title)
		case actionClearCards:
			return m, m.clearCardsCmd()
		}
		return m, nil
	case "n", "N", "esc", "q":
		m.closeMode()
		m.status = "cancelled"
		return m, nil
	}
	return m, nil
}

// renderModeOverlay renders the open modal, or "" when none is open.
func (m Model) renderModeOverlay(maxWidth int) string {
	p := m.palette
	accent := lipgloss.Color(p.Accent)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle)).Italic(true)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if maxWidth > 0 {
		box = box.Width(clamp(maxWidth, 36, 72))
	}

	switch m.mode {
	case modeAddCard, modeEditCard:
		heading := "New card"
		if m.mode == modeEditCard {
			heading = "Edit card"
		}
		labels := []string{"title", "description", "priority", "due"}
		lines := []string{titleStyle.Render(heading) + labelStyle.Render("  in "+m.columnTitle(m.formColumnID)), ""}
		lines = append(lines, m.renderFormFields(labels)...)
		lines = append(lines, "", hintStyle.Render("tab next field • h/l priority • enter save • esc cancel"))
		return box.Render(strings.Join(lines, "\n"))

	case modeAddColumn:
		lines := []string{titleStyle.Render("New list"), ""}
		lines = append(lines, m.renderFormFields([]string{"title", "color"})...)
		lines = append(lines, "", m.renderColorSwatches())
		lines = append(lines, "", hintStyle.Render("tab next field • h/l color • enter create • esc cancel"))
		return box.Render(strings.Join(lines, "\n"))

	case modeSearch:
		lines := []string{
			titleStyle.Render("Search"),
			"",
			m.searchInput.View(),
			"",
			labelStyle.Render(fmt.Sprintf("%d matching • enter keep • esc clear", m.view.CardCount())),
		}
		return box.Render(strings.Join(lines, "\n"))

	case modeMovePicker:
		card := m.menuCard
		lines := []string{titleStyle.Render("Move card"), "", lipgloss.NewStyle().Bold(true).Render(truncate(card.Title, 48))}
		if desc := firstLine(card.Description); desc != "" {
			lines = append(lines, labelStyle.Render(truncate(desc, 50)))
		}
		lines = append(lines, "", labelStyle.Render("Select destination:"))
		for i, col := range m.state.Board.Columns {
			cursor := "  "
			if i == m.pickerCursor {
				cursor = "› "
			}
			row := fmt.Sprintf("%s%d. %s %s", cursor, i+1, lipgloss.NewStyle().Foreground(lipgloss.Color(col.Color)).Render("●"), col.Title)
			if col.ID == card.ColumnID {
				row = labelStyle.Render(fmt.Sprintf("%s%d. ● %s (current)", cursor, i+1, col.Title))
			} else if i == m.pickerCursor {
				row = lipgloss.NewStyle().Bold(true).Render(row)
			}
			lines = append(lines, row)
		}
		lines = append(lines, "", hintStyle.Render("j/k choose • enter move • esc cancel"))
		return box.Render(strings.Join(lines, "\n"))

	case modeCardActions:
		lines := []string{titleStyle.Render(truncate(m.menuCard.Title, 48)), ""}
		lines = append(lines, m.renderMenuItems()...)
		lines = append(lines, "", hintStyle.Render("j/k choose • enter run • esc close"))
		return box.Render(strings.Join(lines, "\n"))

	case modeProfile:
		stats := m.state.Board.Stats()
		avatar := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.StatusFg)).Background(accent).Padding(0, 1).Render(m.state.Profile.Initial())
		lines := []string{
			avatar + " " + lipgloss.NewStyle().Bold(true).Render(m.state.Profile.Name),
			labelStyle.Render(domain.ProfileRole),
			"",
			fmt.Sprintf("%d total cards • %d lists • %d completed", stats.Cards, stats.Columns, stats.Completed),
			"",
		}
		lines = append(lines, m.renderMenuItems()...)
		lines = append(lines, "", hintStyle.Render("j/k choose • enter run • esc close"))
		return box.Render(strings.Join(lines, "\n"))

	case modeCardInfo:
		return box.Render(m.renderCardInfo(max(24, clamp(maxWidth, 36, 72)-4)))

	case modeRenameBoard, modeEditProfile:
		heading := "Rename board"
		if m.mode == modeEditProfile {
			heading = "Edit profile"
		}
		lines := []string{titleStyle.Render(heading), "", m.nameInput.View(), "", hintStyle.Render("enter save • esc cancel")}
		return box.Render(strings.Join(lines, "\n"))

	case modeConfirm:
		danger := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Danger))
		lines := []string{danger.Render("Confirm"), "", m.confirm.prompt, "", hintStyle.Render("y confirm • n cancel")}
		return box.BorderForeground(lipgloss.Color(p.Danger)).Render(strings.Join(lines, "\n"))
	}
	return ""
}

// renderFormFields renders labelled inputs with a focus marker.
func (m Model) renderFormFields(labels []string) []string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Subtle)).Width(12)
	focusStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.palette.Accent)).Width(12)
	out := make([]string, 0, len(labels))
	for i, label := range labels {
		if i >= len(m.formInputs) {
			break
		}
		style := labelStyle
		marker := "  "
		if i == m.formFocus {
			style = focusStyle
			marker = "› "
		}
		value := m.formInputs[i].View()
		if m.isSelectorField(i) {
			value = "‹ " + m.formInputs[i].Value() + " ›"
		}
		out = append(out, marker+style.Render(label)+value)
	}
	return out
}

// renderColorSwatches renders the column color choices.
func (m Model) renderColorSwatches() string {
	parts := make([]string, 0, 8)
	for i, c := range theme.ColumnColors() {
		mark := "■"
		if i == m.colorIdx {
			mark = "▣"
		}
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex)).Render(mark))
	}
	return strings.Join(parts, " ")
}

// renderMenuItems renders menu rows with a cursor.
func (m Model) renderMenuItems() []string {
	out := make([]string, 0, len(m.menuItems))
	for i, item := range m.menuItems {
		label := item.label
		if item.action == actionDelete || item.action == actionClearCards {
			label = lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Danger)).Render(label)
		}
		if i == m.menuCursor {
			out = append(out, "› "+lipgloss.NewStyle().Bold(true).Render(label))
			continue
		}
		out = append(out, "  "+label)
	}
	return out
}

// renderCardInfo renders the details view for the menu card.
func (m Model) renderCardInfo(width int) string {
	p := m.palette
	card := m.menuCard
	if fresh, ok := m.state.Board.FindCard(card.ID); ok {
		card = fresh
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Accent))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle))

	status := "open"
	if card.Completed {
		status = "completed"
	}
	lines := []string{
		titleStyle.Render(truncate(card.Title, width)),
		"",
		labelStyle.Render("list      ") + m.columnTitle(card.ColumnID),
		labelStyle.Render("status    ") + status,
		labelStyle.Render("priority  ") + priorityLabel(card.Priority),
	}
	if due := domain.FormatDueDate(card.DueDate); due != "" {
		if card.IsOverdue(m.now()) {
			due += lipgloss.NewStyle().Foreground(lipgloss.Color(p.Danger)).Render("  overdue")
		}
		lines = append(lines, labelStyle.Render("due       ")+due)
	}
	lines = append(lines, labelStyle.Render("created   ")+card.CreatedAt.Local().Format("2006-01-02 15:04"))

	if desc := strings.TrimSpace(card.Description); desc != "" {
		lines = append(lines, "")
		if m.markdown && m.md != nil {
			lines = append(lines, m.md.render(desc, width, m.dark))
		} else {
			lines = append(lines, lipgloss.NewStyle().Width(width).Render(desc))
		}
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color(p.Subtle)).Italic(true).Render("e edit • esc close"))
	return strings.Join(lines, "\n")
}

// renderHelpOverlay renders the full key help.
func (m Model) renderHelpOverlay(maxWidth int) string {
	accent := lipgloss.Color(m.palette.Accent)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(max(20, maxWidth-4))
	gestures := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Subtle)).Render(
		"mouse: drag a card with the left button • right-click tap for actions, swipe sideways to move")
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(clamp(maxWidth, 40, 110))
	}
	return style.Render(lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Keys") + "\n\n" + hb.View(m.keys) + "\n\n" + gestures)
}
