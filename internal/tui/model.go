package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"

	"github.com/evanschultz/tavla/internal/app"
	"github.com/evanschultz/tavla/internal/domain"
	"github.com/evanschultz/tavla/internal/drag"
	"github.com/evanschultz/tavla/internal/theme"
)

// Service represents the board operations the model drives.
type Service interface {
	Snapshot(context.Context) (app.BoardState, error)
	AddCard(context.Context, app.CreateCardInput) (domain.Card, error)
	RemoveCard(ctx context.Context, columnID, cardID string) error
	MoveCard(ctx context.Context, cardID, columnID string) error
	ToggleComplete(ctx context.Context, cardID string) (domain.Card, error)
	DuplicateCard(ctx context.Context, cardID string) (domain.Card, error)
	EditCard(context.Context, app.UpdateCardInput) (domain.Card, error)
	AddColumn(ctx context.Context, title, color string) (domain.Column, error)
	RemoveColumn(ctx context.Context, columnID string) error
	ClearCards(context.Context) error
	RenameBoard(ctx context.Context, name string) error
	UpdateProfile(ctx context.Context, name string) (domain.Profile, error)
}

// inputMode describes which modal, if any, owns the keyboard.
type inputMode int

const (
	modeNone inputMode = iota
	modeAddCard
	modeEditCard
	modeAddColumn
	modeSearch
	modeMovePicker
	modeCardActions
	modeCardInfo
	modeRenameBoard
	modeProfile
	modeEditProfile
	modeConfirm
)

// priorityFilters is the cycle order for the priority filter.
var priorityFilters = []domain.Priority{
	domain.PriorityNone,
	domain.PriorityHigh,
	domain.PriorityMedium,
	domain.PriorityLow,
}

// loadedMsg carries a fresh board snapshot.
type loadedMsg struct {
	state app.BoardState
	err   error
}

// actionMsg reports the result of a service call.
type actionMsg struct {
	err         error
	status      string
	reload      bool
	focusCardID string
}

// flashDoneMsg expires the drop flash started with the same sequence.
type flashDoneMsg struct {
	seq int
}

// Model is the Bubble Tea model for the board screen.
type Model struct {
	svc    Service
	logger     *charmLog.Logger
	dragLogger *charmLog.Logger

	width  int
	height int
	ready  bool
	err    error
	status string

	help help.Model
	keys keyMap

	state  app.BoardState
	view   domain.Board
	filter domain.Filter

	selectedColumn int
	selectedCard   int
	columnOffset   int
	pendingFocus   string

	mode          inputMode
	formInputs    []textinput.Model
	formFocus     int
	priorityIdx   int
	colorIdx      int
	formColumnID  string
	editingCardID string
	searchInput   textinput.Model
	nameInput     textinput.Model
	menuItems     []menuItem
	menuCursor    int
	menuCard      domain.Card
	pickerCursor  int
	confirm       confirmState

	drag        *drag.Controller
	bridge      *dragBridge
	dragOpts    DragOptions
	flashColumn string
	flashSeq    int

	themes           theme.Set
	dark             bool
	palette          theme.Palette
	showDescriptions bool
	markdown         bool
	md               *markdownRenderer
	copyText         func(string) error
	now              func() time.Time
}

// NewModel constructs the board model.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		svc:         svc,
		logger:      charmLog.New(io.Discard),
		status:      "loading...",
		help:        h,
		keys:        newKeyMap(),
		searchInput: newModalInput("", "title or description", "", 120),
		themes:      theme.NewSet(theme.Overrides{}),
		dark:        true,
		dragOpts:    DefaultDragOptions(),
		markdown:    true,
		md:          &markdownRenderer{},
		copyText:    writeClipboard,
		now:         time.Now,
		bridge:      &dragBridge{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.palette = m.themes.Palette(m.dark)
	if m.dragLogger == nil {
		m.dragLogger = m.logger.WithPrefix("drag")
	}
	m.drag = drag.NewController(
		m.bridge,
		m.bridge.move,
		drag.WithConfig(m.dragOpts.controllerConfig()),
		drag.WithLogger(m.dragLogger),
	)
	return m
}

// Init loads the first snapshot.
func (m Model) Init() tea.Cmd {
	return m.loadBoard
}

// loadBoard reads the current snapshot from the service.
func (m Model) loadBoard() tea.Msg {
	state, err := m.svc.Snapshot(context.Background())
	return loadedMsg{state: state, err: err}
}

// Update updates state for the requested message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureColumnVisible()
		m.syncLayout()
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("load board failed", "err", msg.err)
			return m, nil
		}
		m.err = nil
		m.ready = true
		m.state = msg.state
		m.bridge.board = msg.state.Board
		if m.status == "loading..." {
			m.status = "ready"
		}
		m.applyFilter()
		if m.pendingFocus != "" {
			m.selectCard(m.pendingFocus)
			m.pendingFocus = ""
		}
		m.syncLayout()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			m.logger.Debug("board action failed", "err", msg.err)
		} else if msg.status != "" {
			m.status = msg.status
		}
		if msg.focusCardID != "" {
			m.pendingFocus = msg.focusCardID
		}
		if msg.reload {
			return m, m.loadBoard
		}
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flashColumn = ""
		}
		return m, nil

	case tea.BlurMsg:
		if out := m.drag.Cancel(); out.Kind == drag.OutcomeCancelled {
			m.status = "drag cancelled"
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		return m, nil
	}
}

// handleNormalModeKey handles keys while no modal is open.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if !m.ready {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.drag.Session().Protocol == drag.ProtocolNative {
		return m.handleGrabKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.drag.Cancel()
		return m, tea.Quit

	case msg.Code == tea.KeyEscape || msg.String() == "esc":
		switch {
		case m.drag.Active():
			return m.applyDragOutcome(m.drag.Cancel())
		case m.help.ShowAll:
			m.help.ShowAll = false
		case !m.filter.IsIdentity():
			m.filter = domain.Filter{}
			m.searchInput.SetValue("")
			m.applyFilter()
			m.status = "filter cleared"
		}
		return m, nil

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.moveLeft):
		m.moveSelection(-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.moveRight):
		m.moveSelection(1, 0)
		return m, nil

	case key.Matches(msg, m.keys.moveUp):
		m.moveSelection(0, -1)
		return m, nil

	case key.Matches(msg, m.keys.moveDown):
		m.moveSelection(0, 1)
		return m, nil

	case key.Matches(msg, m.keys.addCard):
		return m, m.startCardForm(nil)

	case key.Matches(msg, m.keys.addColumn):
		return m, m.startColumnForm()

	case key.Matches(msg, m.keys.deleteColumn):
		m.startDeleteColumn()
		return m, nil

	case key.Matches(msg, m.keys.search):
		return m, m.startSearch()

	case key.Matches(msg, m.keys.cyclePriority):
		m.cyclePriorityFilter()
		return m, nil

	case key.Matches(msg, m.keys.toggleTheme):
		m.dark = !m.dark
		m.palette = m.themes.Palette(m.dark)
		m.status = themeLabel(m.dark) + " theme"
		return m, nil

	case key.Matches(msg, m.keys.renameBoard):
		return m, m.startNameInput(modeRenameBoard, m.state.Name)

	case key.Matches(msg, m.keys.profile):
		m.openProfile()
		return m, nil
	}

	card, ok := m.currentCard()
	if !ok {
		if key.Matches(msg, m.keys.editCard, m.keys.cardActions, m.keys.cardInfo, m.keys.toggleComplete,
			m.keys.duplicateCard, m.keys.deleteCard, m.keys.moveCard, m.keys.grab, m.keys.copyCard) {
			m.status = "no card selected"
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.editCard):
		return m, m.startCardForm(&card)
	case key.Matches(msg, m.keys.cardActions):
		m.openCardActions(card)
		return m, nil
	case key.Matches(msg, m.keys.cardInfo):
		m.openCardInfo(card)
		return m, nil
	case key.Matches(msg, m.keys.toggleComplete):
		return m, m.toggleCompleteCmd(card)
	case key.Matches(msg, m.keys.duplicateCard):
		return m, m.duplicateCardCmd(card)
	case key.Matches(msg, m.keys.deleteCard):
		return m, m.removeCardCmd(card)
	case key.Matches(msg, m.keys.moveCard):
		m.openMovePicker(card)
		return m, nil
	case key.Matches(msg, m.keys.grab):
		m.drag.DragStart(card)
		m.status = "grabbed " + card.Title + " • h/l choose list • enter drop • esc cancel"
		return m, nil
	case key.Matches(msg, m.keys.copyCard):
		m.copyCard(card)
		return m, nil
	}
	return m, nil
}

// handleGrabKey handles keys while a card is held with the keyboard.
func (m Model) handleGrabKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit) && msg.String() != "q":
		m.drag.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.moveLeft):
		m.stepGrabTarget(-1)
		return m, nil
	case key.Matches(msg, m.keys.moveRight):
		m.stepGrabTarget(1)
		return m, nil
	case msg.Code == tea.KeyEnter || msg.String() == "enter":
		target := m.drag.Session().DropTarget
		if target == "" {
			return m.applyDragOutcome(m.drag.DragEnd())
		}
		return m.applyDragOutcome(m.drag.Drop(target))
	case msg.Code == tea.KeyEscape || msg.String() == "esc" || msg.String() == "q":
		return m.applyDragOutcome(m.drag.DragEnd())
	}
	return m, nil
}

// stepGrabTarget moves the keyboard drop target by delta columns.
func (m *Model) stepGrabTarget(delta int) {
	s := m.drag.Session()
	from := s.DropTarget
	if from == "" {
		from = s.Card.ColumnID
	}
	idx := m.viewColumnIndex(from)
	if idx < 0 {
		idx = m.selectedColumn
	}
	next := clamp(idx+delta, 0, len(m.view.Columns)-1)
	m.selectedColumn = next
	m.ensureColumnVisible()
	col := m.view.Columns[next]
	if col.ID == s.Card.ColumnID {
		m.drag.DragLeave()
		m.status = "holding " + s.Card.Title
		return
	}
	m.drag.DragOver(col.ID)
	m.status = "drop " + s.Card.Title + " on " + col.Title + "?"
}

// applyDragOutcome reacts to a finished gesture.
func (m Model) applyDragOutcome(out drag.Outcome) (tea.Model, tea.Cmd) {
	cmds := m.flushDragMoves()
	switch out.Kind {
	case drag.OutcomeClick:
		m.selectCard(out.Card.ID)
	case drag.OutcomeMoved:
		m.selectCard(out.Card.ID)
		m.status = "moved " + out.Card.Title + " to " + m.columnTitle(out.ColumnID)
		if out.FlashColumnID != "" {
			if cmd := m.startFlash(out.FlashColumnID); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case drag.OutcomeRejected:
		m.status = "move rejected: " + errorStatus(out.Err)
	case drag.OutcomeCancelled:
		m.status = "drag cancelled"
	case drag.OutcomeNoop:
		if out.Protocol == drag.ProtocolNative {
			m.status = "card stayed in " + m.columnTitle(out.Card.ColumnID)
		}
	case drag.OutcomeMoveRequested:
		m.selectCard(out.Card.ID)
		m.openMovePicker(out.Card)
	case drag.OutcomeTap:
		m.selectCard(out.Card.ID)
		m.openCardActions(out.Card)
	}
	return m, tea.Batch(cmds...)
}

// flushDragMoves applies accepted gesture moves locally and queues the
// matching service calls.
func (m *Model) flushDragMoves() []tea.Cmd {
	moves := m.bridge.drain()
	if len(moves) == 0 {
		return nil
	}
	m.state.Board = m.bridge.board
	m.applyFilter()
	cmds := make([]tea.Cmd, 0, len(moves))
	for _, mv := range moves {
		cmds = append(cmds, m.moveCardCmd(mv.cardID, mv.columnID, ""))
	}
	return cmds
}

// startFlash highlights columnID for the configured duration.
func (m *Model) startFlash(columnID string) tea.Cmd {
	if m.dragOpts.Flash <= 0 {
		return nil
	}
	m.flashSeq++
	m.flashColumn = columnID
	seq := m.flashSeq
	return tea.Tick(m.dragOpts.Flash, func(time.Time) tea.Msg {
		return flashDoneMsg{seq: seq}
	})
}

// applyFilter recomputes the visible board and keeps the selection in range.
func (m *Model) applyFilter() {
	m.view = m.state.Board.Filter(m.filter)
	m.clampSelection()
}

// clampSelection keeps selection indices inside the visible board.
func (m *Model) clampSelection() {
	if len(m.view.Columns) == 0 {
		m.selectedColumn = 0
		m.selectedCard = 0
		m.columnOffset = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(m.view.Columns)-1)
	cards := m.view.Columns[m.selectedColumn].Cards
	m.selectedCard = clamp(m.selectedCard, 0, max(0, len(cards)-1))
	m.ensureColumnVisible()
}

// moveSelection shifts the focused column and card.
func (m *Model) moveSelection(dCol, dCard int) {
	if len(m.view.Columns) == 0 {
		return
	}
	if dCol != 0 {
		m.selectedColumn = clamp(m.selectedColumn+dCol, 0, len(m.view.Columns)-1)
		m.selectedCard = 0
	}
	m.selectedCard += dCard
	m.clampSelection()
}

// ensureColumnVisible scrolls horizontally so the focused column renders.
func (m *Model) ensureColumnVisible() {
	visible := m.visibleColumnCount()
	if visible <= 0 {
		m.columnOffset = 0
		return
	}
	if m.selectedColumn < m.columnOffset {
		m.columnOffset = m.selectedColumn
	}
	if m.selectedColumn >= m.columnOffset+visible {
		m.columnOffset = m.selectedColumn - visible + 1
	}
	m.columnOffset = clamp(m.columnOffset, 0, max(0, len(m.view.Columns)-visible))
}

// selectCard focuses cardID when it is visible.
func (m *Model) selectCard(cardID string) {
	for ci, col := range m.view.Columns {
		if idx := col.CardIndex(cardID); idx >= 0 {
			m.selectedColumn = ci
			m.selectedCard = idx
			m.ensureColumnVisible()
			return
		}
	}
}

// currentColumn returns the focused column.
func (m Model) currentColumn() (domain.Column, bool) {
	if m.selectedColumn < 0 || m.selectedColumn >= len(m.view.Columns) {
		return domain.Column{}, false
	}
	return m.view.Columns[m.selectedColumn], true
}

// currentCard returns the focused card.
func (m Model) currentCard() (domain.Card, bool) {
	col, ok := m.currentColumn()
	if !ok || m.selectedCard < 0 || m.selectedCard >= len(col.Cards) {
		return domain.Card{}, false
	}
	return col.Cards[m.selectedCard], true
}

// viewColumnIndex returns the visible index of columnID or -1.
func (m Model) viewColumnIndex(columnID string) int {
	for i, col := range m.view.Columns {
		if col.ID == columnID {
			return i
		}
	}
	return -1
}

// columnTitle returns the display title for columnID.
func (m Model) columnTitle(columnID string) string {
	if col, ok := m.state.Board.Column(columnID); ok {
		return col.Title
	}
	return columnID
}

// cyclePriorityFilter advances the priority filter.
func (m *Model) cyclePriorityFilter() {
	idx := 0
	for i, p := range priorityFilters {
		if p == m.filter.Priority {
			idx = i
			break
		}
	}
	m.filter.Priority = priorityFilters[(idx+1)%len(priorityFilters)]
	m.applyFilter()
	if m.filter.Priority == domain.PriorityNone {
		m.status = "priority: all"
		return
	}
	m.status = "priority: " + string(m.filter.Priority)
}

// copyCard writes the card text to the clipboard.
func (m *Model) copyCard(card domain.Card) {
	if err := m.copyText(cardClipboardText(card)); err != nil {
		m.status = "copy failed: " + err.Error()
		m.logger.Warn("clipboard write failed", "err", err)
		return
	}
	m.status = "copied " + card.Title
}

// addCardCmd creates a card.
func (m Model) addCardCmd(in app.CreateCardInput) tea.Cmd {
	return func() tea.Msg {
		card, err := m.svc.AddCard(context.Background(), in)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "added " + card.Title, reload: true, focusCardID: card.ID}
	}
}

// editCardCmd updates a card.
func (m Model) editCardCmd(in app.UpdateCardInput) tea.Cmd {
	return func() tea.Msg {
		card, err := m.svc.EditCard(context.Background(), in)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "updated " + card.Title, reload: true, focusCardID: card.ID}
	}
}

// moveCardCmd moves a card between columns.
func (m Model) moveCardCmd(cardID, columnID, status string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.MoveCard(context.Background(), cardID, columnID); err != nil {
			return actionMsg{err: err, reload: true}
		}
		return actionMsg{status: status, reload: true, focusCardID: cardID}
	}
}

// toggleCompleteCmd flips a card's completed flag.
func (m Model) toggleCompleteCmd(card domain.Card) tea.Cmd {
	return func() tea.Msg {
		updated, err := m.svc.ToggleComplete(context.Background(), card.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		status := "reopened " + updated.Title
		if updated.Completed {
			status = "completed " + updated.Title
		}
		return actionMsg{status: status, reload: true}
	}
}

// duplicateCardCmd copies a card into its own column.
func (m Model) duplicateCardCmd(card domain.Card) tea.Cmd {
	return func() tea.Msg {
		dup, err := m.svc.DuplicateCard(context.Background(), card.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "duplicated " + card.Title, reload: true, focusCardID: dup.ID}
	}
}

// removeCardCmd deletes a card.
func (m Model) removeCardCmd(card domain.Card) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.RemoveCard(context.Background(), card.ColumnID, card.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "deleted " + card.Title, reload: true}
	}
}

// addColumnCmd appends a column.
func (m Model) addColumnCmd(title, color string) tea.Cmd {
	return func() tea.Msg {
		col, err := m.svc.AddColumn(context.Background(), title, color)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "added list " + col.Title, reload: true}
	}
}

// removeColumnCmd deletes a column and its cards.
func (m Model) removeColumnCmd(columnID, title string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.RemoveColumn(context.Background(), columnID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "deleted list " + title, reload: true}
	}
}

// clearCardsCmd empties every column.
func (m Model) clearCardsCmd() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.ClearCards(context.Background()); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "cleared all cards", reload: true}
	}
}

// renameBoardCmd sets the board name.
func (m Model) renameBoardCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.RenameBoard(context.Background(), name); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "board renamed", reload: true}
	}
}

// updateProfileCmd sets the profile name.
func (m Model) updateProfileCmd(name string) tea.Cmd {
	return func() tea.Msg {
		profile, err := m.svc.UpdateProfile(context.Background(), name)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "profile saved for " + profile.Name, reload: true}
	}
}

// errorStatus turns a service error into a status hint.
func errorStatus(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrInvalidTitle):
		return "title is required"
	case errors.Is(err, domain.ErrInvalidName):
		return "name is required"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "invalid priority"
	case errors.Is(err, domain.ErrInvalidDueDate):
		return "due date must be YYYY-MM-DD"
	case errors.Is(err, app.ErrDuplicateColumn):
		return "a list with that name already exists"
	case errors.Is(err, app.ErrNotFound):
		return "not found"
	default:
		return "error: " + err.Error()
	}
}

// themeLabel names the active theme.
func themeLabel(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}

// priorityLabel names a priority for display.
func priorityLabel(p domain.Priority) string {
	if p == domain.PriorityNone {
		return "none"
	}
	return string(p)
}

// newModalInput constructs one modal text input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// clamp bounds v to [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}

// firstLine returns the first non-blank line of s.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// pluralize formats a count with a noun.
func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
