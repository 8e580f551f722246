package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	charmLog "github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/evanschultz/tavla/internal/app"
	"github.com/evanschultz/tavla/internal/domain"
	"github.com/evanschultz/tavla/internal/drag"
)

var testNow = time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)

type memRepo struct {
	state *app.BoardState
}

func (r *memRepo) LoadState(context.Context) (app.BoardState, error) {
	if r.state == nil {
		return app.BoardState{}, app.ErrNotFound
	}
	return *r.state, nil
}

func (r *memRepo) SaveState(_ context.Context, state app.BoardState) error {
	r.state = &state
	return nil
}

type clipboardRecorder struct {
	texts []string
	err   error
}

func (c *clipboardRecorder) write(text string) error {
	if c.err != nil {
		return c.err
	}
	c.texts = append(c.texts, text)
	return nil
}

func newTestService(t *testing.T, cfg app.ServiceConfig) *app.Service {
	t.Helper()
	n := 0
	idGen := func() string {
		n++
		return fmt.Sprintf("card-%d", n)
	}
	return app.NewService(&memRepo{}, idGen, func() time.Time { return testNow }, cfg)
}

func addCard(t *testing.T, svc *app.Service, columnID, title string) domain.Card {
	t.Helper()
	card, err := svc.AddCard(context.Background(), app.CreateCardInput{ColumnID: columnID, Title: title})
	if err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	return card
}

func newTestModel(t *testing.T, svc Service, opts ...Option) Model {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return testNow }),
		WithClipboard(func(string) error { return nil }),
		WithDragOptions(DragOptions{PressThreshold: 2, SwipeThreshold: 3, GhostOffsetX: -2, GhostOffsetY: -1, Flash: time.Millisecond}),
	}
	return loadReadyModel(t, NewModel(svc, append(base, opts...)...))
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

// press applies msg and drops the returned command. Focus and blink commands
// are never needed by these tests.
func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		out, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		m = out
	}
	return m
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 32; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		updated, more := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		queue = append(queue, more)
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, keyRune(r))
	}
	return m
}

func cardPoint(t *testing.T, m Model, cardID string) drag.Point {
	t.Helper()
	layout := m.layoutBoard()
	for _, col := range layout.columns {
		for _, slot := range col.cards {
			if m.view.Columns[col.index].Cards[slot.index].ID == cardID {
				return drag.Point{X: slot.rect.Left + 4, Y: slot.rect.Top}
			}
		}
	}
	t.Fatalf("card %q not rendered", cardID)
	return drag.Point{}
}

func columnPoint(t *testing.T, m Model, columnID string) drag.Point {
	t.Helper()
	for _, col := range m.layoutBoard().columns {
		if col.id == columnID {
			return drag.Point{X: (col.rect.Left + col.rect.Right) / 2, Y: col.rect.Bottom - 1}
		}
	}
	t.Fatalf("column %q not rendered", columnID)
	return drag.Point{}
}

func cardColumn(t *testing.T, svc *app.Service, cardID string) string {
	t.Helper()
	board, err := svc.Board(context.Background())
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	card, ok := board.FindCard(cardID)
	if !ok {
		t.Fatalf("card %q missing", cardID)
	}
	return card.ColumnID
}

func TestModelLoadAndNavigation(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	addCard(t, svc, "todo", "One")
	addCard(t, svc, "todo", "Two")
	m := newTestModel(t, svc)

	if !m.ready || len(m.view.Columns) != 3 || m.view.CardCount() != 2 {
		t.Fatalf("unexpected loaded model: ready=%v columns=%d", m.ready, len(m.view.Columns))
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.selectedColumn != 1 {
		t.Fatalf("expected selectedColumn=1, got %d", m.selectedColumn)
	}
	m = press(t, m, keyRune('h'), tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.selectedColumn != 0 || m.selectedCard != 1 {
		t.Fatalf("expected card 1 of column 0, got %d/%d", m.selectedColumn, m.selectedCard)
	}
	m = press(t, m, keyRune('k'))
	if m.selectedCard != 0 {
		t.Fatalf("expected selectedCard=0, got %d", m.selectedCard)
	}
}

func TestModelLayoutMatchesRenderedColumns(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	addCard(t, svc, "todo", "Ship it")
	m := newTestModel(t, svc)

	layout := m.layoutBoard()
	if len(layout.columns) != 3 || len(layout.blocks) != 5 {
		t.Fatalf("expected 3 columns with spacers, got %d/%d", len(layout.columns), len(layout.blocks))
	}
	prev := -1
	for _, col := range layout.columns {
		if col.rect.Left <= prev || col.rect.Top != layout.top {
			t.Fatalf("unexpected rect %#v after %d", col.rect, prev)
		}
		prev = col.rect.Right
	}
	if len(m.bridge.ColumnRects()) != 3 {
		t.Fatalf("expected published rects, got %#v", m.bridge.ColumnRects())
	}
	text := ansi.Strip(strings.Join(layout.blocks, "\n"))
	for _, want := range []string{"To Do", "In Progress", "Done", "Ship it"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in rendered board", want)
		}
	}
	hit, ok := layout.hit(cardPoint(t, m, "card-1"))
	if !ok || hit.column != 0 || hit.card != 0 {
		t.Fatalf("unexpected hit %#v ok=%v", hit, ok)
	}
}

func TestModelPointerDragMovesCard(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	start := cardPoint(t, m, card.ID)
	m = press(t, m, tea.MouseClickMsg{X: start.X, Y: start.Y, Button: tea.MouseLeft})
	if !m.drag.Listening() || m.drag.Session().Phase != drag.PhasePressed {
		t.Fatalf("expected pressed session, got %#v", m.drag.Session())
	}
	m = press(t, m, tea.MouseMotionMsg{X: start.X + 1, Y: start.Y + 1, Button: tea.MouseLeft})
	if m.drag.Session().Phase != drag.PhasePressed {
		t.Fatal("expected sub-threshold motion to be ignored")
	}

	target := columnPoint(t, m, "done")
	m = press(t, m, tea.MouseMotionMsg{X: target.X, Y: target.Y, Button: tea.MouseLeft})
	dv := m.drag.View()
	if dv.Phase != drag.PhaseDragging || dv.DropTarget != "done" || !dv.GhostVisible || dv.Dimmed != card.ID {
		t.Fatalf("unexpected drag view %#v", dv)
	}

	updated, cmd := m.Update(tea.MouseReleaseMsg{X: target.X, Y: target.Y, Button: tea.MouseLeft})
	m = updated.(Model)
	if m.drag.Active() || m.drag.Listening() {
		t.Fatal("expected session cleared after release")
	}
	if got, _ := m.state.Board.FindCard(card.ID); got.ColumnID != "done" {
		t.Fatalf("expected optimistic move to done, got %q", got.ColumnID)
	}
	if m.flashColumn != "done" || !strings.Contains(m.status, "moved Ship to Done") {
		t.Fatalf("expected flash and status, got %q / %q", m.flashColumn, m.status)
	}

	m = applyCmd(t, m, cmd)
	if got := cardColumn(t, svc, card.ID); got != "done" {
		t.Fatalf("expected service move to done, got %q", got)
	}
	if m.flashColumn != "" {
		t.Fatalf("expected flash to expire, got %q", m.flashColumn)
	}
}

func TestModelPointerClickSelectsWithoutMoving(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	addCard(t, svc, "todo", "One")
	second := addCard(t, svc, "todo", "Two")
	m := newTestModel(t, svc)

	p := cardPoint(t, m, second.ID)
	m = press(t, m,
		tea.MouseClickMsg{X: p.X, Y: p.Y, Button: tea.MouseLeft},
		tea.MouseReleaseMsg{X: p.X, Y: p.Y, Button: tea.MouseLeft},
	)
	if m.drag.Active() || m.drag.Listening() {
		t.Fatal("expected idle controller after click")
	}
	if card, ok := m.currentCard(); !ok || card.ID != second.ID {
		t.Fatalf("expected clicked card selected, got %#v", card)
	}
	if got := cardColumn(t, svc, second.ID); got != "todo" {
		t.Fatalf("click moved card to %q", got)
	}
}

func TestModelPointerReleaseOffBoardIsNoop(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	p := cardPoint(t, m, card.ID)
	m = press(t, m,
		tea.MouseClickMsg{X: p.X, Y: p.Y, Button: tea.MouseLeft},
		tea.MouseMotionMsg{X: p.X, Y: 0, Button: tea.MouseLeft},
		tea.MouseReleaseMsg{X: p.X, Y: 0, Button: tea.MouseLeft},
	)
	if m.drag.Active() || m.flashColumn != "" {
		t.Fatalf("expected no-op release, flash=%q", m.flashColumn)
	}
	if got, _ := m.state.Board.FindCard(card.ID); got.ColumnID != "todo" {
		t.Fatalf("expected card to stay, got %q", got.ColumnID)
	}
}

func TestModelPointerDragRejectedMove(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)
	m.bridge.board = domain.NewBoard(m.state.Board.Columns[1], m.state.Board.Columns[2])

	p := cardPoint(t, m, card.ID)
	target := columnPoint(t, m, "inprogress")
	m = press(t, m,
		tea.MouseClickMsg{X: p.X, Y: p.Y, Button: tea.MouseLeft},
		tea.MouseMotionMsg{X: target.X, Y: target.Y, Button: tea.MouseLeft},
		tea.MouseReleaseMsg{X: target.X, Y: target.Y, Button: tea.MouseLeft},
	)
	if !strings.HasPrefix(m.status, "move rejected") || m.flashColumn != "" {
		t.Fatalf("expected rejected status without flash, got %q / %q", m.status, m.flashColumn)
	}
	if got := cardColumn(t, svc, card.ID); got != "todo" {
		t.Fatalf("rejected move reached service: %q", got)
	}
}

func TestModelTouchTapOpensActions(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	p := cardPoint(t, m, card.ID)
	m = press(t, m,
		tea.MouseClickMsg{X: p.X, Y: p.Y, Button: tea.MouseRight},
		tea.MouseReleaseMsg{X: p.X, Y: p.Y, Button: tea.MouseRight},
	)
	if m.mode != modeCardActions || m.menuCard.ID != card.ID {
		t.Fatalf("expected card actions for %q, got mode %d", card.ID, m.mode)
	}
	if m.drag.Listening() {
		t.Fatal("expected listeners detached after tap")
	}
}

func TestModelTouchSwipeOpensMovePicker(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	p := cardPoint(t, m, card.ID)
	m = press(t, m,
		tea.MouseClickMsg{X: p.X, Y: p.Y, Button: tea.MouseRight},
		tea.MouseMotionMsg{X: p.X, Y: p.Y + 6, Button: tea.MouseRight},
	)
	if m.mode != modeNone || !m.drag.Listening() {
		t.Fatal("expected vertical touch motion to keep the gesture open")
	}
	m = press(t, m, tea.MouseMotionMsg{X: p.X + 8, Y: p.Y, Button: tea.MouseRight})
	if m.mode != modeMovePicker || m.drag.Listening() {
		t.Fatalf("expected move picker with detached listeners, mode=%d", m.mode)
	}
	m = press(t, m, tea.MouseMotionMsg{X: p.X + 20, Y: p.Y, Button: tea.MouseRight})
	if m.mode != modeMovePicker {
		t.Fatal("expected swipe to fire once")
	}

	if m.state.Board.Columns[m.pickerCursor].ID != "inprogress" {
		t.Fatalf("expected cursor on first other column, got %d", m.pickerCursor)
	}
	m = applyMsg(t, m, keyRune('3'))
	if got := cardColumn(t, svc, card.ID); got != "done" {
		t.Fatalf("expected picker move to done, got %q", got)
	}
	if m.mode != modeNone {
		t.Fatalf("expected picker closed, mode=%d", m.mode)
	}
}

func TestModelMovePickerRejectsCurrentColumn(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	m = press(t, m, keyRune('m'), keyRune('1'))
	if m.mode != modeMovePicker || !strings.Contains(m.status, "already in To Do") {
		t.Fatalf("expected picker to stay open, mode=%d status=%q", m.mode, m.status)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatal("expected esc to close picker")
	}
}

func TestModelKeyboardGrabDrop(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if m.drag.Session().Protocol != drag.ProtocolNative || m.drag.Listening() {
		t.Fatalf("expected native session without listeners, got %#v", m.drag.Session())
	}
	m = press(t, m, keyRune('l'), keyRune('l'))
	if got := m.drag.View().DropTarget; got != "done" {
		t.Fatalf("expected drop target done, got %q", got)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.drag.Active() {
		t.Fatal("expected session cleared after drop")
	}
	if got := cardColumn(t, svc, card.ID); got != "done" {
		t.Fatalf("expected keyboard drop to done, got %q", got)
	}
	if m.flashColumn != "" {
		t.Fatalf("keyboard drop should not flash, got %q", m.flashColumn)
	}
}

func TestDragOptionsThresholdFallback(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	m := newTestModel(t, svc, WithDragOptions(DragOptions{PressThreshold: 0, SwipeThreshold: 0, GhostOffsetX: -4}))
	cfg := m.drag.Config()
	if cfg.PressThreshold != 2 || cfg.SwipeThreshold != 3 {
		t.Fatalf("expected cell-scale fallback thresholds 2/3, got %d/%d", cfg.PressThreshold, cfg.SwipeThreshold)
	}
	if cfg.GhostOffset != (drag.Point{X: -4}) {
		t.Fatalf("expected ghost offset to pass through, got %#v", cfg.GhostOffset)
	}

	m = newTestModel(t, svc, WithDragOptions(DragOptions{PressThreshold: 1, SwipeThreshold: 6}))
	if cfg := m.drag.Config(); cfg.PressThreshold != 1 || cfg.SwipeThreshold != 6 {
		t.Fatalf("expected configured thresholds 1/6, got %d/%d", cfg.PressThreshold, cfg.SwipeThreshold)
	}
}

func newBufferLogger(buf *strings.Builder, prefix string) *charmLog.Logger {
	return charmLog.NewWithOptions(buf, charmLog.Options{
		Level:     charmLog.DebugLevel,
		Prefix:    prefix,
		Formatter: charmLog.LogfmtFormatter,
	})
}

func TestModelDragLoggerPrefix(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	addCard(t, svc, "todo", "Ship")

	var tuiLog, dragLog strings.Builder
	m := newTestModel(t, svc,
		WithLogger(newBufferLogger(&tuiLog, "tui")),
		WithDragLogger(newBufferLogger(&dragLog, "drag")),
	)
	press(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if !strings.Contains(dragLog.String(), "drag session begin") || !strings.Contains(dragLog.String(), "prefix=drag") {
		t.Fatalf("expected drag transitions in drag log, got %q", dragLog.String())
	}
	if strings.Contains(tuiLog.String(), "drag session begin") {
		t.Fatalf("drag transitions leaked into tui log %q", tuiLog.String())
	}

	var shared strings.Builder
	m = newTestModel(t, svc, WithLogger(newBufferLogger(&shared, "tui")))
	press(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if !strings.Contains(shared.String(), "prefix=drag") {
		t.Fatalf("expected derived drag prefix, got %q", shared.String())
	}
}

func TestModelKeyboardGrabCancel(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}, keyRune('l'), tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.drag.Active() || m.status != "drag cancelled" {
		t.Fatalf("expected cancelled grab, status=%q", m.status)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}, keyRune('l'), keyRune('h'), tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.drag.Active() {
		t.Fatal("expected own-column drop to end the session")
	}
	if got := cardColumn(t, svc, card.ID); got != "todo" {
		t.Fatalf("expected card to stay, got %q", got)
	}
}

func TestModelBlurAndModalCancelDrag(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	p := cardPoint(t, m, card.ID)
	m = press(t, m, tea.MouseClickMsg{X: p.X, Y: p.Y, Button: tea.MouseLeft}, tea.BlurMsg{})
	if m.drag.Active() || m.drag.Listening() {
		t.Fatal("expected blur to cancel the gesture")
	}
	m = press(t, m, tea.MouseReleaseMsg{X: p.X, Y: p.Y, Button: tea.MouseLeft})
	if m.mode != modeNone || m.drag.Active() {
		t.Fatal("expected stray release to be ignored")
	}

	m = press(t, m, tea.MouseClickMsg{X: p.X, Y: p.Y, Button: tea.MouseRight}, keyRune('/'))
	if m.mode != modeSearch || m.drag.Listening() {
		t.Fatal("expected modal to detach touch listeners")
	}
}

func TestModelAddCardForm(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	m := newTestModel(t, svc)

	m = press(t, m, keyRune('l'), keyRune('n'))
	if m.mode != modeAddCard || m.formColumnID != "inprogress" {
		t.Fatalf("expected add form for inprogress, mode=%d column=%q", m.mode, m.formColumnID)
	}
	m = typeText(t, m, "Ship release")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeText(t, m, "notes")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyTab}, keyRune('l'), keyRune('l'), keyRune('l'), tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeText(t, m, "2026-03-01")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.mode != modeNone {
		t.Fatalf("expected form closed, mode=%d", m.mode)
	}
	card, ok := m.currentCard()
	if !ok {
		t.Fatal("expected new card focused")
	}
	if card.Title != "Ship release" || card.Description != "notes" || card.Priority != domain.PriorityHigh || card.ColumnID != "inprogress" {
		t.Fatalf("unexpected card %#v", card)
	}
	if domain.FormatDueDate(card.DueDate) != "2026-03-01" {
		t.Fatalf("unexpected due %v", card.DueDate)
	}
}

func TestModelCardFormValidation(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	m := newTestModel(t, svc)

	m = press(t, m, keyRune('n'), tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddCard || m.status != "title is required" {
		t.Fatalf("expected blank title rejected, mode=%d status=%q", m.mode, m.status)
	}
	m = typeText(t, m, "Ship")
	m.formInputs[cardFieldDue].SetValue("03/01/2026")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddCard || m.status != "due date must be YYYY-MM-DD" || m.formFocus != cardFieldDue {
		t.Fatalf("expected bad due rejected, mode=%d status=%q focus=%d", m.mode, m.status, m.formFocus)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone || m.view.CardCount() != 0 {
		t.Fatal("expected cancel without changes")
	}
}

func TestModelEditCardForm(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	m = press(t, m, keyRune('e'))
	if m.mode != modeEditCard || m.formInputs[cardFieldTitle].Value() != "Ship" {
		t.Fatalf("expected prefilled edit form, mode=%d", m.mode)
	}
	m.formInputs[cardFieldTitle].SetValue("Ship v2")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	card, _ := m.currentCard()
	if card.Title != "Ship v2" || card.ColumnID != "todo" {
		t.Fatalf("unexpected edited card %#v", card)
	}
}

func TestModelCardActionsMenu(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeCardActions {
		t.Fatalf("expected actions menu, mode=%d", m.mode)
	}
	overlay := ansi.Strip(m.renderModeOverlay(80))
	if !strings.Contains(overlay, "Mark complete") || !strings.Contains(overlay, "Duplicate") {
		t.Fatalf("unexpected menu %q", overlay)
	}
	m = press(t, m, keyRune('j'), keyRune('j'), keyRune('j'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	got, _ := m.state.Board.FindCard(card.ID)
	if !got.Completed {
		t.Fatal("expected card completed")
	}

	m = applyMsg(t, m, keyRune('y'))
	if m.state.Board.CardCount() != 2 {
		t.Fatalf("expected duplicate, got %d cards", m.state.Board.CardCount())
	}
	dup, _ := m.currentCard()
	if dup.Title != "Ship (Copy)" || dup.ID == card.ID {
		t.Fatalf("expected focused duplicate, got %#v", dup)
	}

	m = applyMsg(t, m, keyRune('d'))
	if m.state.Board.CardCount() != 1 {
		t.Fatalf("expected delete, got %d cards", m.state.Board.CardCount())
	}
}

func TestModelCardInfo(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.AddCard(context.Background(), app.CreateCardInput{
		ColumnID:    "todo",
		Title:       "Ship",
		Description: "plain notes",
		DueDate:     &due,
	}); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	m := newTestModel(t, svc, WithMarkdown(false))

	m = press(t, m, keyRune('i'))
	if m.mode != modeCardInfo {
		t.Fatalf("expected info mode, got %d", m.mode)
	}
	info := ansi.Strip(m.renderModeOverlay(80))
	for _, want := range []string{"Ship", "To Do", "2026-02-01", "overdue", "plain notes"} {
		if !strings.Contains(info, want) {
			t.Fatalf("expected %q in info %q", want, info)
		}
	}
	m = press(t, m, keyRune('e'))
	if m.mode != modeEditCard {
		t.Fatalf("expected edit from info, got %d", m.mode)
	}
}

func TestModelSearchAndPriorityFilter(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	ctx := context.Background()
	if _, err := svc.AddCard(ctx, app.CreateCardInput{ColumnID: "todo", Title: "Ship release", Priority: domain.PriorityHigh}); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	addCard(t, svc, "done", "Write notes")
	m := newTestModel(t, svc)

	m = press(t, m, keyRune('/'))
	m = typeText(t, m, "SHIP")
	if m.view.CardCount() != 1 || len(m.view.Columns) != 3 {
		t.Fatalf("expected live filter to keep columns and one card, got %d", m.view.CardCount())
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone || m.filter.Query != "SHIP" {
		t.Fatalf("expected query kept, got %q", m.filter.Query)
	}
	if header := ansi.Strip(m.renderHeader()); !strings.Contains(header, "showing 1 of 2") {
		t.Fatalf("unexpected header %q", header)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if !m.filter.IsIdentity() || m.view.CardCount() != 2 {
		t.Fatal("expected esc to clear the filter")
	}

	m = press(t, m, keyRune('f'))
	if m.filter.Priority != domain.PriorityHigh || m.view.CardCount() != 1 {
		t.Fatalf("expected high filter, got %q with %d cards", m.filter.Priority, m.view.CardCount())
	}
	m = press(t, m, keyRune('f'), keyRune('f'), keyRune('f'))
	if m.filter.Priority != domain.PriorityNone || m.view.CardCount() != 2 {
		t.Fatalf("expected filter cycle back to all, got %q", m.filter.Priority)
	}

	m = press(t, m, keyRune('/'))
	m = typeText(t, m, "zzz")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.filter.Query != "" || m.view.CardCount() != 2 {
		t.Fatal("expected esc in search to clear the query")
	}
}

func TestModelAddAndDeleteColumn(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	addCard(t, svc, "done", "Old")
	m := newTestModel(t, svc)

	m = press(t, m, keyRune('C'))
	m = typeText(t, m, "Code Review")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyTab}, keyRune('l'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	col, ok := m.state.Board.Column("codereview")
	if !ok || col.Color != "#f59e0b" || col.Title != "Code Review" {
		t.Fatalf("unexpected new column %#v ok=%v", col, ok)
	}

	m = press(t, m, keyRune('C'))
	m = typeText(t, m, "code review")
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddColumn || !strings.Contains(m.status, "already exists") {
		t.Fatalf("expected collision rejected, status=%q", m.status)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})

	m = press(t, m, keyRune('l'), keyRune('l'), keyRune('X'))
	if m.mode != modeConfirm || m.confirm.columnID != "done" {
		t.Fatalf("expected confirm for done, got %#v", m.confirm)
	}
	m = applyMsg(t, m, keyRune('y'))
	if m.state.Board.HasColumn("done") || m.state.Board.CardCount() != 0 {
		t.Fatalf("expected done removed with its card, got %#v", m.state.Board.Columns)
	}
}

func TestModelDeleteOnlyColumnRefused(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{Columns: []app.ColumnTemplate{{Title: "Only"}}})
	m := newTestModel(t, svc)

	m = press(t, m, keyRune('X'))
	if m.mode != modeNone || m.status != "cannot delete the only list" {
		t.Fatalf("expected refusal, mode=%d status=%q", m.mode, m.status)
	}
}

func TestModelCopyCard(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	if _, err := svc.AddCard(context.Background(), app.CreateCardInput{ColumnID: "todo", Title: "Ship", Description: "notes", Priority: domain.PriorityLow}); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	rec := &clipboardRecorder{}
	m := newTestModel(t, svc, WithClipboard(rec.write))

	m = press(t, m, keyRune('c'))
	if len(rec.texts) != 1 || rec.texts[0] != "Ship\n\nnotes\n\npriority: low" {
		t.Fatalf("unexpected clipboard %#v", rec.texts)
	}
	rec.err = errors.New("no display")
	m = press(t, m, keyRune('c'))
	if !strings.HasPrefix(m.status, "copy failed") {
		t.Fatalf("expected copy failure status, got %q", m.status)
	}
}

func TestModelRenameBoardAndProfile(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	m = press(t, m, keyRune('B'))
	if m.mode != modeRenameBoard || m.nameInput.Value() != app.DefaultBoardName {
		t.Fatalf("expected prefilled rename, got %q", m.nameInput.Value())
	}
	m.nameInput.SetValue("Launch")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.Name != "Launch" {
		t.Fatalf("expected renamed board, got %q", m.state.Name)
	}

	m = press(t, m, keyRune('P'))
	overlay := ansi.Strip(m.renderModeOverlay(80))
	if !strings.Contains(overlay, "1 total cards") || !strings.Contains(overlay, domain.ProfileRole) {
		t.Fatalf("unexpected profile panel %q", overlay)
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeEditProfile {
		t.Fatalf("expected profile edit, got %d", m.mode)
	}
	m.nameInput.SetValue("grace")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.state.Profile.Name != "grace" {
		t.Fatalf("expected profile saved, got %q", m.state.Profile.Name)
	}

	m = press(t, m, keyRune('P'), keyRune('j'), tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeConfirm {
		t.Fatalf("expected clear confirm, got %d", m.mode)
	}
	m = applyMsg(t, m, keyRune('y'))
	if m.state.Board.CardCount() != 0 || len(m.state.Board.Columns) != 3 {
		t.Fatal("expected cards cleared and columns kept")
	}
}

func TestModelThemeToggleAndHelp(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	m := newTestModel(t, svc)

	dark := m.palette
	m = press(t, m, keyRune('t'))
	if m.dark || m.palette == dark || m.status != "light theme" {
		t.Fatalf("expected light theme, status=%q", m.status)
	}
	m = press(t, m, keyRune('?'))
	if !m.help.ShowAll || !strings.Contains(ansi.Strip(m.renderHelpOverlay(100)), "grab card") {
		t.Fatal("expected help overlay")
	}
	m = press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.help.ShowAll {
		t.Fatal("expected esc to close help")
	}
}

func TestModelViewStates(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	m := NewModel(svc)
	v := m.View()
	if v.Content == nil || v.MouseMode != tea.MouseModeCellMotion || !v.AltScreen {
		t.Fatal("expected loading view with mouse enabled")
	}

	m = newTestModel(t, svc)
	if v = m.View(); v.Content == nil {
		t.Fatal("expected board view content")
	}
	m.err = context.DeadlineExceeded
	if v = m.View(); v.Content == nil {
		t.Fatal("expected error view content")
	}
}

func TestModelQuitCancelsDrag(t *testing.T) {
	svc := newTestService(t, app.ServiceConfig{})
	card := addCard(t, svc, "todo", "Ship")
	m := newTestModel(t, svc)

	p := cardPoint(t, m, card.ID)
	m = press(t, m, tea.MouseClickMsg{X: p.X, Y: p.Y, Button: tea.MouseLeft})
	updated, cmd := m.Update(keyRune('q'))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
	if m.drag.Active() {
		t.Fatal("expected drag cancelled on quit")
	}
}

func TestErrorStatus(t *testing.T) {
	cases := map[error]string{
		domain.ErrInvalidTitle:                      "title is required",
		fmt.Errorf("x: %w", app.ErrDuplicateColumn): "a list with that name already exists",
		fmt.Errorf("x: %w", app.ErrNotFound):        "not found",
		errors.New("boom"):                          "error: boom",
	}
	for err, want := range cases {
		if got := errorStatus(err); got != want {
			t.Fatalf("errorStatus(%v) = %q, want %q", err, got, want)
		}
	}
}

func TestHelpers(t *testing.T) {
	if clamp(5, 0, 3) != 3 || clamp(-1, 0, 3) != 0 || clamp(1, 2, 0) != 2 {
		t.Fatal("unexpected clamp")
	}
	if truncate("abcdef", 4) != "abc…" || truncate("ab", 4) != "ab" || truncate("x", 0) != "" {
		t.Fatal("unexpected truncate")
	}
	if got := fitLines("a\nb\nc", 2); got != "a\n…" {
		t.Fatalf("unexpected fitLines %q", got)
	}
	if firstLine("\n  hello\nworld") != "hello" {
		t.Fatal("unexpected firstLine")
	}
	if pluralize(1, "card") != "1 card" || pluralize(2, "list") != "2 lists" {
		t.Fatal("unexpected pluralize")
	}
}
