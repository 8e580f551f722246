package tui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/evanschultz/tavla/internal/app"
	"github.com/evanschultz/tavla/internal/domain"
	"github.com/evanschultz/tavla/internal/drag"
)

// dragBridge is shared by every copy of the model. The controller reads
// column geometry from it and records accepted moves on it.
type dragBridge struct {
	board   domain.Board
	rects   []drag.ColumnRect
	pending []pendingMove
}

// pendingMove is a gesture move waiting to reach the service.
type pendingMove struct {
	cardID   string
	columnID string
}

// ColumnRects returns the columns measured by the last layout pass.
func (b *dragBridge) ColumnRects() []drag.ColumnRect {
	return b.rects
}

// move validates and records a move against the last loaded board.
func (b *dragBridge) move(cardID, columnID string) error {
	if _, ok := b.board.FindCard(cardID); !ok {
		return fmt.Errorf("card %q: %w", cardID, app.ErrNotFound)
	}
	if !b.board.HasColumn(columnID) {
		return fmt.Errorf("column %q: %w", columnID, app.ErrNotFound)
	}
	b.board = b.board.MoveCard(cardID, columnID)
	b.pending = append(b.pending, pendingMove{cardID: cardID, columnID: columnID})
	return nil
}

// drain returns and clears the recorded moves.
func (b *dragBridge) drain() []pendingMove {
	out := b.pending
	b.pending = nil
	return out
}

// syncLayout measures the board and publishes column rects to the bridge.
func (m *Model) syncLayout() boardLayout {
	layout := m.layoutBoard()
	m.bridge.rects = layout.columnRects()
	return layout
}

// handleMouseWheel moves the card selection.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.drag.Active() {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		m.moveSelection(0, -1)
	case tea.MouseWheelDown:
		m.moveSelection(0, 1)
	}
	return m, nil
}

// handleMouseClick starts a pointer drag on the left button and a touch
// gesture on the right button.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || !m.ready {
		return m, nil
	}
	p := drag.Point{X: msg.X, Y: msg.Y}
	layout := m.syncLayout()
	hit, ok := layout.hit(p)
	if !ok {
		return m, nil
	}
	if hit.column != m.selectedColumn {
		m.selectedCard = 0
	}
	m.selectedColumn = hit.column
	if hit.card < 0 {
		m.clampSelection()
		return m, nil
	}
	m.selectedCard = hit.card
	card := m.view.Columns[hit.column].Cards[hit.card]
	switch msg.Button {
	case tea.MouseLeft:
		m.drag.PointerDown(card, p)
	case tea.MouseRight:
		m.drag.TouchStart(card, p)
	}
	return m, nil
}

// handleMouseMotion feeds pointer and touch moves to the controller. Motion
// is ignored unless a gesture attached listeners.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if !m.drag.Listening() {
		return m, nil
	}
	p := drag.Point{X: msg.X, Y: msg.Y}
	m.syncLayout()
	switch m.drag.Session().Protocol {
	case drag.ProtocolPointer:
		m.drag.PointerMove(p)
		if s := m.drag.Session(); s.Phase == drag.PhaseDragging {
			m.status = "dragging " + s.Card.Title
			if s.DropTarget != "" {
				m.status += " → " + m.columnTitle(s.DropTarget)
			}
		}
		return m, nil
	case drag.ProtocolTouch:
		return m.applyDragOutcome(m.drag.TouchMove(p))
	}
	return m, nil
}

// handleMouseRelease resolves the active gesture.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.drag.Listening() {
		return m, nil
	}
	p := drag.Point{X: msg.X, Y: msg.Y}
	m.syncLayout()
	switch m.drag.Session().Protocol {
	case drag.ProtocolPointer:
		return m.applyDragOutcome(m.drag.PointerUp(p))
	case drag.ProtocolTouch:
		return m.applyDragOutcome(m.drag.TouchEnd())
	}
	return m, nil
}
