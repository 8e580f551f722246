package drag

import (
	"io"

	charmLog "github.com/charmbracelet/log"

	"github.com/evanschultz/tavla/internal/domain"
)

// MoveFunc applies a card move. It is the only effect a session produces.
type MoveFunc func(cardID, columnID string) error

// Config holds gesture thresholds in layout units.
type Config struct {
	// PressThreshold is the per-axis distance a press must travel before it
	// becomes a drag.
	PressThreshold int
	// SwipeThreshold is the horizontal distance that turns a touch into a
	// move request.
	SwipeThreshold int
	// GhostOffset positions the floating clone relative to the pointer.
	GhostOffset Point
}

// DefaultConfig returns pixel-scale defaults.
func DefaultConfig() Config {
	return Config{
		PressThreshold: 5,
		SwipeThreshold: 5,
		GhostOffset:    Point{X: -20, Y: -30},
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig overrides thresholds. Non-positive thresholds keep defaults.
func WithConfig(cfg Config) Option {
	return func(c *Controller) {
		if cfg.PressThreshold > 0 {
			c.cfg.PressThreshold = cfg.PressThreshold
		}
		if cfg.SwipeThreshold > 0 {
			c.cfg.SwipeThreshold = cfg.SwipeThreshold
		}
		c.cfg.GhostOffset = cfg.GhostOffset
	}
}

// WithLogger sets the debug logger for transitions.
func WithLogger(logger *charmLog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the single drag session shared by every input protocol.
// Starting any session discards whatever the previous one left behind, and
// every terminal transition detaches listeners and clears the session.
type Controller struct {
	cfg       Config
	layout    Layout
	move      MoveFunc
	logger    *charmLog.Logger
	session   Session
	listening bool
}

// NewController constructs a controller reading geometry from layout and
// applying moves through move.
func NewController(layout Layout, move MoveFunc, opts ...Option) *Controller {
	c := &Controller{
		cfg:    DefaultConfig(),
		layout: layout,
		move:   move,
		logger: charmLog.New(io.Discard),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	return c.session
}

// Active reports whether any protocol currently holds a card.
func (c *Controller) Active() bool {
	return c.session.Active()
}

// Listening reports whether global move/release listeners are attached.
func (c *Controller) Listening() bool {
	return c.listening
}

// View derives render state from the session.
func (c *Controller) View() View {
	s := c.session
	if !s.Active() {
		return View{}
	}
	v := View{
		Protocol:     s.Protocol,
		Phase:        s.Phase,
		CardID:       s.Card.ID,
		SourceColumn: s.Card.ColumnID,
		DropTarget:   s.DropTarget,
	}
	switch {
	case s.Protocol == ProtocolNative:
		v.Dimmed = s.Card.ID
	case s.Protocol == ProtocolPointer && s.Phase == PhaseDragging:
		v.Dimmed = s.Card.ID
		v.GhostVisible = true
		v.Ghost = s.Pointer.Add(c.cfg.GhostOffset)
		v.GhostTitle = s.Card.Title
	}
	return v
}

// Cancel ends any session without applying a move. Use it for teardown:
// focus loss, modal takeover, program exit.
func (c *Controller) Cancel() Outcome {
	if !c.session.Active() && !c.listening {
		return Outcome{}
	}
	out := Outcome{Kind: OutcomeCancelled, Protocol: c.session.Protocol, Card: c.session.Card}
	c.end("cancel")
	return out
}

// DragStart begins a native drag of card.
func (c *Controller) DragStart(card domain.Card) {
	c.begin(ProtocolNative, card, Point{}, PhaseDragging, false)
}

// DragOver marks columnID as the current drop target.
func (c *Controller) DragOver(columnID string) {
	if c.session.Protocol != ProtocolNative {
		return
	}
	c.session.DropTarget = columnID
}

// DragLeave clears the drop target.
func (c *Controller) DragLeave() {
	if c.session.Protocol != ProtocolNative {
		return
	}
	c.session.DropTarget = ""
}

// Drop resolves a native drag onto columnID. The session always ends.
func (c *Controller) Drop(columnID string) Outcome {
	if c.session.Protocol != ProtocolNative {
		return Outcome{}
	}
	card := c.session.Card
	c.end("drop")
	return c.resolve(ProtocolNative, card, columnID, false)
}

// DragEnd ends a native drag that was not dropped on a column.
func (c *Controller) DragEnd() Outcome {
	if c.session.Protocol != ProtocolNative {
		return Outcome{}
	}
	return c.Cancel()
}

// PointerDown records a primary press on card at p and attaches listeners.
func (c *Controller) PointerDown(card domain.Card, p Point) {
	c.begin(ProtocolPointer, card, p, PhasePressed, true)
}

// PointerMove tracks the pointer. Below the press threshold on both axes the
// move is ignored; past it the session drags and follows the column under p.
func (c *Controller) PointerMove(p Point) {
	if c.session.Protocol != ProtocolPointer || !c.listening {
		return
	}
	if c.session.Phase == PhasePressed {
		dx := abs(p.X - c.session.Origin.X)
		dy := abs(p.Y - c.session.Origin.Y)
		if dx < c.cfg.PressThreshold && dy < c.cfg.PressThreshold {
			return
		}
		c.session.Phase = PhaseDragging
		c.logger.Debug("drag threshold crossed", "card_id", c.session.Card.ID, "dx", dx, "dy", dy)
	}
	c.session.Pointer = p
	c.session.DropTarget = ""
	if col, ok := ColumnAt(c.layout, p); ok && col != c.session.Card.ColumnID {
		c.session.DropTarget = col
	}
}

// PointerUp releases the pointer at p and resolves the session.
func (c *Controller) PointerUp(p Point) Outcome {
	if c.session.Protocol != ProtocolPointer || !c.listening {
		return Outcome{}
	}
	card := c.session.Card
	phase := c.session.Phase
	c.end("release")
	if phase == PhasePressed {
		return Outcome{Kind: OutcomeClick, Protocol: ProtocolPointer, Card: card}
	}
	col, _ := ColumnAt(c.layout, p)
	return c.resolve(ProtocolPointer, card, col, true)
}

// TouchStart records the start of a touch on card.
func (c *Controller) TouchStart(card domain.Card, p Point) {
	c.begin(ProtocolTouch, card, p, PhaseTouchStarted, true)
}

// TouchMove marks the touch as moved. A horizontal swipe past the swipe
// threshold requests a move and detaches immediately, so it fires once.
func (c *Controller) TouchMove(p Point) Outcome {
	if c.session.Protocol != ProtocolTouch || !c.listening {
		return Outcome{}
	}
	c.session.Moved = true
	c.session.Pointer = p
	dx := abs(p.X - c.session.Origin.X)
	dy := abs(p.Y - c.session.Origin.Y)
	if dx <= c.cfg.SwipeThreshold || dx <= dy {
		return Outcome{}
	}
	card := c.session.Card
	c.session.Phase = PhaseMoveRequested
	c.end("swipe")
	return Outcome{Kind: OutcomeMoveRequested, Protocol: ProtocolTouch, Card: card}
}

// TouchEnd finishes a touch. A touch that never moved is a tap.
func (c *Controller) TouchEnd() Outcome {
	if c.session.Protocol != ProtocolTouch || !c.listening {
		return Outcome{}
	}
	card := c.session.Card
	moved := c.session.Moved
	c.session.Phase = PhaseTapResolved
	c.end("touch end")
	if moved {
		return Outcome{Kind: OutcomeNoop, Protocol: ProtocolTouch, Card: card}
	}
	return Outcome{Kind: OutcomeTap, Protocol: ProtocolTouch, Card: card}
}

// resolve applies the move for a finished drag. The session is already idle.
func (c *Controller) resolve(protocol Protocol, card domain.Card, columnID string, flash bool) Outcome {
	out := Outcome{Protocol: protocol, Card: card, ColumnID: columnID}
	if columnID == "" || columnID == card.ColumnID {
		out.Kind = OutcomeNoop
		return out
	}
	if c.move != nil {
		if err := c.move(card.ID, columnID); err != nil {
			out.Kind = OutcomeRejected
			out.Err = err
			c.logger.Debug("drag move rejected", "card_id", card.ID, "column_id", columnID, "err", err)
			return out
		}
	}
	out.Kind = OutcomeMoved
	if flash {
		out.FlashColumnID = columnID
	}
	c.logger.Debug("drag move applied", "protocol", protocol, "card_id", card.ID, "from", card.ColumnID, "to", columnID)
	return out
}

// begin resets residual state and opens a new session.
func (c *Controller) begin(protocol Protocol, card domain.Card, p Point, phase Phase, listen bool) {
	if c.session.Active() || c.listening {
		c.end("superseded")
	}
	c.session = Session{
		Protocol: protocol,
		Phase:    phase,
		Card:     card,
		Origin:   p,
		Pointer:  p,
	}
	c.listening = listen
	c.logger.Debug("drag session begin", "protocol", protocol, "card_id", card.ID, "column_id", card.ColumnID)
}

// end detaches listeners and clears every transient value.
func (c *Controller) end(reason string) {
	if c.session.Active() {
		c.logger.Debug("drag session end", "protocol", c.session.Protocol, "phase", c.session.Phase, "reason", reason)
	}
	c.session = Session{}
	c.listening = false
}
