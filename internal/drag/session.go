package drag

import "github.com/evanschultz/tavla/internal/domain"

// Protocol identifies which input path owns a session.
type Protocol int

const (
	ProtocolNone Protocol = iota
	// ProtocolNative is a platform-mediated drag with explicit over/drop events.
	ProtocolNative
	// ProtocolPointer is a press-move-release drag tracked by coordinates.
	ProtocolPointer
	// ProtocolTouch is a swipe-or-tap gesture.
	ProtocolTouch
)

func (p Protocol) String() string {
	switch p {
	case ProtocolNative:
		return "native"
	case ProtocolPointer:
		return "pointer"
	case ProtocolTouch:
		return "touch"
	default:
		return "none"
	}
}

// Phase is the session state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePressed
	PhaseDragging
	PhaseResolved
	PhaseTouchStarted
	PhaseMoveRequested
	PhaseTapResolved
)

func (p Phase) String() string {
	switch p {
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	case PhaseResolved:
		return "resolved"
	case PhaseTouchStarted:
		return "touch-started"
	case PhaseMoveRequested:
		return "move-requested"
	case PhaseTapResolved:
		return "tap-resolved"
	default:
		return "idle"
	}
}

// Session is the one active interaction. The zero value is idle.
type Session struct {
	Protocol   Protocol
	Phase      Phase
	Card       domain.Card
	Origin     Point
	Pointer    Point
	DropTarget string
	Moved      bool
}

// Active reports whether a card is currently held by the session.
func (s Session) Active() bool {
	return s.Protocol != ProtocolNone && s.Card.ID != ""
}

// OutcomeKind classifies how a session ended.
type OutcomeKind int

const (
	// OutcomeNone means the event did not end a session.
	OutcomeNone OutcomeKind = iota
	// OutcomeClick is a pointer release that never crossed the press threshold.
	OutcomeClick
	// OutcomeMoved means the move was applied.
	OutcomeMoved
	// OutcomeRejected means the move function returned an error.
	OutcomeRejected
	// OutcomeNoop is a drop on the card's own column or outside every column.
	OutcomeNoop
	// OutcomeCancelled is an explicit cancel or teardown.
	OutcomeCancelled
	// OutcomeMoveRequested is a horizontal swipe asking for the move picker.
	OutcomeMoveRequested
	// OutcomeTap is a touch that ended without moving.
	OutcomeTap
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeClick:
		return "click"
	case OutcomeMoved:
		return "moved"
	case OutcomeRejected:
		return "rejected"
	case OutcomeNoop:
		return "noop"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeMoveRequested:
		return "move-requested"
	case OutcomeTap:
		return "tap"
	default:
		return "none"
	}
}

// Outcome reports a terminal transition back to the caller.
type Outcome struct {
	Kind     OutcomeKind
	Protocol Protocol
	Card     domain.Card
	// ColumnID is the resolved drop column, empty when there was none.
	ColumnID string
	// FlashColumnID is set when the target column should show success feedback.
	FlashColumnID string
	Err           error
}

// View is the render-facing projection of the session.
type View struct {
	Protocol     Protocol
	Phase        Phase
	CardID       string
	SourceColumn string
	DropTarget   string
	// Dimmed is the card id rendered in its faded placeholder state.
	Dimmed string
	// GhostVisible reports whether the floating clone is drawn at Ghost.
	GhostVisible bool
	Ghost        Point
	GhostTitle   string
}
