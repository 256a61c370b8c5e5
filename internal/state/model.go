package state

import (
	"errors"
	"fmt"

	"BezierBoard/internal/geom"
)

// Mode is the state of an edit session.
type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// EventKind is the kind of a pointer event.
type EventKind int

const (
	EventPress EventKind = iota
	EventDrag
	EventRelease
)

// Event is a pointer event in surface coordinates. Button is only
// meaningful for presses.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Button Button
}

// Press builds a press event.
func Press(x, y float64, b Button) Event {
	return Event{Kind: EventPress, X: x, Y: y, Button: b}
}

// Drag builds a drag event.
func Drag(x, y float64) Event {
	return Event{Kind: EventDrag, X: x, Y: y}
}

// Release builds a release event.
func Release() Event {
	return Event{Kind: EventRelease}
}

// Snapshot is a stamped copy of a session's control points, exchanged
// between peers sharing a board.
type Snapshot struct {
	Site     string        `json:"site"`
	Revision uint64        `json:"revision"`
	Points   []geom.Point2 `json:"points"`
}

// MaxSnapshotPoints bounds the number of control points a peer may share.
const MaxSnapshotPoints = 256

// ErrInvalidSnapshot is returned for snapshots that must not be shown.
var ErrInvalidSnapshot = errors.New("state: invalid snapshot")

// Validate checks that s has at most [MaxSnapshotPoints] points, all within
// [geom.Limits].
func (s Snapshot) Validate() error {
	if len(s.Points) > MaxSnapshotPoints {
		return fmt.Errorf("%w: %d points, at most %d", ErrInvalidSnapshot, len(s.Points), MaxSnapshotPoints)
	}
	if err := geom.CheckRange(s.Points); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return nil
}
