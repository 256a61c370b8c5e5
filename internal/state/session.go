// Package state owns the editable control point list and the rules that
// pointer events apply to it.
package state

import (
	"slices"

	"BezierBoard/internal/geom"
	"BezierBoard/internal/logging"
)

// Session is the edit state of one board: the ordered control points and
// the currently dragged point, if any.
//
// The selection is kept as a slot index and resolved on every drag, so the
// list may grow or shrink while a point is held. A Session is not safe for
// concurrent use; all events are expected on one goroutine.
type Session struct {
	points     []geom.Point2
	selected   int
	mode       Mode
	pickRadius float64
	revision   uint64

	// OnChange is called after every transition that changes the point list
	// or the selection.
	OnChange func()
}

// NewSession returns an idle session with no points. Presses closer than
// pickRadius to a point hit it.
func NewSession(pickRadius float64) *Session {
	return &Session{
		points:     make([]geom.Point2, 0),
		selected:   -1,
		pickRadius: pickRadius,
	}
}

// Handle applies e to the session.
func (s *Session) Handle(e Event) {
	switch e.Kind {
	case EventPress:
		s.Press(e.X, e.Y, e.Button)
	case EventDrag:
		s.Drag(e.X, e.Y)
	case EventRelease:
		s.Release()
	}
}

// Press handles a pointer press at (x, y).
//
// A primary press on a point selects it and starts dragging; elsewhere it
// appends a new point without selecting it. A secondary press on a point
// removes it; elsewhere it does nothing.
func (s *Session) Press(x, y float64, b Button) {
	i, hit := FindNearest(s.points, x, y, s.pickRadius)

	switch b {
	case ButtonPrimary:
		if hit {
			s.selected = i
			s.mode = Dragging
			logging.Logger().Debug("point selected", "index", i)
		} else {
			s.points = append(s.points, geom.Pt(x, y))
			logging.Logger().Debug("point added", "index", len(s.points)-1, "x", x, "y", y)
		}
		s.changed()

	case ButtonSecondary:
		if !hit {
			return
		}
		s.remove(i)
		logging.Logger().Debug("point removed", "index", i)
		s.changed()
	}
}

// Drag moves the selected point to (x, y). Without a selection it does
// nothing.
func (s *Session) Drag(x, y float64) {
	if s.mode != Dragging || s.selected < 0 || s.selected >= len(s.points) {
		return
	}
	s.points[s.selected] = geom.Pt(x, y)
	s.changed()
}

// Release ends any drag and clears the selection.
func (s *Session) Release() {
	had := s.selected >= 0
	s.mode = Idle
	s.selected = -1
	if had {
		s.changed()
	}
}

// Clear removes every point.
func (s *Session) Clear() {
	if len(s.points) == 0 && s.selected < 0 {
		return
	}
	s.points = s.points[:0]
	s.mode = Idle
	s.selected = -1
	s.changed()
}

// Replace installs points as the whole control list, dropping any
// selection. The slice is copied.
func (s *Session) Replace(points []geom.Point2) {
	s.points = append(s.points[:0], points...)
	s.mode = Idle
	s.selected = -1
	s.changed()
}

// Points returns a copy of the control points.
func (s *Session) Points() []geom.Point2 {
	return slices.Clone(s.points)
}

// Len returns the number of control points.
func (s *Session) Len() int {
	return len(s.points)
}

// Selected returns the index of the dragged point.
func (s *Session) Selected() (int, bool) {
	return s.selected, s.selected >= 0
}

// Mode returns the current state.
func (s *Session) Mode() Mode {
	return s.mode
}

// Revision counts the changes applied so far.
func (s *Session) Revision() uint64 {
	return s.revision
}

// PickRadius returns the hit radius used by presses.
func (s *Session) PickRadius() float64 {
	return s.pickRadius
}

func (s *Session) remove(i int) {
	s.points = slices.Delete(s.points, i, i+1)
	switch {
	case s.selected == i:
		s.selected = -1
		s.mode = Idle
	case s.selected > i:
		s.selected--
	}
}

func (s *Session) changed() {
	s.revision++
	if s.OnChange != nil {
		s.OnChange()
	}
}
