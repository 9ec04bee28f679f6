package ui

import "time"

// Swipe-to-close tuning. A downward drag dismisses the panel when it either
// travels far enough or moves fast enough, and only counts when it starts in
// the grab area at the top of the panel.
const (
	swipeHandleHeight  = 60.0  // px below the panel top where a drag may begin
	swipeCloseDistance = 100.0 // px
	swipeCloseVelocity = 0.5   // px per millisecond
)

// SwipeCloser recognizes the downward swipe gesture on the cart panel.
// It is pure view-layer state: it never talks to the cart, it only answers
// whether the panel should close. Feed it touch positions in viewport
// coordinates.
type SwipeCloser struct {
	dragging bool
	startY   float64
	currentY float64
	startAt  time.Time
}

// Start begins a drag. Touches below the panel's grab area are ignored.
func (s *SwipeCloser) Start(y, panelTop float64, at time.Time) {
	if y-panelTop > swipeHandleHeight {
		return
	}
	s.dragging = true
	s.startY = y
	s.currentY = y
	s.startAt = at
}

// Move tracks the drag and returns the panel's vertical offset in px.
// Upward movement keeps the panel pinned at zero.
func (s *SwipeCloser) Move(y float64) float64 {
	if !s.dragging {
		return 0
	}
	s.currentY = y
	if delta := y - s.startY; delta > 0 {
		return delta
	}
	return 0
}

// End finishes the drag and reports whether the panel should close:
// either the drag distance or the release velocity is past its threshold.
func (s *SwipeCloser) End(at time.Time) bool {
	if !s.dragging {
		return false
	}
	s.dragging = false

	delta := s.currentY - s.startY
	ms := float64(at.Sub(s.startAt).Milliseconds())
	if ms < 1 {
		ms = 1
	}
	velocity := delta / ms
	return delta > swipeCloseDistance || velocity > swipeCloseVelocity
}

// Dragging reports whether a drag is in progress, so a renderer can disable
// the panel's transition while the finger is down.
func (s *SwipeCloser) Dragging() bool {
	return s.dragging
}
