// Package input turns platform callbacks into one immutable State per frame.
package input

import "sync"

// State is the input snapshot delivered to the app once per frame.
// Deltas are accumulated since the previous snapshot.
type State struct {
	// CursorX and CursorY are the latest cursor position in window pixels.
	CursorX, CursorY float32
	// DeltaX and DeltaY are the cursor movement since the previous frame.
	DeltaX, DeltaY float32
	// Scroll is the vertical wheel movement since the previous frame. Positive is away from the user.
	Scroll float32
	// Buttons holds the mouse buttons currently held, keyed by button index.
	Buttons map[int]bool
	// Pressed holds the keys pressed during this frame, keyed by key code.
	Pressed map[uint32]bool
}

// ButtonDown reports whether the given mouse button is held.
func (s State) ButtonDown(button int) bool {
	return s.Buttons[button]
}

// KeyPressed reports whether the given key was pressed during the frame.
func (s State) KeyPressed(key uint32) bool {
	return s.Pressed[key]
}

// IsZero reports whether nothing happened during the frame that a controller could react to.
func (s State) IsZero() bool {
	return s.DeltaX == 0 && s.DeltaY == 0 && s.Scroll == 0 && len(s.Pressed) == 0
}

// Tracker accumulates platform input events between frames.
// Callbacks may fire from the platform thread, so all methods are synchronized.
type Tracker struct {
	mu sync.Mutex

	hasCursor        bool
	cursorX, cursorY float32
	deltaX, deltaY   float32
	scroll           float32
	buttons          map[int]bool
	pressed          map[uint32]bool
}

// NewTracker creates an empty Tracker.
//
// Returns:
//   - *Tracker: the new tracker
func NewTracker() *Tracker {
	return &Tracker{
		buttons: make(map[int]bool),
		pressed: make(map[uint32]bool),
	}
}

// CursorMoved records a cursor position. The first position seen produces no delta.
//
// Parameters:
//   - x, y: cursor position in window pixels
func (t *Tracker) CursorMoved(x, y float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hasCursor {
		t.deltaX += x - t.cursorX
		t.deltaY += y - t.cursorY
	}
	t.cursorX, t.cursorY = x, y
	t.hasCursor = true
}

// Scrolled accumulates wheel movement.
//
// Parameters:
//   - delta: vertical scroll offset
func (t *Tracker) Scrolled(delta float32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scroll += delta
}

// ButtonChanged records a mouse button press or release.
//
// Parameters:
//   - button: the button index (see common.MouseButton*)
//   - down: true on press, false on release
func (t *Tracker) ButtonChanged(button int, down bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if down {
		t.buttons[button] = true
	} else {
		delete(t.buttons, button)
	}
}

// KeyDown records a key press or repeat for the current frame.
//
// Parameters:
//   - key: the key code (see common.Key*)
func (t *Tracker) KeyDown(key uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed[key] = true
}

// Flush returns the accumulated State and resets per-frame deltas.
// Held buttons and the cursor position carry over to the next frame.
//
// Returns:
//   - State: the snapshot for this frame
func (t *Tracker) Flush() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	buttons := make(map[int]bool, len(t.buttons))
	for b := range t.buttons {
		buttons[b] = true
	}
	s := State{
		CursorX: t.cursorX,
		CursorY: t.cursorY,
		DeltaX:  t.deltaX,
		DeltaY:  t.deltaY,
		Scroll:  t.scroll,
		Buttons: buttons,
		Pressed: t.pressed,
	}

	t.deltaX, t.deltaY, t.scroll = 0, 0, 0
	t.pressed = make(map[uint32]bool)
	return s
}
