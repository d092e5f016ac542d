package window

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// Input is the polled keyboard and cursor state of a window. Held keys are tracked across
// frames; presses are edge-triggered and only visible during the frame they happened in.
type Input interface {
	// IsPressed reports whether key is held down.
	//
	// Parameters:
	//   - key: the key to test
	//
	// Returns:
	//   - bool: true while held
	IsPressed(key common.Key) bool

	// WasPressed reports whether key went down since the previous frame.
	//
	// Parameters:
	//   - key: the key to test
	//
	// Returns:
	//   - bool: true during the frame of the press (including key repeats)
	WasPressed(key common.Key) bool

	// MousePosition returns the cursor position in window coordinates.
	//
	// Returns:
	//   - x, y: the cursor position
	MousePosition() (x, y float64)
}

// inputState accumulates events delivered by the platform callbacks.
type inputState struct {
	mu      sync.RWMutex
	held    map[common.Key]bool
	pressed map[common.Key]bool
	mouseX  float64
	mouseY  float64
}

var _ Input = &inputState{}

func newInputState() *inputState {
	return &inputState{
		held:    make(map[common.Key]bool),
		pressed: make(map[common.Key]bool),
	}
}

func (s *inputState) IsPressed(key common.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.held[key]
}

func (s *inputState) WasPressed(key common.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pressed[key]
}

func (s *inputState) MousePosition() (float64, float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mouseX, s.mouseY
}

func (s *inputState) keyDown(key common.Key) {
	s.mu.Lock()
	s.held[key] = true
	s.pressed[key] = true
	s.mu.Unlock()
}

func (s *inputState) keyUp(key common.Key) {
	s.mu.Lock()
	delete(s.held, key)
	s.mu.Unlock()
}

func (s *inputState) move(x, y float64) {
	s.mu.Lock()
	s.mouseX, s.mouseY = x, y
	s.mu.Unlock()
}

// nextFrame forgets the presses of the previous frame. Held keys stay held.
func (s *inputState) nextFrame() {
	s.mu.Lock()
	clear(s.pressed)
	s.mu.Unlock()
}

// releaseAll drops every held key, used when the window loses focus and release events
// would otherwise never arrive.
func (s *inputState) releaseAll() {
	s.mu.Lock()
	clear(s.held)
	s.mu.Unlock()
}

// maxFrameDelta caps the delta reported after a stall such as a window drag.
const maxFrameDelta = 250 * time.Millisecond

// frameClock measures the time between consecutive ticks.
type frameClock struct {
	now   func() time.Time
	last  time.Time
	delta time.Duration
}

func newFrameClock(now func() time.Time) *frameClock {
	return &frameClock{now: now, last: now()}
}

// tick records a frame boundary and returns the clamped time since the previous one.
func (c *frameClock) tick() time.Duration {
	t := c.now()
	c.delta = min(max(t.Sub(c.last), 0), maxFrameDelta)
	c.last = t
	return c.delta
}

func (c *frameClock) seconds() float32 {
	return float32(c.delta.Seconds())
}
