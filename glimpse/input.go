package glimpse

//go:generate go tool stringer -type=Key -trimprefix=Key -output=key_string.go

type Key int

const (
	KeyW Key = iota
	KeyS
	KeyD
	KeyA
)

const keyCount = int(KeyA) + 1

// Keys lists every key tracked by InputState.
var Keys = []Key{KeyW, KeyS, KeyD, KeyA}

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
)

const mouseButtonCount = int(MouseRight) + 1

// UpdateInputState polls pending window events and returns the
// input state of the current frame.
type UpdateInputState func() *InputState

// Button records the state of a key or mouse button for one frame.
type Button struct {
	// EndedDown is true if the button was held down at the end of the frame.
	EndedDown bool

	// HalfTransitionCount counts press and release events during the frame.
	HalfTransitionCount uint32
}

// WasDown reports whether the button was pressed at any time during
// the frame, even if it was released again before the frame ended.
func (b Button) WasDown() bool {
	return b.HalfTransitionCount > 1 || (b.HalfTransitionCount == 1 && b.EndedDown)
}

func (b *Button) transition(down bool) {
	b.EndedDown = down
	b.HalfTransitionCount++
}

type InputState struct {
	Keys  [keyCount]Button
	Mouse [mouseButtonCount]Button

	CursorX, CursorY float32

	// cursor movement since the previous frame
	DeltaX, DeltaY float32

	// false until the first cursor event arrived
	hasCursor bool
}

func (s *InputState) Key(key Key) Button {
	return s.Keys[key]
}

func (s *InputState) MouseButton(button MouseButton) Button {
	return s.Mouse[button]
}

func (s *InputState) press(key Key) {
	s.Keys[key].transition(true)
}

func (s *InputState) release(key Key) {
	s.Keys[key].transition(false)
}

func (s *InputState) pressMouse(button MouseButton) {
	s.Mouse[button].transition(true)
}

func (s *InputState) releaseMouse(button MouseButton) {
	s.Mouse[button].transition(false)
}

func (s *InputState) position(x, y float32) {
	if s.hasCursor {
		s.DeltaX += x - s.CursorX
		s.DeltaY += y - s.CursorY
	}

	s.CursorX = x
	s.CursorY = y
	s.hasCursor = true
}

// nextFrame resets the per frame values. Must be called before polling
// the events of the next frame.
func (s *InputState) nextFrame() {
	s.DeltaX = 0
	s.DeltaY = 0

	for idx := range s.Keys {
		s.Keys[idx].HalfTransitionCount = 0
	}

	for idx := range s.Mouse {
		s.Mouse[idx].HalfTransitionCount = 0
	}
}
