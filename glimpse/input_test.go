package glimpse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButtonWasDown(t *testing.T) {
	assert.False(t, Button{}.WasDown())

	// held down since an earlier frame
	assert.False(t, Button{EndedDown: true}.WasDown())

	assert.True(t, Button{EndedDown: true, HalfTransitionCount: 1}.WasDown())
	assert.False(t, Button{EndedDown: false, HalfTransitionCount: 1}.WasDown())

	// pressed and released within the same frame
	assert.True(t, Button{EndedDown: false, HalfTransitionCount: 2}.WasDown())
}

func TestInputStateKeys(t *testing.T) {
	var input InputState

	input.press(KeyW)
	input.release(KeyW)
	input.press(KeyA)

	assert.True(t, input.Key(KeyW).WasDown())
	assert.False(t, input.Key(KeyW).EndedDown)
	assert.True(t, input.Key(KeyA).WasDown())
	assert.False(t, input.Key(KeyS).WasDown())

	input.nextFrame()

	// the key stays down but the press happened in the previous frame
	assert.True(t, input.Key(KeyA).EndedDown)
	assert.False(t, input.Key(KeyA).WasDown())
	assert.Zero(t, input.Key(KeyW).HalfTransitionCount)
}

func TestInputStateMouse(t *testing.T) {
	var input InputState

	input.pressMouse(MouseRight)
	assert.True(t, input.MouseButton(MouseRight).WasDown())
	assert.False(t, input.MouseButton(MouseLeft).WasDown())

	input.nextFrame()
	input.releaseMouse(MouseRight)
	assert.Equal(t, Button{EndedDown: false, HalfTransitionCount: 1}, input.MouseButton(MouseRight))
}

func TestInputStateCursorDelta(t *testing.T) {
	var input InputState

	// the first event only establishes the position
	input.position(100, 50)
	assert.Zero(t, input.DeltaX)
	assert.Zero(t, input.DeltaY)

	input.nextFrame()
	input.position(110, 45)
	input.position(112, 40)

	assert.Equal(t, float32(112), input.CursorX)
	assert.Equal(t, float32(40), input.CursorY)
	assert.Equal(t, float32(12), input.DeltaX)
	assert.Equal(t, float32(-10), input.DeltaY)

	input.nextFrame()
	assert.Zero(t, input.DeltaX)
	assert.Zero(t, input.DeltaY)
	assert.Equal(t, float32(112), input.CursorX)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "W", KeyW.String())
	assert.Equal(t, "A", KeyA.String())
	assert.Equal(t, "Key(9)", Key(9).String())
}
