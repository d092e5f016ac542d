package window

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/observable"
	"github.com/stretchr/testify/assert"
)

func TestPressIsEdgeTriggered(t *testing.T) {
	s := newInputState()
	s.keyDown(common.KeyW)

	assert.True(t, s.IsPressed(common.KeyW))
	assert.True(t, s.WasPressed(common.KeyW))

	s.nextFrame()
	assert.True(t, s.IsPressed(common.KeyW))
	assert.False(t, s.WasPressed(common.KeyW))

	s.keyUp(common.KeyW)
	assert.False(t, s.IsPressed(common.KeyW))
}

func TestPressAndReleaseInOneFrameIsStillSeen(t *testing.T) {
	s := newInputState()
	s.keyDown(common.KeyEsc)
	s.keyUp(common.KeyEsc)

	assert.False(t, s.IsPressed(common.KeyEsc))
	assert.True(t, s.WasPressed(common.KeyEsc))
}

func TestReleaseAllDropsHeldKeys(t *testing.T) {
	s := newInputState()
	s.keyDown(common.KeyA)
	s.keyDown(common.KeyD)
	s.releaseAll()

	assert.False(t, s.IsPressed(common.KeyA))
	assert.False(t, s.IsPressed(common.KeyD))
}

func TestMousePosition(t *testing.T) {
	s := newInputState()
	s.move(12.5, -3)
	x, y := s.MousePosition()
	assert.Equal(t, 12.5, x)
	assert.Equal(t, -3.0, y)
}

func TestFrameClock(t *testing.T) {
	now := time.Unix(100, 0)
	c := newFrameClock(func() time.Time { return now })

	now = now.Add(16 * time.Millisecond)
	assert.Equal(t, 16*time.Millisecond, c.tick())
	assert.InDelta(t, 0.016, c.seconds(), 1e-6)

	now = now.Add(5 * time.Second)
	assert.Equal(t, maxFrameDelta, c.tick())

	now = now.Add(-time.Second)
	assert.Equal(t, time.Duration(0), c.tick())
}

func TestResizedPublishesNonEmptyChanges(t *testing.T) {
	w := &engineWindow{width: 800, height: 600}
	w.sizes = observable.New(common.Size{Width: 800, Height: 600})

	var got []common.Size
	sub := w.sizes.AttachFunc(func(s common.Size) { got = append(got, s) })
	defer sub.Detach()

	w.resized(800, 600)
	w.resized(0, 0)
	w.resized(1024, 768)

	assert.Equal(t, []common.Size{{Width: 800, Height: 600}, {Width: 1024, Height: 768}}, got)
	assert.Equal(t, common.Size{Width: 1024, Height: 768}, w.Size())
}
