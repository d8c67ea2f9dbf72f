package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKeymap records bindings the way the host registry would.
type fakeKeymap struct {
	handler func(Key)
	binds   int
	unbinds int
}

func (k *fakeKeymap) Bind(handler func(Key)) {
	k.handler = handler
	k.binds++
}

func (k *fakeKeymap) Unbind() {
	k.handler = nil
	k.unbinds++
}

func (k *fakeKeymap) press(key Key) {
	if k.handler != nil {
		k.handler(key)
	}
}

func TestCarousel_StartsClosed(t *testing.T) {
	c := New(3, nil)
	state := c.State()
	assert.False(t, state.IsOpen)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, 3, state.Total)
}

func TestCarousel_OpenEmptyFails(t *testing.T) {
	c := New(0, nil)
	assert.Error(t, c.Open(0))
	assert.False(t, c.State().IsOpen)
}

func TestCarousel_OpenOutOfRangeFails(t *testing.T) {
	c := New(3, nil)
	assert.Error(t, c.Open(3))
	assert.Error(t, c.Open(-1))
	assert.NoError(t, c.Open(2))
}

func TestCarousel_CyclicNavigation(t *testing.T) {
	c := New(3, nil)
	require.NoError(t, c.Open(0))

	require.NoError(t, c.Prev())
	assert.Equal(t, 2, c.State().Index)

	require.NoError(t, c.Next())
	assert.Equal(t, 0, c.State().Index)

	require.NoError(t, c.JumpTo(2))
	require.NoError(t, c.Next())
	assert.Equal(t, 0, c.State().Index)
}

func TestCarousel_NavigationWhileClosedFails(t *testing.T) {
	c := New(3, nil)
	assert.Error(t, c.Prev())
	assert.Error(t, c.Next())
	assert.Error(t, c.JumpTo(1))
}

func TestCarousel_KeyBindingsFollowLifecycle(t *testing.T) {
	km := &fakeKeymap{}
	c := New(3, km)

	// Closed: keys go nowhere.
	km.press(KeyArrowRight)
	assert.Equal(t, 0, km.binds)

	require.NoError(t, c.Open(1))
	assert.Equal(t, 1, km.binds)

	km.press(KeyArrowRight)
	assert.Equal(t, 2, c.State().Index)
	km.press(KeyArrowLeft)
	assert.Equal(t, 1, c.State().Index)

	km.press(KeyEscape)
	assert.False(t, c.State().IsOpen)
	assert.Equal(t, 1, km.unbinds)
	assert.Nil(t, km.handler)
}

func TestCarousel_ReopenRebinds(t *testing.T) {
	km := &fakeKeymap{}
	c := New(2, km)

	require.NoError(t, c.Open(0))
	c.Close()
	require.NoError(t, c.Open(1))
	assert.Equal(t, 2, km.binds)
	assert.Equal(t, 1, km.unbinds)
	assert.Equal(t, 1, c.State().Index)
}

func TestCarousel_OpenWhileOpenMovesIndexOnly(t *testing.T) {
	km := &fakeKeymap{}
	c := New(3, km)

	require.NoError(t, c.Open(0))
	require.NoError(t, c.Open(2))
	assert.Equal(t, 1, km.binds)
	assert.Equal(t, 2, c.State().Index)
	assert.True(t, c.State().IsOpen)
}

func TestCarousel_SetPhotosResets(t *testing.T) {
	km := &fakeKeymap{}
	c := New(3, km)
	require.NoError(t, c.Open(2))

	c.SetPhotos(5)
	state := c.State()
	assert.False(t, state.IsOpen)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, 5, state.Total)
	assert.Equal(t, 1, km.unbinds)
}
