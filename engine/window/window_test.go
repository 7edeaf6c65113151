package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("sprites"),
		WithSize(500, 600),
		WithMinSize(100, 80),
		WithMaxSize(1920, 1080),
		WithResizable(false),
		WithClientAPI(ClientAPIOpenGL),
		WithCloseOnEscape(false),
	)

	assert.Equal(t, "sprites", w.title)
	assert.Equal(t, 500, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.Equal(t, 100, w.minWidth)
	assert.Equal(t, 80, w.minHeight)
	assert.Equal(t, 1920, w.maxWidth)
	assert.Equal(t, 1080, w.maxHeight)
	assert.False(t, w.resizable)
	assert.Equal(t, ClientAPIOpenGL, w.ClientAPI())
	assert.False(t, w.closeOnEscape)
}

func TestWindowDefaults(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, 800, w.Width())
	assert.Equal(t, 600, w.Height())
	assert.True(t, w.resizable)
	assert.Equal(t, ClientAPINone, w.ClientAPI())
	assert.True(t, w.closeOnEscape)
}

func TestDispatchKey(t *testing.T) {
	const escape, space = 256, 32

	tests := []struct {
		name          string
		closeOnEscape bool
		key           uint32
		down, escape  bool
		wantClose     bool
		wantDown      []uint32
		wantUp        []uint32
	}{
		{name: "escape closes after callback", closeOnEscape: true, key: escape, down: true, escape: true, wantClose: true, wantDown: []uint32{escape}},
		{name: "escape handled by app", closeOnEscape: false, key: escape, down: true, escape: true, wantDown: []uint32{escape}},
		{name: "other key down", closeOnEscape: true, key: space, down: true, wantDown: []uint32{space}},
		{name: "escape release", closeOnEscape: true, key: escape, wantUp: []uint32{escape}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newEngineWindow(WithCloseOnEscape(tt.closeOnEscape))
			var down, up []uint32
			w.SetKeyDownCallback(func(keyCode uint32) { down = append(down, keyCode) })
			w.SetKeyUpCallback(func(keyCode uint32) { up = append(up, keyCode) })

			assert.Equal(t, tt.wantClose, w.dispatchKey(tt.key, tt.down, tt.escape))
			assert.Equal(t, tt.wantDown, down)
			assert.Equal(t, tt.wantUp, up)
		})
	}
}

func TestDispatchKeyWithoutCallbacks(t *testing.T) {
	w := newEngineWindow()
	assert.True(t, w.dispatchKey(256, true, true))
	assert.False(t, w.dispatchKey(256, false, false))
}

func TestUnspawnedWindow(t *testing.T) {
	w := newEngineWindow(WithClientAPI(ClientAPIOpenGL))

	assert.False(t, w.IsRunning())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.Nil(t, w.ProcAddress("glDrawElements"))
	assert.ErrorIs(t, w.Close(), errNotInitialized)

	assert.NotPanics(t, func() {
		w.MakeContextCurrent()
		w.SwapBuffers()
		w.SwapInterval(1)
		w.RequestClose()
		w.ProcessMessages()
	})
}

func TestClientAPIString(t *testing.T) {
	assert.Equal(t, "none", ClientAPINone.String())
	assert.Equal(t, "opengl", ClientAPIOpenGL.String())
	assert.Equal(t, "ClientAPI(7)", ClientAPI(7).String())
}
