package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderIsEmpty(t *testing.T) {
	p := NewBindGroupProvider("Quad")

	assert.Equal(t, "Quad", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
	assert.Nil(t, p.Buffer(0))
	assert.Nil(t, p.TextureView(1))
	assert.Nil(t, p.Sampler(2))
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.IndexBuffer())
	assert.Equal(t, 0, p.IndexCount())
}

func TestReleaseWithoutResources(t *testing.T) {
	p := NewBindGroupProvider("Quad")
	p.SetIndexBuffer(nil, 60)
	assert.Equal(t, 60, p.IndexCount())

	assert.NotPanics(t, func() {
		p.ReleaseTexture(1, 2)
		p.Release()
		p.Release()
	})
	assert.Equal(t, 0, p.IndexCount())
}

type fakeHandle struct {
	releases int
}

func (h *fakeHandle) Release() { h.releases++ }

func TestReplaceReleasesPreviousHandle(t *testing.T) {
	first, second := &fakeHandle{}, &fakeHandle{}

	var current *fakeHandle
	current = replace(current, first)
	assert.Same(t, first, current)
	assert.Equal(t, 0, first.releases)

	current = replace(current, first)
	assert.Equal(t, 0, first.releases, "re-setting the same handle keeps it alive")

	current = replace(current, second)
	assert.Same(t, second, current)
	assert.Equal(t, 1, first.releases)
	assert.Equal(t, 0, second.releases)

	current = replace(current, nil)
	assert.Nil(t, current)
	assert.Equal(t, 1, second.releases)
}

func TestSettersAcceptNilOnEmptyProvider(t *testing.T) {
	p := NewBindGroupProvider("Quad")
	assert.NotPanics(t, func() {
		p.SetBindGroupLayout(nil)
		p.SetBindGroup(nil)
		p.SetBuffer(0, nil)
		p.SetVertexBuffer(nil)
		p.SetIndexBuffer(nil, 6)
	})
	assert.Equal(t, 6, p.IndexCount())
}
