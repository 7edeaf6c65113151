package main

import (
	"math"
	"math/rand"

	"github.com/Carmen-Shannon/oxy-quad/common"
	"github.com/Carmen-Shannon/oxy-quad/engine/batch"

	"github.com/go-gl/mathgl/mgl32"
)

var spriteColors = []func() common.Color{
	common.Red, common.Green, common.Blue, common.Cyan, common.Yellow, common.White,
}

// quadSubmitter is satisfied by renderer.Renderer and batch.Batch.
type quadSubmitter interface {
	Submit(desc batch.QuadDescription) error
}

type sprite struct {
	pos   mgl32.Vec2
	vel   mgl32.Vec2
	color common.Color
}

// spriteField moves sprites in straight lines and reflects them off the surface edges.
type spriteField struct {
	sprites []sprite
	size    float32
	region  batch.TextureRegion
}

func newSpriteField(count int, size, speed float32, width, height int, region batch.TextureRegion, rng *rand.Rand) *spriteField {
	f := &spriteField{
		sprites: make([]sprite, count),
		size:    size,
		region:  region,
	}
	maxX := max(float32(width)-size, 0)
	maxY := max(float32(height)-size, 0)
	for i := range f.sprites {
		angle := rng.Float64() * 2 * math.Pi
		f.sprites[i] = sprite{
			pos:   mgl32.Vec2{rng.Float32() * maxX, rng.Float32() * maxY},
			vel:   mgl32.Vec2{speed * float32(math.Cos(angle)), speed * float32(math.Sin(angle))},
			color: spriteColors[i%len(spriteColors)](),
		}
	}
	return f
}

func (f *spriteField) update(dt float32, width, height int) {
	w, h := float32(width), float32(height)
	for i := range f.sprites {
		s := &f.sprites[i]
		s.pos = s.pos.Add(s.vel.Mul(dt))
		s.pos[0], s.vel[0] = bounce(s.pos[0], s.vel[0], w-f.size)
		s.pos[1], s.vel[1] = bounce(s.pos[1], s.vel[1], h-f.size)
	}
}

// bounce keeps p within [0, limit] and points v back inside when p hit an edge.
func bounce(p, v, limit float32) (float32, float32) {
	limit = max(limit, 0)
	switch {
	case p < 0:
		return 0, abs32(v)
	case p > limit:
		return limit, -abs32(v)
	}
	return p, v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// submit queues every sprite and stops at the first rejected one.
func (f *spriteField) submit(r quadSubmitter) error {
	for _, s := range f.sprites {
		err := r.Submit(batch.QuadDescription{
			Position: s.pos,
			Size:     mgl32.Vec2{f.size, f.size},
			Region:   f.region,
			Color:    s.color,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
