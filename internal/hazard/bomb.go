// Package hazard models placed bombs: their fuse and blast geometry.
package hazard

import (
	"slices"

	"github.com/vovakirdan/tui-bomber/internal/core"
)

// Shield answers whether a cell stops a blast. Only indestructible tiles do;
// destructible walls burn in the same pass and shield nothing.
type Shield interface {
	IsStone(p core.Pos) bool
}

// Bomb is a placed explosive. The fuse is kept in half-ticks so the public
// timeout can report half-unit steps exactly.
type Bomb struct {
	pos       core.Pos
	radius    int
	fuse      int // half-units remaining
	detonator bool
}

// New places a bomb at pos. The fuse starts at radius+1 units and a
// detonator bomb only explodes when triggered.
func New(pos core.Pos, radius int, detonator bool) *Bomb {
	return &Bomb{
		pos:       pos,
		radius:    radius,
		fuse:      2 * (radius + 1),
		detonator: detonator,
	}
}

// Pos returns where the bomb lies.
func (b *Bomb) Pos() core.Pos { return b.pos }

// Radius returns the blast reach fixed at placement.
func (b *Bomb) Radius() int { return b.radius }

// Detonator reports whether the bomb waits for a remote trigger.
func (b *Bomb) Detonator() bool { return b.detonator }

// Timeout returns the remaining fuse in units.
func (b *Bomb) Timeout() float64 {
	return float64(b.fuse) / 2
}

// Tick burns half a unit of fuse. Detonator bombs do not burn.
func (b *Bomb) Tick() {
	if !b.detonator {
		b.fuse--
	}
}

// Trigger fires a detonator bomb immediately. Timed bombs ignore it.
func (b *Bomb) Trigger() {
	if b.detonator {
		b.fuse = 0
	}
}

// HasDetonated reports whether the fuse has run out.
func (b *Bomb) HasDetonated() bool {
	return b.fuse <= 0
}

// Covers reports whether target is inside the blast.
func (b *Bomb) Covers(s Shield, target core.Pos) bool {
	if target.X != b.pos.X && target.Y != b.pos.Y {
		return false
	}
	return slices.Contains(b.Blast(s), target)
}

// Blast lists every cell the explosion reaches, starting with the bomb cell.
// Each arm runs up to radius cells along its row or column and stops at the
// first stone.
func (b *Bomb) Blast(s Shield) []core.Pos {
	if s.IsStone(b.pos) {
		return nil
	}
	cells := []core.Pos{b.pos}
	for _, d := range core.Directions() {
		p := b.pos
		for r := 1; r <= b.radius; r++ {
			p = p.Step(d)
			if s.IsStone(p) {
				break
			}
			cells = append(cells, p)
		}
	}
	return cells
}
