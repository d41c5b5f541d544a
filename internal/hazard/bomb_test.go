package hazard

import (
	"testing"

	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/grid"
)

// field13 is an open 13x13 field with a stone border and no pillars.
func field13(t *testing.T, extra map[core.Pos]grid.Tile) *grid.Grid {
	t.Helper()
	tiles := make([][]grid.Tile, 13)
	for x := range tiles {
		tiles[x] = make([]grid.Tile, 13)
		for y := range tiles[x] {
			if x == 0 || x == 12 || y == 0 || y == 12 {
				tiles[x][y] = grid.Stone
			}
		}
	}
	for p, tile := range extra {
		tiles[p.X][p.Y] = tile
	}
	g, err := grid.FromTiles(1, tiles, nil)
	if err != nil {
		t.Fatalf("FromTiles() failed: %v", err)
	}
	return g
}

func TestFuseTiming(t *testing.T) {
	for radius := 1; radius <= 5; radius++ {
		b := New(core.P(4, 4), radius, false)
		ticks := 0
		for !b.HasDetonated() {
			b.Tick()
			ticks++
			if ticks > 100 {
				t.Fatalf("radius %d: bomb never detonated", radius)
			}
		}
		if expected := 2 * (radius + 1); ticks != expected {
			t.Errorf("radius %d: detonated after %d ticks, expected %d", radius, ticks, expected)
		}
	}
}

func TestTimeoutHalfSteps(t *testing.T) {
	b := New(core.P(4, 4), 3, false)
	if b.Timeout() != 4 {
		t.Fatalf("initial Timeout() = %v, expected 4", b.Timeout())
	}
	b.Tick()
	if b.Timeout() != 3.5 {
		t.Errorf("Timeout() after one tick = %v, expected 3.5", b.Timeout())
	}
}

func TestDetonatorBomb(t *testing.T) {
	b := New(core.P(4, 4), 3, true)
	for i := 0; i < 50; i++ {
		b.Tick()
	}
	if b.HasDetonated() {
		t.Fatal("detonator bomb should not burn its fuse")
	}
	b.Trigger()
	if !b.HasDetonated() {
		t.Error("Trigger() should detonate a detonator bomb")
	}
}

func TestTriggerIgnoredOnTimedBomb(t *testing.T) {
	b := New(core.P(4, 4), 3, false)
	b.Trigger()
	if b.HasDetonated() {
		t.Error("Trigger() must not affect a timed bomb")
	}
}

func TestCoversOpenField(t *testing.T) {
	g := field13(t, nil)
	b := New(core.P(4, 4), 3, false)

	inside := []core.Pos{
		core.P(1, 4), core.P(2, 4), core.P(3, 4), core.P(4, 4), core.P(5, 4), core.P(6, 4), core.P(7, 4),
		core.P(4, 1), core.P(4, 2), core.P(4, 3), core.P(4, 5), core.P(4, 6), core.P(4, 7),
	}
	for _, p := range inside {
		if !b.Covers(g, p) {
			t.Errorf("%v should be covered", p)
		}
	}

	safe := []core.Pos{
		core.P(1, 1), core.P(1, 2), core.P(1, 3), core.P(1, 5), core.P(1, 6), core.P(1, 7),
		core.P(2, 1), core.P(3, 1), core.P(5, 1), core.P(6, 1), core.P(7, 1),
		core.P(2, 7), core.P(3, 7), core.P(5, 7), core.P(6, 7), core.P(7, 7),
		core.P(7, 2), core.P(7, 3), core.P(7, 5), core.P(7, 6),
		core.P(2, 2), core.P(3, 2), core.P(2, 3), core.P(3, 3),
		core.P(8, 4), core.P(4, 8),
	}
	for _, p := range safe {
		if b.Covers(g, p) {
			t.Errorf("%v should not be covered", p)
		}
	}
}

func TestCoversStoneShields(t *testing.T) {
	g := field13(t, map[core.Pos]grid.Tile{
		core.P(6, 4): grid.Stone,
		core.P(4, 6): grid.Wall,
	})
	b := New(core.P(4, 4), 3, false)

	if !b.Covers(g, core.P(5, 4)) {
		t.Error("(5,4) is in front of the stone and should be covered")
	}
	if b.Covers(g, core.P(7, 4)) {
		t.Error("(7,4) is behind stone and must be shielded")
	}
	if !b.Covers(g, core.P(4, 6)) || !b.Covers(g, core.P(4, 7)) {
		t.Error("walls do not shield: (4,6) and (4,7) should be covered")
	}
}

func TestCoversEdge(t *testing.T) {
	g := field13(t, nil)
	b := New(core.P(10, 11), 3, false)

	if !b.Covers(g, core.P(10, 10)) {
		t.Error("(10,10) should be covered from a bomb in the corner")
	}
	if b.Covers(g, core.P(10, 12)) {
		t.Error("border stone is never covered")
	}
}

func TestBlastListsEachCellOnce(t *testing.T) {
	g := field13(t, map[core.Pos]grid.Tile{core.P(2, 4): grid.Stone})
	b := New(core.P(4, 4), 3, false)

	blast := b.Blast(g)
	if len(blast) == 0 || blast[0] != b.Pos() {
		t.Fatalf("Blast() should start at the bomb cell, got %v", blast)
	}
	seen := make(map[core.Pos]bool, len(blast))
	for _, p := range blast {
		if seen[p] {
			t.Errorf("%v listed twice", p)
		}
		seen[p] = true
	}
	// left arm stops at the stone in (2,4); the other three run the full radius
	if want := 1 + 1 + 3 + 3 + 3; len(blast) != want {
		t.Errorf("len(Blast()) = %d, want %d", len(blast), want)
	}
}
