package actor

import (
	"testing"

	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/grid"
)

// arena builds a bordered open grid and applies extra tiles.
func arena(t *testing.T, width, height int, extra map[core.Pos]grid.Tile) *grid.Grid {
	t.Helper()
	tiles := make([][]grid.Tile, width)
	for x := range tiles {
		tiles[x] = make([]grid.Tile, height)
		for y := range tiles[x] {
			if x == 0 || x == width-1 || y == 0 || y == height-1 {
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

func TestAvatarDeathAndRespawn(t *testing.T) {
	a := NewAvatar(core.P(1, 1), 3)
	a.MoveTo(core.P(5, 5))

	if !a.Kill() {
		t.Fatal("avatar with 3 lives should survive one death")
	}
	a.Respawn()
	if a.Lives() != 2 || a.Pos() != core.P(1, 1) {
		t.Errorf("after death: lives=%d pos=%v, expected 2 at (1,1)", a.Lives(), a.Pos())
	}

	a.Kill()
	if a.Kill() {
		t.Error("last life lost should report no lives left")
	}
	if a.Lives() != 0 {
		t.Errorf("lives = %d, expected 0", a.Lives())
	}
	a.Kill()
	if a.Lives() != 0 {
		t.Errorf("lives must never drop below zero, got %d", a.Lives())
	}
}

func TestAvatarUpgradeCounts(t *testing.T) {
	a := NewAvatar(core.P(1, 1), 3)
	a.Grant(Flames)
	a.Grant(Bombs)
	a.Grant(Flames)

	if a.Count(Flames) != 2 {
		t.Errorf("Count(Flames) = %d, expected 2", a.Count(Flames))
	}
	if a.Count(Bombs) != 1 || !a.Has(Bombs) {
		t.Error("expected one Bombs upgrade")
	}
	if a.Has(Detonator) {
		t.Error("avatar should not own Detonator")
	}

	ups := a.Upgrades()
	ups[0] = Mystery
	if a.Upgrades()[0] != Flames {
		t.Error("Upgrades() must return a copy")
	}
}

func TestUpgradeNames(t *testing.T) {
	for u := Bombs; u <= Mystery; u++ {
		parsed, err := ParseUpgrade(u.String())
		if err != nil || parsed != u {
			t.Errorf("ParseUpgrade(%q) = %v, %v", u.String(), parsed, err)
		}
	}
	if _, err := ParseUpgrade("Nope"); err == nil {
		t.Error("expected error for unknown upgrade")
	}
}

func TestLookupSpecies(t *testing.T) {
	s, err := LookupSpecies("Oneal")
	if err != nil {
		t.Fatalf("LookupSpecies() failed: %v", err)
	}
	if s.Points != 200 || s.Speed != SpeedNormal || s.Smart != SmartNormal || s.Wallpass {
		t.Errorf("unexpected Oneal: %+v", s)
	}
	if _, err := LookupSpecies("Goomba"); err == nil {
		t.Error("expected error for unknown species")
	}
}

func TestReadinessThrottling(t *testing.T) {
	tests := []struct {
		speed    SpeedTier
		interval int
	}{
		{SpeedSlowest, 4},
		{SpeedSlow, 2},
		{SpeedNormal, 2},
		{SpeedFast, 1},
	}

	for _, tc := range tests {
		a := NewAdversary("x", Species{Name: "t", Speed: tc.speed, Smart: SmartLow}, core.P(5, 5), core.DirUp)
		var acted []int
		for tick := 1; tick <= 40; tick++ {
			if a.Ready() {
				acted = append(acted, tick)
			}
		}
		if len(acted) < 2 {
			t.Fatalf("speed %d: acted only %d times", tc.speed, len(acted))
		}
		for i := 1; i < len(acted); i++ {
			gap := acted[i] - acted[i-1]
			if gap != tc.interval {
				t.Errorf("speed %d: gap %d between actions, expected %d", tc.speed, gap, tc.interval)
			}
			if tc.speed < SpeedFast && gap == 1 {
				t.Errorf("speed %d: acted on consecutive ticks", tc.speed)
			}
		}
	}
}

func TestPatrolTurnsWhenBlocked(t *testing.T) {
	g := arena(t, 13, 13, nil)
	a := NewAdversary("b", Balloom, core.P(5, 2), core.DirUp)

	a.Step(g, Surroundings{Avatar: core.P(1, 1)})
	if a.Pos() != core.P(5, 1) {
		t.Fatalf("expected move up to (5,1), got %v", a.Pos())
	}

	// Border above: turn to the next direction without moving.
	a.Step(g, Surroundings{Avatar: core.P(1, 1)})
	if a.Pos() != core.P(5, 1) {
		t.Errorf("blocked patrol must not move, got %v", a.Pos())
	}
	if a.Heading() != core.DirLeft {
		t.Errorf("heading = %q, expected %q", a.Heading(), core.DirLeft)
	}

	a.Step(g, Surroundings{Avatar: core.P(1, 1)})
	if a.Pos() != core.P(4, 1) {
		t.Errorf("expected move left to (4,1), got %v", a.Pos())
	}
}

func TestFleeMaximisesDistance(t *testing.T) {
	g := arena(t, 13, 13, nil)
	a := NewAdversary("o", Oneal, core.P(6, 6), core.DirUp)

	a.Step(g, Surroundings{Avatar: core.P(3, 6)})
	if a.Pos() != core.P(7, 6) {
		t.Errorf("expected flight to (7,6), got %v", a.Pos())
	}

	// The previous cell is excluded even if it is the best escape.
	a.Step(g, Surroundings{Avatar: core.P(8, 6)})
	if a.Pos() == core.P(6, 6) {
		t.Error("adversary must not step back to its previous cell while alternatives exist")
	}
}

func TestFleeSkipsOccupied(t *testing.T) {
	g := arena(t, 13, 13, nil)
	a := NewAdversary("o", Oneal, core.P(6, 6), core.DirUp)
	occupied := func(p core.Pos) bool { return p == core.P(7, 6) }

	a.Step(g, Surroundings{Avatar: core.P(3, 6), Occupied: occupied})
	if a.Pos() == core.P(7, 6) {
		t.Error("adversary moved onto an occupied cell")
	}
}

func TestFleeTurnsBackInDeadEnd(t *testing.T) {
	// Corridor (1..3, 5) closed on three sides at x=1.
	extra := map[core.Pos]grid.Tile{}
	for x := 1; x <= 4; x++ {
		extra[core.P(x, 4)] = grid.Stone
		extra[core.P(x, 6)] = grid.Stone
	}
	g := arena(t, 13, 13, extra)
	a := NewAdversary("o", Oneal, core.P(2, 5), core.DirLeft)

	a.Step(g, Surroundings{Avatar: core.P(10, 5)})
	if a.Pos() != core.P(1, 5) {
		t.Fatalf("expected to enter the dead end at (1,5), got %v", a.Pos())
	}

	a.Step(g, Surroundings{Avatar: core.P(10, 5)})
	if a.Pos() != core.P(2, 5) {
		t.Fatalf("expected to turn back to (2,5), got %v", a.Pos())
	}

	// Committed to the escape heading even though the avatar lies that way.
	a.Step(g, Surroundings{Avatar: core.P(10, 5)})
	if a.Pos() != core.P(3, 5) {
		t.Errorf("expected to keep escaping to (3,5), got %v", a.Pos())
	}
}

func TestHighTierFleesBomb(t *testing.T) {
	g := arena(t, 13, 13, nil)
	a := NewAdversary("k", Species{Name: "k", Speed: SpeedFast, Smart: SmartHigh}, core.P(6, 6), core.DirUp)

	a.Step(g, Surroundings{Avatar: core.P(8, 6), Hazard: core.P(6, 4), HasHazard: true})
	if a.Pos() != core.P(6, 7) {
		t.Errorf("expected flight away from the bomb to (6,7), got %v", a.Pos())
	}
}

func TestNormalTierIgnoresBomb(t *testing.T) {
	g := arena(t, 13, 13, nil)
	a := NewAdversary("o", Oneal, core.P(6, 6), core.DirUp)

	a.Step(g, Surroundings{Avatar: core.P(8, 6), Hazard: core.P(6, 4), HasHazard: true})
	if a.Pos() != core.P(5, 6) {
		t.Errorf("expected flight away from the avatar to (5,6), got %v", a.Pos())
	}
}

func TestAdversaryRespawn(t *testing.T) {
	g := arena(t, 13, 13, nil)
	a := NewAdversary("o", Oneal, core.P(6, 6), core.DirUp)
	a.Step(g, Surroundings{Avatar: core.P(3, 6)})
	a.Respawn()
	if a.Pos() != core.P(6, 6) {
		t.Errorf("Respawn() pos = %v, expected (6,6)", a.Pos())
	}
}
