package core

import "testing"

func TestPosStep(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		expected Pos
	}{
		{"up", DirUp, P(4, 3)},
		{"down", DirDown, P(4, 5)},
		{"left", DirLeft, P(3, 4)},
		{"right", DirRight, P(5, 4)},
		{"none", DirNone, P(4, 4)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := P(4, 4).Step(tc.dir)
			if got != tc.expected {
				t.Errorf("Step(%q) = %v, expected %v", tc.dir, got, tc.expected)
			}
		})
	}
}

func TestDirectionCycle(t *testing.T) {
	d := DirUp
	seen := []Direction{d}
	for i := 0; i < 3; i++ {
		d = d.Next()
		seen = append(seen, d)
	}

	expected := []Direction{DirUp, DirLeft, DirDown, DirRight}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("cycle[%d] = %q, expected %q", i, seen[i], expected[i])
		}
	}
	if d.Next() != DirUp {
		t.Errorf("cycle should wrap back to up, got %q", d.Next())
	}
}

func TestDirectionTo(t *testing.T) {
	origin := P(3, 3)
	for _, d := range Directions() {
		if got := origin.DirectionTo(origin.Step(d)); got != d {
			t.Errorf("DirectionTo(%v) = %q, expected %q", origin.Step(d), got, d)
		}
	}
	if got := origin.DirectionTo(P(4, 4)); got != DirNone {
		t.Errorf("diagonal should give DirNone, got %q", got)
	}
}

func TestDistSq(t *testing.T) {
	if got := P(0, 0).DistSq(P(3, 4)); got != 25 {
		t.Errorf("DistSq = %d, expected 25", got)
	}
	if P(1, 2).DistSq(P(7, 9)) != P(7, 9).DistSq(P(1, 2)) {
		t.Error("DistSq should be symmetric")
	}
}

func TestDirectionValid(t *testing.T) {
	for _, d := range []Direction{DirNone, DirUp, DirLeft, DirDown, DirRight} {
		if !d.Valid() {
			t.Errorf("%q should be valid", d)
		}
	}
	for _, d := range []Direction{'x', 'W', 'A'} {
		if d.Valid() {
			t.Errorf("%q should be invalid", d)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
