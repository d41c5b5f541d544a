// Package core provides the value types shared by the simulation and its
// front-ends. It contains no external dependencies (especially no Bubble Tea)
// to keep game logic pure and testable.
package core

import "fmt"

// Pos is a grid coordinate. X grows to the right, Y grows downward.
// Pos is a value type; never share pointers to it between actors.
type Pos struct {
	X int
	Y int
}

// P is a convenience constructor for Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new Pos offset by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Step returns the neighbour of p in direction d.
// DirNone returns p unchanged.
func (p Pos) Step(d Direction) Pos {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

// DistSq returns the squared Euclidean distance to other.
// Comparing squared distances orders positions the same way as the true distance.
func (p Pos) DistSq(other Pos) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Pair returns the position as an [x, y] pair for wire encoding.
func (p Pos) Pair() [2]int {
	return [2]int{p.X, p.Y}
}

// Direction is one of the four cardinal moves, encoded by its key symbol.
type Direction rune

const (
	DirNone  Direction = 0
	DirUp    Direction = 'w'
	DirLeft  Direction = 'a'
	DirDown  Direction = 's'
	DirRight Direction = 'd'
)

// Directions returns the cardinal directions in candidate order (w, a, s, d).
func Directions() [4]Direction {
	return [4]Direction{DirUp, DirLeft, DirDown, DirRight}
}

// Valid reports whether d is a cardinal direction or DirNone.
func (d Direction) Valid() bool {
	switch d {
	case DirNone, DirUp, DirLeft, DirDown, DirRight:
		return true
	}
	return false
}

// Delta returns the coordinate offset for one step in direction d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirDown:
		return 0, 1
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Next returns the following direction in the patrol cycle w -> a -> s -> d -> w.
func (d Direction) Next() Direction {
	switch d {
	case DirUp:
		return DirLeft
	case DirLeft:
		return DirDown
	case DirDown:
		return DirRight
	default:
		return DirUp
	}
}

// DirectionTo returns the direction leading from p to an adjacent position q,
// or DirNone if q is not a cardinal neighbour.
func (p Pos) DirectionTo(q Pos) Direction {
	for _, d := range Directions() {
		if p.Step(d) == q {
			return d
		}
	}
	return DirNone
}

func (d Direction) String() string {
	if d == DirNone {
		return ""
	}
	return string(rune(d))
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
