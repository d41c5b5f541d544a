// Package grid owns the tile lattice of a level: procedural generation,
// blocked-tile queries and the hidden exit and reward placement.
package grid

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/vovakirdan/tui-bomber/internal/core"
)

// Tile is the kind of a single lattice cell.
type Tile uint8

const (
	Passage Tile = iota // open floor
	Stone               // indestructible, shields blasts
	Wall                // destructible, may hide the exit or a reward
)

func (t Tile) String() string {
	switch t {
	case Passage:
		return "passage"
	case Stone:
		return "stone"
	case Wall:
		return "wall"
	default:
		return "unknown"
	}
}

// VitalSpace is the size of the wall-free area around the avatar spawn.
const VitalSpace = 3

// MinSize is the smallest width or height a generated grid may have.
const MinSize = VitalSpace + 10

var (
	// ErrGridTooSmall is returned when a requested grid cannot hold the vital space.
	ErrGridTooSmall = errors.New("grid: size too small for vital space")
	// ErrNoWalls is returned when generation leaves too few walls to hide the exit and reward.
	ErrNoWalls = errors.New("grid: not enough walls to hide exit and reward")
	// ErrNoSpawn is returned when no open cell is left for an adversary spawn.
	ErrNoSpawn = errors.New("grid: no open cell for adversary spawn")
)

// Options tunes wall density. A cell becomes a wall when a roll in [0,100]
// exceeds WallThreshold + LevelBonus/level, so later levels get more walls.
type Options struct {
	WallThreshold int
	LevelBonus    int
	Empty         bool // generate no walls at all
}

// DefaultOptions returns the classic density settings.
func DefaultOptions() Options {
	return Options{
		WallThreshold: 70,
		LevelBonus:    25,
	}
}

// Grid is the lattice for one level. Tiles are addressed as [x][y].
// Tile kinds never change except Wall -> Passage through Destroy.
type Grid struct {
	width  int
	height int
	level  int
	tiles  [][]Tile
	walls  []core.Pos

	exit      core.Pos
	reward    core.Pos
	hasHidden bool

	spawns []core.Pos
}

func newGrid(width, height, level int) *Grid {
	tiles := make([][]Tile, width)
	for x := range tiles {
		tiles[x] = make([]Tile, height)
	}
	return &Grid{
		width:  width,
		height: height,
		level:  level,
		tiles:  tiles,
	}
}

// Generate builds a level lattice: stone border, stone pillars at even/even
// cells, random walls outside the vital space, one spawn per adversary with
// its 3x3 neighbourhood cleared, then the exit and reward walls.
// It never returns a partially built grid.
func Generate(rng *rand.Rand, level, width, height, enemies int, opts Options) (*Grid, error) {
	if width < MinSize || height < MinSize {
		return nil, fmt.Errorf("%w: %dx%d (minimum %dx%d)", ErrGridTooSmall, width, height, MinSize, MinSize)
	}
	if level < 1 {
		level = 1
	}

	g := newGrid(width, height, level)
	threshold := float64(opts.WallThreshold) + float64(opts.LevelBonus)/float64(level)

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			switch {
			case x == 0 || x == width-1 || y == 0 || y == height-1:
				g.tiles[x][y] = Stone
			case x%2 == 0 && y%2 == 0:
				g.tiles[x][y] = Stone
			case x >= VitalSpace && y >= VitalSpace && !opts.Empty:
				if float64(rng.Intn(101)) > threshold {
					g.tiles[x][y] = Wall
					g.walls = append(g.walls, core.P(x, y))
				}
			}
		}
	}

	for i := 0; i < enemies; i++ {
		spawn, ok := g.pickSpawn(rng)
		if !ok {
			return nil, ErrNoSpawn
		}
		g.spawns = append(g.spawns, spawn)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if p := spawn.Add(dx, dy); g.IsWall(p) {
					g.Destroy(p)
				}
			}
		}
	}

	if opts.Empty {
		return g, nil
	}
	if len(g.walls) < 2 {
		return nil, fmt.Errorf("%w: %d left", ErrNoWalls, len(g.walls))
	}
	g.exit = g.walls[rng.Intn(len(g.walls))]
	others := make([]core.Pos, 0, len(g.walls)-1)
	for _, w := range g.walls {
		if w != g.exit {
			others = append(others, w)
		}
	}
	g.reward = others[rng.Intn(len(others))]
	g.hasHidden = true
	return g, nil
}

// pickSpawn draws uniformly among open cells outside the vital space.
func (g *Grid) pickSpawn(rng *rand.Rand) (core.Pos, bool) {
	var open []core.Pos
	for x := VitalSpace; x < g.width; x++ {
		for y := VitalSpace; y < g.height; y++ {
			if g.tiles[x][y] == Passage {
				open = append(open, core.P(x, y))
			}
		}
	}
	if len(open) == 0 {
		return core.Pos{}, false
	}
	return open[rng.Intn(len(open))], true
}

// FromTiles builds a grid from a fixed [x][y] layout with known adversary
// spawns. No exit or reward is hidden. A wall at the avatar spawn is cleared.
func FromTiles(level int, tiles [][]Tile, spawns []core.Pos) (*Grid, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrGridTooSmall)
	}
	width, height := len(tiles), len(tiles[0])
	g := newGrid(width, height, level)
	for x := 0; x < width; x++ {
		if len(tiles[x]) != height {
			return nil, fmt.Errorf("grid: ragged layout at column %d", x)
		}
		for y := 0; y < height; y++ {
			t := tiles[x][y]
			if t == Wall && core.P(x, y) == g.AvatarSpawn() {
				t = Passage
			}
			g.tiles[x][y] = t
			if t == Wall {
				g.walls = append(g.walls, core.P(x, y))
			}
		}
	}
	g.spawns = append(g.spawns, spawns...)
	return g, nil
}

// Hide marks two standing walls of a fixed layout as the exit and reward.
func (g *Grid) Hide(exit, reward core.Pos) error {
	if exit == reward || !g.IsWall(exit) || !g.IsWall(reward) {
		return fmt.Errorf("grid: exit %v and reward %v must be distinct walls", exit, reward)
	}
	g.exit, g.reward, g.hasHidden = exit, reward, true
	return nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Level returns the level the grid was generated for.
func (g *Grid) Level() int { return g.level }

// InBounds reports whether p lies on the lattice.
func (g *Grid) InBounds(p core.Pos) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// At returns the tile at p. Positions off the lattice read as Stone.
func (g *Grid) At(p core.Pos) Tile {
	if !g.InBounds(p) {
		return Stone
	}
	return g.tiles[p.X][p.Y]
}

// IsStone reports whether p shields a blast. The void outside counts as stone.
func (g *Grid) IsStone(p core.Pos) bool {
	return g.At(p) == Stone
}

// IsWall reports whether p holds a standing destructible wall.
func (g *Grid) IsWall(p core.Pos) bool {
	return g.InBounds(p) && g.tiles[p.X][p.Y] == Wall
}

// IsBlocked reports whether an actor cannot enter p.
func (g *Grid) IsBlocked(p core.Pos, wallpass bool) bool {
	switch g.At(p) {
	case Stone:
		return true
	case Wall:
		return !wallpass
	}
	return false
}

// Move returns the neighbour of from in direction d, or from itself when that
// neighbour is blocked. DirNone always returns from.
func (g *Grid) Move(from core.Pos, d core.Direction, wallpass bool) core.Pos {
	if !d.Valid() {
		panic(fmt.Sprintf("grid: invalid direction %q", rune(d)))
	}
	to := from.Step(d)
	if g.IsBlocked(to, wallpass) {
		return from
	}
	return to
}

// Destroy turns the wall at p into passage.
// Destroying anything but a standing wall is a caller bug.
func (g *Grid) Destroy(p core.Pos) {
	if !g.IsWall(p) {
		panic(fmt.Sprintf("grid: destroy of non-wall tile %v (%s)", p, g.At(p)))
	}
	g.tiles[p.X][p.Y] = Passage
	for i, w := range g.walls {
		if w == p {
			g.walls = append(g.walls[:i], g.walls[i+1:]...)
			break
		}
	}
}

// Walls returns the standing walls in generation order.
func (g *Grid) Walls() []core.Pos {
	out := make([]core.Pos, len(g.walls))
	copy(out, g.walls)
	return out
}

// Exit returns the wall hiding the level exit.
func (g *Grid) Exit() (core.Pos, bool) {
	return g.exit, g.hasHidden
}

// Reward returns the wall hiding the level reward.
func (g *Grid) Reward() (core.Pos, bool) {
	return g.reward, g.hasHidden
}

// EnemySpawns returns the adversary spawn positions in generation order.
func (g *Grid) EnemySpawns() []core.Pos {
	out := make([]core.Pos, len(g.spawns))
	copy(out, g.spawns)
	return out
}

// AvatarSpawn is where the avatar starts every life.
func (g *Grid) AvatarSpawn() core.Pos {
	return core.P(1, 1)
}

// Tiles returns a copy of the lattice as [x][y] tile codes.
func (g *Grid) Tiles() [][]Tile {
	out := make([][]Tile, g.width)
	for x := range g.tiles {
		out[x] = make([]Tile, g.height)
		copy(out[x], g.tiles[x])
	}
	return out
}
