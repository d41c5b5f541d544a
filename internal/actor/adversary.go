package actor

import "github.com/vovakirdan/tui-bomber/internal/core"

// Terrain is the part of the grid adversaries need to plan a move.
type Terrain interface {
	Move(from core.Pos, d core.Direction, wallpass bool) core.Pos
	IsBlocked(p core.Pos, wallpass bool) bool
}

// Surroundings is what an adversary can see when it acts.
type Surroundings struct {
	Avatar    core.Pos
	Hazard    core.Pos // oldest live bomb
	HasHazard bool
	Occupied  func(core.Pos) bool // cells held by other adversaries
}

// escapeCommit is how many extra ticks an adversary keeps heading out of a
// dead end after it had to turn back.
const escapeCommit = 2

// Adversary is a scripted enemy.
type Adversary struct {
	id        string
	species   Species
	pos       core.Pos
	spawn     core.Pos
	readiness int

	lastDir core.Direction
	lastPos core.Pos
	commit  int
}

// NewAdversary places an adversary on its spawn, initially heading in dir.
func NewAdversary(id string, species Species, spawn core.Pos, dir core.Direction) *Adversary {
	if dir == core.DirNone {
		dir = core.DirUp
	}
	return &Adversary{
		id:      id,
		species: species,
		pos:     spawn,
		spawn:   spawn,
		lastDir: dir,
		lastPos: spawn,
	}
}

// ID identifies the adversary within its level.
func (a *Adversary) ID() string { return a.id }

// Species is the adversary's kind and movement rules.
func (a *Adversary) Species() Species { return a.species }

// Name is the species name shown to players.
func (a *Adversary) Name() string { return a.species.Name }

// Points is the score awarded for killing the adversary.
func (a *Adversary) Points() int { return a.species.Points }

// Pos is the current cell.
func (a *Adversary) Pos() core.Pos { return a.pos }

// Spawn is the cell the adversary returns to on Respawn.
func (a *Adversary) Spawn() core.Pos { return a.spawn }

// Heading is the direction the adversary is currently travelling.
func (a *Adversary) Heading() core.Direction { return a.lastDir }

// Respawn returns the adversary to its spawn and clears its memory.
func (a *Adversary) Respawn() {
	a.pos = a.spawn
	a.lastPos = a.spawn
	a.commit = 0
}

// Ready accumulates readiness and reports whether the adversary acts this tick.
func (a *Adversary) Ready() bool {
	a.readiness += int(a.species.Speed)
	if a.readiness >= ReadyThreshold {
		a.readiness = 0
		return true
	}
	return false
}

// Step runs one action of the movement state machine.
func (a *Adversary) Step(t Terrain, s Surroundings) {
	switch a.species.Smart {
	case SmartLow:
		a.patrol(t)
	case SmartHigh:
		target := s.Avatar
		if s.HasHazard {
			target = s.Hazard
		}
		a.flee(t, s, target)
	default:
		a.flee(t, s, s.Avatar)
	}
}

// patrol keeps the current heading and turns to the next direction when blocked.
func (a *Adversary) patrol(t Terrain) {
	next := t.Move(a.pos, a.lastDir, a.species.Wallpass)
	if next == a.pos {
		a.lastDir = a.lastDir.Next()
		return
	}
	a.moveTo(next)
}

// flee picks the open neighbour farthest from target. Neighbours that are
// blocked, occupied or equal to the previous cell are skipped; with none left
// the adversary turns back and commits to that heading for a few ticks.
func (a *Adversary) flee(t Terrain, s Surroundings, target core.Pos) {
	var (
		best    core.Pos
		bestD   = -1
		found   bool
		commitP core.Pos
		commitD bool
	)
	for _, d := range core.Directions() {
		n := a.pos.Step(d)
		if t.IsBlocked(n, a.species.Wallpass) || n == a.lastPos {
			continue
		}
		if s.Occupied != nil && s.Occupied(n) {
			continue
		}
		if a.commit > 0 && d == a.lastDir {
			commitP, commitD = n, true
		}
		if dist := n.DistSq(target); dist > bestD {
			best, bestD, found = n, dist, true
		}
	}

	switch {
	case commitD:
		a.commit--
		a.moveTo(commitP)
	case found:
		a.commit = 0
		a.moveTo(best)
	case a.lastPos != a.pos:
		a.commit = escapeCommit
		a.moveTo(a.lastPos)
	}
}

func (a *Adversary) moveTo(p core.Pos) {
	if d := a.pos.DirectionTo(p); d != core.DirNone {
		a.lastDir = d
	}
	a.lastPos = a.pos
	a.pos = p
}
