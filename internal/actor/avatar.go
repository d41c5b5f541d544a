// Package actor holds the avatar and adversary models and the adversary
// movement state machine.
package actor

import "github.com/vovakirdan/tui-bomber/internal/core"

// Avatar is the player-controlled character.
type Avatar struct {
	pos      core.Pos
	spawn    core.Pos
	lives    int
	upgrades []Upgrade
}

// NewAvatar creates an avatar standing on its spawn.
func NewAvatar(spawn core.Pos, lives int) *Avatar {
	return &Avatar{
		pos:   spawn,
		spawn: spawn,
		lives: lives,
	}
}

// Pos returns the current position.
func (a *Avatar) Pos() core.Pos { return a.pos }

// MoveTo relocates the avatar.
func (a *Avatar) MoveTo(p core.Pos) { a.pos = p }

// Spawn returns the respawn position.
func (a *Avatar) Spawn() core.Pos { return a.spawn }

// Lives returns the remaining lives.
func (a *Avatar) Lives() int { return a.lives }

// Kill takes one life and reports whether any remain. Lives never drop below zero.
func (a *Avatar) Kill() bool {
	if a.lives > 0 {
		a.lives--
	}
	return a.lives > 0
}

// Respawn puts the avatar back on its spawn.
func (a *Avatar) Respawn() { a.pos = a.spawn }

// Grant adds an upgrade to the collection.
func (a *Avatar) Grant(u Upgrade) {
	a.upgrades = append(a.upgrades, u)
}

// Count returns how many copies of u the avatar owns.
func (a *Avatar) Count(u Upgrade) int {
	n := 0
	for _, owned := range a.upgrades {
		if owned == u {
			n++
		}
	}
	return n
}

// Has reports whether the avatar owns at least one u.
func (a *Avatar) Has(u Upgrade) bool {
	return a.Count(u) > 0
}

// Upgrades returns the collected upgrades in pickup order.
func (a *Avatar) Upgrades() []Upgrade {
	out := make([]Upgrade, len(a.upgrades))
	copy(out, a.upgrades)
	return out
}
