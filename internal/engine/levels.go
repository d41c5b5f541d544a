package engine

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-bomber/internal/actor"
	"github.com/vovakirdan/tui-bomber/internal/grid"
)

// Level describes who spawns on a level and which upgrade its reward wall hides.
type Level struct {
	Enemies []actor.Species
	Reward  actor.Upgrade
}

// Config is everything the engine needs to build and run a game.
type Config struct {
	Width      int
	Height     int
	Lives      int
	Timeout    int // ticks per level before the game stops
	TickRate   int // advertised to clients; the engine itself never sleeps
	BaseRadius int
	StartLevel int
	Levels     []Level
	Grid       grid.Options
	Seed       int64
}

// DefaultConfig returns the classic rules on a 51x31 grid.
func DefaultConfig() Config {
	return Config{
		Width:      51,
		Height:     31,
		Lives:      3,
		Timeout:    3000,
		TickRate:   10,
		BaseRadius: 3,
		StartLevel: 1,
		Levels:     DefaultLevels(),
		Grid:       grid.DefaultOptions(),
	}
}

func repeat(s actor.Species, n int) []actor.Species {
	out := make([]actor.Species, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func mix(groups ...[]actor.Species) []actor.Species {
	var out []actor.Species
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// DefaultLevels returns the built-in campaign.
func DefaultLevels() []Level {
	return []Level{
		{Enemies: repeat(actor.Balloom, 6), Reward: actor.Flames},
		{Enemies: mix(repeat(actor.Balloom, 3), repeat(actor.Oneal, 3)), Reward: actor.Bombs},
		{Enemies: mix(repeat(actor.Balloom, 2), repeat(actor.Oneal, 2), repeat(actor.Doll, 2)), Reward: actor.Detonator},
		{Enemies: mix(repeat(actor.Balloom, 1), repeat(actor.Oneal, 1), repeat(actor.Doll, 2), repeat(actor.Minvo, 2)), Reward: actor.Speed},
		{Enemies: mix(repeat(actor.Oneal, 4), repeat(actor.Doll, 3)), Reward: actor.Bombs},
		{Enemies: mix(repeat(actor.Oneal, 2), repeat(actor.Doll, 2), repeat(actor.Minvo, 2), repeat(actor.Kondoria, 1)), Reward: actor.Wallpass},
		{Enemies: mix(repeat(actor.Doll, 2), repeat(actor.Minvo, 2), repeat(actor.Kondoria, 2), repeat(actor.Ovapi, 1)), Reward: actor.Flamepass},
		{Enemies: mix(repeat(actor.Minvo, 2), repeat(actor.Kondoria, 2), repeat(actor.Ovapi, 2), repeat(actor.Pass, 1)), Reward: actor.Bombpass},
	}
}

// ErrInvalidConfig wraps every configuration rejection.
var ErrInvalidConfig = errors.New("engine: invalid config")

// Validate checks the construction-time preconditions.
func (c Config) Validate() error {
	if c.Width < grid.MinSize || c.Height < grid.MinSize {
		return fmt.Errorf("%w: %w: %dx%d (minimum %dx%d)", ErrInvalidConfig, grid.ErrGridTooSmall,
			c.Width, c.Height, grid.MinSize, grid.MinSize)
	}
	switch {
	case c.Lives < 1:
		return fmt.Errorf("%w: lives must be positive, got %d", ErrInvalidConfig, c.Lives)
	case c.Timeout < 1:
		return fmt.Errorf("%w: timeout must be positive, got %d", ErrInvalidConfig, c.Timeout)
	case c.TickRate < 1:
		return fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	case c.BaseRadius < 1:
		return fmt.Errorf("%w: base radius must be positive, got %d", ErrInvalidConfig, c.BaseRadius)
	case len(c.Levels) == 0:
		return fmt.Errorf("%w: no levels defined", ErrInvalidConfig)
	case c.StartLevel < 1 || c.StartLevel > len(c.Levels):
		return fmt.Errorf("%w: start level %d outside 1..%d", ErrInvalidConfig, c.StartLevel, len(c.Levels))
	}
	return nil
}
