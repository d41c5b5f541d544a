// Package config provides YAML-based game configuration loading, difficulty
// presets and the server environment overlay.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-bomber/internal/actor"
	"github.com/vovakirdan/tui-bomber/internal/engine"
	"github.com/vovakirdan/tui-bomber/internal/grid"
)

// GameConfig contains all configuration for a bomber game.
type GameConfig struct {
	Map      MapConfig      `yaml:"map"`
	Gameplay GameplayConfig `yaml:"gameplay"`
	Levels   []LevelConfig  `yaml:"levels"`
}

// MapConfig defines the lattice size and wall density.
type MapConfig struct {
	Width         int  `yaml:"width"`
	Height        int  `yaml:"height"`
	WallThreshold int  `yaml:"wall_threshold"`
	LevelBonus    int  `yaml:"level_bonus"`
	Empty         bool `yaml:"empty"` // no destructible walls
}

// GameplayConfig defines the rules of a game.
type GameplayConfig struct {
	Lives      int `yaml:"lives"`
	Timeout    int `yaml:"timeout"` // ticks per level
	TickRate   int `yaml:"tick_rate"`
	BaseRadius int `yaml:"base_radius"`
	StartLevel int `yaml:"start_level"`
}

// LevelConfig describes one level of the campaign.
type LevelConfig struct {
	Reward  string        `yaml:"reward"`
	Enemies []EnemyConfig `yaml:"enemies"`
}

// EnemyConfig spawns Count adversaries of one species.
type EnemyConfig struct {
	Species string `yaml:"species"`
	Count   int    `yaml:"count"`
}

// EngineConfig resolves species and reward names and returns a validated
// engine configuration.
func (c GameConfig) EngineConfig(seed int64) (engine.Config, error) {
	cfg := engine.Config{
		Width:      c.Map.Width,
		Height:     c.Map.Height,
		Lives:      c.Gameplay.Lives,
		Timeout:    c.Gameplay.Timeout,
		TickRate:   c.Gameplay.TickRate,
		BaseRadius: c.Gameplay.BaseRadius,
		StartLevel: c.Gameplay.StartLevel,
		Grid: grid.Options{
			WallThreshold: c.Map.WallThreshold,
			LevelBonus:    c.Map.LevelBonus,
			Empty:         c.Map.Empty,
		},
		Seed: seed,
	}
	if cfg.StartLevel == 0 {
		cfg.StartLevel = 1
	}

	for i, lc := range c.Levels {
		reward, err := actor.ParseUpgrade(lc.Reward)
		if err != nil {
			return engine.Config{}, fmt.Errorf("config: level %d: %w", i+1, err)
		}
		level := engine.Level{Reward: reward}
		for _, ec := range lc.Enemies {
			species, err := actor.LookupSpecies(ec.Species)
			if err != nil {
				return engine.Config{}, fmt.Errorf("config: level %d: %w", i+1, err)
			}
			if ec.Count < 0 {
				return engine.Config{}, fmt.Errorf("config: level %d: negative count for %s", i+1, ec.Species)
			}
			for n := 0; n < ec.Count; n++ {
				level.Enemies = append(level.Enemies, species)
			}
		}
		cfg.Levels = append(cfg.Levels, level)
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

// FromEngine converts an engine configuration back to its YAML form.
func FromEngine(cfg engine.Config) GameConfig {
	gc := GameConfig{
		Map: MapConfig{
			Width:         cfg.Width,
			Height:        cfg.Height,
			WallThreshold: cfg.Grid.WallThreshold,
			LevelBonus:    cfg.Grid.LevelBonus,
			Empty:         cfg.Grid.Empty,
		},
		Gameplay: GameplayConfig{
			Lives:      cfg.Lives,
			Timeout:    cfg.Timeout,
			TickRate:   cfg.TickRate,
			BaseRadius: cfg.BaseRadius,
			StartLevel: cfg.StartLevel,
		},
	}
	for _, l := range cfg.Levels {
		lc := LevelConfig{Reward: l.Reward.String()}
		for _, s := range l.Enemies {
			if n := len(lc.Enemies); n > 0 && lc.Enemies[n-1].Species == s.Name {
				lc.Enemies[n-1].Count++
				continue
			}
			lc.Enemies = append(lc.Enemies, EnemyConfig{Species: s.Name, Count: 1})
		}
		gc.Levels = append(gc.Levels, lc)
	}
	return gc
}
