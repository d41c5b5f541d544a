package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (easy, normal, hard)", name)
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
// Normal leaves the loaded values untouched.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gameplay.Lives = 5
		cfg.Gameplay.Timeout = cfg.Gameplay.Timeout * 3 / 2
		cfg.Map.WallThreshold = clampInt(cfg.Map.WallThreshold+5, 0, 100)
	case DifficultyHard:
		cfg.Gameplay.Lives = 1
		cfg.Gameplay.Timeout = cfg.Gameplay.Timeout * 2 / 3
		cfg.Map.WallThreshold = clampInt(cfg.Map.WallThreshold-10, 0, 100)
	}
}

// clampInt restricts an int to [lo, hi].
func clampInt(val, lo, hi int) int {
	return max(lo, min(hi, val))
}
