package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-bomber/internal/engine"
)

//go:embed defaults/bomber.yaml
var defaultBomberYAML []byte

// DefaultGameConfig returns the built-in configuration.
func DefaultGameConfig() GameConfig {
	return FromEngine(engine.DefaultConfig())
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultBomberYAML))
	copy(out, defaultBomberYAML)
	return out
}
