package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bomber/internal/core"
)

// KeyMapper translates Bubble Tea key messages to engine commands.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// GameKey is what a key press means during a game.
type GameKey int

const (
	GameKeyNone GameKey = iota
	GameKeyCommand
	GameKeyRestart
	GameKeyBack
	GameKeyQuit
)

// MapKey translates a key to an engine command symbol.
// Arrows and WASD move, b or space places a bomb, x detonates.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (string, GameKey) {
	switch msg.String() {
	case "ctrl+c", "q":
		return "", GameKeyQuit
	case "w", "up", "k":
		return core.CmdUp.Key(), GameKeyCommand
	case "a", "left", "h":
		return core.CmdLeft.Key(), GameKeyCommand
	case "s", "down", "j":
		return core.CmdDown.Key(), GameKeyCommand
	case "d", "right", "l":
		return core.CmdRight.Key(), GameKeyCommand
	case "b", " ":
		return core.CmdPlace.Key(), GameKeyCommand
	case "x":
		return core.CmdDetonate.Key(), GameKeyCommand
	case "r":
		return "", GameKeyRestart
	case "esc":
		return "", GameKeyBack
	}
	return "", GameKeyNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
