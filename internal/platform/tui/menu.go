package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bomber/internal/config"
)

// MenuChoice is what the user picked on the title screen.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceScores
	ChoiceQuit
)

var menuItems = []struct {
	choice MenuChoice
	title  string
}{
	{ChoicePlay, "Play"},
	{ChoiceScores, "High Scores"},
	{ChoiceQuit, "Quit"},
}

var presets = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))

// MenuModel is the title screen: play, scores or quit, plus a difficulty
// selector changed with left/right.
type MenuModel struct {
	player     string
	cursor     int
	difficulty int
	width      int
	height     int
	keyMapper  *KeyMapper
	chosen     MenuChoice
}

// NewMenuModel creates a menu for player with the given preset preselected.
func NewMenuModel(player string, preset config.DifficultyPreset, width, height int) MenuModel {
	m := MenuModel{
		player:     player,
		difficulty: 1,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
	}
	for i, p := range presets {
		if p == preset {
			m.difficulty = i
		}
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.chosen = ChoiceQuit
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if m.difficulty > 0 {
			m.difficulty--
		}

	case MenuActionRight:
		if m.difficulty < len(presets)-1 {
			m.difficulty++
		}

	case MenuActionSelect:
		m.chosen = menuItems[m.cursor].choice
		if m.chosen == ChoiceQuit {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.chosen == ChoiceQuit {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("B O M B E R"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Player: %s", m.player), m.width))
	b.WriteString("\n\n")

	for i, item := range menuItems {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.title, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("< Difficulty: %s >", m.Difficulty()), m.width))
	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Left/Right: Difficulty  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")
	return b.String()
}

// Chosen returns the selected item, ChoiceNone until the user picks one.
func (m MenuModel) Chosen() MenuChoice {
	return m.chosen
}

// Difficulty returns the selected preset.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return presets[m.difficulty]
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
