package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-bomber/internal/config"
)

var flagYAML bool

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print the level table",
	Long: `Print the levels of the active config with their adversaries and the
upgrade hidden on each. With --yaml the whole resolved config is printed,
which is a good starting point for a custom --config file.

Examples:
  bomber levels
  bomber levels --difficulty hard --yaml > my-levels.yaml`,
	Args: cobra.NoArgs,
	Run:  runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagYAML, "yaml", false, "Print the resolved config as YAML")
}

func runLevels(_ *cobra.Command, _ []string) {
	gc, preset := gameSettings()
	config.ApplyPreset(&gc, preset)
	if _, err := gc.EngineConfig(flagSeed); err != nil {
		fmt.Fprintf(os.Stderr, "Error in game config: %v\n", err)
		os.Exit(1)
	}

	if flagYAML {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(gc); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Map %dx%d  Lives %d  Timeout %d ticks  %d fps  Difficulty %s\n",
		gc.Map.Width, gc.Map.Height, gc.Gameplay.Lives, gc.Gameplay.Timeout, gc.Gameplay.TickRate, preset)
	fmt.Println()
	fmt.Printf("  %-5s  %-10s  %s\n", "Level", "Reward", "Adversaries")
	fmt.Printf("  %-5s  %-10s  %s\n", "-----", "------", "-----------")
	for i, lc := range gc.Levels {
		var enemies []string
		for _, ec := range lc.Enemies {
			enemies = append(enemies, fmt.Sprintf("%dx %s", ec.Count, ec.Species))
		}
		fmt.Printf("  %-5d  %-10s  %s\n", i+1, lc.Reward, strings.Join(enemies, ", "))
	}
}
