package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bomber/internal/hub"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [info|snapshot|final]",
	Short: "Print the wire message schema",
	Long: `Print the JSON schema of the messages the server sends to clients.
Without an argument all three are printed as one document.

Examples:
  bomber schema
  bomber schema snapshot`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"info", "snapshot", "final"},
	Run:       runSchema,
}

var schemaTypes = map[string]any{
	"info":     &hub.InfoEvent{},
	"snapshot": &hub.SnapshotEvent{},
	"final":    &hub.FinalScoreEvent{},
}

func runSchema(_ *cobra.Command, args []string) {
	r := &jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}

	var out any
	if len(args) == 1 {
		v, ok := schemaTypes[args[0]]
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown message %q (info, snapshot, final)\n", args[0])
			os.Exit(1)
		}
		out = r.Reflect(v)
	} else {
		all := make(map[string]*jsonschema.Schema, len(schemaTypes))
		for name, v := range schemaTypes {
			all[name] = r.Reflect(v)
		}
		out = all
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
