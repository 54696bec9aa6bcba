package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "layout",
		Short: "Print the active resource layout",
		Long: `Prints the layout in use as YAML: the built-in Metal Max layout, or the
file given with --layout after validation. Redirect it to a file to start
a custom layout.

Example:
  romctl layout > mm.yaml
  romctl layout --layout mm.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout()
		},
	})
}

func runLayout() error {
	layout, err := loadLayout()
	if err != nil {
		return err
	}
	resolved, err := layout.Resolve()
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(layout)
	}
	data, err := layout.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	printVerbose("# treasures %s, computers %s, event tiles %s (buffer offsets)\n",
		resolved.Treasures.Range, resolved.Computers.Range, resolved.EventTiles.Region)
	_, err = os.Stdout.Write(data)
	return err
}
