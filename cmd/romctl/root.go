package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/resources"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	noColor    bool
	layoutPath string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "romctl",
	Short: "Inspect and rebuild Metal Max cartridge resource tables",
	Long: `romctl decodes the treasure, computer and event tile tables of a
Metal Max cartridge, reports wasted or overflowing space, and writes the
tables back in their compact form.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupColor()
		return setupLogger()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVarP(&layoutPath, "layout", "l", "", "YAML layout file (default: built-in Metal Max layout)")
	rootCmd.PersistentFlags().
		StringVar(&logFile, "log-file", "", "Write JSON debug logs to this file")
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError("%v\n", err)
		stop()
		os.Exit(1)
	}
}

// loadLayout returns the --layout file, or the built-in layout.
func loadLayout() (*resources.Layout, error) {
	if layoutPath == "" {
		return resources.DefaultLayout(), nil
	}
	return resources.LoadLayout(layoutPath)
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
