package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/resources"
	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
	"github.com/joshuapare/romkit/rom/dirty"
	"github.com/joshuapare/romkit/rom/varblock"
)

var (
	rebuildOutput    string
	rebuildLayoutOut string
)

func init() {
	cmd := &cobra.Command{
		Use:   "rebuild <rom>",
		Short: "Re-encode every resource into a new ROM file",
		Long: `The rebuild command decodes every resource and writes it back in compact
form to a copy of the input. Only the bytes that were re-encoded are written
to the copy. Event tile groups are repacked, so the map indices change; use
--layout-out to save the new indices.

Nothing is written when any resource fails to decode or encode.

Example:
  romctl rebuild mm.nes -o mm-packed.nes
  romctl rebuild mm.nes --layout mm.yaml -o out.nes --layout-out out.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebuild(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVarP(&rebuildOutput, "output", "o", "", "Output ROM file (required)")
	cmd.Flags().StringVar(&rebuildLayoutOut, "layout-out", "", "Write the layout with updated event tile indices")
	_ = cmd.MarkFlagRequired("output")
	rootCmd.AddCommand(cmd)
}

func runRebuild(ctx context.Context, args []string) error {
	romPath := args[0]
	if rebuildOutput == romPath {
		return fmt.Errorf("output must differ from input: %s", romPath)
	}

	layout, err := loadLayout()
	if err != nil {
		return err
	}
	img, err := rom.Open(romPath)
	if err != nil {
		return err
	}

	report := diag.NewReport()
	sink := diag.Tee(report, diag.SlogSink{Logger: logger})
	s, err := resources.Load(img, layout, sink)
	if err != nil {
		return fmt.Errorf("failed to load resources: %w", err)
	}

	tracker := dirty.NewTracker(img)
	img.Track(tracker)
	res, err := s.Apply(sink)
	if err != nil {
		return fmt.Errorf("failed to encode resources: %w", err)
	}

	if err := copyFile(romPath, rebuildOutput); err != nil {
		return err
	}
	f, err := os.OpenFile(rebuildOutput, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	defer f.Close()

	written := tracker.Bytes()
	for _, r := range tracker.Ranges() {
		logger.Debug("flush span", "file_offset", r.Off+rom.HeaderBias, "len", r.Len)
	}
	if err := tracker.Flush(ctx, f); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if rebuildLayoutOut != "" && s.EventTiles != nil {
		layout.SetOwners(s.EventTiles.Maps())
		data, err := layout.Marshal()
		if err != nil {
			return fmt.Errorf("failed to encode layout: %w", err)
		}
		if err := os.WriteFile(rebuildLayoutOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write layout: %w", err)
		}
	}

	if jsonOut {
		return printJSON(struct {
			Output     string           `json:"output"`
			Written    int              `json:"bytes_written"`
			Report     *diag.Report     `json:"report"`
			EventTiles *varblock.Result `json:"event_tiles,omitempty"`
		}{rebuildOutput, written, report, res.EventTiles})
	}
	if !quiet {
		writeReport(os.Stdout, report)
	}
	if res.EventTiles != nil {
		for _, o := range res.EventTiles.Owners {
			printVerbose("map 0x%02X -> index 0x%04X\n", int(o.ID), int(o.Index))
		}
		printInfo("%s\n", numbers.Sprintf("event tiles: %d of %d bytes, %d groups",
			res.EventTiles.Used, res.EventTiles.Capacity, res.EventTiles.Groups))
	}
	printInfo("%s\n", numbers.Sprintf("wrote %d bytes to %s", written, rebuildOutput))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy ROM: %w", err)
	}
	return out.Close()
}
