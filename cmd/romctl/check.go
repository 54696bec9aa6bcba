package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/resources"
	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
)

var checkDiff bool

func init() {
	cmd := &cobra.Command{
		Use:   "check <rom>",
		Short: "Decode and re-encode every resource without writing",
		Long: `The check command decodes every resource, encodes it again into a scratch
copy of the image, and reports what the round trip found: duplicate
records, dropped records, unused space, overflow, and byte regions that a
rebuild would change.

Exits non-zero when a resource fails or an error-level event is reported.

Example:
  romctl check mm.nes
  romctl check mm.nes --layout mm.yaml --diff
  romctl check mm.nes --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	cmd.Flags().BoolVarP(&checkDiff, "diff", "d", false, "Show a hex diff of changed regions")
	rootCmd.AddCommand(cmd)
}

// changedRegion is a resource span whose bytes a rebuild would change, in
// cartridge file offsets.
type changedRegion struct {
	Resource string `json:"resource"`
	Start    int    `json:"file_start"`
	End      int    `json:"file_end"`

	before, after []byte
	off           int
}

type checkOutput struct {
	Report  *diag.Report    `json:"report"`
	Changed []changedRegion `json:"changed"`
	Errors  []string        `json:"errors,omitempty"`
}

func runCheck(args []string) error {
	romPath := args[0]
	layout, err := loadLayout()
	if err != nil {
		return err
	}
	printVerbose("Opening ROM: %s\n", romPath)
	img, err := rom.Open(romPath)
	if err != nil {
		return err
	}

	report := diag.NewReport()
	sink := diag.Tee(report, diag.SlogSink{Logger: logger})

	work := img.Clone()
	s, loadErr := resources.Load(work, layout, sink)
	if s == nil {
		return loadErr
	}
	res, applyErr := s.Apply(sink)

	spans := map[string]rom.AddressRange{
		resources.NameTreasures:       s.Layout.Treasures.Range,
		resources.NameRandomTreasures: randomSpan(s.Layout.RandomTreasures),
		resources.NameCheckPoints:     s.Layout.CheckPoints.Range,
		resources.NameComputers:       s.Layout.Computers.Range,
	}
	events := s.Layout.EventTiles.Region
	if res.EventTiles != nil {
		events.End = max(events.End, events.Start+res.EventTiles.Used)
	}
	spans[resources.NameEventTiles] = events
	changed := changedRegions(img.Bytes(), work.Bytes(), spans)

	failed := errors.Join(loadErr, applyErr)
	if jsonOut {
		out := checkOutput{Report: report, Changed: changed}
		if failed != nil {
			out.Errors = []string{failed.Error()}
		}
		if err := printJSON(out); err != nil {
			return err
		}
	} else if !quiet {
		writeReport(os.Stdout, report)
		for _, c := range changed {
			fmt.Printf("%s would change [0x%05X, 0x%05X)\n", c.Resource, c.Start, c.End)
			if checkDiff {
				writeHexDiff(os.Stdout, c.before, c.after, c.off)
			}
		}
	}

	if failed != nil {
		return failed
	}
	if report.HasErrors() {
		return fmt.Errorf("%d error(s) reported", report.Summary.Errors)
	}
	return nil
}

var resourceOrder = []string{
	resources.NameTreasures,
	resources.NameRandomTreasures,
	resources.NameCheckPoints,
	resources.NameComputers,
	resources.NameEventTiles,
}

// randomSpan covers the random treasure table and both default bytes.
func randomSpan(l resources.RandomLayout) rom.AddressRange {
	return rom.AddressRange{
		Start: min(l.Table.Range.Start, l.DefaultItem, l.DefaultChance),
		End:   max(l.Table.Range.End, l.DefaultItem+1, l.DefaultChance+1),
	}
}

// changedRegions compares before and after over each span, in a fixed
// resource order.
func changedRegions(before, after []byte, spans map[string]rom.AddressRange) []changedRegion {
	changed := []changedRegion{}
	for _, name := range resourceOrder {
		r, ok := spans[name]
		if !ok || r.Start < 0 || r.End > len(before) || r.End > len(after) {
			continue
		}
		a, b := before[r.Start:r.End], after[r.Start:r.End]
		if bytes.Equal(a, b) {
			continue
		}
		changed = append(changed, changedRegion{
			Resource: name,
			Start:    r.Start + rom.HeaderBias,
			End:      r.End + rom.HeaderBias,
			before:   a,
			after:    b,
			off:      r.Start,
		})
	}
	return changed
}
