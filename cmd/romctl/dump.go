package main

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/resources"
	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
)

var dumpWhere string

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVarP(&dumpWhere, "where", "w", "", "Only rows matching this boolean expression")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <rom> <resource>",
		Short: "List the records of one resource",
		Long: `The dump command decodes one resource and prints a row per record.

Rows can be filtered with --where, an expression over the row's columns:
  treasures         slot, map_id, x, y, item
  random_treasures  slot, item, chance
  check_points      slot, map_id, x, y
  computers         slot, map_id, kind, x, y
  event_tiles       map_id, index, trigger, x, y, payload

Example:
  romctl dump mm.nes treasures
  romctl dump mm.nes treasures --where 'map_id == 0x1A && item > 0x40'
  romctl dump mm.nes event_tiles --layout mm.yaml --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
}

// row is one record keyed by column name.
type row map[string]any

// dumpColumns lists each resource's columns in print order.
var dumpColumns = map[string][]string{
	resources.NameTreasures:       {"slot", "map_id", "x", "y", "item"},
	resources.NameRandomTreasures: {"slot", "item", "chance"},
	resources.NameCheckPoints:     {"slot", "map_id", "x", "y"},
	resources.NameComputers:       {"slot", "map_id", "kind", "x", "y"},
	resources.NameEventTiles:      {"map_id", "index", "trigger", "x", "y", "payload"},
}

func runDump(args []string) error {
	romPath, resource := args[0], args[1]
	columns, ok := dumpColumns[resource]
	if !ok {
		return fmt.Errorf("unknown resource %q (use: treasures, random_treasures, check_points, computers, event_tiles)", resource)
	}

	program, err := compileWhere(dumpWhere, columns)
	if err != nil {
		return fmt.Errorf("invalid --where: %w", err)
	}

	layout, err := loadLayout()
	if err != nil {
		return err
	}
	printVerbose("Opening ROM: %s\n", romPath)
	img, err := rom.Open(romPath)
	if err != nil {
		return err
	}
	s, err := resources.Load(img, layout, diag.SlogSink{Logger: logger})
	if s == nil {
		return err
	}
	if err != nil {
		logger.Warn("some resources failed to load", "error", err)
	}

	var rows []row
	switch resource {
	case resources.NameTreasures:
		if s.Treasures == nil {
			return err
		}
		rows = treasureRows(s.Treasures)
	case resources.NameRandomTreasures:
		if s.RandomTreasures == nil {
			return err
		}
		rows = randomTreasureRows(s.RandomTreasures)
		d := s.RandomTreasures.Default
		printInfo("default item=%02X chance=%02X\n", d.Item, d.Chance)
	case resources.NameCheckPoints:
		if s.CheckPoints == nil {
			return err
		}
		rows = checkPointRows(s.CheckPoints)
	case resources.NameComputers:
		if s.Computers == nil {
			return err
		}
		rows = computerRows(s.Computers)
	case resources.NameEventTiles:
		if s.EventTiles == nil {
			return err
		}
		rows = eventTileRows(s.EventTiles)
	}

	rows, err = filterRows(program, rows)
	if err != nil {
		return err
	}
	if jsonOut {
		if rows == nil {
			rows = []row{}
		}
		return printJSON(rows)
	}
	for _, r := range rows {
		fmt.Println(formatRow(columns, r))
	}
	printInfo("%s\n", numbers.Sprintf("%d %s", len(rows), resource))
	return nil
}

func treasureRows(t *resources.Treasures) []row {
	rows := make([]row, 0, len(t.Items))
	for i, it := range t.Items {
		rows = append(rows, row{"slot": i, "map_id": int(it.Map), "x": int(it.X), "y": int(it.Y), "item": int(it.Item)})
	}
	return rows
}

func randomTreasureRows(r *resources.RandomTreasures) []row {
	rows := make([]row, 0, len(r.Items))
	for i, it := range r.Items {
		rows = append(rows, row{"slot": i, "item": int(it.Item), "chance": int(it.Chance)})
	}
	return rows
}

func checkPointRows(c *resources.CheckPoints) []row {
	rows := make([]row, 0, len(c.Points))
	for i, p := range c.Points {
		rows = append(rows, row{"slot": i, "map_id": int(p.Map), "x": int(p.X), "y": int(p.Y)})
	}
	return rows
}

func computerRows(c *resources.Computers) []row {
	all := c.All()
	rows := make([]row, 0, len(all))
	for i, v := range all {
		rows = append(rows, row{"slot": i, "map_id": int(v.Map), "kind": int(v.Type), "x": int(v.X), "y": int(v.Y)})
	}
	return rows
}

func eventTileRows(e *resources.EventTiles) []row {
	var rows []row
	for _, o := range e.Maps() {
		g, ok := e.Tiles(int(o.ID))
		if !ok {
			continue
		}
		for _, entry := range g.Entries() {
			for _, t := range entry.Records {
				rows = append(rows, row{
					"map_id": int(o.ID), "index": int(o.Index), "trigger": int(entry.Trigger),
					"x": int(t.X), "y": int(t.Y), "payload": int(t.Payload),
				})
			}
		}
	}
	return rows
}

// compileWhere type-checks src against a row of the given columns. An empty
// src yields a nil program that matches everything.
func compileWhere(src string, columns []string) (*vm.Program, error) {
	if src == "" {
		return nil, nil
	}
	env := make(map[string]any, len(columns))
	for _, c := range columns {
		env[c] = 0
	}
	return expr.Compile(src, expr.Env(env), expr.AsBool())
}

func filterRows(program *vm.Program, rows []row) ([]row, error) {
	if program == nil {
		return rows, nil
	}
	var out []row
	for _, r := range rows {
		ok, err := expr.Run(program, map[string]any(r))
		if err != nil {
			return nil, fmt.Errorf("evaluate --where: %w", err)
		}
		if ok.(bool) {
			out = append(out, r)
		}
	}
	return out, nil
}

func formatRow(columns []string, r row) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		switch c {
		case "slot":
			parts[i] = fmt.Sprintf("%s=%d", c, r[c])
		case "index":
			parts[i] = fmt.Sprintf("%s=%04X", c, r[c])
		default:
			parts[i] = fmt.Sprintf("%s=%02X", c, r[c])
		}
	}
	return strings.Join(parts, " ")
}
