package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/diag"
)

// numbers formats counts with digit grouping.
var numbers = message.NewPrinter(language.English)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	warnColor  = color.New(color.FgYellow)
	infoColor  = color.New(color.FgCyan)
	delColor   = color.New(color.FgRed)
	addColor   = color.New(color.FgGreen)
)

// setupColor disables color for --no-color and when stdout is not a terminal.
func setupColor() {
	fd := os.Stdout.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	color.NoColor = noColor || !tty
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

// writeReport prints one line per event followed by the summary counts.
// Byte offsets are shown as cartridge file offsets.
func writeReport(w io.Writer, r *diag.Report) {
	for _, e := range r.Events {
		label := severityColor(e.Severity).Sprintf("%-7s", e.Severity)
		line := numbers.Sprintf("%s %-11s %-16s %d %s", label, e.Resource, e.Kind, e.Count, e.Unit)
		switch {
		case e.Offset < 0:
		case e.Unit == diag.UnitBytes:
			line += fmt.Sprintf(" at 0x%05X", e.Offset+rom.HeaderBias)
		default:
			line += fmt.Sprintf(" at #%d", e.Offset)
		}
		if e.Detail != "" {
			line += " (" + e.Detail + ")"
		}
		fmt.Fprintln(w, line)
	}
	numbers.Fprintf(w, "%d error(s), %d warning(s), %d info\n",
		r.Summary.Errors, r.Summary.Warnings, r.Summary.Info)
}

// hexLines renders data as 16-byte rows labelled with file offsets; off is
// the buffer offset of data[0].
func hexLines(data []byte, off int) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 16 {
		end := min(i+16, len(data))
		fmt.Fprintf(&b, "%05X: % X\n", off+i+rom.HeaderBias, data[i:end])
	}
	return b.String()
}

// writeHexDiff prints the hex rows that differ between before and after.
func writeHexDiff(w io.Writer, before, after []byte, off int) {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(hexLines(before, off), hexLines(after, off))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	for _, d := range diffs {
		var c *color.Color
		var prefix string
		switch d.Type {
		case diffpatch.DiffDelete:
			c, prefix = delColor, "- "
		case diffpatch.DiffInsert:
			c, prefix = addColor, "+ "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line != "" {
				c.Fprint(w, prefix+line)
			}
		}
	}
}
