package diag

import (
	"encoding/json"
	"io"
	"sort"
)

// Summary provides quick counts.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Report collects events. It implements Sink.
type Report struct {
	Events  []Event `json:"events"`
	Summary Summary `json:"summary"`

	ByResource map[string][]Event `json:"-"`
	ByKind     map[Kind][]Event   `json:"-"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		ByResource: make(map[string][]Event),
		ByKind:     make(map[Kind][]Event),
	}
}

// Report adds e and updates the indices.
func (r *Report) Report(e Event) {
	r.Events = append(r.Events, e)

	switch e.Severity {
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	default:
		r.Summary.Info++
	}

	r.ByResource[e.Resource] = append(r.ByResource[e.Resource], e)
	r.ByKind[e.Kind] = append(r.ByKind[e.Kind], e)
}

// HasErrors reports whether any error-severity event was collected.
func (r *Report) HasErrors() bool { return r.Summary.Errors > 0 }

// Resources returns the resource names with events, sorted.
func (r *Report) Resources() []string {
	names := make([]string, 0, len(r.ByResource))
	for name := range r.ByResource {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteJSON encodes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
