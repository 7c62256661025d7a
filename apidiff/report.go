package apidiff

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// report formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type TagSummary struct {
	Tag     string `json:"tag" yaml:"tag"`
	Missing int    `json:"missing" yaml:"missing"`
}

// Report is the serialisable summary of a Diff
type Report struct {
	Coverage     float64      `json:"coverage" yaml:"coverage"`
	Declared     int          `json:"declared" yaml:"declared"`
	Implemented  int          `json:"implemented" yaml:"implemented"`
	MissingByTag []TagSummary `json:"missing_by_tag" yaml:"missing_by_tag"`
	Missing      []Endpoint   `json:"missing" yaml:"missing"`
	Extra        []Endpoint   `json:"extra" yaml:"extra"`
}

func NewReport(d Diff) Report {
	r := Report{
		Coverage:     float64(int(d.Coverage()*10+0.5)) / 10,
		Declared:     len(d.Missing) + len(d.Matched),
		Implemented:  len(d.Matched),
		MissingByTag: []TagSummary{},
		Missing:      d.Missing,
		Extra:        d.Extra,
	}
	if r.Missing == nil {
		r.Missing = []Endpoint{}
	}
	if r.Extra == nil {
		r.Extra = []Endpoint{}
	}
	groups := d.MissingByTag()
	for _, tag := range Tags(groups) {
		r.MissingByTag = append(r.MissingByTag, TagSummary{Tag: tag, Missing: len(groups[tag])})
	}
	return r
}

// WriteReport renders the diff as text, json or yaml
func WriteReport(w io.Writer, d Diff, format string) error {
	r := NewReport(d)
	switch strings.ToLower(format) {
	case "", FormatText:
		return writeText(w, d, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, d Diff, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Coverage: %.1f%% (%d of %d endpoints)\n", r.Coverage, r.Implemented, r.Declared)

	groups := d.MissingByTag()
	if len(groups) > 0 {
		fmt.Fprintf(tw, "\nMissing endpoints:\n")
	}
	for _, tag := range Tags(groups) {
		fmt.Fprintf(tw, "\n%s (%d)\n", tag, len(groups[tag]))
		for _, e := range groups[tag] {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.Method, e.Path, e.OperationID)
		}
	}

	if len(d.Extra) > 0 {
		fmt.Fprintf(tw, "\nNot in the spec:\n")
		for _, e := range d.Extra {
			fmt.Fprintf(tw, "  %s\t%s\t\n", e.Method, e.Path)
		}
	}
	return tw.Flush()
}
