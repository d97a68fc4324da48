// Package output renders recommendations and configuration reports for the
// CLI. It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/clarifier/internal/recommend"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
	mode   ColorMode
}

// New creates a new output Writer with automatic color detection.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format, mode: ColorAuto}
}

// WithColor sets the color mode.
func (wr *Writer) WithColor(mode ColorMode) *Writer {
	wr.mode = mode
	return wr
}

// ConfigEntry is one row of a configuration report.
type ConfigEntry struct {
	Key      string `json:"key"`
	EnvName  string `json:"env_name"`
	Value    string `json:"value,omitempty"`
	Set      bool   `json:"set"`
	Required bool   `json:"required"`
}

// ConfigView is a resolved configuration with secrets already masked.
type ConfigView struct {
	Source   string        `json:"source"`
	Strategy string        `json:"strategy"`
	Entries  []ConfigEntry `json:"entries"`
	Missing  []string      `json:"missing,omitempty"`
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteRecommendation outputs a recommendation in the configured format.
func (wr *Writer) WriteRecommendation(rec *recommend.Response) error {
	if wr.format == FormatJSON {
		return wr.WriteJSON(rec)
	}

	color := shouldColorize(wr.mode, wr.w)
	fmt.Fprintf(wr.w, "%s %s\n", label("Objective:  ", color), rec.Objective)
	fmt.Fprintf(wr.w, "%s %s\n", label("Recommended:", color), emphasize(rec.RecommendedObjective, color))
	if rec.Rationale != "" {
		fmt.Fprintf(wr.w, "%s %s\n", label("Rationale:  ", color), rec.Rationale)
	}
	fmt.Fprintf(wr.w, "%s %s (%s)\n", label("Model:      ", color), rec.ModelID, rec.ID)
	return nil
}

// WriteConfig outputs a configuration report in the configured format.
func (wr *Writer) WriteConfig(view ConfigView) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(view)
	case FormatTable:
		return wr.writeConfigTable(view)
	default:
		return wr.writeConfigText(view)
	}
}

func (wr *Writer) writeConfigText(view ConfigView) error {
	color := shouldColorize(wr.mode, wr.w)
	fmt.Fprintf(wr.w, "%s %s\n", label("Source:  ", color), view.Source)
	fmt.Fprintf(wr.w, "%s %s\n", label("Strategy:", color), view.Strategy)
	fmt.Fprintln(wr.w)

	for _, e := range view.Entries {
		value := e.Value
		if !e.Set {
			value = "(unset)"
		}
		line := fmt.Sprintf("%-18s %s", e.EnvName, value)
		fmt.Fprintln(wr.w, colorizeEntry(e, line, color))
	}

	if len(view.Missing) > 0 {
		fmt.Fprintln(wr.w)
		msg := "Missing required keys: " + strings.Join(view.Missing, ", ")
		fmt.Fprintln(wr.w, warn(msg, color))
	}
	return nil
}

func (wr *Writer) writeConfigTable(view ConfigView) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# source=%s strategy=%s\n", view.Source, view.Strategy)
	fmt.Fprintln(tw, "KEY\tVALUE\tREQUIRED\tSTATUS")
	fmt.Fprintln(tw, "---\t-----\t--------\t------")

	for _, e := range view.Entries {
		status := "set"
		switch {
		case !e.Set && e.Required:
			status = "MISSING"
		case !e.Set:
			status = "unset"
		}
		required := ""
		if e.Required {
			required = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.EnvName, e.Value, required, status)
	}

	return tw.Flush()
}
