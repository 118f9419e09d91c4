// Package report renders a CalculationResult for people and machines: an
// aligned text report, indented JSON, and a Prometheus textfile for node
// exporter's textfile collector.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pipesizer/pipesizer/pkg/types"
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options tune rendering.
type Options struct {
	// Title heads the text report, usually the project name.
	Title string
	// Candidates is how many ranked candidates per class the text report lists.
	Candidates int
}

// Write renders res to w in format.
func Write(w io.Writer, format string, res *types.CalculationResult, opts Options) error {
	switch format {
	case FormatText, "":
		return Text(w, res, opts)
	case FormatJSON:
		return JSON(w, res)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

// JSON writes res as indented JSON.
func JSON(w io.Writer, res *types.CalculationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("report: encode json: %w", err)
	}
	return nil
}
