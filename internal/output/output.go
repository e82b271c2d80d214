package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/tabshuttle/internal/model"
	"github.com/mj1618/tabshuttle/internal/platform/memory"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// StateResult is the browser as the `simulate` command and the `state` tool
// report it.
type StateResult struct {
	memory.State `yaml:",inline"`
	Recency      []model.WindowID `yaml:"recency"           json:"recency"`
	Session      uint64           `yaml:"session,omitempty" json:"session,omitempty"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return WriteJSON(w, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// WriteJSON serializes v to w as JSON.
// If pretty is true, uses indentation; otherwise single-line.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteYAML serializes v to w as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
