package output

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"screenpilot/internal/model"
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

// FindResult is the top-level output of the `find` command.
type FindResult struct {
	Query    string          `yaml:"query,omitempty" json:"query,omitempty"`
	Count    int             `yaml:"count"           json:"count"`
	Elements []model.Element `yaml:"elements"        json:"elements"`
}

// WaitOutcome is the top-level output of the `wait` command.
type WaitOutcome struct {
	Found     bool           `yaml:"found"              json:"found"`
	ElapsedMs int64          `yaml:"elapsed_ms"         json:"elapsed_ms"`
	Polls     int            `yaml:"polls"              json:"polls"`
	Matched   string         `yaml:"matched,omitempty"  json:"matched,omitempty"`
	Element   *model.Element `yaml:"element,omitempty"  json:"element,omitempty"`
	Error     string         `yaml:"error,omitempty"    json:"error,omitempty"`
}

// WindowsResult is the top-level output of the `windows` command.
type WindowsResult struct {
	Count   int            `yaml:"count"   json:"count"`
	Windows []model.Window `yaml:"windows" json:"windows"`
}

// ActionResult reports an input action (click, move, type, key).
type ActionResult struct {
	Action string `yaml:"action"          json:"action"`
	X      int    `yaml:"x,omitempty"     json:"x,omitempty"`
	Y      int    `yaml:"y,omitempty"     json:"y,omitempty"`
	Via    string `yaml:"via,omitempty"   json:"via,omitempty"`
	OK     bool   `yaml:"ok"              json:"ok"`
}

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
