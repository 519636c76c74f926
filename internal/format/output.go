package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a CLI output encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Formats lists the accepted --format values.
var Formats = []Format{JSON, YAML}

// Envelope wraps every CLI result so scripts can always read .data.
type Envelope struct {
	Data any `json:"data" yaml:"data"`
}

// Parse resolves a --format value. Empty means JSON.
func Parse(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// Write encodes data inside an Envelope.
func Write(w io.Writer, data any, f Format, pretty bool) error {
	env := Envelope{Data: data}
	switch f {
	case "", JSON:
		return WriteJSON(w, env, pretty)
	case YAML:
		return WriteYAML(w, env)
	default:
		return fmt.Errorf("unknown format: %s", f)
	}
}

// WriteJSON writes one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	// Fragments and markdown carry <, > and &; keep them readable.
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// WriteYAML writes a YAML document. Values are marshalled by their yaml tags.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
