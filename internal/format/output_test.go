package format

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	ID   string `json:"id" yaml:"id"`
	Line string `json:"line" yaml:"line"`
}

func TestWrite(t *testing.T) {
	t.Parallel()

	rows := []row{{ID: "a1", Line: "get volume <i>x</i>"}}
	tests := []struct {
		format Format
		pretty bool
		want   string
	}{
		{"", false, `{"data":[{"id":"a1","line":"get volume <i>x</i>"}]}` + "\n"},
		{JSON, true, "{\n  \"data\": [\n    {\n      \"id\": \"a1\",\n      \"line\": \"get volume <i>x</i>\"\n    }\n  ]\n}\n"},
		{YAML, false, "data:\n  - id: a1\n    line: get volume <i>x</i>\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Write(&buf, rows, tt.format, tt.pretty); err != nil {
			t.Fatalf("Write(%q): %v", tt.format, err)
		}
		if buf.String() != tt.want {
			t.Fatalf("Write(%q): got %q, want %q", tt.format, buf.String(), tt.want)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, 1, "edn", false)
	if err == nil || !strings.Contains(err.Error(), "edn") {
		t.Fatalf("Write(edn): got %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", JSON, true},
		{"JSON", JSON, true},
		{" yml ", YAML, true},
		{"yaml", YAML, true},
		{"edn", "", false},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Fatalf("Parse(%q): got (%q, %v), want %q ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}
