package terminal

import (
	"testing"

	"edat-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestParseVolumePosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       []string
		want     model.VolumePosition
		consumed int
		ok       bool
	}{
		{[]string{"start"}, model.VolumePosition{Kind: model.StartOf}, 1, true},
		{[]string{"end", "trailing"}, model.VolumePosition{Kind: model.EndOf}, 1, true},
		{[]string{"after", "vol-b"}, model.VolumePosition{Kind: model.After, Sibling: "vol-b"}, 2, true},
		{[]string{"before", "vol-b", "x"}, model.VolumePosition{Kind: model.Before, Sibling: "vol-b"}, 2, true},
		{[]string{"after"}, model.VolumePosition{}, 0, false},
		{[]string{"startof", "v"}, model.VolumePosition{}, 0, false},
		{[]string{"bogus"}, model.VolumePosition{}, 0, false},
		{nil, model.VolumePosition{}, 0, false},
	}

	for _, tt := range tests {
		got, n, ok := parseVolumePosition(tt.in)
		if ok != tt.ok || n != tt.consumed {
			t.Fatalf("parseVolumePosition(%q): n=%d ok=%v, want n=%d ok=%v", tt.in, n, ok, tt.consumed, tt.ok)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("parseVolumePosition(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseEntryPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       []string
		want     model.EntryPosition
		consumed int
		ok       bool
	}{
		{
			in:       []string{"startof", "vol-a", "3"},
			want:     model.EntryPosition{Kind: model.StartOf, Container: model.VolumePart{Volume: "vol-a", Part: 3}},
			consumed: 3, ok: true,
		},
		{
			in:       []string{"endof", "vol-a", "0", "extra"},
			want:     model.EntryPosition{Kind: model.EndOf, Container: model.VolumePart{Volume: "vol-a", Part: 0}},
			consumed: 3, ok: true,
		},
		{
			in:       []string{"after", "other-entry"},
			want:     model.EntryPosition{Kind: model.After, Sibling: "other-entry"},
			consumed: 2, ok: true,
		},
		{
			in:       []string{"before", "other-entry"},
			want:     model.EntryPosition{Kind: model.Before, Sibling: "other-entry"},
			consumed: 2, ok: true,
		},
		{in: []string{"startof", "vol-a"}},
		{in: []string{"startof", "vol-a", "-1"}},
		{in: []string{"startof", "vol-a", "x"}},
		{in: []string{"endof", "vol-a", "2.5"}},
		{in: []string{"after"}},
		{in: []string{"start", "vol-a"}},
	}

	for _, tt := range tests {
		got, n, ok := parseEntryPosition(tt.in)
		if ok != tt.ok || n != tt.consumed {
			t.Fatalf("parseEntryPosition(%q): n=%d ok=%v, want n=%d ok=%v", tt.in, n, ok, tt.consumed, tt.ok)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("parseEntryPosition(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseSectionPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       []string
		want     model.SectionPosition
		consumed int
		ok       bool
	}{
		{[]string{"startof", "my-entry"}, model.SectionPosition{Kind: model.StartOf, Container: "my-entry"}, 2, true},
		{[]string{"endof", "my-entry", "9"}, model.SectionPosition{Kind: model.EndOf, Container: "my-entry"}, 2, true},
		{[]string{"after", "12"}, model.SectionPosition{Kind: model.After, Sibling: 12}, 2, true},
		{[]string{"before", "0"}, model.SectionPosition{Kind: model.Before, Sibling: 0}, 2, true},
		{[]string{"after", "twelve"}, model.SectionPosition{}, 0, false},
		{[]string{"after", "-3"}, model.SectionPosition{}, 0, false},
		{[]string{"before", "4294967296"}, model.SectionPosition{}, 0, false},
		{[]string{"startof"}, model.SectionPosition{}, 0, false},
		{[]string{"start", "my-entry"}, model.SectionPosition{}, 0, false},
	}

	for _, tt := range tests {
		got, n, ok := parseSectionPosition(tt.in)
		if ok != tt.ok || n != tt.consumed {
			t.Fatalf("parseSectionPosition(%q): n=%d ok=%v, want n=%d ok=%v", tt.in, n, ok, tt.consumed, tt.ok)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("parseSectionPosition(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}
