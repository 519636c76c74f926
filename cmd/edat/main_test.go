package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectLineArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"edat"},
			want: []string{"edat"},
		},
		{
			name: "verb first token",
			in:   []string{"edat", "status", "12", "complete"},
			want: []string{"edat", "exec", "status", "12", "complete"},
		},
		{
			name: "verb any case",
			in:   []string{"edat", "GET", "volume", "vol-a"},
			want: []string{"edat", "exec", "GET", "volume", "vol-a"},
		},
		{
			name: "verb after value flag",
			in:   []string{"edat", "--server", "http://localhost:8080", "volumes"},
			want: []string{"edat", "--server", "http://localhost:8080", "exec", "volumes"},
		},
		{
			name: "verb after equals flag",
			in:   []string{"edat", "--user=owner-1", "volumes"},
			want: []string{"edat", "--user=owner-1", "exec", "volumes"},
		},
		{
			name: "verb after bool flag",
			in:   []string{"edat", "--pretty", "volumes"},
			want: []string{"edat", "--pretty", "exec", "volumes"},
		},
		{
			name: "verb after double dash",
			in:   []string{"edat", "--server", "x", "--", "move", "section", "3", "before", "-1"},
			want: []string{"edat", "--server", "x", "exec", "--", "move", "section", "3", "before", "-1"},
		},
		{
			name: "subcommand wins over verb",
			in:   []string{"edat", "images", "upload", "a.jpg"},
			want: []string{"edat", "images", "upload", "a.jpg"},
		},
		{
			name: "exec not rewritten",
			in:   []string{"edat", "exec", "volumes"},
			want: []string{"edat", "exec", "volumes"},
		},
		{
			name: "unknown word not rewritten",
			in:   []string{"edat", "wat"},
			want: []string{"edat", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectLineArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectLineArgs(%q): got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
