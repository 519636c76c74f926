package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type PositionKind string

const (
	StartOf PositionKind = "StartOf"
	EndOf   PositionKind = "EndOf"
	Before  PositionKind = "Before"
	After   PositionKind = "After"
)

// Position places an item relative to a container (StartOf/EndOf) or to a
// sibling (Before/After). Only the field matching Kind is meaningful.
type Position[C, I any] struct {
	Kind      PositionKind
	Container C
	Sibling   I
}

type (
	// VolumePosition places a volume in the site-wide volume list.
	VolumePosition = Position[NoContainer, string]
	// EntryPosition places an entry inside a volume part.
	EntryPosition = Position[VolumePart, string]
	// SectionPosition places a section inside a volume; the container is the volume id.
	SectionPosition = Position[string, uint32]
)

func (p Position[C, I]) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case StartOf, EndOf:
		return json.Marshal(map[PositionKind]C{p.Kind: p.Container})
	case Before, After:
		return json.Marshal(map[PositionKind]I{p.Kind: p.Sibling})
	default:
		return nil, fmt.Errorf("position: unknown kind %q", p.Kind)
	}
}

func (p *Position[C, I]) UnmarshalJSON(b []byte) error {
	var raw map[PositionKind]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("position: want exactly one variant, got %d", len(raw))
	}
	var out Position[C, I]
	for k, v := range raw {
		out.Kind = k
		switch k {
		case StartOf, EndOf:
			if err := json.Unmarshal(v, &out.Container); err != nil {
				return fmt.Errorf("position %s: %w", k, err)
			}
		case Before, After:
			if err := json.Unmarshal(v, &out.Sibling); err != nil {
				return fmt.Errorf("position %s: %w", k, err)
			}
		default:
			return fmt.Errorf("position: unknown kind %q", k)
		}
	}
	*p = out
	return nil
}

func (p Position[C, I]) String() string {
	switch p.Kind {
	case StartOf, EndOf:
		return fmt.Sprintf("%s(%v)", p.Kind, p.Container)
	default:
		return fmt.Sprintf("%s(%v)", p.Kind, p.Sibling)
	}
}

// NoContainer is the container of top-level volumes. It encodes as JSON null.
type NoContainer struct{}

func (NoContainer) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (*NoContainer) UnmarshalJSON(b []byte) error {
	if !bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return fmt.Errorf("position: volume container must be null, got %s", b)
	}
	return nil
}

func (NoContainer) String() string { return "null" }

// VolumePart addresses one part of a multi-part volume. It encodes as a
// two-element array: ["volume-id", part].
type VolumePart struct {
	Volume string
	Part   int
}

func (v VolumePart) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{v.Volume, v.Part})
}

func (v *VolumePart) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("volume part: want [volume, part], got %d elements", len(pair))
	}
	var out VolumePart
	if err := json.Unmarshal(pair[0], &out.Volume); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[1], &out.Part); err != nil {
		return err
	}
	if out.Part < 0 {
		return fmt.Errorf("volume part: negative part %d", out.Part)
	}
	*v = out
	return nil
}

func (v VolumePart) String() string { return fmt.Sprintf("%s %d", v.Volume, v.Part) }
