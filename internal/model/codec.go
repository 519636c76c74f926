package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownCommand = errors.New("unknown command")

// Encode serializes a command in the /cmd wire form: a bare string for
// payload-less variants, a single-key object otherwise.
func Encode(c Command) ([]byte, error) {
	if c == nil {
		return nil, errors.New("encode: nil command")
	}
	if _, ok := c.(unitCommand); ok {
		return json.Marshal(c.CommandName())
	}
	return json.Marshal(map[string]Command{c.CommandName(): c})
}

// Decode parses the wire form produced by Encode.
func Decode(b []byte) (Command, error) {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		dec, ok := variants[name]
		if !ok {
			return nil, fmt.Errorf("decode %q: %w", name, ErrUnknownCommand)
		}
		c, err := dec(nil)
		if err != nil {
			return nil, err
		}
		if _, ok := c.(unitCommand); !ok {
			return nil, fmt.Errorf("decode %q: variant needs a payload", name)
		}
		return c, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("decode: want a single variant key, got %d", len(obj))
	}
	for name, raw := range obj {
		dec, ok := variants[name]
		if !ok {
			return nil, fmt.Errorf("decode %q: %w", name, ErrUnknownCommand)
		}
		c, err := dec(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", name, err)
		}
		return c, nil
	}
	return nil, errors.New("decode: empty command object")
}

// VariantNames lists every command variant the codec knows about.
func VariantNames() []string {
	out := make([]string, 0, len(variants))
	for name := range variants {
		out = append(out, name)
	}
	return out
}

type decoder func(raw json.RawMessage) (Command, error)

func variant[T Command]() decoder {
	return func(raw json.RawMessage) (Command, error) {
		var v T
		if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}
}

var variants = map[string]decoder{
	"GetSection":    variant[GetSection](),
	"NewSection":    variant[NewSection](),
	"SetSection":    variant[SetSection](),
	"SetNewSection": variant[SetNewSection](),
	"DeleteSection": variant[DeleteSection](),
	"MoveSection":   variant[MoveSection](),
	"SectionStatus": variant[SectionStatus](),

	"GetEntry":    variant[GetEntry](),
	"NewEntry":    variant[NewEntry](),
	"SetEntry":    variant[SetEntry](),
	"SetNewEntry": variant[SetNewEntry](),
	"DeleteEntry": variant[DeleteEntry](),
	"MoveEntry":   variant[MoveEntry](),

	"GetVolume":         variant[GetVolume](),
	"NewVolume":         variant[NewVolume](),
	"SetVolume":         variant[SetVolume](),
	"SetNewVolume":      variant[SetNewVolume](),
	"DeleteVolume":      variant[DeleteVolume](),
	"MoveVolume":        variant[MoveVolume](),
	"VolumeContentType": variant[VolumeContentType](),

	"GetUser":        variant[GetUser](),
	"NewUser":        variant[NewUser](),
	"SetUser":        variant[SetUser](),
	"SetNewUser":     variant[SetNewUser](),
	"UserPrivilege":  variant[UserPrivilege](),
	"AddUserCode":    variant[AddUserCode](),
	"RemoveUserCode": variant[RemoveUserCode](),
	"InitUser":       variant[InitUser](),

	"Volumes":          variant[Volumes](),
	"NextSectionId":    variant[NextSectionID](),
	"Images":           variant[Images](),
	"GetIntro":         variant[GetIntro](),
	"SetIntro":         variant[SetIntro](),
	"GetContent":       variant[GetContent](),
	"SetContent":       variant[SetContent](),
	"NewReview":        variant[NewReview](),
	"SetNewReview":     variant[SetNewReview](),
	"SetTrackReview":   variant[SetTrackReview](),
	"NewMonthInReview": variant[NewMonthInReview](),
	"SetMonthInReview": variant[SetMonthInReview](),
}
