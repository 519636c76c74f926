package terminal

import (
	"strconv"

	"edat-cli/internal/model"
)

// Position parsers return the position, how many tokens it used and whether
// the tokens formed a valid position. On failure they report (zero, 0, false)
// and the whole command line is rejected.

func parseVolumePosition(args []string) (model.VolumePosition, int, bool) {
	if len(args) < 1 {
		return model.VolumePosition{}, 0, false
	}
	switch args[0] {
	case "start":
		return model.VolumePosition{Kind: model.StartOf}, 1, true
	case "end":
		return model.VolumePosition{Kind: model.EndOf}, 1, true
	case "after", "before":
		if len(args) < 2 {
			return model.VolumePosition{}, 0, false
		}
		return model.VolumePosition{Kind: siblingKind(args[0]), Sibling: args[1]}, 2, true
	default:
		return model.VolumePosition{}, 0, false
	}
}

func parseEntryPosition(args []string) (model.EntryPosition, int, bool) {
	if len(args) < 2 {
		return model.EntryPosition{}, 0, false
	}
	switch args[0] {
	case "startof", "endof":
		if len(args) < 3 {
			return model.EntryPosition{}, 0, false
		}
		part, ok := parseIndex(args[2])
		if !ok {
			return model.EntryPosition{}, 0, false
		}
		return model.EntryPosition{
			Kind:      containerKind(args[0]),
			Container: model.VolumePart{Volume: args[1], Part: part},
		}, 3, true
	case "after", "before":
		return model.EntryPosition{Kind: siblingKind(args[0]), Sibling: args[1]}, 2, true
	default:
		return model.EntryPosition{}, 0, false
	}
}

func parseSectionPosition(args []string) (model.SectionPosition, int, bool) {
	if len(args) < 2 {
		return model.SectionPosition{}, 0, false
	}
	switch args[0] {
	case "startof", "endof":
		return model.SectionPosition{Kind: containerKind(args[0]), Container: args[1]}, 2, true
	case "after", "before":
		id, ok := parseSectionID(args[1])
		if !ok {
			return model.SectionPosition{}, 0, false
		}
		return model.SectionPosition{Kind: siblingKind(args[0]), Sibling: id}, 2, true
	default:
		return model.SectionPosition{}, 0, false
	}
}

func containerKind(kw string) model.PositionKind {
	if kw == "endof" {
		return model.EndOf
	}
	return model.StartOf
}

func siblingKind(kw string) model.PositionKind {
	if kw == "after" {
		return model.After
	}
	return model.Before
}

// parseSectionID accepts a non-negative decimal that fits the server's u32.
func parseSectionID(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// parseIndex accepts a non-negative decimal int.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseOptionalInt32 is used for fields the server treats as optional. A value
// that does not parse (or is negative) reports ok=false and the caller drops the
// field instead of failing.
func parseOptionalInt32(s string) (int32, bool) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 0 {
		return 0, false
	}
	return int32(n), true
}
