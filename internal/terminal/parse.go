package terminal

import (
	"strings"

	"edat-cli/internal/model"
)

// Verbs lists the root words of the command language.
var Verbs = []string{
	"privilege", "status", "volumetype", "new", "move", "get", "delete",
	"volumes", "code", "images", "intro", "content", "init", "review",
}

// siteIntro is the intro scope that addresses the site-wide introduction.
const siteIntro = "edat"

// IsVerb reports whether word (any case) starts a terminal command.
func IsVerb(word string) bool {
	word = strings.ToLower(strings.TrimSpace(word))
	for _, v := range Verbs {
		if v == word {
			return true
		}
	}
	return false
}

// Parse turns one line into a Plan without side effects on the session.
func (s *Session) Parse(line string) (Plan, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return Plan{}, parseErrorf(line, "empty command")
	}

	fail := func(format string, a ...any) (Plan, error) {
		return Plan{}, parseErrorf(line, format, a...)
	}
	need := func(n int) bool { return len(args) >= n }

	root := strings.ToLower(args[0])
	switch root {
	case "privilege":
		if !need(3) {
			return fail("privilege: want <user> <privilege>")
		}
		user := args[1]
		priv, ok := model.ParsePrivilege(args[2])
		if !ok {
			return fail("privilege: unknown privilege %q", args[2])
		}
		return Plan{Command: model.UserPrivilege{ID: user, Privilege: priv}, Next: s.editUser(user)}, nil

	case "status":
		if !need(3) {
			return fail("status: want <section> <status>")
		}
		id, ok := parseSectionID(args[1])
		if !ok {
			return fail("status: bad section id %q", args[1])
		}
		status, ok := model.ParseContentStatus(args[2])
		if !ok {
			return fail("status: unknown status %q", args[2])
		}
		return Plan{Command: model.SectionStatus{ID: id, Status: status}, Next: s.editSection(id)}, nil

	case "volumetype":
		if !need(3) {
			return fail("volumetype: want <volume> <content type>")
		}
		volume := args[1]
		kind, ok := model.ParseContentType(args[2])
		if !ok {
			return fail("volumetype: unknown content type %q", args[2])
		}
		return Plan{Command: model.VolumeContentType{ID: volume, Kind: kind}, Next: s.editVolume(volume)}, nil

	case "new":
		if !need(2) {
			return fail("new: want an entity")
		}
		return s.parseNew(line, args[1], args[2:])

	case "move":
		if !need(3) {
			return fail("move: want <entity> <id> <position>")
		}
		return s.parseMove(line, args[1], args[2], args[3:])

	case "get":
		if !need(3) {
			return fail("get: want <entity> <id>")
		}
		return s.parseGet(line, args[1], args[2])

	case "delete":
		if !need(3) {
			return fail("delete: want <entity> <id>")
		}
		return s.parseDelete(line, args[1], args[2])

	case "volumes":
		return Plan{Command: model.Volumes{}, Next: noop}, nil

	case "images":
		return Plan{Command: model.Images{}, Next: noop}, nil

	case "code":
		if !need(4) {
			return fail("code: want add|remove <user> <code>")
		}
		user, code := args[2], args[3]
		switch args[1] {
		case "add":
			return Plan{Command: model.AddUserCode{ID: user, Code: code}, Next: s.editUser(user)}, nil
		case "remove":
			return Plan{Command: model.RemoveUserCode{ID: user, Code: code}, Next: s.editUser(user)}, nil
		default:
			return fail("code: unknown action %q", args[1])
		}

	case "intro":
		if !need(2) {
			return fail("intro: want <volume> or %s", siteIntro)
		}
		var volume *string
		if args[1] != siteIntro {
			v := args[1]
			volume = &v
		}
		return Plan{Command: model.GetIntro{ID: volume}, Next: s.editIntro(volume)}, nil

	case "content":
		if !need(2) {
			return fail("content: want <section>")
		}
		id, ok := parseSectionID(args[1])
		if !ok {
			return fail("content: bad section id %q", args[1])
		}
		return Plan{Command: model.GetContent{ID: id}, Next: s.editContent(id)}, nil

	case "init":
		if !need(2) {
			return fail("init: want <user>")
		}
		user := args[1]
		return Plan{Command: model.InitUser{ID: user}, Next: s.editUser(user)}, nil

	case "review":
		if !need(2) {
			return fail("review: want album|track|month")
		}
		switch args[1] {
		case "album":
			return Plan{Command: model.NewReview{}, Next: s.createReview()}, nil
		case "track":
			if !need(4) {
				return fail("review track: want <track> <score>")
			}
			score, ok := parseOptionalInt32(args[3])
			if !ok {
				// The score is optional input: an unreadable one sends nothing.
				return Plan{}, nil
			}
			return Plan{Command: model.SetTrackReview{TrackID: args[2], Score: score}, Next: noop}, nil
		case "month":
			return Plan{Command: model.NewMonthInReview{}, Next: s.createMonthInReview()}, nil
		default:
			return Plan{}, nil
		}

	default:
		return fail("unknown command %q", args[0])
	}
}

func (s *Session) parseNew(line, entity string, posArgs []string) (Plan, error) {
	switch entity {
	case "section":
		pos, _, ok := parseSectionPosition(posArgs)
		if !ok {
			return Plan{}, parseErrorf(line, "new section: bad position %q", posArgs)
		}
		return Plan{Command: model.NewSection{Date: NowString(s.now())}, Next: s.createSection(pos)}, nil
	case "entry":
		pos, _, ok := parseEntryPosition(posArgs)
		if !ok {
			return Plan{}, parseErrorf(line, "new entry: bad position %q", posArgs)
		}
		return Plan{Command: model.NewEntry{}, Next: s.createEntry(pos)}, nil
	case "volume":
		pos, _, ok := parseVolumePosition(posArgs)
		if !ok {
			return Plan{}, parseErrorf(line, "new volume: bad position %q", posArgs)
		}
		return Plan{Command: model.NewVolume{}, Next: s.createVolume(pos)}, nil
	case "user":
		return Plan{Command: model.NewUser{}, Next: s.createUser()}, nil
	default:
		return Plan{}, parseErrorf(line, "new: unknown entity %q", entity)
	}
}

func (s *Session) parseMove(line, entity, id string, posArgs []string) (Plan, error) {
	switch entity {
	case "section":
		pos, _, ok := parseSectionPosition(posArgs)
		if !ok {
			return Plan{}, parseErrorf(line, "move section: bad position %q", posArgs)
		}
		section, ok := parseSectionID(id)
		if !ok {
			return Plan{}, parseErrorf(line, "move section: bad section id %q", id)
		}
		return Plan{Command: model.MoveSection{ID: section, Position: pos}, Next: s.editSection(section)}, nil
	case "entry":
		pos, _, ok := parseEntryPosition(posArgs)
		if !ok {
			return Plan{}, parseErrorf(line, "move entry: bad position %q", posArgs)
		}
		return Plan{Command: model.MoveEntry{ID: id, Position: pos}, Next: s.editEntry(id)}, nil
	case "volume":
		pos, _, ok := parseVolumePosition(posArgs)
		if !ok {
			return Plan{}, parseErrorf(line, "move volume: bad position %q", posArgs)
		}
		return Plan{Command: model.MoveVolume{ID: id, Position: pos}, Next: s.editVolume(id)}, nil
	default:
		return Plan{}, parseErrorf(line, "move: unknown entity %q", entity)
	}
}

func (s *Session) parseGet(line, entity, id string) (Plan, error) {
	switch entity {
	case "section":
		section, ok := parseSectionID(id)
		if !ok {
			return Plan{}, parseErrorf(line, "get section: bad section id %q", id)
		}
		return Plan{Command: model.GetSection{ID: section}, Next: s.editSection(section)}, nil
	case "entry":
		return Plan{Command: model.GetEntry{ID: id}, Next: s.editEntry(id)}, nil
	case "volume":
		return Plan{Command: model.GetVolume{ID: id}, Next: s.editVolume(id)}, nil
	case "user":
		return Plan{Command: model.GetUser{ID: id}, Next: s.editUser(id)}, nil
	default:
		return Plan{}, parseErrorf(line, "get: unknown entity %q", entity)
	}
}

func (s *Session) parseDelete(line, entity, id string) (Plan, error) {
	switch entity {
	case "section":
		section, ok := parseSectionID(id)
		if !ok {
			return Plan{}, parseErrorf(line, "delete section: bad section id %q", id)
		}
		return Plan{Command: model.DeleteSection{ID: section}, Next: s.editSection(section)}, nil
	case "entry":
		return Plan{Command: model.DeleteEntry{ID: id}, Next: s.editEntry(id)}, nil
	case "volume":
		return Plan{Command: model.DeleteVolume{ID: id}, Next: s.editVolume(id)}, nil
	default:
		return Plan{}, parseErrorf(line, "delete: unknown entity %q", entity)
	}
}
