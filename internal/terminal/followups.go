package terminal

import (
	"context"
	"strings"

	"edat-cli/internal/model"
)

// Follow-ups are the continuations bound after a command succeeds in
// parsing. Each one checks its required fields, rebinds the session and
// only then dispatches, so a submit racing the response already sees the
// new binding.

func (s *Session) editSection(id uint32) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldSectionDescription, FieldSectionSummary) {
			return nil, ErrIncomplete
		}
		s.bind(s.editSection(id))
		return s.Dispatch(ctx, model.SetSection{
			ID:          id,
			Heading:     form.Value(FieldSectionHeading),
			Description: form.Value(FieldSectionDescription),
			Summary:     form.Value(FieldSectionSummary),
			Date:        form.Value(FieldSectionDate),
		})
	}
}

func (s *Session) createSection(pos model.SectionPosition) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldSectionDescription, FieldSectionSummary) {
			return nil, ErrIncomplete
		}
		next, err := s.nextSectionID(ctx)
		if err != nil {
			return nil, err
		}
		s.bind(s.editSection(next))
		return s.Dispatch(ctx, model.SetNewSection{
			Position:    pos,
			Heading:     form.Value(FieldSectionHeading),
			Description: form.Value(FieldSectionDescription),
			Summary:     form.Value(FieldSectionSummary),
			Date:        form.Value(FieldSectionDate),
		})
	}
}

func (s *Session) editEntry(id string) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldEntryTitle, FieldEntryDescription, FieldEntrySummary) {
			return nil, ErrIncomplete
		}
		title := form.Value(FieldEntryTitle)
		s.bind(s.editEntry(model.CreateID(title)))
		return s.Dispatch(ctx, model.SetEntry{
			ID:          id,
			Title:       title,
			Description: form.Value(FieldEntryDescription),
			Summary:     form.Value(FieldEntrySummary),
		})
	}
}

func (s *Session) createEntry(pos model.EntryPosition) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldEntryTitle, FieldEntryDescription, FieldEntrySummary) {
			return nil, ErrIncomplete
		}
		title := form.Value(FieldEntryTitle)
		s.bind(s.editEntry(model.CreateID(title)))
		return s.Dispatch(ctx, model.SetNewEntry{
			Title:       title,
			Position:    pos,
			Description: form.Value(FieldEntryDescription),
			Summary:     form.Value(FieldEntrySummary),
		})
	}
}

func (s *Session) editVolume(id string) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldVolumeTitle) {
			return nil, ErrIncomplete
		}
		title := form.Value(FieldVolumeTitle)
		s.bind(s.editVolume(model.CreateID(title)))
		return s.Dispatch(ctx, model.SetVolume{
			ID:       id,
			Title:    title,
			Subtitle: form.Value(FieldVolumeSubtitle),
		})
	}
}

func (s *Session) createVolume(pos model.VolumePosition) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldVolumeTitle) {
			return nil, ErrIncomplete
		}
		title := form.Value(FieldVolumeTitle)
		s.bind(s.editVolume(model.CreateID(title)))
		return s.Dispatch(ctx, model.SetNewVolume{
			Position: pos,
			Title:    title,
			Subtitle: form.Value(FieldVolumeSubtitle),
		})
	}
}

func (s *Session) editUser(id string) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldUserFirstName, FieldUserLastName) {
			return nil, ErrIncomplete
		}
		first, last := form.Value(FieldUserFirstName), form.Value(FieldUserLastName)
		s.bind(s.editUser(model.CreateID(first + last)))
		return s.Dispatch(ctx, model.SetUser{ID: id, FirstName: first, LastName: last})
	}
}

func (s *Session) createUser() Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldUserFirstName, FieldUserLastName) {
			return nil, ErrIncomplete
		}
		first, last := form.Value(FieldUserFirstName), form.Value(FieldUserLastName)
		s.bind(s.editUser(model.CreateID(first + last)))
		return s.Dispatch(ctx, model.SetNewUser{FirstName: first, LastName: last})
	}
}

func (s *Session) editIntro(id *string) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldContents) {
			return nil, ErrIncomplete
		}
		s.bind(s.editIntro(id))
		return s.Dispatch(ctx, model.SetIntro{ID: id, Content: form.Value(FieldContents)})
	}
}

func (s *Session) editContent(id uint32) Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldContents) {
			return nil, ErrIncomplete
		}
		s.bind(s.editContent(id))
		return s.Dispatch(ctx, model.SetContent{ID: id, Content: form.Value(FieldContents)})
	}
}

func (s *Session) createReview() Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		if !filled(form, FieldAlbumID) {
			return nil, ErrIncomplete
		}
		review := model.SetNewReview{
			AlbumID:       form.Value(FieldAlbumID),
			Genre:         optional(form, FieldAlbumGenre),
			Review:        optional(form, FieldContents),
			Summary:       optional(form, FieldAlbumSummary),
			FirstListened: optional(form, FieldAlbumListenDate),
		}
		if score, ok := parseOptionalInt32(strings.TrimSpace(form.Value(FieldAlbumScore))); ok {
			review.Score = &score
		}
		s.bind(noop)
		return s.Dispatch(ctx, review)
	}
}

func (s *Session) createMonthInReview() Continuation {
	return func(ctx context.Context, form Form) ([]byte, error) {
		albums := strings.Fields(form.Value(FieldReviewAlbums))
		tracks := strings.Fields(form.Value(FieldReviewTracks))
		year, month, ok := parseReviewMonth(form.Value(FieldReviewMonth))
		if !ok || len(albums) == 0 || len(tracks) == 0 {
			return nil, ErrIncomplete
		}
		s.bind(noop)
		return s.Dispatch(ctx, model.SetMonthInReview{
			Albums: albums,
			Tracks: tracks,
			Month:  month,
			Year:   year,
		})
	}
}

// parseReviewMonth reads the YYYY-MM value of a month input.
func parseReviewMonth(v string) (int32, int, bool) {
	parts := strings.Split(strings.TrimSpace(v), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	year, ok := parseOptionalInt32(parts[0])
	if !ok {
		return 0, 0, false
	}
	month, ok := parseIndex(parts[1])
	if !ok {
		return 0, 0, false
	}
	return year, month, true
}
