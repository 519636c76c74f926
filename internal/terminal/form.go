package terminal

import "strings"

// Form gives continuations read access to the fields of the most recently
// rendered response.
type Form interface {
	Value(id string) string
}

// Fields is a Form backed by a map of field id to current value.
type Fields map[string]string

func (f Fields) Value(id string) string { return f[id] }

// Field ids rendered by the server's edit forms.
const (
	FieldSectionHeading     = "section-heading"
	FieldSectionDescription = "section-description"
	FieldSectionSummary     = "section-summary"
	FieldSectionDate        = "section-date"

	FieldEntryTitle       = "entry-title"
	FieldEntryDescription = "entry-description"
	FieldEntrySummary     = "entry-summary"

	FieldVolumeTitle    = "volume-title"
	FieldVolumeSubtitle = "volume-subtitle"

	FieldUserFirstName = "user-first-name"
	FieldUserLastName  = "user-last-name"

	FieldContents = "contents"

	FieldAlbumID         = "album-id"
	FieldAlbumGenre      = "album-genre"
	FieldAlbumScore      = "album-score"
	FieldAlbumSummary    = "album-summary"
	FieldAlbumListenDate = "album-listen-date"

	FieldReviewAlbums = "review-albums"
	FieldReviewTracks = "review-tracks"
	FieldReviewMonth  = "review-month"
)

func filled(form Form, ids ...string) bool {
	for _, id := range ids {
		if form.Value(id) == "" {
			return false
		}
	}
	return true
}

// optional returns nil for blank (after trimming) values.
func optional(form Form, id string) *string {
	v := strings.TrimSpace(form.Value(id))
	if v == "" {
		return nil
	}
	return &v
}
