package model

import "strings"

type ContentStatus string

const (
	StatusMissing    ContentStatus = "Missing"
	StatusIncomplete ContentStatus = "Incomplete"
	StatusComplete   ContentStatus = "Complete"
)

var ContentStatuses = []ContentStatus{StatusMissing, StatusIncomplete, StatusComplete}

type Privilege string

const (
	PrivilegeOwner  Privilege = "Owner"
	PrivilegeReader Privilege = "Reader"
)

var Privileges = []Privilege{PrivilegeOwner, PrivilegeReader}

type ContentType string

const (
	ContentJournal  ContentType = "Journal"
	ContentArchive  ContentType = "Archive"
	ContentDiary    ContentType = "Diary"
	ContentCartoons ContentType = "Cartoons"
	ContentCreative ContentType = "Creative"
	ContentFeatured ContentType = "Featured"
)

var ContentTypes = []ContentType{
	ContentJournal,
	ContentArchive,
	ContentDiary,
	ContentCartoons,
	ContentCreative,
	ContentFeatured,
}

func ParseContentStatus(s string) (ContentStatus, bool) { return matchEnum(s, ContentStatuses) }

func ParsePrivilege(s string) (Privilege, bool) { return matchEnum(s, Privileges) }

func ParseContentType(s string) (ContentType, bool) { return matchEnum(s, ContentTypes) }

// matchEnum resolves a user-typed token against the canonical spellings.
// Matching ignores case, so "complete", "COMPLETE" and "compLETE" all map to
// Complete.
func matchEnum[T ~string](s string, set []T) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range set {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
