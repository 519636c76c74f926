package model

// Command is one remote operation accepted by the site's /cmd endpoint.
// The set of variants is closed; each variant is a plain struct whose JSON
// field names match the server.
type Command interface {
	CommandName() string
}

// unitCommand marks variants without a payload. They travel as a bare JSON
// string ("NewUser") instead of a single-key object.
type unitCommand interface {
	Command
	unit()
}

// Sections.

type GetSection struct {
	ID uint32 `json:"id"`
}

type NewSection struct {
	Date string `json:"date"`
}

type SetSection struct {
	ID          uint32 `json:"id"`
	Heading     string `json:"heading"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Date        string `json:"date"`
}

type SetNewSection struct {
	Position    SectionPosition `json:"position"`
	Heading     string          `json:"heading"`
	Description string          `json:"description"`
	Summary     string          `json:"summary"`
	Date        string          `json:"date"`
}

type DeleteSection struct {
	ID uint32 `json:"id"`
}

type MoveSection struct {
	ID       uint32          `json:"id"`
	Position SectionPosition `json:"position"`
}

type SectionStatus struct {
	ID     uint32        `json:"id"`
	Status ContentStatus `json:"status"`
}

// Entries.

type GetEntry struct {
	ID string `json:"id"`
}

type NewEntry struct{}

type SetEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
}

type SetNewEntry struct {
	Title       string        `json:"title"`
	Position    EntryPosition `json:"position"`
	Description string        `json:"description"`
	Summary     string        `json:"summary"`
}

type DeleteEntry struct {
	ID string `json:"id"`
}

type MoveEntry struct {
	ID       string        `json:"id"`
	Position EntryPosition `json:"position"`
}

// Volumes.

type GetVolume struct {
	ID string `json:"id"`
}

type NewVolume struct{}

type SetVolume struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type SetNewVolume struct {
	Position VolumePosition `json:"position"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
}

type DeleteVolume struct {
	ID string `json:"id"`
}

type MoveVolume struct {
	ID       string         `json:"id"`
	Position VolumePosition `json:"position"`
}

type VolumeContentType struct {
	ID   string      `json:"id"`
	Kind ContentType `json:"kind"`
}

// Users.

type GetUser struct {
	ID string `json:"id"`
}

type NewUser struct{}

type SetUser struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type SetNewUser struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserPrivilege struct {
	ID        string    `json:"id"`
	Privilege Privilege `json:"privilege"`
}

type AddUserCode struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type RemoveUserCode struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

type InitUser struct {
	ID string `json:"id"`
}

// Site-wide and auxiliary operations.

type Volumes struct{}

type NextSectionID struct{}

type Images struct{}

// GetIntro fetches an introduction text. A nil ID addresses the site-wide
// introduction.
type GetIntro struct {
	ID *string `json:"id"`
}

type SetIntro struct {
	ID      *string `json:"id"`
	Content string  `json:"content"`
}

type GetContent struct {
	ID uint32 `json:"id"`
}

type SetContent struct {
	ID      uint32 `json:"id"`
	Content string `json:"content"`
}

type NewReview struct{}

type SetNewReview struct {
	AlbumID       string  `json:"album_id"`
	Genre         *string `json:"genre,omitempty"`
	Score         *int32  `json:"score,omitempty"`
	Review        *string `json:"review,omitempty"`
	Summary       *string `json:"summary,omitempty"`
	FirstListened *string `json:"first_listened,omitempty"`
}

type SetTrackReview struct {
	TrackID string `json:"track_id"`
	Score   int32  `json:"score"`
}

type NewMonthInReview struct{}

type SetMonthInReview struct {
	Albums []string `json:"albums"`
	Tracks []string `json:"tracks"`
	Month  int      `json:"month"`
	Year   int32    `json:"year"`
}

func (GetSection) CommandName() string    { return "GetSection" }
func (NewSection) CommandName() string    { return "NewSection" }
func (SetSection) CommandName() string    { return "SetSection" }
func (SetNewSection) CommandName() string { return "SetNewSection" }
func (DeleteSection) CommandName() string { return "DeleteSection" }
func (MoveSection) CommandName() string   { return "MoveSection" }
func (SectionStatus) CommandName() string { return "SectionStatus" }

func (GetEntry) CommandName() string    { return "GetEntry" }
func (NewEntry) CommandName() string    { return "NewEntry" }
func (SetEntry) CommandName() string    { return "SetEntry" }
func (SetNewEntry) CommandName() string { return "SetNewEntry" }
func (DeleteEntry) CommandName() string { return "DeleteEntry" }
func (MoveEntry) CommandName() string   { return "MoveEntry" }

func (GetVolume) CommandName() string         { return "GetVolume" }
func (NewVolume) CommandName() string         { return "NewVolume" }
func (SetVolume) CommandName() string         { return "SetVolume" }
func (SetNewVolume) CommandName() string      { return "SetNewVolume" }
func (DeleteVolume) CommandName() string      { return "DeleteVolume" }
func (MoveVolume) CommandName() string        { return "MoveVolume" }
func (VolumeContentType) CommandName() string { return "VolumeContentType" }

func (GetUser) CommandName() string        { return "GetUser" }
func (NewUser) CommandName() string        { return "NewUser" }
func (SetUser) CommandName() string        { return "SetUser" }
func (SetNewUser) CommandName() string     { return "SetNewUser" }
func (UserPrivilege) CommandName() string  { return "UserPrivilege" }
func (AddUserCode) CommandName() string    { return "AddUserCode" }
func (RemoveUserCode) CommandName() string { return "RemoveUserCode" }
func (InitUser) CommandName() string       { return "InitUser" }

func (Volumes) CommandName() string          { return "Volumes" }
func (NextSectionID) CommandName() string    { return "NextSectionId" }
func (Images) CommandName() string           { return "Images" }
func (GetIntro) CommandName() string         { return "GetIntro" }
func (SetIntro) CommandName() string         { return "SetIntro" }
func (GetContent) CommandName() string       { return "GetContent" }
func (SetContent) CommandName() string       { return "SetContent" }
func (NewReview) CommandName() string        { return "NewReview" }
func (SetNewReview) CommandName() string     { return "SetNewReview" }
func (SetTrackReview) CommandName() string   { return "SetTrackReview" }
func (NewMonthInReview) CommandName() string { return "NewMonthInReview" }
func (SetMonthInReview) CommandName() string { return "SetMonthInReview" }

func (NewEntry) unit()         {}
func (NewVolume) unit()        {}
func (NewUser) unit()          {}
func (Volumes) unit()          {}
func (NextSectionID) unit()    {}
func (Images) unit()           {}
func (NewReview) unit()        {}
func (NewMonthInReview) unit() {}
