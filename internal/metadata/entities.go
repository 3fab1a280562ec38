package metadata

// Named is the shape shared by the simple lookup entities.
type Named struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	NameTranslated string `json:"name_translated,omitempty"`
	Slug           string `json:"slug,omitempty"`
	UpdatedAt      int64  `json:"updated_at,omitempty"`
}

// DisplayName prefers the translated name.
func (n Named) DisplayName() string {
	return Overlay(n.NameTranslated, n.Name)
}

type (
	Collection = Named
	Franchise  = Named
	Genre      = Named
	Theme      = Named
	Keyword    = Named
)

// Image is the shape shared by all media entities. Media carry no translation.
type Image struct {
	ID     uint64 `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type (
	Cover        = Image
	Artwork      = Image
	Screenshot   = Image
	PlatformLogo = Image
	CompanyLogo  = Image
)

// Video references an external video (a YouTube id on IGDB).
type Video struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name,omitempty"`
	NameTranslated string `json:"name_translated,omitempty"`
	VideoID        string `json:"video_id,omitempty"`
}

// Platform is a hardware or software platform a game runs on.
type Platform struct {
	ID                uint64        `json:"id"`
	Name              string        `json:"name"`
	NameTranslated    string        `json:"name_translated,omitempty"`
	Slug              string        `json:"slug,omitempty"`
	Summary           string        `json:"summary,omitempty"`
	SummaryTranslated string        `json:"summary_translated,omitempty"`
	Category          *int          `json:"category,omitempty"`
	Logo              *PlatformLogo `json:"platform_logo,omitempty"`
	UpdatedAt         int64         `json:"updated_at,omitempty"`
}

// Company is a developer or publisher. Developed and Published are derived
// from the game_companies edge table.
type Company struct {
	ID                    uint64       `json:"id"`
	Name                  string       `json:"name"`
	NameTranslated        string       `json:"name_translated,omitempty"`
	Slug                  string       `json:"slug,omitempty"`
	Description           string       `json:"description,omitempty"`
	DescriptionTranslated string       `json:"description_translated,omitempty"`
	Parent                uint64       `json:"parent,omitempty"`
	Logo                  *CompanyLogo `json:"logo,omitempty"`
	StartDate             int64        `json:"start_date,omitempty"`
	Developed             []uint64     `json:"developed,omitempty"`
	Published             []uint64     `json:"published,omitempty"`
	UpdatedAt             int64        `json:"updated_at,omitempty"`
}

// Category is a code table row (game or platform category).
type Category struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	NameTranslated string `json:"name_translated,omitempty"`
}

// CatalogEntry links a file on disk to a game. Path is the sole identity.
type CatalogEntry struct {
	Path     string `json:"path"`
	GameID   uint64 `json:"game"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}
