package metadata

// SentinelGameID is the reserved id of the "Unknown" game every unidentified
// catalog entry points to. The row is seeded by the schema migration.
const SentinelGameID uint64 = 0

// SentinelGameName is the base name of the sentinel game.
const SentinelGameName = "Unknown"

// Game is the composite metadata record for one title.
type Game struct {
	ID                  uint64            `json:"id"`
	Name                string            `json:"name"`
	NameTranslated      string            `json:"name_translated,omitempty"`
	Slug                string            `json:"slug,omitempty"`
	AlternativeNames    []AlternativeName `json:"alternative_names,omitempty"`
	Storyline           string            `json:"storyline,omitempty"`
	StorylineTranslated string            `json:"storyline_translated,omitempty"`
	Summary             string            `json:"summary,omitempty"`
	SummaryTranslated   string            `json:"summary_translated,omitempty"`
	FirstReleaseDate    int64             `json:"first_release_date,omitempty"`
	Category            *int              `json:"category,omitempty"`
	Rating              float64           `json:"rating,omitempty"`
	RatingCount         int64             `json:"rating_count,omitempty"`
	UpdatedAt           int64             `json:"updated_at,omitempty"`

	Collection *Collection `json:"collection,omitempty"`
	Franchise  *Franchise  `json:"franchise,omitempty"`
	Cover      *Cover      `json:"cover,omitempty"`

	Genres       []Genre      `json:"genres,omitempty"`
	Themes       []Theme      `json:"themes,omitempty"`
	Keywords     []Keyword    `json:"keywords,omitempty"`
	Platforms    []uint64     `json:"platforms,omitempty"`
	Remakes      []uint64     `json:"remakes,omitempty"`
	Remasters    []uint64     `json:"remasters,omitempty"`
	SimilarGames []uint64     `json:"similar_games,omitempty"`
	Artworks     []Artwork    `json:"artworks,omitempty"`
	Screenshots  []Screenshot `json:"screenshots,omitempty"`
	Videos       []Video      `json:"videos,omitempty"`
}

// AlternativeName is accepted from IGDB payloads but never persisted.
type AlternativeName struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
}

// IsSentinel reports whether g is the reserved "Unknown" game.
func (g Game) IsSentinel() bool {
	return g.ID == SentinelGameID
}

// DisplayName prefers the translated name.
func (g Game) DisplayName() string {
	return Overlay(g.NameTranslated, g.Name)
}

// Overlay returns translated when set, otherwise base.
func Overlay(translated, base string) string {
	if translated != "" {
		return translated
	}
	return base
}
