package store

import (
	"database/sql"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"ludotheque/internal/metadata"
)

// Lookups groups the repositories of entities that own no relations.
type Lookups struct {
	Collections        *Repository[metadata.Named]
	Franchises         *Repository[metadata.Named]
	Genres             *Repository[metadata.Named]
	Themes             *Repository[metadata.Named]
	Keywords           *Repository[metadata.Named]
	Covers             *Repository[metadata.Image]
	Artworks           *Repository[metadata.Image]
	Screenshots        *Repository[metadata.Image]
	PlatformLogos      *Repository[metadata.Image]
	CompanyLogos       *Repository[metadata.Image]
	Videos             *Repository[metadata.Video]
	GameCategories     *Repository[metadata.Category]
	PlatformCategories *Repository[metadata.Category]
}

func newLookups(q Querier) Lookups {
	return Lookups{
		Collections:        NewRepository(q, namedDescriptor("collections")),
		Franchises:         NewRepository(q, namedDescriptor("franchises")),
		Genres:             NewRepository(q, namedDescriptor("genres")),
		Themes:             NewRepository(q, namedDescriptor("themes")),
		Keywords:           NewRepository(q, namedDescriptor("keywords")),
		Covers:             NewRepository(q, imageDescriptor("covers")),
		Artworks:           NewRepository(q, imageDescriptor("artworks")),
		Screenshots:        NewRepository(q, imageDescriptor("screenshots")),
		PlatformLogos:      NewRepository(q, imageDescriptor("platform_logos")),
		CompanyLogos:       NewRepository(q, imageDescriptor("company_logos")),
		Videos:             NewRepository(q, videoDescriptor),
		GameCategories:     NewRepository(q, categoryDescriptor("game_categories")),
		PlatformCategories: NewRepository(q, categoryDescriptor("platform_categories")),
	}
}

func namedDescriptor(table string) Descriptor[metadata.Named] {
	return Descriptor[metadata.Named]{
		Table:    table,
		Key:      "id",
		Columns:  []string{"id", "name", "name_translated", "slug", "updated_at"},
		Overlays: []Overlay{{Base: "name", Translated: "name_translated"}},
		KeyOf:    func(n *metadata.Named) any { return n.ID },
		Values: func(n *metadata.Named) []any {
			return []any{n.ID, n.Name, nullableString(n.NameTranslated), nullableString(n.Slug), nullableInt64(n.UpdatedAt)}
		},
		TranslatedValues: func(n *metadata.Named) []any {
			return []any{nullableString(n.NameTranslated)}
		},
		Scan: func(row Scanner, n *metadata.Named) error {
			var (
				translated, slug sql.NullString
				updated          sql.NullInt64
			)
			if err := row.Scan(&n.ID, &n.Name, &translated, &slug, &updated); err != nil {
				return err
			}
			n.NameTranslated = translated.String
			n.Slug = slug.String
			n.UpdatedAt = updated.Int64
			return nil
		},
	}
}

func imageDescriptor(table string) Descriptor[metadata.Image] {
	return Descriptor[metadata.Image]{
		Table:   table,
		Key:     "id",
		Columns: []string{"id", "url", "width", "height"},
		KeyOf:   func(i *metadata.Image) any { return i.ID },
		Values: func(i *metadata.Image) []any {
			return []any{i.ID, i.URL, nullableInt(i.Width), nullableInt(i.Height)}
		},
		Scan: func(row Scanner, i *metadata.Image) error {
			var width, height sql.NullInt64
			if err := row.Scan(&i.ID, &i.URL, &width, &height); err != nil {
				return err
			}
			i.Width = int(width.Int64)
			i.Height = int(height.Int64)
			return nil
		},
	}
}

var videoDescriptor = Descriptor[metadata.Video]{
	Table:    "videos",
	Key:      "id",
	Columns:  []string{"id", "name", "name_translated", "video_id"},
	Overlays: []Overlay{{Base: "name", Translated: "name_translated"}},
	KeyOf:    func(v *metadata.Video) any { return v.ID },
	Values: func(v *metadata.Video) []any {
		return []any{v.ID, nullableString(v.Name), nullableString(v.NameTranslated), nullableString(v.VideoID)}
	},
	TranslatedValues: func(v *metadata.Video) []any {
		return []any{nullableString(v.NameTranslated)}
	},
	Scan: func(row Scanner, v *metadata.Video) error {
		var name, translated, videoID sql.NullString
		if err := row.Scan(&v.ID, &name, &translated, &videoID); err != nil {
			return err
		}
		v.Name = name.String
		v.NameTranslated = translated.String
		v.VideoID = videoID.String
		return nil
	},
}

func categoryDescriptor(table string) Descriptor[metadata.Category] {
	return Descriptor[metadata.Category]{
		Table:    table,
		Key:      "id",
		Columns:  []string{"id", "name", "name_translated"},
		Overlays: []Overlay{{Base: "name", Translated: "name_translated"}},
		KeyOf:    func(c *metadata.Category) any { return c.ID },
		Values: func(c *metadata.Category) []any {
			return []any{c.ID, c.Name, nullableString(c.NameTranslated)}
		},
		TranslatedValues: func(c *metadata.Category) []any {
			return []any{nullableString(c.NameTranslated)}
		},
		Scan: func(row Scanner, c *metadata.Category) error {
			var translated sql.NullString
			if err := row.Scan(&c.ID, &c.Name, &translated); err != nil {
				return err
			}
			c.NameTranslated = translated.String
			return nil
		},
	}
}

var platformDescriptor = Descriptor[metadata.Platform]{
	Table:   "platforms",
	Key:     "id",
	Columns: []string{"id", "name", "name_translated", "slug", "summary", "summary_translated", "category", "platform_logo_id", "updated_at"},
	Overlays: []Overlay{
		{Base: "name", Translated: "name_translated"},
		{Base: "summary", Translated: "summary_translated"},
	},
	KeyOf: func(p *metadata.Platform) any { return p.ID },
	Values: func(p *metadata.Platform) []any {
		var logo any
		if p.Logo != nil {
			logo = p.Logo.ID
		}
		return []any{
			p.ID, p.Name, nullableString(p.NameTranslated), nullableString(p.Slug),
			nullableString(p.Summary), nullableString(p.SummaryTranslated),
			nullableIntPtr(p.Category), logo, nullableInt64(p.UpdatedAt),
		}
	},
	TranslatedValues: func(p *metadata.Platform) []any {
		return []any{nullableString(p.NameTranslated), nullableString(p.SummaryTranslated)}
	},
	Scan: func(row Scanner, p *metadata.Platform) error {
		var (
			translated, slug, summary, summaryTranslated sql.NullString
			category, logo, updated                      sql.NullInt64
		)
		if err := row.Scan(&p.ID, &p.Name, &translated, &slug, &summary, &summaryTranslated, &category, &logo, &updated); err != nil {
			return err
		}
		p.NameTranslated = translated.String
		p.Slug = slug.String
		p.Summary = summary.String
		p.SummaryTranslated = summaryTranslated.String
		p.Category = intPtr(category)
		if logo.Valid {
			p.Logo = &metadata.PlatformLogo{ID: uint64(logo.Int64)}
		}
		p.UpdatedAt = updated.Int64
		return nil
	},
}

var companyDescriptor = Descriptor[metadata.Company]{
	Table:   "companies",
	Key:     "id",
	Columns: []string{"id", "name", "name_translated", "slug", "description", "description_translated", "parent", "logo_id", "start_date", "updated_at"},
	Overlays: []Overlay{
		{Base: "name", Translated: "name_translated"},
		{Base: "description", Translated: "description_translated"},
	},
	KeyOf: func(c *metadata.Company) any { return c.ID },
	Values: func(c *metadata.Company) []any {
		var logo any
		if c.Logo != nil {
			logo = c.Logo.ID
		}
		return []any{
			c.ID, c.Name, nullableString(c.NameTranslated), nullableString(c.Slug),
			nullableString(c.Description), nullableString(c.DescriptionTranslated),
			nullableUint64(c.Parent), logo, nullableInt64(c.StartDate), nullableInt64(c.UpdatedAt),
		}
	},
	TranslatedValues: func(c *metadata.Company) []any {
		return []any{nullableString(c.NameTranslated), nullableString(c.DescriptionTranslated)}
	},
	Scan: func(row Scanner, c *metadata.Company) error {
		var (
			translated, slug, description, descriptionTranslated sql.NullString
			parent, logo, start, updated                         sql.NullInt64
		)
		if err := row.Scan(&c.ID, &c.Name, &translated, &slug, &description, &descriptionTranslated, &parent, &logo, &start, &updated); err != nil {
			return err
		}
		c.NameTranslated = translated.String
		c.Slug = slug.String
		c.Description = description.String
		c.DescriptionTranslated = descriptionTranslated.String
		c.Parent = uint64(parent.Int64)
		if logo.Valid {
			c.Logo = &metadata.CompanyLogo{ID: uint64(logo.Int64)}
		}
		c.StartDate = start.Int64
		c.UpdatedAt = updated.Int64
		return nil
	},
}

// gameDescriptor covers the base games row only; relations are handled by GameRepository.
var gameDescriptor = Descriptor[metadata.Game]{
	Table: "games",
	Key:   "id",
	Columns: []string{
		"id", "name", "name_translated", "slug", "storyline", "storyline_translated",
		"summary", "summary_translated", "first_release_date", "collection_id",
		"franchise_id", "category", "rating", "rating_count", "cover_id", "updated_at",
	},
	Overlays: []Overlay{
		{Base: "name", Translated: "name_translated"},
		{Base: "storyline", Translated: "storyline_translated"},
		{Base: "summary", Translated: "summary_translated"},
	},
	KeyOf: func(g *metadata.Game) any { return g.ID },
	Values: func(g *metadata.Game) []any {
		var collection, franchise, cover any
		if g.Collection != nil {
			collection = g.Collection.ID
		}
		if g.Franchise != nil {
			franchise = g.Franchise.ID
		}
		if g.Cover != nil {
			cover = g.Cover.ID
		}
		return []any{
			g.ID, g.Name, nullableString(g.NameTranslated), nullableString(g.Slug),
			nullableString(g.Storyline), nullableString(g.StorylineTranslated),
			nullableString(g.Summary), nullableString(g.SummaryTranslated),
			nullableInt64(g.FirstReleaseDate), collection, franchise,
			nullableIntPtr(g.Category), nullableFloat(g.Rating), nullableInt64(g.RatingCount),
			cover, nullableInt64(g.UpdatedAt),
		}
	},
	TranslatedValues: func(g *metadata.Game) []any {
		return []any{
			nullableString(g.NameTranslated),
			nullableString(g.StorylineTranslated),
			nullableString(g.SummaryTranslated),
		}
	},
	Scan: func(row Scanner, g *metadata.Game) error {
		var (
			translated, slug, storyline, storylineTranslated sql.NullString
			summary, summaryTranslated                       sql.NullString
			released, collection, franchise, category        sql.NullInt64
			ratingCount, cover, updated                      sql.NullInt64
			rating                                           sql.NullFloat64
		)
		if err := row.Scan(
			&g.ID, &g.Name, &translated, &slug, &storyline, &storylineTranslated,
			&summary, &summaryTranslated, &released, &collection,
			&franchise, &category, &rating, &ratingCount, &cover, &updated,
		); err != nil {
			return err
		}
		g.NameTranslated = translated.String
		g.Slug = slug.String
		g.Storyline = storyline.String
		g.StorylineTranslated = storylineTranslated.String
		g.Summary = summary.String
		g.SummaryTranslated = summaryTranslated.String
		g.FirstReleaseDate = released.Int64
		if collection.Valid {
			g.Collection = &metadata.Collection{ID: uint64(collection.Int64)}
		}
		if franchise.Valid {
			g.Franchise = &metadata.Franchise{ID: uint64(franchise.Int64)}
		}
		g.Category = intPtr(category)
		g.Rating = rating.Float64
		g.RatingCount = ratingCount.Int64
		if cover.Valid {
			g.Cover = &metadata.Cover{ID: uint64(cover.Int64)}
		}
		g.UpdatedAt = updated.Int64
		return nil
	},
}

var catalogDescriptor = Descriptor[metadata.CatalogEntry]{
	Table:   "catalog",
	Key:     "path",
	Columns: []string{"path", "game", "name", "language", "search_key"},
	KeyOf:   func(e *metadata.CatalogEntry) any { return e.Path },
	Values: func(e *metadata.CatalogEntry) []any {
		return []any{e.Path, e.GameID, e.Name, nullableString(e.Language), SearchKey(e.Name)}
	},
	Scan: func(row Scanner, e *metadata.CatalogEntry) error {
		var (
			language  sql.NullString
			searchKey string
		)
		if err := row.Scan(&e.Path, &e.GameID, &e.Name, &language, &searchKey); err != nil {
			return err
		}
		e.Language = language.String
		return nil
	},
}

// SearchKey folds a display name to lowercase ASCII for accent-insensitive matching.
func SearchKey(name string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(name)))
}
