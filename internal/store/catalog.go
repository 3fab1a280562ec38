package store

import (
	"context"
	"database/sql"
	"strings"

	"ludotheque/internal/metadata"
	"ludotheque/internal/services"
)

// CatalogRepository persists catalog entries keyed by file path.
type CatalogRepository struct {
	entries *Repository[metadata.CatalogEntry]
	db      *sql.DB
}

// Filter selects catalog entries by properties of the linked game. Zero
// values do not filter.
type Filter struct {
	GameID       *uint64
	CollectionID uint64
	FranchiseID  uint64
	GenreID      uint64
	PlatformID   uint64
	Language     string
	// NamePattern matches the entry name as a substring, ignoring case and accents.
	NamePattern string
	// Translated selects translated game names in the results.
	Translated bool
}

// CatalogItem is an entry joined with its game's display fields.
type CatalogItem struct {
	metadata.CatalogEntry
	GameName   string
	Collection string
}

// Exists reports whether path is cataloged.
func (r *CatalogRepository) Exists(ctx context.Context, path string) (bool, error) {
	return r.entries.Exists(ensureContext(ctx), path)
}

// Load returns the entry for path, or nil when absent.
func (r *CatalogRepository) Load(ctx context.Context, path string) (*metadata.CatalogEntry, error) {
	return r.entries.Load(ensureContext(ctx), path)
}

// Save inserts the entry or updates game, name and language of an existing path.
func (r *CatalogRepository) Save(ctx context.Context, entry *metadata.CatalogEntry) error {
	if entry != nil && strings.TrimSpace(entry.Path) == "" {
		return services.Wrap(services.ErrValidation, "catalog", "save", "empty path", nil)
	}
	return r.entries.Upsert(ensureContext(ctx), entry)
}

// Delete removes the entry for path.
func (r *CatalogRepository) Delete(ctx context.Context, path string) error {
	return r.entries.Delete(ensureContext(ctx), path)
}

// All returns every entry ordered by path.
func (r *CatalogRepository) All(ctx context.Context) ([]metadata.CatalogEntry, error) {
	return r.entries.All(ensureContext(ctx))
}

// Matching returns entries selected by filter, ordered by name then path.
func (r *CatalogRepository) Matching(ctx context.Context, filter Filter) ([]CatalogItem, error) {
	ctx = ensureContext(ctx)
	query, args := filter.query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreRead, "catalog", "match", "", err)
	}
	defer rows.Close()

	var items []CatalogItem
	for rows.Next() {
		var (
			item                           CatalogItem
			language, gameName, collection sql.NullString
		)
		if err := rows.Scan(&item.Path, &item.GameID, &item.Name, &language, &gameName, &collection); err != nil {
			return nil, services.Wrap(services.ErrStoreRead, "catalog", "match", "scan", err)
		}
		item.Language = language.String
		item.GameName = gameName.String
		item.Collection = collection.String
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStoreRead, "catalog", "match", "", err)
	}
	return items, nil
}

func (f Filter) query() (string, []any) {
	gameName := "g.name"
	collectionName := "col.name"
	if f.Translated {
		gameName = "COALESCE(NULLIF(g.name_translated, ''), g.name)"
		collectionName = "COALESCE(NULLIF(col.name_translated, ''), col.name)"
	}

	var (
		where []string
		args  []any
	)
	if f.GameID != nil {
		where = append(where, "c.game = ?")
		args = append(args, *f.GameID)
	}
	if f.CollectionID != 0 {
		where = append(where, "g.collection_id = ?")
		args = append(args, f.CollectionID)
	}
	if f.FranchiseID != 0 {
		where = append(where, "g.franchise_id = ?")
		args = append(args, f.FranchiseID)
	}
	if f.GenreID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM game_genres gg WHERE gg.game_id = c.game AND gg.genre_id = ?)")
		args = append(args, f.GenreID)
	}
	if f.PlatformID != 0 {
		where = append(where, "EXISTS (SELECT 1 FROM game_platforms gp WHERE gp.game_id = c.game AND gp.platform_id = ?)")
		args = append(args, f.PlatformID)
	}
	if lang := strings.TrimSpace(f.Language); lang != "" {
		where = append(where, "UPPER(c.language) = ?")
		args = append(args, strings.ToUpper(lang))
	}
	if pattern := SearchKey(f.NamePattern); pattern != "" {
		where = append(where, `c.search_key LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(pattern)+"%")
	}

	var b strings.Builder
	b.WriteString("SELECT c.path, c.game, c.name, c.language, ")
	b.WriteString(gameName)
	b.WriteString(", ")
	b.WriteString(collectionName)
	b.WriteString(" FROM catalog c LEFT JOIN games g ON g.id = c.game LEFT JOIN collections col ON col.id = g.collection_id")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY c.search_key, c.path")
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
