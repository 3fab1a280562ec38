package scanner

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"ludotheque/internal/logging"
	"ludotheque/internal/metadata"
)

// Catalog is the subset of the catalog repository Cleanup needs.
type Catalog interface {
	All(ctx context.Context) ([]metadata.CatalogEntry, error)
	Delete(ctx context.Context, path string) error
}

// Cleanup deletes every catalog entry whose file no longer exists and
// returns how many were removed. Entries whose path cannot be checked for
// another reason are kept. A failed delete is logged and skipped; only a
// failure to list the catalog is returned.
func Cleanup(ctx context.Context, catalog Catalog, logger *slog.Logger) (int, error) {
	entries, err := catalog.All(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if _, err := os.Stat(entry.Path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := catalog.Delete(ctx, entry.Path); err != nil {
			logging.WarnWithContext(logger, "catalog entry not removed", "cleanup_delete_failed",
				logging.String(logging.FieldPath, entry.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "stale entry stays until the next scan"),
			)
			continue
		}
		removed++
	}
	return removed, nil
}
