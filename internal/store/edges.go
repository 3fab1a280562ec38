package store

import (
	"context"
	"fmt"
	"strconv"

	"ludotheque/internal/services"
)

// edge names a game-owned association table and its member column.
type edge struct {
	table  string
	member string
}

var (
	genreEdges      = edge{table: "game_genres", member: "genre_id"}
	themeEdges      = edge{table: "game_themes", member: "theme_id"}
	keywordEdges    = edge{table: "game_keywords", member: "keyword_id"}
	artworkEdges    = edge{table: "game_artworks", member: "artwork_id"}
	screenshotEdges = edge{table: "game_screenshots", member: "screenshot_id"}
	videoEdges      = edge{table: "game_videos", member: "video_id"}
	platformEdges   = edge{table: "game_platforms", member: "platform_id"}
	remakeEdges     = edge{table: "game_remakes", member: "remake_id"}
	remasterEdges   = edge{table: "game_remasters", member: "remaster_id"}
	similarEdges    = edge{table: "game_similar", member: "similar_id"}
)

// replace makes the stored member set for gameID equal to ids.
func (e edge) replace(ctx context.Context, q Querier, gameID uint64, ids []uint64) error {
	key := strconv.FormatUint(gameID, 10)
	if err := retryOnBusy(ctx, func() error {
		_, err := q.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE game_id = ?", e.table), gameID)
		return err
	}); err != nil {
		return services.Wrap(services.ErrStoreWrite, e.table, "clear edges", key, err)
	}
	insert := fmt.Sprintf("INSERT OR IGNORE INTO %s (game_id, %s) VALUES (?, ?)", e.table, e.member)
	for _, id := range ids {
		if err := retryOnBusy(ctx, func() error {
			_, err := q.ExecContext(ctx, insert, gameID, id)
			return err
		}); err != nil {
			return services.Wrap(services.ErrStoreWrite, e.table, "insert edge", key, err)
		}
	}
	return nil
}

// load returns member ids in insertion order.
func (e edge) load(ctx context.Context, q Querier, gameID uint64) ([]uint64, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE game_id = ? ORDER BY rowid", e.member, e.table), gameID)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreRead, e.table, "load edges", strconv.FormatUint(gameID, 10), err)
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, services.Wrap(services.ErrStoreRead, e.table, "load edges", "scan", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStoreRead, e.table, "load edges", "", err)
	}
	return ids, nil
}
