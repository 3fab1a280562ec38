package store

import (
	"context"
	"strconv"

	"ludotheque/internal/metadata"
	"ludotheque/internal/services"
)

// GameRepository persists the whole game graph. Saves cascade into the
// lookup and media tables, then replace the game's edge rows, then upsert
// the base row, all in one transaction.
type GameRepository struct {
	store *Store
}

// Exists reports whether the game row is present.
func (r *GameRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	return NewRepository(r.store.db, gameDescriptor).Exists(ensureContext(ctx), id)
}

// Save writes the game and everything it references.
func (r *GameRepository) Save(ctx context.Context, game *metadata.Game) error {
	if game == nil {
		return nil
	}
	ctx = ensureContext(ctx)
	return r.store.InTx(ctx, func(q Querier) error {
		return saveGame(ctx, q, game)
	})
}

func saveGame(ctx context.Context, q Querier, game *metadata.Game) error {
	l := newLookups(q)

	if err := l.Collections.Save(ctx, game.Collection); err != nil {
		return err
	}
	if err := l.Franchises.Save(ctx, game.Franchise); err != nil {
		return err
	}
	if err := l.Covers.Save(ctx, game.Cover); err != nil {
		return err
	}

	genres, err := saveAll(ctx, l.Genres, game.Genres, namedID)
	if err != nil {
		return err
	}
	themes, err := saveAll(ctx, l.Themes, game.Themes, namedID)
	if err != nil {
		return err
	}
	keywords, err := saveAll(ctx, l.Keywords, game.Keywords, namedID)
	if err != nil {
		return err
	}
	artworks, err := saveAll(ctx, l.Artworks, game.Artworks, imageID)
	if err != nil {
		return err
	}
	screenshots, err := saveAll(ctx, l.Screenshots, game.Screenshots, imageID)
	if err != nil {
		return err
	}
	videos, err := saveAll(ctx, l.Videos, game.Videos, func(v *metadata.Video) uint64 { return v.ID })
	if err != nil {
		return err
	}

	edges := []struct {
		edge edge
		ids  []uint64
	}{
		{genreEdges, genres},
		{themeEdges, themes},
		{keywordEdges, keywords},
		{platformEdges, game.Platforms},
		{remakeEdges, game.Remakes},
		{remasterEdges, game.Remasters},
		{similarEdges, game.SimilarGames},
		{artworkEdges, artworks},
		{screenshotEdges, screenshots},
		{videoEdges, videos},
	}
	for _, e := range edges {
		if err := e.edge.replace(ctx, q, game.ID, e.ids); err != nil {
			return err
		}
	}

	// Upsert, never replace: a REPLACE would delete the row and cascade
	// into the edges written above.
	return NewRepository(q, gameDescriptor).Upsert(ctx, game)
}

func saveAll[T any](ctx context.Context, repo *Repository[T], items []T, id func(*T) uint64) ([]uint64, error) {
	ids := make([]uint64, 0, len(items))
	for i := range items {
		if err := repo.Save(ctx, &items[i]); err != nil {
			return nil, err
		}
		ids = append(ids, id(&items[i]))
	}
	return ids, nil
}

func namedID(n *metadata.Named) uint64 { return n.ID }
func imageID(i *metadata.Image) uint64 { return i.ID }

// Load reconstructs the base variant of the game graph. Nil when absent.
func (r *GameRepository) Load(ctx context.Context, id uint64) (*metadata.Game, error) {
	return r.load(ensureContext(ctx), id, false)
}

// LoadTranslated reconstructs the graph with the translated overlay applied
// to the game and every loaded sub-entity.
func (r *GameRepository) LoadTranslated(ctx context.Context, id uint64) (*metadata.Game, error) {
	return r.load(ensureContext(ctx), id, true)
}

func (r *GameRepository) load(ctx context.Context, id uint64, translated bool) (*metadata.Game, error) {
	q := r.store.db
	games := NewRepository(q, gameDescriptor)
	l := newLookups(q)

	var (
		game *metadata.Game
		err  error
	)
	if translated {
		game, err = games.LoadTranslated(ctx, id)
	} else {
		game, err = games.Load(ctx, id)
	}
	if err != nil || game == nil {
		return game, err
	}

	if game.Collection != nil {
		if game.Collection, err = loadOne(ctx, l.Collections, game.Collection.ID, translated); err != nil {
			return nil, err
		}
	}
	if game.Franchise != nil {
		if game.Franchise, err = loadOne(ctx, l.Franchises, game.Franchise.ID, translated); err != nil {
			return nil, err
		}
	}
	if game.Cover != nil {
		if game.Cover, err = loadOne(ctx, l.Covers, game.Cover.ID, false); err != nil {
			return nil, err
		}
	}

	if game.Genres, err = loadMembers(ctx, q, genreEdges, l.Genres, id, translated); err != nil {
		return nil, err
	}
	if game.Themes, err = loadMembers(ctx, q, themeEdges, l.Themes, id, translated); err != nil {
		return nil, err
	}
	if game.Keywords, err = loadMembers(ctx, q, keywordEdges, l.Keywords, id, translated); err != nil {
		return nil, err
	}
	if game.Artworks, err = loadMembers(ctx, q, artworkEdges, l.Artworks, id, false); err != nil {
		return nil, err
	}
	if game.Screenshots, err = loadMembers(ctx, q, screenshotEdges, l.Screenshots, id, false); err != nil {
		return nil, err
	}
	if game.Videos, err = loadMembers(ctx, q, videoEdges, l.Videos, id, translated); err != nil {
		return nil, err
	}
	if game.Platforms, err = platformEdges.load(ctx, q, id); err != nil {
		return nil, err
	}
	if game.Remakes, err = remakeEdges.load(ctx, q, id); err != nil {
		return nil, err
	}
	if game.Remasters, err = remasterEdges.load(ctx, q, id); err != nil {
		return nil, err
	}
	if game.SimilarGames, err = similarEdges.load(ctx, q, id); err != nil {
		return nil, err
	}
	return game, nil
}

func loadOne[T any](ctx context.Context, repo *Repository[T], id uint64, translated bool) (*T, error) {
	if translated {
		return repo.LoadTranslated(ctx, id)
	}
	return repo.Load(ctx, id)
}

func loadMembers[T any](ctx context.Context, q Querier, e edge, repo *Repository[T], gameID uint64, translated bool) ([]T, error) {
	ids, err := e.load(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	var out []T
	for _, id := range ids {
		item, err := loadOne(ctx, repo, id, translated)
		if err != nil {
			return nil, err
		}
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

// Translate writes the translated columns of the game and of every nested
// entity that carries a translated name. The game row must exist.
func (r *GameRepository) Translate(ctx context.Context, game *metadata.Game) error {
	if game == nil {
		return nil
	}
	ctx = ensureContext(ctx)
	return r.store.InTx(ctx, func(q Querier) error {
		if err := NewRepository(q, gameDescriptor).Translate(ctx, game); err != nil {
			return err
		}
		l := newLookups(q)
		if err := translateNamed(ctx, l.Collections, game.Collection); err != nil {
			return err
		}
		if err := translateNamed(ctx, l.Franchises, game.Franchise); err != nil {
			return err
		}
		for _, group := range []struct {
			repo  *Repository[metadata.Named]
			items []metadata.Named
		}{
			{l.Genres, game.Genres},
			{l.Themes, game.Themes},
			{l.Keywords, game.Keywords},
		} {
			for i := range group.items {
				if err := translateNamed(ctx, group.repo, &group.items[i]); err != nil {
					return err
				}
			}
		}
		for i := range game.Videos {
			video := &game.Videos[i]
			if video.NameTranslated == "" {
				continue
			}
			if err := l.Videos.Translate(ctx, video); err != nil {
				return err
			}
		}
		return nil
	})
}

func translateNamed(ctx context.Context, repo *Repository[metadata.Named], item *metadata.Named) error {
	if item == nil || item.NameTranslated == "" {
		return nil
	}
	return repo.Translate(ctx, item)
}

// Delete removes the game row; edge rows follow through ON DELETE CASCADE.
// The sentinel cannot be deleted.
func (r *GameRepository) Delete(ctx context.Context, id uint64) error {
	if id == metadata.SentinelGameID {
		return services.Wrap(services.ErrValidation, "games", "delete", "sentinel game "+strconv.FormatUint(id, 10)+" is reserved", nil)
	}
	return NewRepository(r.store.db, gameDescriptor).Delete(ensureContext(ctx), id)
}
