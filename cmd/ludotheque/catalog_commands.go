package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ludotheque/internal/covers"
	"ludotheque/internal/logging"
	"ludotheque/internal/metadata"
	"ludotheque/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var filter store.Filter
	var gameID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged files",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			if gameID >= 0 {
				id := uint64(gameID)
				filter.GameID = &id
			}
			items, err := st.Catalog().Matching(cmd.Context(), filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No cataloged files match")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					item.Name,
					item.Language,
					strconv.FormatUint(item.GameID, 10),
					item.GameName,
					item.Collection,
					item.Path,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Name", "Lang", "Game", "Title", "Collection", "Path"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			fmt.Fprintf(out, "%d file(s)\n", len(items))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&gameID, "game", -1, "Only files linked to this game id (0 for unidentified)")
	flags.Uint64Var(&filter.CollectionID, "collection", 0, "Only games in this collection id")
	flags.Uint64Var(&filter.FranchiseID, "franchise", 0, "Only games in this franchise id")
	flags.Uint64Var(&filter.GenreID, "genre", 0, "Only games with this genre id")
	flags.Uint64Var(&filter.PlatformID, "platform", 0, "Only games on this platform id")
	flags.StringVar(&filter.Language, "language", "", "Only files tagged with this language code")
	flags.StringVar(&filter.NamePattern, "name", "", "Only names containing this text (case and accent insensitive)")
	flags.BoolVar(&filter.Translated, "translated", false, "Show translated game titles")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var translated bool
	var withCompanies bool

	cmd := &cobra.Command{
		Use:   "show <game-id>",
		Short: "Show the stored metadata of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[0])
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			games := st.Games()
			load := games.Load
			if translated {
				load = games.LoadTranslated
			}
			game, err := load(cmd.Context(), id)
			if err != nil {
				return err
			}
			if game == nil {
				return fmt.Errorf("game %d is not in the catalog", id)
			}
			if withCompanies && !game.IsSentinel() {
				if err := fetchRelated(cmd.Context(), ctx, st, game, translated); err != nil {
					return err
				}
			}
			companies, err := st.Companies().ForGame(cmd.Context(), id, translated)
			if err != nil {
				return err
			}
			platforms := make([]string, 0, len(game.Platforms))
			for _, platformID := range game.Platforms {
				platform, err := st.Platforms().Load(cmd.Context(), platformID, translated)
				if err != nil {
					return err
				}
				if platform == nil {
					platforms = append(platforms, "#"+strconv.FormatUint(platformID, 10))
					continue
				}
				platforms = append(platforms, platform.Name)
			}
			printGame(cmd.OutOrStdout(), game, companies, platforms)
			return nil
		},
	}

	cmd.Flags().BoolVar(&translated, "translated", false, "Prefer translated fields")
	cmd.Flags().BoolVar(&withCompanies, "companies", false, "Fetch companies and platforms from IGDB before showing")
	return cmd
}

// fetchRelated stores the companies and missing platforms of game, translating
// companies when a translator is configured.
func fetchRelated(ctx context.Context, cc *commandContext, st *store.Store, game *metadata.Game, translate bool) error {
	remote, err := cc.remote()
	if err != nil {
		return err
	}
	tr, err := cc.translator(translate)
	if err != nil {
		return err
	}
	logger, err := cc.ensureLogger()
	if err != nil {
		return err
	}

	companies, err := remote.CompaniesForGame(ctx, game.ID)
	if err != nil {
		return err
	}
	for i := range companies {
		company := &companies[i]
		if err := st.Companies().Save(ctx, company); err != nil {
			return err
		}
		if tr == nil {
			continue
		}
		translatedCompany, err := tr.TranslateCompany(ctx, *company)
		if err != nil {
			logging.WarnWithContext(logger, "company translation failed", "translation_failed",
				logging.Uint64("company_id", company.ID),
				logging.Error(err),
			)
			continue
		}
		if err := st.Companies().Translate(ctx, &translatedCompany); err != nil {
			return err
		}
	}

	var missing []uint64
	for _, id := range game.Platforms {
		platform, err := st.Platforms().Load(ctx, id, false)
		if err != nil {
			return err
		}
		if platform == nil {
			missing = append(missing, id)
		}
	}
	platforms, err := remote.PlatformsByID(ctx, missing...)
	if err != nil {
		return err
	}
	for i := range platforms {
		if err := st.Platforms().Save(ctx, &platforms[i]); err != nil {
			return err
		}
	}
	return nil
}

func printGame(out io.Writer, game *metadata.Game, companies []metadata.Company, platforms []string) {
	rows := [][]string{
		{"ID", strconv.FormatUint(game.ID, 10)},
		{"Name", game.Name},
	}
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			rows = append(rows, []string{label, value})
		}
	}
	add("Slug", game.Slug)
	if game.FirstReleaseDate > 0 {
		add("Released", time.Unix(game.FirstReleaseDate, 0).UTC().Format("2006-01-02"))
	}
	if game.Rating > 0 {
		add("Rating", fmt.Sprintf("%.1f (%d votes)", game.Rating, game.RatingCount))
	}
	if game.Collection != nil {
		add("Collection", game.Collection.Name)
	}
	if game.Franchise != nil {
		add("Franchise", game.Franchise.Name)
	}
	add("Genres", joinNames(game.Genres))
	add("Themes", joinNames(game.Themes))
	add("Keywords", joinNames(game.Keywords))
	add("Platforms", strings.Join(platforms, ", "))
	var developers, publishers []string
	for _, company := range companies {
		if containsID(company.Developed, game.ID) {
			developers = append(developers, company.Name)
		}
		if containsID(company.Published, game.ID) {
			publishers = append(publishers, company.Name)
		}
	}
	add("Developers", strings.Join(developers, ", "))
	add("Publishers", strings.Join(publishers, ", "))
	if game.Cover != nil {
		add("Cover", metadata.ImageURL(game.Cover.URL, metadata.SizeCoverBig))
	}
	add("Media", fmt.Sprintf("%d artwork(s), %d screenshot(s), %d video(s)", len(game.Artworks), len(game.Screenshots), len(game.Videos)))
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

	if game.Summary != "" {
		fmt.Fprintf(out, "\n%s\n", game.Summary)
	}
	if game.Storyline != "" {
		fmt.Fprintf(out, "\n%s\n", game.Storyline)
	}
}

func joinNames(items []metadata.Named) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}

func containsID(ids []uint64, id uint64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func newCoversCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "covers",
		Short: "Download covers for every cataloged game",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			st, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			entries, err := st.Catalog().All(cmd.Context())
			if err != nil {
				return err
			}
			seen := make(map[uint64]struct{})
			var games []metadata.Game
			for _, entry := range entries {
				if _, ok := seen[entry.GameID]; ok || entry.GameID == metadata.SentinelGameID {
					continue
				}
				seen[entry.GameID] = struct{}{}
				game, err := st.Games().Load(cmd.Context(), entry.GameID)
				if err != nil {
					return err
				}
				if game != nil {
					games = append(games, *game)
				}
			}
			summary, err := covers.New(cfg, logger).Sync(cmd.Context(), games)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Covers: %d downloaded, %d already cached, %d failed (%s)\n",
				summary.Downloaded, summary.Skipped, summary.Failed, cfg.CoversDir())
			return nil
		},
	}
}
