package identification

import (
	"context"
	"fmt"
	"strings"

	"ludotheque/internal/filename"
	"ludotheque/internal/logging"
	"ludotheque/internal/metadata"
	"ludotheque/internal/services"
)

// Identify runs the pipeline for path. The returned error is also recorded
// in Result.Err; a non-nil error always comes with State == StateFailed.
func (i *Identifier) Identify(ctx context.Context, path string) (Result, error) {
	ctx = services.WithPath(ctx, path)
	result := Result{Path: path, State: StateDiscovered}
	parsed := filename.Parse(path)
	result.Language = strings.ToUpper(parsed.Language)

	ctx = services.WithStage(ctx, StateCacheCheck.String())
	cataloged, err := i.cached(ctx, path)
	if err != nil {
		return i.fail(ctx, result, err)
	}
	if cataloged != nil {
		result.State = StateAlreadyCataloged
		result.Route = StateAlreadyCataloged
		result.GameID = cataloged.GameID
		result.Name = cataloged.Name
		result.Language = cataloged.Language
		logging.WithContext(ctx, i.logger).Debug("already cataloged", logging.Uint64(logging.FieldGameID, cataloged.GameID))
		return result, nil
	}

	game, route, err := i.resolve(ctx, parsed, path)
	result.Route = route
	if err != nil {
		return i.fail(services.WithStage(ctx, route.String()), result, err)
	}
	result.GameID = game.ID

	if !game.IsSentinel() {
		ctx = services.WithStage(ctx, StatePersist.String())
		if err := i.store.Games().Save(ctx, &game); err != nil {
			return i.fail(ctx, result, err)
		}
	}

	name := game.Name
	if i.translator != nil && !game.IsSentinel() {
		ctx = services.WithStage(ctx, StateTranslate.String())
		if translatedName, ok := i.translate(ctx, game); ok {
			result.Translated = true
			if translatedName != "" {
				name = translatedName
			}
		}
	}
	if game.IsSentinel() {
		name = sentinelName(parsed.Title)
	}

	ctx = services.WithStage(ctx, StateCataloged.String())
	entry := metadata.CatalogEntry{
		Path:     path,
		GameID:   game.ID,
		Name:     name,
		Language: result.Language,
	}
	if err := i.store.Catalog().Save(ctx, &entry); err != nil {
		return i.fail(ctx, result, err)
	}

	result.State = StateCataloged
	result.Name = name
	logging.WithContext(ctx, i.logger).Info("game cataloged",
		logging.String(logging.FieldEventType, "game_cataloged"),
		logging.Uint64(logging.FieldGameID, game.ID),
		logging.String("name", name),
		logging.String("route", route.String()),
		logging.Bool("translated", result.Translated),
	)
	return result, nil
}

// cached returns the catalog entry when the path is cataloged against a stored game.
func (i *Identifier) cached(ctx context.Context, path string) (*metadata.CatalogEntry, error) {
	entry, err := i.store.Catalog().Load(ctx, path)
	if err != nil || entry == nil {
		return nil, err
	}
	exists, err := i.store.Games().Exists(ctx, entry.GameID)
	if err != nil || !exists {
		return nil, err
	}
	return entry, nil
}

func (i *Identifier) resolve(ctx context.Context, parsed filename.Parsed, path string) (metadata.Game, State, error) {
	switch {
	case parsed.HasID && parsed.ID == metadata.SentinelGameID:
		sentinel, err := i.store.Games().Load(ctx, metadata.SentinelGameID)
		if err != nil {
			return metadata.Game{}, StateUseSentinel, err
		}
		if sentinel == nil {
			return metadata.Game{}, StateUseSentinel, services.Wrap(services.ErrStoreRead, "identify", "load sentinel", "sentinel game missing", nil)
		}
		return *sentinel, StateUseSentinel, nil

	case parsed.HasID:
		games, err := i.remote.GameByID(ctx, parsed.ID)
		if err != nil {
			return metadata.Game{}, StateRemoteFetchByID, err
		}
		if len(games) == 0 {
			return metadata.Game{}, StateRemoteFetchByID, services.Wrap(services.ErrInvalidID, "identify", "fetch by id", fmt.Sprintf("no game with id %d", parsed.ID), nil)
		}
		return games[0], StateRemoteFetchByID, nil

	default:
		if parsed.Title == "" {
			return metadata.Game{}, StateRemoteFetchByTitle, services.Wrap(services.ErrNoMatch, "identify", "search", "empty title", nil)
		}
		games, err := i.remote.SearchGames(ctx, parsed.Title, i.platformFor(path))
		if err != nil {
			return metadata.Game{}, StateRemoteFetchByTitle, err
		}
		if len(games) == 0 {
			return metadata.Game{}, StateRemoteFetchByTitle, services.Wrap(services.ErrNoMatch, "identify", "search", fmt.Sprintf("no game matches %q", parsed.Title), nil)
		}
		return games[0], StateRemoteFetchByTitle, nil
	}
}

// translate stores the translated overlay. Failures are logged and leave the
// base game in place.
func (i *Identifier) translate(ctx context.Context, game metadata.Game) (string, bool) {
	logger := logging.WithContext(ctx, i.logger)
	translated, err := i.translator.TranslateGame(ctx, game)
	if err == nil {
		err = i.store.Games().Translate(ctx, &translated)
	}
	if err != nil {
		logging.WarnWithContext(logger, "translation skipped", "translation_failed",
			logging.Uint64(logging.FieldGameID, game.ID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the [llm] settings and API key"),
			logging.String(logging.FieldImpact, "catalog uses the untranslated name"),
		)
		return "", false
	}
	return strings.TrimSpace(translated.NameTranslated), true
}

func (i *Identifier) fail(ctx context.Context, result Result, err error) (Result, error) {
	result.State = StateFailed
	result.Err = err
	logger := logging.WithContext(ctx, i.logger)
	attrs := []logging.Attr{
		logging.String("route", result.Route.String()),
		logging.Error(err),
	}
	if services.Severity(err) == services.SeverityWarn {
		attrs = append(attrs,
			logging.String(logging.FieldErrorHint, "rename the file with an explicit id, e.g. \"Title [1234].ext\", or [0] for unknown"),
			logging.String(logging.FieldImpact, "file left out of the catalog"),
		)
		logging.WarnWithContext(logger, "identification failed", "identify_failed", attrs...)
	} else {
		logging.ErrorWithContext(logger, "identification failed", "identify_failed", attrs...)
	}
	return result, err
}

func sentinelName(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return metadata.SentinelGameName
	}
	return title
}

