package identification

import (
	"context"
	"log/slog"

	"ludotheque/internal/config"
	"ludotheque/internal/logging"
	"ludotheque/internal/metadata"
	"ludotheque/internal/store"
)

// Remote is the game metadata source.
type Remote interface {
	SearchGames(ctx context.Context, title string, platform uint64) ([]metadata.Game, error)
	GameByID(ctx context.Context, id uint64) ([]metadata.Game, error)
}

// Translator produces the translated overlay of a game.
type Translator interface {
	TranslateGame(ctx context.Context, game metadata.Game) (metadata.Game, error)
}

// Result describes how one file was handled.
type Result struct {
	Path string
	// State is terminal: AlreadyCataloged, Cataloged or Failed.
	State State
	// Route is the branch taken after the cache check.
	Route      State
	GameID     uint64
	Name       string
	Language   string
	Translated bool
	Err        error
}

// Identifier runs the identification pipeline against one store.
type Identifier struct {
	cfg        *config.Config
	store      *store.Store
	remote     Remote
	translator Translator
	logger     *slog.Logger
}

// Option customizes the Identifier.
type Option func(*Identifier)

// WithTranslator enables the translated overlay.
func WithTranslator(translator Translator) Option {
	return func(i *Identifier) {
		i.translator = translator
	}
}

// NewIdentifier creates an identifier. The config supplies the per-emulator platform filter.
func NewIdentifier(cfg *config.Config, st *store.Store, remote Remote, logger *slog.Logger, opts ...Option) *Identifier {
	id := &Identifier{
		cfg:    cfg,
		store:  st,
		remote: remote,
		logger: logging.NewComponentLogger(logger, "identifier"),
	}
	for _, opt := range opts {
		opt(id)
	}
	return id
}

// Translating reports whether a translator is configured.
func (i *Identifier) Translating() bool {
	return i.translator != nil
}

func (i *Identifier) platformFor(path string) uint64 {
	if i.cfg == nil {
		return 0
	}
	if emu, ok := i.cfg.EmulatorFor(path); ok {
		return emu.IGDBPlatform
	}
	return 0
}
