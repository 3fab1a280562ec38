package testsupport

import (
	"path/filepath"
	"testing"

	"ludotheque/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.GamesDir = filepath.Join(base, "games")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scan.FileDelayMS = 0
	cfgVal.IGDB.ClientID = "test-client"
	cfgVal.IGDB.ClientSecret = "test-secret"
	cfgVal.IGDB.RequestIntervalMS = 0
	cfgVal.Covers.IntervalMS = 0
	cfgVal.Emulators = []config.Emulator{
		{Name: "mGBA", Command: "mgba-qt", Extensions: []string{"gba", "zip"}, IGDBPlatform: 24},
		{Name: "Snes9x", Command: "snes9x", Extensions: []string{"sfc", "smc"}},
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithIGDBEndpoints points the IGDB client at a fake server.
func WithIGDBEndpoints(baseURL, tokenURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.IGDB.BaseURL = baseURL
		b.cfg.IGDB.TokenURL = tokenURL
	}
}

// WithTranslation enables translation against a fake chat completion server.
func WithTranslation(baseURL, language string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Translation.Enabled = true
		b.cfg.Translation.Language = language
		b.cfg.LLM.APIKey = "test-key"
		b.cfg.LLM.BaseURL = baseURL
		b.cfg.LLM.MaxRetries = 0
	}
}

// WithEmulators replaces the configured emulators.
func WithEmulators(emulators ...config.Emulator) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Emulators = emulators
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
