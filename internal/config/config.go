package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	GamesDir string `toml:"games_dir"`
	DataDir  string `toml:"data_dir"`
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Scan controls directory discovery and pacing between files.
type Scan struct {
	Depth       int    `toml:"depth"`
	FileDelayMS int    `toml:"file_delay_ms"`
	Schedule    string `toml:"schedule"`
}

// Emulator maps a launcher to the file extensions it handles. IGDBPlatform
// optionally narrows title searches to one IGDB platform id.
type Emulator struct {
	Name         string   `toml:"name"`
	Command      string   `toml:"command"`
	Extensions   []string `toml:"extensions"`
	IGDBPlatform uint64   `toml:"igdb_platform"`
}

// IGDB contains credentials and endpoints for the IGDB API.
type IGDB struct {
	ClientID          string `toml:"client_id"`
	ClientSecret      string `toml:"client_secret"`
	BaseURL           string `toml:"base_url"`
	TokenURL          string `toml:"token_url"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
}

// Translation toggles the translated overlay and selects its target language.
type Translation struct {
	Enabled  bool   `toml:"enabled"`
	Language string `toml:"language"`
}

// LLM contains chat completion connection settings.
type LLM struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	MaxRetries     int     `toml:"max_retries"`
}

// Covers configures the cover image cache.
type Covers struct {
	IntervalMS      int `toml:"interval_ms"`
	ThumbnailWidth  int `toml:"thumbnail_width"`
	ThumbnailHeight int `toml:"thumbnail_height"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ludotheque.
//
// Configuration sections by subsystem:
//   - Paths: game library root and local data/cache/log directories
//   - Scan: recursion depth, pacing and the watch schedule
//   - Emulators: extension mappings that define which files are games
//   - IGDB: remote metadata credentials
//   - Translation + LLM: optional translated overlay
//   - Covers: cover cache pacing and thumbnails
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Scan        Scan        `toml:"scan"`
	Emulators   []Emulator  `toml:"emulators"`
	IGDB        IGDB        `toml:"igdb"`
	Translation Translation `toml:"translation"`
	LLM         LLM         `toml:"llm"`
	Covers      Covers      `toml:"covers"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("ludotheque.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the local data, cache, and log directories.
// The games directory is never created; a missing library is reported by the scanner.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite database location.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "ludotheque.db")
}

// ScanLockPath returns the lock file guarding concurrent scans.
func (c *Config) ScanLockPath() string {
	return filepath.Join(c.Paths.DataDir, "scan.lock")
}

// CoversDir returns the directory holding cached cover images.
func (c *Config) CoversDir() string {
	return filepath.Join(c.Paths.CacheDir, "covers")
}

// TokenCachePath returns the file caching the IGDB access token.
func (c *Config) TokenCachePath() string {
	return filepath.Join(c.Paths.CacheDir, "igdb_token.json")
}

// Extensions returns the union of all emulator extensions, lowercased and
// without a leading dot, in first-seen order.
func (c *Config) Extensions() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, emu := range c.Emulators {
		for _, ext := range emu.Extensions {
			ext = normalizeExtension(ext)
			if ext == "" {
				continue
			}
			if _, ok := seen[ext]; ok {
				continue
			}
			seen[ext] = struct{}{}
			out = append(out, ext)
		}
	}
	return out
}

// EmulatorFor returns the first emulator that handles the file's extension.
func (c *Config) EmulatorFor(path string) (Emulator, bool) {
	name := strings.ToLower(filepath.Base(path))
	for _, emu := range c.Emulators {
		for _, ext := range emu.Extensions {
			ext = normalizeExtension(ext)
			if ext != "" && strings.HasSuffix(name, "."+ext) {
				return emu, true
			}
		}
	}
	return Emulator{}, false
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
