package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// secrets lists the credentials that may come from the environment when the
// config file leaves them blank.
type secrets struct {
	IGDBClientID     string `env:"IGDB_CLIENT_ID"`
	IGDBClientSecret string `env:"IGDB_CLIENT_SECRET"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.applySecrets(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeEmulators()
	c.normalizeIGDB()
	c.normalizeLLM()
	c.normalizeCovers()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.games_dir", &c.Paths.GamesDir, ""},
		{"paths.data_dir", &c.Paths.DataDir, defaultDataDir},
		{"paths.cache_dir", &c.Paths.CacheDir, defaultCacheDir},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDir},
	}
	for _, field := range fields {
		if strings.TrimSpace(*field.value) == "" {
			*field.value = field.fallback
		}
		expanded, err := expandPath(strings.TrimSpace(*field.value))
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) applySecrets() error {
	var s secrets
	if err := env.Parse(&s); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	c.IGDB.ClientID = firstNonEmpty(c.IGDB.ClientID, s.IGDBClientID)
	c.IGDB.ClientSecret = firstNonEmpty(c.IGDB.ClientSecret, s.IGDBClientSecret)
	c.LLM.APIKey = firstNonEmpty(c.LLM.APIKey, s.OpenAIAPIKey)
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.FileDelayMS < 0 {
		c.Scan.FileDelayMS = 0
	}
	c.Scan.Schedule = strings.TrimSpace(c.Scan.Schedule)
	if c.Scan.Schedule == "" {
		c.Scan.Schedule = defaultScanSchedule
	}
}

func (c *Config) normalizeEmulators() {
	for i := range c.Emulators {
		emu := &c.Emulators[i]
		emu.Name = strings.TrimSpace(emu.Name)
		emu.Command = strings.TrimSpace(emu.Command)
		cleaned := emu.Extensions[:0]
		for _, ext := range emu.Extensions {
			if ext = normalizeExtension(ext); ext != "" {
				cleaned = append(cleaned, ext)
			}
		}
		emu.Extensions = cleaned
	}
}

func (c *Config) normalizeIGDB() {
	c.IGDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.IGDB.BaseURL), "/")
	if c.IGDB.BaseURL == "" {
		c.IGDB.BaseURL = defaultIGDBBaseURL
	}
	c.IGDB.TokenURL = strings.TrimSpace(c.IGDB.TokenURL)
	if c.IGDB.TokenURL == "" {
		c.IGDB.TokenURL = defaultIGDBTokenURL
	}
	if c.IGDB.RequestIntervalMS < 0 {
		c.IGDB.RequestIntervalMS = 0
	}
}

func (c *Config) normalizeLLM() {
	c.Translation.Language = strings.TrimSpace(c.Translation.Language)
	if c.Translation.Language == "" {
		c.Translation.Language = defaultLanguage
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.MaxRetries < 0 {
		c.LLM.MaxRetries = 0
	}
}

func (c *Config) normalizeCovers() {
	if c.Covers.IntervalMS < 0 {
		c.Covers.IntervalMS = 0
	}
	if c.Covers.ThumbnailWidth <= 0 {
		c.Covers.ThumbnailWidth = defaultThumbnailWidth
	}
	if c.Covers.ThumbnailHeight <= 0 {
		c.Covers.ThumbnailHeight = defaultThumbnailHeight
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
