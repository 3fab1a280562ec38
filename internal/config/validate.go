package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateEmulators(); err != nil {
		return err
	}
	if err := c.validateIGDB(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.GamesDir) == "" {
		return errors.New("paths.games_dir must be set")
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Depth < 1 {
		return errors.New("scan.depth must be at least 1")
	}
	if _, err := cron.ParseStandard(c.Scan.Schedule); err != nil {
		return fmt.Errorf("scan.schedule: %w", err)
	}
	return nil
}

func (c *Config) validateEmulators() error {
	if len(c.Emulators) == 0 {
		return errors.New("at least one [[emulators]] entry is required")
	}
	for i, emu := range c.Emulators {
		if emu.Name == "" {
			return fmt.Errorf("emulators[%d].name must be set", i)
		}
		if len(emu.Extensions) == 0 {
			return fmt.Errorf("emulators[%d] (%s) must list at least one extension", i, emu.Name)
		}
	}
	return nil
}

func (c *Config) validateIGDB() error {
	if c.IGDB.ClientID == "" || c.IGDB.ClientSecret == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("igdb.client_id and igdb.client_secret are required. Set IGDB_CLIENT_ID/IGDB_CLIENT_SECRET or edit %s (create with 'ludotheque config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if _, err := language.Parse(c.Translation.Language); err != nil {
		return fmt.Errorf("translation.language %q is not a valid language tag: %w", c.Translation.Language, err)
	}
	if !c.Translation.Enabled {
		return nil
	}
	if c.LLM.APIKey == "" {
		return errors.New("llm.api_key must be set when translation.enabled is true (or export OPENAI_API_KEY)")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
