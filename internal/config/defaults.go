package config

const (
	defaultConfigPath        = "~/.config/ludotheque/config.toml"
	defaultGamesDir          = "~/Games"
	defaultDataDir           = "~/.local/share/ludotheque"
	defaultCacheDir          = "~/.cache/ludotheque"
	defaultLogDir            = "~/.local/share/ludotheque/logs"
	defaultScanDepth         = 1
	defaultFileDelayMS       = 100
	defaultScanSchedule      = "@daily"
	defaultIGDBBaseURL       = "https://api.igdb.com/v4"
	defaultIGDBTokenURL      = "https://id.twitch.tv/oauth2/token"
	defaultIGDBIntervalMS    = 250
	defaultLanguage          = "fr"
	defaultLLMBaseURL        = "https://api.openai.com/v1"
	defaultLLMModel          = "gpt-3.5-turbo"
	defaultLLMTemperature    = 0.2
	defaultLLMTimeoutSeconds = 60
	defaultLLMMaxRetries     = 3
	defaultCoverIntervalMS   = 2500
	defaultThumbnailWidth    = 132
	defaultThumbnailHeight   = 187
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			GamesDir: defaultGamesDir,
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Scan: Scan{
			Depth:       defaultScanDepth,
			FileDelayMS: defaultFileDelayMS,
			Schedule:    defaultScanSchedule,
		},
		IGDB: IGDB{
			BaseURL:           defaultIGDBBaseURL,
			TokenURL:          defaultIGDBTokenURL,
			RequestIntervalMS: defaultIGDBIntervalMS,
		},
		Translation: Translation{
			Language: defaultLanguage,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Temperature:    defaultLLMTemperature,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			MaxRetries:     defaultLLMMaxRetries,
		},
		Covers: Covers{
			IntervalMS:      defaultCoverIntervalMS,
			ThumbnailWidth:  defaultThumbnailWidth,
			ThumbnailHeight: defaultThumbnailHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
