// Package config loads, normalizes, and validates ludotheque configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// IGDB_CLIENT_ID, IGDB_CLIENT_SECRET and OPENAI_API_KEY. The Config type
// centralizes the game directory, the emulator extension mappings, the IGDB
// and LLM credentials, and the cache/data locations used by the scanner.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
