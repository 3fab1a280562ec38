// Package identification resolves one game file to a game and records it
// in the catalog.
//
// The Identifier parses the file name, short-circuits when the path is
// already cataloged against a stored game, otherwise fetches the game from
// IGDB by explicit id or by title (or falls back to the "Unknown" sentinel
// for an explicit id 0), persists the game graph, optionally stores a
// translated overlay, and finally upserts the catalog entry.
//
// Failures are returned with a services marker so callers can tell expected
// outcomes (no match, invalid id) from faults (store or network errors).
package identification
