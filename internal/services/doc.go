// Package services defines shared utilities consumed by the scanner, the
// identification pipeline, and the persistence layer.
//
// Key responsibilities:
//   - Context helpers that stamp scan run ids, pipeline stages, and file paths
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (store, remote, translation, no match) and decide their log severity.
package services
