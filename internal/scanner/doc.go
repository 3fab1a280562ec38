// Package scanner discovers game files under the library root, removes
// catalog entries whose files vanished, and feeds every discovered file to
// the identification pipeline one at a time.
//
// Only one scan runs per data directory; Run holds an exclusive file lock
// for its whole duration.
package scanner
