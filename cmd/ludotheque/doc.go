// Command ludotheque catalogs a directory of game files.
//
// Files are identified against IGDB from their names, stored with the full
// metadata graph in a local SQLite database and optionally given a
// translated overlay. Subcommands cover one-off scans, single-file
// identification, catalog queries, the cover cache and a scheduled watch
// mode.
package main
