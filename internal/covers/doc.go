// Package covers keeps a local cache of game cover images.
//
// Covers are fetched from the IGDB image CDN at cover_big size, stored as
// <cache_dir>/covers/<game id>.jpg and paired with a thumbnail sized for list
// views. The sentinel game id maps to IGDB's "no cover" placeholder.
package covers
