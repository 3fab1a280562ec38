// Package metadata defines the game metadata graph persisted by the store and
// exchanged with IGDB: games, their lookup entities (collections, franchises,
// genres, themes, keywords, platforms, companies, categories), media
// (covers, artworks, screenshots, logos, videos), and catalog entries linking
// files on disk to a game.
//
// JSON tags follow IGDB field names so remote payloads decode directly into
// these types. Translated values live next to their base values (Name and
// NameTranslated); an empty translated value means "not translated".
package metadata
