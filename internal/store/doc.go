// Package store persists the game metadata graph and the file catalog in
// SQLite.
//
// Simple entities go through a generic Repository built from a per-table
// Descriptor (columns, key, translated columns, scan/value funcs), which
// provides exists, load, load-translated, insert-if-absent, upsert, delete,
// and translate operations with parameterized statements. Games and companies
// add a cascade on top: owned sub-entities are inserted first, edge tables are
// fully replaced, and the base row is upserted last, all inside one
// transaction. CatalogRepository exposes the catalog view used by the CLI.
//
// Schema changes live in migrations/ and are applied with goose on Open.
package store
