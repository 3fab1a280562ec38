package testsupport

import (
	"context"
	"testing"

	"ludotheque/internal/config"
	"ludotheque/internal/metadata"
	"ludotheque/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SaveGame persists a game for tests.
func SaveGame(t testing.TB, st *store.Store, game metadata.Game) {
	t.Helper()

	if err := st.Games().Save(context.Background(), &game); err != nil {
		t.Fatalf("save game %d: %v", game.ID, err)
	}
}

// CountRows returns the number of rows in table.
func CountRows(t testing.TB, st *store.Store, table string) int {
	t.Helper()

	var n int
	if err := st.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
