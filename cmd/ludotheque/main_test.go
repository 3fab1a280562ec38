package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ludotheque/internal/config"
	"ludotheque/internal/metadata"
	"ludotheque/internal/store"
	"ludotheque/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	require.NoError(t, os.MkdirAll(cfg.Paths.GamesDir, 0o755))
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	data, err := toml.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0o644))
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func (env *cliTestEnv) withStore(t *testing.T, fn func(st *store.Store)) {
	t.Helper()
	st, err := store.Open(env.cfg)
	require.NoError(t, err)
	defer st.Close()
	fn(st)
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedCatalog(t *testing.T, env *cliTestEnv) (string, string) {
	t.Helper()
	zelda := testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.GamesDir, "Zelda [1022, fr].gba"))
	gone := filepath.Join(env.cfg.Paths.GamesDir, "Légende perdue.gba")
	env.withStore(t, func(st *store.Store) {
		testsupport.SaveGame(t, st, metadata.Game{
			ID:         1022,
			Name:       "The Legend of Zelda",
			Summary:    "Link explores Hyrule.",
			Collection: &metadata.Collection{ID: 106, Name: "The Legend of Zelda"},
			Genres:     []metadata.Genre{{ID: 31, Name: "Adventure"}},
			Platforms:  []uint64{24},
		})
		ctx := context.Background()
		require.NoError(t, st.Catalog().Save(ctx, &metadata.CatalogEntry{Path: zelda, GameID: 1022, Name: "Zelda", Language: "FR"}))
		require.NoError(t, st.Catalog().Save(ctx, &metadata.CatalogEntry{Path: gone, GameID: 0, Name: "Légende perdue"}))
	})
	return zelda, gone
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "ludotheque.toml")
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, target)
	assert.Contains(t, out.String(), "Wrote sample configuration")

	cmd = newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigValidateUsesConfigFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.run(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path: "+env.configPath)
	assert.Contains(t, out, "gba, zip, sfc, smc")
	assert.Contains(t, out, "Configuration valid")
}

func TestListFiltersCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCatalog(t, env)

	out, err := env.run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 file(s)")

	out, err = env.run(t, "list", "--genre", "31")
	require.NoError(t, err)
	assert.Contains(t, out, "The Legend of Zelda")
	assert.Contains(t, out, "1 file(s)")

	out, err = env.run(t, "list", "--name", "legende")
	require.NoError(t, err)
	assert.Contains(t, out, "Légende perdue")
	assert.Contains(t, out, "1 file(s)")

	out, err = env.run(t, "list", "--game", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "1 file(s)")

	out, err = env.run(t, "list", "--platform", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "No cataloged files match")
}

func TestShowPrintsStoredGame(t *testing.T) {
	env := setupCLITestEnv(t)
	seedCatalog(t, env)

	out, err := env.run(t, "show", "1022")
	require.NoError(t, err)
	assert.Contains(t, out, "The Legend of Zelda")
	assert.Contains(t, out, "Adventure")
	assert.Contains(t, out, "#24")
	assert.Contains(t, out, "Link explores Hyrule.")

	_, err = env.run(t, "show", "999")
	require.Error(t, err)

	_, err = env.run(t, "show", "abc")
	require.Error(t, err)
}

func TestCleanupRemovesMissingFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	zelda, gone := seedCatalog(t, env)

	out, err := env.run(t, "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 missing file(s)")

	env.withStore(t, func(st *store.Store) {
		ok, err := st.Catalog().Exists(context.Background(), zelda)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = st.Catalog().Exists(context.Background(), gone)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestScanWithoutFilesPrintsSummary(t *testing.T) {
	env := setupCLITestEnv(t)
	out, err := env.run(t, "scan")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "No new files (0 discovered, 0 removed)"), out)
}

func TestShowCompaniesStoresRemoteCompanies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600,"token_type":"bearer"}`))
	})
	mux.HandleFunc("/v4/companies", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":70,"name":"Nintendo","developed":[1022],"published":[1022,1023]}]`))
	})
	mux.HandleFunc("/v4/platforms", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":24,"name":"Game Boy Advance","platform_logo":{"id":5,"url":"//images.igdb.com/logo.png"}}]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	env := setupCLITestEnv(t, testsupport.WithIGDBEndpoints(srv.URL+"/v4", srv.URL+"/oauth2/token"))
	seedCatalog(t, env)

	out, err := env.run(t, "show", "1022", "--companies")
	require.NoError(t, err)
	assert.Contains(t, out, "Game Boy Advance")
	assert.Contains(t, out, "Developers")
	assert.Contains(t, out, "Nintendo")

	env.withStore(t, func(st *store.Store) {
		company, err := st.Companies().Load(context.Background(), 70)
		require.NoError(t, err)
		require.NotNil(t, company)
		assert.ElementsMatch(t, []uint64{1022}, company.Developed)
		assert.ElementsMatch(t, []uint64{1022, 1023}, company.Published)
		assert.Equal(t, 1, testsupport.CountRows(t, st, "platform_logos"))
	})
}
