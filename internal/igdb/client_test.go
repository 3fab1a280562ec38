package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"ludotheque/internal/services"
)

type fakeIGDB struct {
	mu          sync.Mutex
	tokenCalls  int
	bodies      []string
	rejectFirst bool
	games       string
}

func (f *fakeIGDB) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenCalls
}

func (f *fakeIGDB) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token method = %s", r.Method)
		}
		if r.URL.Query().Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant type %q", r.URL.Query().Get("grant_type"))
		}
		f.mu.Lock()
		f.tokenCalls++
		n := f.tokenCalls
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-" + string(rune('0'+n)),
			"expires_in":   3600,
			"token_type":   "bearer",
		})
	})
	mux.HandleFunc("/v4/games", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Client-ID") != "client" {
			t.Errorf("missing Client-ID header")
		}
		raw, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.bodies = append(f.bodies, string(raw))
		reject := f.rejectFirst && r.Header.Get("Authorization") == "Bearer token-1"
		f.mu.Unlock()
		if reject {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(f.games))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server, cachePath string) *Client {
	t.Helper()
	client, err := New(Settings{
		ClientID:       "client",
		ClientSecret:   "secret",
		BaseURL:        server.URL + "/v4",
		TokenURL:       server.URL + "/oauth2/token",
		TokenCachePath: cachePath,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

const zeldaPayload = `[{"id":1026,"name":"The Legend of Zelda: A Link to the Past","collection":{"id":106,"name":"The Legend of Zelda"},"genres":[{"id":12,"name":"Role-playing (RPG)"}],"platforms":[19,24],"cover":{"id":77,"url":"//images.igdb.com/igdb/image/upload/t_thumb/co1.jpg"},"alternative_names":[{"id":1,"name":"Zelda 3"}]}]`

func TestSearchGamesDecodesExpandedFields(t *testing.T) {
	fake := &fakeIGDB{games: zeldaPayload}
	server := fake.server(t)
	client := newTestClient(t, server, filepath.Join(t.TempDir(), "token.json"))

	games, err := client.SearchGames(context.Background(), "Zelda", 24)
	if err != nil {
		t.Fatalf("SearchGames: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	game := games[0]
	if game.ID != 1026 || game.Collection == nil || game.Collection.Name != "The Legend of Zelda" {
		t.Fatalf("unexpected game %+v", game)
	}
	if len(game.Platforms) != 2 || len(game.Genres) != 1 || len(game.AlternativeNames) != 1 {
		t.Fatalf("unexpected relations %+v", game)
	}
	body := fake.bodies[0]
	if !strings.HasPrefix(body, `search "Zelda"; fields name, slug`) {
		t.Fatalf("unexpected body %q", body)
	}
	if !strings.Contains(body, "where platforms = (24);") || !strings.HasSuffix(body, "limit 1;") {
		t.Fatalf("platform filter missing from %q", body)
	}
}

func TestGameByIDQuery(t *testing.T) {
	fake := &fakeIGDB{games: `[]`}
	server := fake.server(t)
	client := newTestClient(t, server, "")

	games, err := client.GameByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("GameByID: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games, got %d", len(games))
	}
	if !strings.Contains(fake.bodies[0], "where id = 42;") {
		t.Fatalf("unexpected body %q", fake.bodies[0])
	}
}

func TestTokenIsCachedOnDisk(t *testing.T) {
	fake := &fakeIGDB{games: `[]`}
	server := fake.server(t)
	cache := filepath.Join(t.TempDir(), "igdb_token.json")

	first := newTestClient(t, server, cache)
	if _, err := first.GameByID(context.Background(), 1); err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := os.Stat(cache); err != nil {
		t.Fatalf("token cache not written: %v", err)
	}

	second := newTestClient(t, server, cache)
	if _, err := second.GameByID(context.Background(), 2); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if fake.calls() != 1 {
		t.Fatalf("expected 1 token request, got %d", fake.calls())
	}
}

func TestExpiredTokenIsRefreshed(t *testing.T) {
	fake := &fakeIGDB{games: `[]`}
	server := fake.server(t)
	cache := filepath.Join(t.TempDir(), "igdb_token.json")

	now := time.Now()
	client := newTestClient(t, server, cache)
	client.tokens.now = func() time.Time { return now }
	if _, err := client.GameByID(context.Background(), 1); err != nil {
		t.Fatalf("first request: %v", err)
	}
	now = now.Add(3600*time.Second - 30*time.Second)
	if _, err := client.GameByID(context.Background(), 1); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if fake.calls() != 2 {
		t.Fatalf("expected token refresh inside the expiry margin, got %d calls", fake.calls())
	}
}

func TestRejectedTokenIsReplaced(t *testing.T) {
	fake := &fakeIGDB{games: zeldaPayload, rejectFirst: true}
	server := fake.server(t)
	client := newTestClient(t, server, filepath.Join(t.TempDir(), "token.json"))

	games, err := client.GameByID(context.Background(), 1026)
	if err != nil {
		t.Fatalf("GameByID: %v", err)
	}
	if len(games) != 1 || fake.calls() != 2 {
		t.Fatalf("expected retry with new token, games=%d tokenCalls=%d", len(games), fake.calls())
	}
}

func TestServerErrorIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/token") {
			_, _ = w.Write([]byte(`{"access_token":"t","expires_in":3600,"token_type":"bearer"}`))
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := New(Settings{ClientID: "c", ClientSecret: "s", BaseURL: server.URL, TokenURL: server.URL + "/token"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = client.SearchGames(context.Background(), "Zelda", 0)
	if !errors.Is(err, services.ErrRemoteUnreachable) {
		t.Fatalf("expected ErrRemoteUnreachable, got %v", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Settings{BaseURL: "http://x", TokenURL: "http://y"}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestSearchQueryEscapesQuotes(t *testing.T) {
	got := searchQuery(`Say "Hi"`, 0)
	if !strings.HasPrefix(got, `search "Say \"Hi\""; fields`) {
		t.Fatalf("unexpected query %q", got)
	}
	if strings.Contains(got, "where") {
		t.Fatalf("unexpected platform filter in %q", got)
	}
}

func TestByIDQueryMultiple(t *testing.T) {
	got := byIDQuery("name", 1, 2, 3)
	if got != "fields name; where id = (1,2,3); limit 3;" {
		t.Fatalf("unexpected query %q", got)
	}
}
