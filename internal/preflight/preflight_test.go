package preflight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ludotheque/internal/config"
	"ludotheque/internal/services"
	"ludotheque/internal/testsupport"
)

type fakeAuth struct{ err error }

func (f fakeAuth) Authenticate(context.Context) error { return f.err }

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, false)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckIGDB(t *testing.T) {
	if result := CheckIGDB(context.Background(), fakeAuth{}); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	rejected := services.Wrap(services.ErrRemoteRejected, "igdb", "token", "401", nil)
	if result := CheckIGDB(context.Background(), fakeAuth{err: rejected}); result.Passed || result.Detail != "credentials rejected" {
		t.Fatalf("unexpected result %+v", result)
	}
	if result := CheckIGDB(context.Background(), nil); result.Passed {
		t.Fatal("expected failure without a client")
	}
	if result := CheckIGDB(context.Background(), fakeAuth{err: errors.New("boom")}); result.Passed {
		t.Fatal("expected failure on transport error")
	}
}

func TestCheckLLM_MissingKey(t *testing.T) {
	result := CheckLLM(context.Background(), "LLM", config.LLM{})
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
}

func TestCheckLLM_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), "LLM", config.LLM{APIKey: "key", BaseURL: srv.URL, Model: "m"})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckLLM_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), "LLM", config.LLM{APIKey: "key", BaseURL: srv.URL, Model: "m"})
	if result.Passed {
		t.Fatal("expected failure for rejected key")
	}
}

func TestCheckEmulators(t *testing.T) {
	orig := lookPath
	lookPath = func(file string) (string, error) {
		if file == "mgba-qt" {
			return "/usr/bin/mgba-qt", nil
		}
		return "", errors.New("not found")
	}
	defer func() { lookPath = orig }()

	results := CheckEmulators([]config.Emulator{
		{Name: "mGBA", Command: "mgba-qt {path}", Extensions: []string{"gba"}},
		{Name: "Snes9x", Command: "snes9x-gtk", Extensions: []string{"sfc"}},
		{Name: "Bare", Extensions: []string{"bin"}},
	})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Passed || results[1].Passed || results[2].Passed {
		t.Fatalf("unexpected results %+v", results)
	}
	for _, result := range results {
		if !result.Optional {
			t.Fatalf("emulator checks must be optional: %+v", result)
		}
	}
}

func TestRunAllSkipsLLMWhenTranslationDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.MkdirAll(cfg.Paths.GamesDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	orig := lookPath
	lookPath = func(string) (string, error) { return "", errors.New("not found") }
	defer func() { lookPath = orig }()

	results := RunAll(context.Background(), cfg, fakeAuth{})
	for _, result := range results {
		if result.Name == "Translation LLM" {
			t.Fatal("LLM must not be checked when translation is disabled")
		}
	}
	if Failed(results) {
		t.Fatalf("missing emulators alone must not fail the run: %+v", results)
	}

	results = RunAll(context.Background(), cfg, fakeAuth{err: errors.New("offline")})
	if !Failed(results) {
		t.Fatal("expected failure when IGDB is unreachable")
	}
}
