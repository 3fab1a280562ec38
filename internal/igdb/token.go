package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ludotheque/internal/services"
)

// tokenRefreshMargin is how long before expiry a cached token stops being reused.
const tokenRefreshMargin = 60 * time.Second

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// cachedToken is the on-disk token format.
type cachedToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (t cachedToken) valid(now time.Time) bool {
	return t.AccessToken != "" && now.Add(tokenRefreshMargin).Before(t.ExpiresAt)
}

type tokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	cachePath    string
	httpClient   *http.Client
	now          func() time.Time

	mu      sync.Mutex
	current cachedToken
}

// Token returns a usable access token, requesting a new one when the cached
// token is missing or about to expire.
func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.current.valid(now) {
		return s.current.AccessToken, nil
	}
	if cached, err := s.readCache(); err == nil && cached.valid(now) {
		s.current = cached
		return cached.AccessToken, nil
	}

	fresh, err := s.request(ctx)
	if err != nil {
		return "", err
	}
	s.current = fresh
	// A cache write failure only costs a token request next run.
	_ = s.writeCache(fresh)
	return fresh.AccessToken, nil
}

// Invalidate drops the in-memory and on-disk token after the API rejected it.
func (s *tokenSource) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = cachedToken{}
	if s.cachePath != "" {
		_ = os.Remove(s.cachePath)
	}
}

func (s *tokenSource) request(ctx context.Context) (cachedToken, error) {
	endpoint, err := url.Parse(s.tokenURL)
	if err != nil {
		return cachedToken{}, services.Wrap(services.ErrConfiguration, "igdb", "token", "parse token url", err)
	}
	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("client_secret", s.clientSecret)
	params.Set("grant_type", "client_credentials")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return cachedToken{}, services.Wrap(services.ErrConfiguration, "igdb", "token", "build request", err)
	}
	requestStart := time.Now()
	resp, err := s.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return cachedToken{}, services.Wrap(services.ErrRemoteUnreachable, "igdb", "token", fmt.Sprintf("latency=%v", latency), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return cachedToken{}, services.Wrap(services.ErrRemoteRejected, "igdb", "token", fmt.Sprintf("token endpoint returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return cachedToken{}, services.Wrap(services.ErrMalformedResponse, "igdb", "token", "decode token response", err)
	}
	if payload.AccessToken == "" {
		return cachedToken{}, services.Wrap(services.ErrMalformedResponse, "igdb", "token", "empty access token", nil)
	}
	return cachedToken{
		AccessToken: payload.AccessToken,
		TokenType:   payload.TokenType,
		ExpiresAt:   s.now().Add(time.Duration(payload.ExpiresIn) * time.Second),
	}, nil
}

func (s *tokenSource) readCache() (cachedToken, error) {
	if s.cachePath == "" {
		return cachedToken{}, fs.ErrNotExist
	}
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return cachedToken{}, err
	}
	var token cachedToken
	if err := json.Unmarshal(data, &token); err != nil {
		return cachedToken{}, err
	}
	return token, nil
}

func (s *tokenSource) writeCache(token cachedToken) error {
	if s.cachePath == "" {
		return errors.New("token cache disabled")
	}
	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.cachePath)
}
