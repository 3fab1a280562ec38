package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ludotheque/internal/config"
	"ludotheque/internal/logging"
	"ludotheque/internal/metadata"
	"ludotheque/internal/services"
)

// Settings holds what the client needs to authenticate and pace requests.
type Settings struct {
	ClientID        string
	ClientSecret    string
	BaseURL         string
	TokenURL        string
	TokenCachePath  string
	RequestInterval time.Duration
}

// Client queries IGDB endpoints with apicalypse bodies.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     *tokenSource
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the clock used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.tokens.now = now
		}
	}
}

// New creates an IGDB client.
func New(settings Settings, opts ...Option) (*Client, error) {
	clientID := strings.TrimSpace(settings.ClientID)
	secret := strings.TrimSpace(settings.ClientSecret)
	if clientID == "" || secret == "" {
		return nil, services.Wrap(services.ErrConfiguration, "igdb", "new client", "client id and secret required", nil)
	}
	baseURL := strings.TrimRight(strings.TrimSpace(settings.BaseURL), "/")
	if baseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "igdb", "new client", "base url required", nil)
	}
	tokenURL := strings.TrimSpace(settings.TokenURL)
	if tokenURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "igdb", "new client", "token url required", nil)
	}

	limit := rate.Inf
	if settings.RequestInterval > 0 {
		limit = rate.Every(settings.RequestInterval)
	}
	client := &Client{
		baseURL:    baseURL,
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logging.NewNop(),
		tokens: &tokenSource{
			clientID:     clientID,
			clientSecret: secret,
			tokenURL:     tokenURL,
			cachePath:    settings.TokenCachePath,
			now:          time.Now,
		},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.tokens.httpClient = client.httpClient
	return client, nil
}

// NewFromConfig builds a client from the [igdb] section and the cache directory.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Client, error) {
	return New(Settings{
		ClientID:        cfg.IGDB.ClientID,
		ClientSecret:    cfg.IGDB.ClientSecret,
		BaseURL:         cfg.IGDB.BaseURL,
		TokenURL:        cfg.IGDB.TokenURL,
		TokenCachePath:  cfg.TokenCachePath(),
		RequestInterval: time.Duration(cfg.IGDB.RequestIntervalMS) * time.Millisecond,
	}, opts...)
}

// Authenticate obtains an access token, from the cache when it is still valid.
func (c *Client) Authenticate(ctx context.Context) error {
	_, err := c.tokens.Token(ctx)
	return err
}

// SearchGames returns at most one game matching title, optionally restricted
// to a platform id (0 for none).
func (c *Client) SearchGames(ctx context.Context, title string, platform uint64) ([]metadata.Game, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, services.Wrap(services.ErrValidation, "igdb", "search", "title must not be empty", nil)
	}
	var games []metadata.Game
	if err := c.post(ctx, "games", searchQuery(title, platform), &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GameByID fetches the game with id. An unknown id yields an empty slice.
func (c *Client) GameByID(ctx context.Context, id uint64) ([]metadata.Game, error) {
	var games []metadata.Game
	if err := c.post(ctx, "games", byIDQuery(gameFields, id), &games); err != nil {
		return nil, err
	}
	return games, nil
}

// CompanyByID fetches one company, or nil when the id is unknown.
func (c *Client) CompanyByID(ctx context.Context, id uint64) (*metadata.Company, error) {
	var companies []metadata.Company
	if err := c.post(ctx, "companies", byIDQuery(companyFields, id), &companies); err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, nil
	}
	return &companies[0], nil
}

// CompaniesForGame fetches every company that developed or published gameID.
func (c *Client) CompaniesForGame(ctx context.Context, gameID uint64) ([]metadata.Company, error) {
	id := strconv.FormatUint(gameID, 10)
	body := "fields " + companyFields + "; where developed = (" + id + ") | published = (" + id + "); limit 50;"
	var companies []metadata.Company
	if err := c.post(ctx, "companies", body, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

// PlatformsByID fetches the platforms with the given ids.
func (c *Client) PlatformsByID(ctx context.Context, ids ...uint64) ([]metadata.Platform, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var platforms []metadata.Platform
	if err := c.post(ctx, "platforms", byIDQuery(platformFields, ids...), &platforms); err != nil {
		return nil, err
	}
	return platforms, nil
}

func (c *Client) post(ctx context.Context, endpoint, body string, out any) error {
	for attempt := 0; attempt < 2; attempt++ {
		retry, err := c.postOnce(ctx, endpoint, body, out)
		if !retry {
			return err
		}
		c.tokens.Invalidate()
	}
	return services.Wrap(services.ErrRemoteRejected, "igdb", endpoint, "token rejected twice", nil)
}

// postOnce reports retry=true when the token was rejected and a fresh one may help.
func (c *Client) postOnce(ctx context.Context, endpoint, body string, out any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return false, services.Wrap(services.ErrConfiguration, "igdb", endpoint, "build request", err)
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, services.Wrap(services.ErrRemoteUnreachable, "igdb", endpoint, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	c.logger.Debug("igdb request",
		logging.String("endpoint", endpoint),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return true, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		return false, services.Wrap(services.ErrRemoteUnreachable, "igdb", endpoint, fmt.Sprintf("igdb returned %d (latency=%v)", resp.StatusCode, latency), nil)
	case resp.StatusCode != http.StatusOK:
		return false, services.Wrap(services.ErrRemoteRejected, "igdb", endpoint, fmt.Sprintf("igdb returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, services.Wrap(services.ErrMalformedResponse, "igdb", endpoint, "decode response", err)
	}
	return false, nil
}
