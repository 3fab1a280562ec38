package covers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/time/rate"

	"ludotheque/internal/config"
	"ludotheque/internal/logging"
	"ludotheque/internal/metadata"
	"ludotheque/internal/services"
)

const maxCoverBytes = 16 << 20

// Cache downloads covers into a directory, one request per interval.
type Cache struct {
	dir        string
	width      int
	height     int
	noCoverURL string
	client     *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option customizes a Cache.
type Option func(*Cache)

// WithHTTPClient overrides the HTTP client used for downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Cache) {
		if client != nil {
			c.client = client
		}
	}
}

// WithNoCoverURL overrides the placeholder image location.
func WithNoCoverURL(url string) Option {
	return func(c *Cache) {
		if url != "" {
			c.noCoverURL = url
		}
	}
}

// New builds a cache rooted at cfg.CoversDir().
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Cache {
	limit := rate.Inf
	if cfg.Covers.IntervalMS > 0 {
		limit = rate.Every(time.Duration(cfg.Covers.IntervalMS) * time.Millisecond)
	}
	c := &Cache{
		dir:        cfg.CoversDir(),
		width:      cfg.Covers.ThumbnailWidth,
		height:     cfg.Covers.ThumbnailHeight,
		noCoverURL: metadata.NoCoverURL,
		client:     &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logging.NewComponentLogger(logger, "covers"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the cached cover location for a game.
func (c *Cache) Path(gameID uint64) string {
	return filepath.Join(c.dir, strconv.FormatUint(gameID, 10)+".jpg")
}

// ThumbnailPath returns the cached thumbnail location for a game.
func (c *Cache) ThumbnailPath(gameID uint64) string {
	return filepath.Join(c.dir, strconv.FormatUint(gameID, 10)+"_thumb.jpg")
}

// Summary counts what a Sync did.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Sync makes sure every game with a cover has it cached, plus the
// placeholder for the sentinel game. Per-game failures are logged and
// counted; only cancellation aborts.
func (c *Cache) Sync(ctx context.Context, games []metadata.Game) (Summary, error) {
	var summary Summary
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "covers", "mkdir", c.dir, err)
	}

	record := func(gameID uint64, fetched bool, err error) error {
		switch {
		case err == nil && fetched:
			summary.Downloaded++
		case err == nil:
			summary.Skipped++
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			summary.Failed++
			logging.WarnWithContext(c.logger, "cover download failed", "cover_download",
				logging.Uint64("game_id", gameID),
				logging.Error(err),
			)
		}
		return nil
	}

	fetched, err := c.Fetch(ctx, metadata.SentinelGameID, c.noCoverURL)
	if err := record(metadata.SentinelGameID, fetched, err); err != nil {
		return summary, err
	}
	for _, game := range games {
		if game.IsSentinel() || game.Cover == nil || game.Cover.URL == "" {
			continue
		}
		fetched, err := c.Fetch(ctx, game.ID, metadata.ImageURL(game.Cover.URL, metadata.SizeCoverBig))
		if err := record(game.ID, fetched, err); err != nil {
			return summary, err
		}
	}
	c.logger.Info("cover cache synced",
		logging.Int("downloaded", summary.Downloaded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

// Fetch downloads url as the cover of gameID unless it is already cached.
// It reports whether a download happened.
func (c *Cache) Fetch(ctx context.Context, gameID uint64, url string) (bool, error) {
	dest := c.Path(gameID)
	if _, err := os.Stat(dest); err == nil {
		return false, c.ensureThumbnail(gameID)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, services.Wrap(services.ErrConfiguration, "covers", "stat", dest, err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}
	if err := c.download(ctx, url, dest); err != nil {
		return false, err
	}
	if err := c.Thumbnail(dest, c.ThumbnailPath(gameID)); err != nil {
		_ = os.Remove(dest)
		return false, err
	}
	return true, nil
}

func (c *Cache) ensureThumbnail(gameID uint64) error {
	thumb := c.ThumbnailPath(gameID)
	if _, err := os.Stat(thumb); err == nil {
		return nil
	}
	return c.Thumbnail(c.Path(gameID), thumb)
}

func (c *Cache) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return services.Wrap(services.ErrValidation, "covers", "build request", url, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrRemoteUnreachable, "covers", "download", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrRemoteRejected, "covers", "download", fmt.Sprintf("%s: status %d", url, resp.StatusCode), nil)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "covers", "mkdir", filepath.Dir(dest), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".cover-*")
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "covers", "create temp", dest, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxCoverBytes)); err != nil {
		tmp.Close()
		return services.Wrap(services.ErrRemoteUnreachable, "covers", "read body", url, err)
	}
	if err := tmp.Close(); err != nil {
		return services.Wrap(services.ErrConfiguration, "covers", "close temp", dest, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return services.Wrap(services.ErrConfiguration, "covers", "rename", dest, err)
	}
	return nil
}

// Thumbnail writes a center-cropped copy of src sized to the configured
// thumbnail dimensions.
func (c *Cache) Thumbnail(src, dst string) error {
	img, err := imaging.Open(src)
	if err != nil {
		return services.Wrap(services.ErrMalformedResponse, "covers", "decode", src, err)
	}
	thumb := imaging.Fill(img, c.width, c.height, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(85)); err != nil {
		return services.Wrap(services.ErrConfiguration, "covers", "encode thumbnail", dst, err)
	}
	return nil
}
