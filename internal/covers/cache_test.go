package covers_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ludotheque/internal/covers"
	"ludotheque/internal/logging"
	"ludotheque/internal/metadata"
	"ludotheque/internal/testsupport"
)

func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type coverServer struct {
	*httptest.Server
	mu    sync.Mutex
	paths []string
}

func newCoverServer(t *testing.T, body []byte) *coverServer {
	cs := &coverServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.paths = append(cs.paths, r.URL.Path)
		cs.mu.Unlock()
		if strings.Contains(r.URL.Path, "missing") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(body)
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *coverServer) requests() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]string(nil), cs.paths...)
}

func TestSyncDownloadsCoversAndThumbnails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := newCoverServer(t, jpegBytes(t, 264, 374))
	cache := covers.New(cfg, logging.NewNop(), covers.WithNoCoverURL(srv.URL+"/t_cover_big/nocover.jpg"))

	games := []metadata.Game{
		{ID: 1020, Name: "Zelda", Cover: &metadata.Cover{ID: 7, URL: srv.URL + "/igdb/image/upload/t_thumb/co1.jpg"}},
		{ID: 1021, Name: "No cover"},
		{ID: 1022, Name: "Broken", Cover: &metadata.Cover{ID: 8, URL: srv.URL + "/t_thumb/missing.jpg"}},
	}
	summary, err := cache.Sync(context.Background(), games)
	require.NoError(t, err)
	assert.Equal(t, covers.Summary{Downloaded: 2, Failed: 1}, summary)

	assert.FileExists(t, cache.Path(0))
	assert.FileExists(t, cache.Path(1020))
	assert.NoFileExists(t, cache.Path(1021))
	assert.NoFileExists(t, cache.Path(1022))
	assert.Contains(t, srv.requests(), "/igdb/image/upload/t_cover_big/co1.jpg")

	thumb, err := imaging.Open(cache.ThumbnailPath(1020))
	require.NoError(t, err)
	assert.Equal(t, cfg.Covers.ThumbnailWidth, thumb.Bounds().Dx())
	assert.Equal(t, cfg.Covers.ThumbnailHeight, thumb.Bounds().Dy())
}

func TestFetchSkipsCachedCover(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := newCoverServer(t, jpegBytes(t, 64, 64))
	cache := covers.New(cfg, logging.NewNop())

	fetched, err := cache.Fetch(context.Background(), 5, srv.URL+"/t_cover_big/a.jpg")
	require.NoError(t, err)
	assert.True(t, fetched)

	require.NoError(t, os.Remove(cache.ThumbnailPath(5)))
	fetched, err = cache.Fetch(context.Background(), 5, srv.URL+"/t_cover_big/a.jpg")
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Len(t, srv.requests(), 1)
	assert.FileExists(t, cache.ThumbnailPath(5), "thumbnail is regenerated from the cached cover")
}

func TestFetchRejectsUndecodableImage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := newCoverServer(t, []byte("not an image"))
	cache := covers.New(cfg, logging.NewNop())
	require.NoError(t, os.MkdirAll(cfg.CoversDir(), 0o755))

	_, err := cache.Fetch(context.Background(), 9, srv.URL+"/t_cover_big/bad.jpg")
	require.Error(t, err)
	assert.NoFileExists(t, cache.Path(9), "a cover that cannot be decoded is not kept")
	assert.NoFileExists(t, cache.ThumbnailPath(9))
}

func TestPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cache := covers.New(cfg, logging.NewNop())
	assert.Equal(t, cfg.CoversDir()+string(os.PathSeparator)+"42.jpg", cache.Path(42))
	assert.Equal(t, cfg.CoversDir()+string(os.PathSeparator)+"42_thumb.jpg", cache.ThumbnailPath(42))
}
