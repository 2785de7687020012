package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRGB(t *testing.T) {
	path := createTestImage(t, 40, 30, color.RGBA{255, 10, 0, 255})

	a, err := LoadRGB(path)
	require.NoError(t, err)

	assert.Equal(t, []int{30, 40, 3}, a.Shape)
	assert.Equal(t, 255.0, a.At(0, 0, 0))
	assert.Equal(t, 10.0, a.At(0, 0, 1))
	assert.Equal(t, 0.0, a.At(0, 0, 2))
}

func TestLoadBGR(t *testing.T) {
	path := createTestImage(t, 40, 30, color.RGBA{255, 10, 0, 255})

	a, err := LoadBGR(path)
	require.NoError(t, err)

	assert.Equal(t, 0.0, a.At(29, 39, 0))
	assert.Equal(t, 10.0, a.At(29, 39, 1))
	assert.Equal(t, 255.0, a.At(29, 39, 2))
}

func TestLoadRGB_Grayscale(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 6))
	for i := range gray.Pix {
		gray.Pix[i] = 90
	}
	path := writePNG(t, t.TempDir(), "gray.png", gray)

	a, err := LoadRGB(path)
	require.NoError(t, err)

	assert.Equal(t, []int{6, 8, 3}, a.Shape)
	assert.Equal(t, 90.0, a.At(5, 7, 2))
}

func TestLoadRGB_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRGB("/nonexistent/path/to/image.png")
		assert.Error(t, err)
	})

	t.Run("invalid data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "invalid.png")
		require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

		_, err := LoadBGR(path)
		assert.Error(t, err)
	})
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownload(t *testing.T) {
	rgb := pngBytes(t, createInMemoryImage(12, 10, color.RGBA{1, 2, 3, 255}))

	gray := image.NewGray(image.Rect(0, 0, 5, 4))
	grayBytes := pngBytes(t, gray)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/face.png":
			w.Write(rgb)
		case "/gray.png":
			w.Write(grayBytes)
		case "/garbage":
			w.Write([]byte("garbage"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("rgb", func(t *testing.T) {
		a, err := Download(ctx, srv.Client(), srv.URL+"/face.png", RGB)
		require.NoError(t, err)
		assert.Equal(t, []int{10, 12, 3}, a.Shape)
		assert.Equal(t, []float64{1, 2, 3}, a.Data[:3])
	})

	t.Run("bgr", func(t *testing.T) {
		a, err := Download(ctx, nil, srv.URL+"/face.png", BGR)
		require.NoError(t, err)
		assert.Equal(t, []float64{3, 2, 1}, a.Data[:3])
	})

	t.Run("grayscale stays 2-D", func(t *testing.T) {
		a, err := Download(ctx, srv.Client(), srv.URL+"/gray.png", RGB)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 5}, a.Shape)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := Download(ctx, srv.Client(), srv.URL+"/missing.png", RGB)
		assert.Error(t, err)
	})

	t.Run("decode error", func(t *testing.T) {
		_, err := Download(ctx, srv.Client(), srv.URL+"/garbage", RGB)
		assert.Error(t, err)
	})

	t.Run("cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Download(cancelled, srv.Client(), srv.URL+"/face.png", RGB)
		assert.Error(t, err)
	})
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache(time.Minute)
	path := createTestImage(t, 20, 10, color.RGBA{255, 0, 0, 255})

	a1, err := cache.Load(path, RGB)
	require.NoError(t, err)

	a2, err := cache.Load(path, RGB)
	require.NoError(t, err)
	assert.Same(t, a1, a2, "second Load did not return cached array")

	b, err := cache.Load(path, BGR)
	require.NoError(t, err)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 255.0, b.At(0, 0, 2))
	assert.Equal(t, 2, cache.Len())
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	cache := NewImageCache(0)

	_, err := cache.Load("/nonexistent/path/to/image.png", RGB)
	assert.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_EvictClear(t *testing.T) {
	cache := NewImageCache(0)
	path1 := createTestImage(t, 10, 10, color.RGBA{255, 0, 0, 255})
	path2 := createTestImage(t, 10, 10, color.RGBA{0, 255, 0, 255})

	_, err := cache.Load(path1, RGB)
	require.NoError(t, err)
	_, err = cache.Load(path1, BGR)
	require.NoError(t, err)
	_, err = cache.Load(path2, RGB)
	require.NoError(t, err)
	assert.Equal(t, 3, cache.Len())

	cache.Evict(path1)
	assert.Equal(t, 1, cache.Len())

	cache.Evict("/not/cached.png")
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_Concurrent(t *testing.T) {
	cache := NewImageCache(time.Minute)
	path := createTestImage(t, 16, 16, color.RGBA{0, 0, 255, 255})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path, RGB); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, cache.Len())
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache(0)
	path := createTestImage(t, 64, 48, color.RGBA{255, 255, 255, 255})

	info, err := LoadImageInfo(cache, path)
	require.NoError(t, err)

	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 48, info.Height)
	assert.Equal(t, 3, info.Channels)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, "image/png", info.MimeType)
	assert.Greater(t, info.FileSizeBytes, int64(0))
	assert.NotEmpty(t, info.FileSize)

	_, err = LoadImageInfo(cache, "/nonexistent/image.png")
	assert.Error(t, err)
}
