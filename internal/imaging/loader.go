package imaging

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"net/http"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"
	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/face-tools-mcp/internal/event"
)

var log = event.Log

// decodeFile opens a colour image from disk, applying its EXIF orientation.
func decodeFile(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func loadColor(path string, order ChannelOrder) (*Array, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	a := FromImage(img, order)
	log.Debugf("imaging: loaded %s as %s %s", path, a, order)

	return a, nil
}

// LoadRGB reads an image file into a (height, width, 3) RGB array.
func LoadRGB(path string) (*Array, error) {
	a, err := loadColor(path, RGB)
	if err != nil {
		return nil, err
	}
	return FixImage(a), nil
}

// LoadBGR reads an image file into a (height, width, 3) BGR array.
func LoadBGR(path string) (*Array, error) {
	a, err := loadColor(path, BGR)
	if err != nil {
		return nil, err
	}
	return FixImage(a), nil
}

// Download fetches and decodes the image at url.
//
// The image keeps its native layout: grayscale becomes a 2-D array and
// images with transparency keep an alpha channel. A nil client uses
// http.DefaultClient. Network and decode errors are returned unchanged
// apart from wrapping; there is no retry.
func Download(ctx context.Context, client *http.Client, url string, order ChannelOrder) (*Array, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download image: %s", resp.Status)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	a := fromImageUnchanged(img, order)
	log.Debugf("imaging: downloaded %s as %s %s", url, a, order)

	return a, nil
}

// ImageCache caches decoded arrays by path and channel order.
//
// Entries expire after the configured TTL. Cached arrays are shared between
// callers and must not be modified. ImageCache is safe for concurrent use.
type ImageCache struct {
	items *cache.Cache
}

// NewImageCache creates an empty cache. A ttl <= 0 keeps entries until
// they are evicted.
func NewImageCache(ttl time.Duration) *ImageCache {
	if ttl <= 0 {
		return &ImageCache{items: cache.New(cache.NoExpiration, 0)}
	}

	return &ImageCache{items: cache.New(ttl, 2*ttl)}
}

func cacheKey(path string, order ChannelOrder) string {
	return order.String() + ":" + path
}

// Load returns the cached array for path or reads it with LoadRGB / LoadBGR.
func (c *ImageCache) Load(path string, order ChannelOrder) (*Array, error) {
	key := cacheKey(path, order)

	if cached, ok := c.items.Get(key); ok {
		log.Debugf("imaging: cache hit for %s", path)
		return cached.(*Array), nil
	}

	var a *Array
	var err error

	if order == BGR {
		a, err = LoadBGR(path)
	} else {
		a, err = LoadRGB(path)
	}

	if err != nil {
		return nil, err
	}

	c.items.SetDefault(key, a)

	return a, nil
}

// Evict removes path from the cache in every channel order.
func (c *ImageCache) Evict(path string) {
	c.items.Delete(cacheKey(path, RGB))
	c.items.Delete(cacheKey(path, BGR))
}

// Clear removes all entries.
func (c *ImageCache) Clear() {
	c.items.Flush()
}

// Len returns the number of cached entries, including expired ones not yet purged.
func (c *ImageCache) Len() int {
	return c.items.ItemCount()
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Channels      int    `json:"channels"`
	Format        string `json:"format"`
	MimeType      string `json:"mime_type"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	FileSize      string `json:"file_size"`
}

// LoadImageInfo loads path through cache and reports its dimensions, the
// format sniffed from the file header and the file size.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	a, err := cache.Load(path, RGB)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format, mime := "unknown", ""
	if kind, err := filetype.MatchFile(path); err == nil && kind != filetype.Unknown {
		format, mime = kind.Extension, kind.MIME.Value
	}

	return &ImageInfo{
		Width:         a.Width(),
		Height:        a.Height(),
		Channels:      a.Channels(),
		Format:        format,
		MimeType:      mime,
		FileSizeBytes: stat.Size(),
		FileSize:      humanize.Bytes(uint64(stat.Size())),
	}, nil
}
