package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DecodeMode controls how a source image becomes a Plane.
type DecodeMode struct {
	// Grayscale converts color sources using Luma. When false, the source
	// must already be single-channel.
	Grayscale bool

	// Luma selects the color-to-intensity conversion. Empty means LumaBT601.
	Luma LumaModel
}

// DefaultDecodeMode returns grayscale decoding with BT.601 weights.
func DefaultDecodeMode() DecodeMode {
	return DecodeMode{Grayscale: true, Luma: LumaBT601}
}

func (m DecodeMode) key() string {
	luma := m.Luma
	if luma == "" {
		luma = LumaBT601
	}
	return fmt.Sprintf("gray=%t,luma=%s", m.Grayscale, luma)
}

// ErrNotSingleChannel is wrapped by ImageLoadError when grayscale decoding is
// off and the source carries color channels.
var ErrNotSingleChannel = errors.New("image is not single-channel and grayscale decoding is disabled")

// Load reads and decodes the image at path into a Plane.
//
// Parameters:
//   - path: File path to a PNG, JPEG, GIF, BMP, TIFF, or WebP image.
//   - mode: Whether to reduce color to luma, and with which model.
//
// Returns:
//   - *Plane: The decoded intensities in [0, 255].
//   - error: Non-nil if the image cannot be turned into a plane.
//
// Load never returns a placeholder alongside an error.
//
// # Errors
//
//   - Returns *ImageLoadError if the file does not exist or cannot be read
//   - Returns *ImageLoadError if the file is not a decodable image
//   - Returns *ImageLoadError if the image has zero width or height
//   - Returns *ImageLoadError wrapping ErrNotSingleChannel if mode.Grayscale
//     is false and the image carries color
func Load(path string, mode DecodeMode) (*Plane, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	return toPlane(path, img, mode)
}

// Open decodes the image at path as stored, without applying EXIF orientation.
//
// # Errors
//
//   - Returns *ImageLoadError if the file cannot be opened or decoded
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImageLoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(false))
	if err != nil {
		return nil, &ImageLoadError{Path: path, Err: fmt.Errorf("failed to decode image: %w", err)}
	}
	return img, nil
}

func toPlane(path string, img image.Image, mode DecodeMode) (*Plane, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, &ImageLoadError{Path: path, Err: errors.New("decoded image is empty")}
	}
	if !mode.Grayscale {
		switch img.(type) {
		case *image.Gray, *image.Gray16:
		default:
			return nil, &ImageLoadError{Path: path, Err: ErrNotSingleChannel}
		}
	}
	luma := mode.Luma
	if luma == "" {
		luma = LumaBT601
	}
	return PlaneFromImage(img, luma), nil
}

// IsImageFile reports whether path has an extension this package can decode.
func IsImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

// ImageCache provides thread-safe caching of decoded planes to avoid redundant
// disk reads when the same image is analyzed several times, as the MCP server
// does across tool calls.
//
// Entries are keyed by the exact path string and the decode mode, so the same
// file decoded with two luma models occupies two entries.
//
// # Memory Management
//
// Cached planes remain in memory until explicitly removed via Evict(). The
// MCP server evicts a file it has just rewritten. A plane costs eight bytes per pixel.
type ImageCache struct {
	mu     sync.RWMutex
	planes map[string]*Plane
}

// NewImageCache creates and initializes a new empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		planes: make(map[string]*Plane),
	}
}

// Load retrieves a plane from the cache or decodes it from disk if not cached.
//
// Parameters:
//   - path: File path to the image. The exact string is part of the cache
//     key, so relative and absolute paths to one file are cached separately.
//   - mode: Decode mode, also part of the cache key.
//
// Returns:
//   - *Plane: The cached or freshly decoded plane. Callers must not modify it.
//   - error: Non-nil if the image cannot be decoded.
//
// # Errors
//
//   - Returns the same errors as the package-level Load. Failures are not cached.
func (c *ImageCache) Load(path string, mode DecodeMode) (*Plane, error) {
	key := path + "\x00" + mode.key()

	c.mu.RLock()
	if p, ok := c.planes[key]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	p, err := Load(path, mode)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.planes[key] = p
	c.mu.Unlock()

	return p, nil
}

// Evict removes every cached decode of path, whatever its decode mode.
//
// Parameters:
//   - path: The exact path string used when the image was loaded.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	prefix := path + "\x00"
	c.mu.Lock()
	for k := range c.planes {
		if strings.HasPrefix(k, prefix) {
			delete(c.planes, k)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of cached planes.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.planes)
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image, loading it into the cache
// with the default decode mode if not already present.
//
// Parameters:
//   - cache: Cache used to load the image.
//   - path: File path to the image.
//
// Returns:
//   - *DimensionsResult: Width and height in pixels.
//   - error: Non-nil if the image cannot be loaded.
//
// # Errors
//
//   - Returns *ImageLoadError if the image cannot be loaded
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	p, err := cache.Load(path, DefaultDecodeMode())
	if err != nil {
		return nil, err
	}
	return &DimensionsResult{Width: p.Width, Height: p.Height}, nil
}
