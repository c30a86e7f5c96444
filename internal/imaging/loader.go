package imaging

import (
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/vp8l" // Register lossless WebP decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ImageCache provides thread-safe caching of decoded source images.
//
// The cache stores decoded Images keyed by their file path. Once a file is
// decoded, subsequent lookups for the same path skip disk I/O and decoding.
// Lookups always hand out a private Clone, so a cached entry can never be
// mutated by a consumer.
//
// # Memory Management
//
// Cached images remain in memory until removed via Evict() or Clear(). The
// Codec evicts a path whenever it writes to it, so a later load observes the
// file that was just saved.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Image
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Image),
	}
}

// Get returns a clone of the cached image for path, if present.
func (c *ImageCache) Get(path string) (*Image, bool) {
	c.mu.RLock()
	img, ok := c.images[path]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return img.Clone(), true
}

// Put stores a private copy of img under path.
func (c *ImageCache) Put(path string, img *Image) {
	c.mu.Lock()
	c.images[path] = img.Clone()
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*Image)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// CodecOptions tunes decoding and encoding.
type CodecOptions struct {
	// AutoOrient applies the EXIF orientation tag after decoding.
	AutoOrient bool

	// JPEGQuality is the JPEG output quality (1-100). Zero means 95.
	JPEGQuality int

	// Cache, if non-nil, keeps decoded sources keyed by path.
	Cache *ImageCache

	// Logger receives debug records about codec activity. Nil means slog.Default().
	Logger *slog.Logger
}

// Codec reads and writes Images from and to files and streams.
//
// Supported input formats are PNG, JPEG, GIF, BMP, TIFF and WebP. Output
// formats are PNG, JPEG, GIF, BMP and TIFF, chosen by file extension.
type Codec struct {
	opts   CodecOptions
	logger *slog.Logger
}

// NewCodec creates a codec with the given options.
func NewCodec(opts CodecOptions) *Codec {
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = 95
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Codec{opts: opts, logger: logger}
}

// Decode reads an image from r and converts it to opaque RGB.
//
// # Errors
//
//   - Returns ErrDecode if the stream is not a supported image
//   - Returns ErrDegenerateGeometry if the decoded image is empty
func (c *Codec) Decode(r io.Reader) (*Image, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(c.opts.AutoOrient))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return FromImage(src)
}

// Encode writes img to w in the given format.
func (c *Codec) Encode(w io.Writer, img *Image, format imaging.Format) error {
	err := imaging.Encode(w, img.ToNRGBA(), format,
		imaging.JPEGQuality(c.opts.JPEGQuality),
		imaging.PNGCompressionLevel(png.BestCompression),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEncode, format, err)
	}
	return nil
}

// Load decodes the image file at path.
//
// When a cache is configured, a path that was already decoded is served from
// memory.
func (c *Codec) Load(path string) (*Image, error) {
	if c.opts.Cache != nil {
		if img, ok := c.opts.Cache.Get(path); ok {
			c.logger.Debug("cache hit", "path", path)
			return img, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open %q: %w", ErrDecode, path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			c.logger.Error("could not close source file", "path", path, "error", closeErr)
		}
	}()

	img, err := c.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not load %q: %w", path, err)
	}

	if c.opts.Cache != nil {
		c.opts.Cache.Put(path, img)
	}
	return img, nil
}

// Save encodes img into the file at path, replacing it if it exists.
//
// The format is determined from the extension: ".png", ".jpg"/".jpeg",
// ".gif", ".bmp" and ".tif"/".tiff" are supported. The image is written to a
// temporary file in the destination directory and renamed into place, so a
// failed save never leaves a truncated file behind.
func (c *Codec) Save(img *Image, path string) (err error) {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("%w: %q: unsupported extension %q", ErrEncode, path, filepath.Ext(path))
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(name, filepath.Ext(name))+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: could not create temporary file for %q: %w", ErrEncode, path, err)
	}

	canRename := false
	defer func() {
		if syncErr := tmp.Sync(); syncErr != nil && err == nil {
			err = fmt.Errorf("%w: could not flush %q: %w", ErrEncode, path, syncErr)
		}
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: could not close %q: %w", ErrEncode, path, closeErr)
		}
		if canRename && err == nil {
			if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
				err = fmt.Errorf("%w: could not rename into %q: %w", ErrEncode, path, renameErr)
			}
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = c.Encode(tmp, img, format); err != nil {
		return fmt.Errorf("could not save %q: %w", path, err)
	}
	canRename = true

	if c.opts.Cache != nil {
		c.opts.Cache.Evict(path)
	}
	c.logger.Debug("encoded", "path", path, "format", format.String())
	return nil
}
