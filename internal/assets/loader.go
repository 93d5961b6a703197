// Package assets loads sprite images in the background. A loaded image
// keeps a small square thumbnail and its average color; drawing code only
// ever checks the loaded flag and never waits for a load.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/vovakirdan/stream-orbs/internal/core"
)

// ColorScheme prefixes a source that is a solid color instead of a file,
// e.g. "color:#ff8800".
const ColorScheme = "color:"

// DefaultThumbSize is the edge length of stored thumbnails in pixels.
const DefaultThumbSize = 64

const maxImageBytes = 8 << 20

// ErrEmptySource is returned for images requested with an empty source.
var ErrEmptySource = errors.New("assets: empty image source")

// Image is a lazily loaded bitmap. It implements core.Image.
type Image struct {
	src    string
	loaded atomic.Bool

	mu    sync.RWMutex
	thumb *image.RGBA
	tint  core.Color
	err   error
}

// Src returns the source the image was requested with.
func (i *Image) Src() string { return i.src }

// Loaded reports whether decoding finished successfully.
func (i *Image) Loaded() bool { return i.loaded.Load() }

// Tint returns the average color of the image, white until loaded.
func (i *Image) Tint() core.Color {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.tint == core.ColorNone {
		return core.ColorWhite
	}
	return i.tint
}

// Thumbnail returns the scaled bitmap, or nil until loaded.
func (i *Image) Thumbnail() image.Image {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.thumb == nil {
		return nil
	}
	return i.thumb
}

// Err returns the load error, if any.
func (i *Image) Err() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.err
}

func (i *Image) finish(thumb *image.RGBA, tint core.Color, err error) {
	i.mu.Lock()
	i.thumb, i.tint, i.err = thumb, tint, err
	i.mu.Unlock()
	if err == nil {
		i.loaded.Store(true)
	}
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithThumbSize sets the thumbnail edge length.
func WithThumbSize(px int) Option {
	return func(l *Loader) {
		if px > 0 {
			l.size = px
		}
	}
}

// WithOnLoad registers a callback run after every load attempt.
func WithOnLoad(fn func(src string, err error)) Option {
	return func(l *Loader) { l.onLoad = fn }
}

// Loader fetches and decodes images on background goroutines. Requests
// for the same source share one Image.
type Loader struct {
	logger *log.Logger
	client *http.Client
	size   int
	onLoad func(src string, err error)

	mu    sync.Mutex
	cache map[string]*Image
	wg    sync.WaitGroup
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(logger *log.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	l := &Loader{
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
		size:   DefaultThumbSize,
		cache:  make(map[string]*Image),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the image for src, starting a background load the first
// time a source is seen. It never blocks on I/O.
func (l *Loader) Load(src string) core.Image {
	l.mu.Lock()
	if img, ok := l.cache[src]; ok {
		l.mu.Unlock()
		return img
	}
	img := &Image{src: src}
	l.cache[src] = img
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		thumb, tint, err := l.fetch(src)
		img.finish(thumb, tint, err)
		if err != nil {
			l.logger.Debug("image load failed", "src", src, "err", err)
		} else {
			l.logger.Debug("image loaded", "src", src, "tint", tint)
		}
		if l.onLoad != nil {
			l.onLoad(src, err)
		}
	}()
	return img
}

// Forget drops a source from the cache so the next Load fetches it again.
func (l *Loader) Forget(src string) {
	l.mu.Lock()
	delete(l.cache, src)
	l.mu.Unlock()
}

// Wait blocks until every load started so far has finished.
func (l *Loader) Wait() {
	l.wg.Wait()
}

func (l *Loader) fetch(src string) (*image.RGBA, core.Color, error) {
	switch {
	case src == "":
		return nil, core.ColorNone, ErrEmptySource
	case strings.HasPrefix(src, ColorScheme):
		return l.solid(strings.TrimPrefix(src, ColorScheme))
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetchHTTP(src)
	default:
		return l.fetchFile(strings.TrimPrefix(src, "file://"))
	}
}

func (l *Loader) solid(hex string) (*image.RGBA, core.Color, error) {
	c, err := core.ParseColor(hex)
	if err != nil {
		return nil, core.ColorNone, fmt.Errorf("assets: %w", err)
	}
	r, g, b := c.RGB()
	thumb := image.NewRGBA(image.Rect(0, 0, l.size, l.size))
	xdraw.Draw(thumb, thumb.Bounds(), image.NewUniform(color.RGBA{R: r, G: g, B: b, A: 0xff}), image.Point{}, xdraw.Src)
	return thumb, c, nil
}

func (l *Loader) fetchHTTP(src string) (*image.RGBA, core.Color, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, src, nil)
	if err != nil {
		return nil, core.ColorNone, fmt.Errorf("assets: build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, core.ColorNone, fmt.Errorf("assets: fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.ColorNone, fmt.Errorf("assets: fetch %s: status %d", src, resp.StatusCode)
	}
	return l.decode(io.LimitReader(resp.Body, maxImageBytes))
}

func (l *Loader) fetchFile(path string) (*image.RGBA, core.Color, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.ColorNone, fmt.Errorf("assets: open: %w", err)
	}
	defer f.Close()
	return l.decode(io.LimitReader(f, maxImageBytes))
}

func (l *Loader) decode(r io.Reader) (*image.RGBA, core.Color, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, core.ColorNone, fmt.Errorf("assets: decode: %w", err)
	}
	thumb := Thumbnail(src, l.size)
	return thumb, AverageColor(thumb), nil
}

// Thumbnail center-crops img to a square and scales it to size×size.
func Thumbnail(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	edge := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, edge, edge).Add(image.Pt(
		b.Min.X+(b.Dx()-edge)/2,
		b.Min.Y+(b.Dy()-edge)/2,
	))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, xdraw.Over, nil)
	return dst
}

// AverageColor returns the mean color of the pixels inside the inscribed
// circle, ignoring fully transparent ones.
func AverageColor(img *image.RGBA) core.Color {
	b := img.Bounds()
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	r2 := cx * cx

	var sr, sg, sb, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx, dy := float64(x-b.Min.X)+0.5-cx, float64(y-b.Min.Y)+0.5-cy
			if dx*dx+dy*dy > r2 {
				continue
			}
			c := img.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			sr += uint64(c.R)
			sg += uint64(c.G)
			sb += uint64(c.B)
			n++
		}
	}
	if n == 0 {
		return core.ColorWhite
	}
	return core.ColorFromRGB(uint8(sr/n), uint8(sg/n), uint8(sb/n))
}
