package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/stream-orbs/internal/core"
)

func solidPNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// near compares colors per channel, leaving room for resampling rounding.
func near(a, b core.Color) bool {
	ar, ag, ab := a.RGB()
	br, bg, bb := b.RGB()
	d := func(x, y uint8) bool { return core.Abs(int(x)-int(y)) < 3 }
	return d(ar, br) && d(ag, bg) && d(ab, bb)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.png")
	data := solidPNG(t, 40, 20, color.RGBA{R: 255, A: 255})
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	l := NewLoader(nil, WithThumbSize(16))
	img := l.Load(path).(*Image)
	l.Wait()

	if !img.Loaded() {
		t.Fatalf("Loaded() = false, err = %v", img.Err())
	}
	if !near(img.Tint(), "#ff0000") {
		t.Errorf("Tint() = %v, expected #ff0000", img.Tint())
	}
	if b := img.Thumbnail().Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("thumbnail bounds = %v, expected 16x16", b)
	}
}

func TestLoadShared(t *testing.T) {
	l := NewLoader(nil)
	a := l.Load("color:#00ff00")
	b := l.Load("color:#00ff00")
	l.Wait()
	if a != b {
		t.Error("same source should share one image")
	}

	l.Forget("color:#00ff00")
	c := l.Load("color:#00ff00")
	l.Wait()
	if c == a {
		t.Error("Forget() should drop the cached image")
	}
}

func TestLoadSources(t *testing.T) {
	blue := solidPNG(t, 8, 8, color.RGBA{B: 255, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ok.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(blue)
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		src    string
		loaded bool
		tint   core.Color
	}{
		{"color scheme", "color:#00f", true, "#0000ff"},
		{"http ok", srv.URL + "/ok.png", true, "#0000ff"},
		{"http missing", srv.URL + "/missing.png", false, core.ColorWhite},
		{"bad color", "color:nope", false, core.ColorWhite},
		{"missing file", filepath.Join(t.TempDir(), "nope.png"), false, core.ColorWhite},
		{"empty", "", false, core.ColorWhite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader(nil, WithHTTPClient(srv.Client()))
			img := l.Load(tt.src).(*Image)
			l.Wait()

			if img.Loaded() != tt.loaded {
				t.Errorf("Loaded() = %v, expected %v (err %v)", img.Loaded(), tt.loaded, img.Err())
			}
			if !near(img.Tint(), tt.tint) {
				t.Errorf("Tint() = %v, expected %v", img.Tint(), tt.tint)
			}
			if !tt.loaded && img.Err() == nil {
				t.Error("failed load should keep its error")
			}
		})
	}
}

func TestEmptySourceError(t *testing.T) {
	l := NewLoader(nil)
	img := l.Load("").(*Image)
	l.Wait()
	if !errors.Is(img.Err(), ErrEmptySource) {
		t.Errorf("Err() = %v, expected ErrEmptySource", img.Err())
	}
}

func TestOnLoadCallback(t *testing.T) {
	var got []string
	done := make(chan struct{}, 1)
	l := NewLoader(nil, WithOnLoad(func(src string, err error) {
		if err != nil {
			t.Errorf("load error = %v", err)
		}
		got = append(got, src)
		done <- struct{}{}
	}))
	l.Load("color:#123456")
	<-done

	if len(got) != 1 || got[0] != "color:#123456" {
		t.Errorf("callbacks = %v, expected one for color:#123456", got)
	}
}

func TestAverageColorIgnoresTransparent(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{G: 200, A: 255})
	img.SetRGBA(2, 2, color.RGBA{G: 100, A: 255})

	if got := AverageColor(img); got != core.ColorFromRGB(0, 150, 0) {
		t.Errorf("AverageColor() = %v, expected %v", got, core.ColorFromRGB(0, 150, 0))
	}
	if got := AverageColor(image.NewRGBA(image.Rect(0, 0, 4, 4))); got != core.ColorWhite {
		t.Errorf("AverageColor(empty) = %v, expected white", got)
	}
}
