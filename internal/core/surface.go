package core

// Image is a lazily loaded bitmap. Drawing code must skip images
// that are not loaded yet.
type Image interface {
	Loaded() bool
	// Tint is the average color of the bitmap, used by surfaces
	// that cannot draw pixels (terminals).
	Tint() Color
}

// Surface is the 2D drawing target a frame is rendered into.
// Coordinates are logical canvas pixels; implementations scale as needed.
type Surface interface {
	CanvasSize() (w, h float64)
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64, c Color)
	StrokeRect(x, y, w, h float64, c Color)
	Line(x1, y1, x2, y2 float64, c Color)
	// StrokeArc strokes a circle segment from start to end radians.
	StrokeArc(cx, cy, r, start, end float64, c Color, width float64)
	FillCircle(cx, cy, r float64, c Color)
	// DrawCircularImage draws img clipped to a circle with the given
	// top-left corner and diameter.
	DrawCircularImage(img Image, x, y, size float64)
	// FillText draws text horizontally centered on x.
	FillText(text string, x, y float64, c Color)
}

// DrawBanner draws the top-left status banner used by modes to show that
// they are active with nothing on stage.
func DrawBanner(dst Surface, text string, bg Color) {
	dst.FillRect(10, 10, 200, 30, bg)
	dst.FillText(text, 110, 25, ColorBlack)
}
