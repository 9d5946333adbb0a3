package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"

	"github.com/woozymasta/csv2geojson/internal/geo"
)

// supersample is the oversize factor the plot is drawn at before being scaled down.
const supersample = 2

// PreviewOptions controls the preview image.
type PreviewOptions struct {
	Width   int
	Height  int
	Padding int
	Radius  int
	Point   color.Color
	Back    color.Color
	Quality float32 // 0 means lossless
}

// DefaultPreviewOptions returns a 512x512 plot with red points on white.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		Width:   512,
		Height:  512,
		Padding: 16,
		Radius:  3,
		Point:   color.RGBA{R: 0xd7, G: 0x30, B: 0x27, A: 0xff},
		Back:    color.White,
	}
}

// Plot draws every point of fc onto an image in an equirectangular projection
// fitted to the collection bounds. An empty collection yields a blank image.
func Plot(fc geo.GeoJSONFeatureCollection, opts PreviewOptions) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", opts.Width, opts.Height)
	}

	w, h := opts.Width*supersample, opts.Height*supersample
	pad := opts.Padding * supersample
	radius := max(opts.Radius*supersample, 1)

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opts.Back), image.Point{}, draw.Src)

	bounds, ok := fc.Bounds()
	if ok {
		project := fit(bounds, w, h, pad)
		dot := image.NewUniform(opts.Point)

		for _, f := range fc.Features {
			p, isPoint := f.Geometry.Point()
			if !isPoint {
				continue
			}
			x, y := project(p)
			draw.DrawMask(canvas, image.Rect(x-radius, y-radius, x+radius+1, y+radius+1),
				dot, image.Point{}, &circle{r: radius}, image.Point{}, draw.Over)
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	xdraw.CatmullRom.Scale(out, out.Bounds(), canvas, canvas.Bounds(), draw.Src, nil)

	return out, nil
}

// Preview plots fc and writes it as WebP.
func Preview(w io.Writer, fc geo.GeoJSONFeatureCollection, opts PreviewOptions) error {
	img, err := Plot(fc, opts)
	if err != nil {
		return err
	}

	enc := &webp.Options{Lossless: opts.Quality <= 0, Quality: opts.Quality}
	if err := webp.Encode(w, img, enc); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}

	return nil
}

// fit returns a projection of lat/lng into pixel space that keeps the aspect
// ratio at the center latitude.
func fit(b geo.Bounds, w, h, pad int) func(geo.Point) (int, int) {
	const minSpan = 0.01

	center := b.Center()
	kx := math.Cos(center.Lat * math.Pi / 180)
	if kx < 0.01 {
		kx = 0.01
	}

	spanX := math.Max((b.MaxLng-b.MinLng)*kx, minSpan)
	spanY := math.Max(b.MaxLat-b.MinLat, minSpan)

	availW := float64(max(w-2*pad, 1))
	availH := float64(max(h-2*pad, 1))
	scale := math.Min(availW/spanX, availH/spanY)

	cx, cy := float64(w)/2, float64(h)/2

	return func(p geo.Point) (int, int) {
		x := cx + (p.Lng-center.Lng)*kx*scale
		y := cy - (p.Lat-center.Lat)*scale
		return int(math.Round(x)), int(math.Round(y))
	}
}

// circle is an alpha mask of a filled disc centered in a (2r+1) square.
type circle struct {
	r int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(0, 0, 2*c.r+1, 2*c.r+1)
}

func (c *circle) At(x, y int) color.Color {
	dx, dy := x-c.r, y-c.r
	if dx*dx+dy*dy <= c.r*c.r {
		return color.Alpha{A: 0xff}
	}

	return color.Alpha{}
}
