package chart

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

// DefaultPalette colors datasets without an explicit color.
var DefaultPalette = []string{"#0F69B4", "#EB3C46", "#2D717C", "#FFA11B", "#A8B7C7"}

// Local draws bar charts without network access. Axis labels are not drawn, so it is meant as
// an offline fallback for the remote service.
type Local struct {
	Palette []string
}

type plotArea struct {
	left, top, width, height int
}

func (l Local) color(i int, ds Dataset) string {
	if strings.HasPrefix(ds.BackgroundColor, "#") {
		return ds.BackgroundColor
	}
	palette := l.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[i%len(palette)]
}

func size(spec Spec) (int, int) {
	w, h := spec.Width, spec.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// niceMax rounds m up to 1, 2 or 5 times a power of ten.
func niceMax(m float64) float64 {
	if m <= 0 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(m)))
	for _, step := range []float64{1, 2, 5, 10} {
		if m <= step*exp {
			return step * exp
		}
	}
	return 10 * exp
}

// SVG draws spec as a grouped bar chart. Every bar is a rect inside the "bars" group.
func (l Local) SVG(spec Spec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	w, h := size(spec)
	plot := plotArea{left: 50, top: 20 + 10*len(spec.Data.Datasets), width: w - 70, height: h - 50 - 10*len(spec.Data.Datasets)}
	if plot.width <= 0 || plot.height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d is too small", ErrInvalidSpec, w, h)
	}
	top := niceMax(spec.Max())

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h)
	canvas.Rect(0, 0, w, h, "fill:#ffffff")

	canvas.Gid("grid")
	for i := 0; i <= 4; i++ {
		y := plot.top + plot.height*i/4
		canvas.Line(plot.left, y, plot.left+plot.width, y, "stroke:#dddddd;stroke-width:1")
	}
	canvas.Line(plot.left, plot.top, plot.left, plot.top+plot.height, "stroke:#666666;stroke-width:1")
	canvas.Gend()

	canvas.Gid("legend")
	for i, ds := range spec.Data.Datasets {
		canvas.Line(plot.left, 10+10*i, plot.left+20, 10+10*i, fmt.Sprintf("stroke:%s;stroke-width:6", l.color(i, ds)))
	}
	canvas.Gend()

	groupWidth := float64(plot.width) / float64(len(spec.Data.Labels))
	barWidth := groupWidth * 0.8 / float64(len(spec.Data.Datasets))
	canvas.Gid("bars")
	for li := range spec.Data.Labels {
		for di, ds := range spec.Data.Datasets {
			v := max(ds.Data[li], 0)
			bh := int(math.Round(v / top * float64(plot.height)))
			x := plot.left + int(float64(li)*groupWidth+groupWidth*0.1+float64(di)*barWidth)
			canvas.Rect(x, plot.top+plot.height-bh, max(int(barWidth)-1, 1), bh, "fill:"+l.color(di, ds))
		}
	}
	canvas.Gend()

	canvas.Line(plot.left, plot.top+plot.height, plot.left+plot.width, plot.top+plot.height, "stroke:#666666;stroke-width:1")
	canvas.End()
	return buf.Bytes(), nil
}

// Rasterize converts an SVG document to a PNG of w×h pixels.
func Rasterize(svgBytes []byte, w, h int) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgBytes), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	var out bytes.Buffer
	if err := png.Encode(&out, rgba); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return out.Bytes(), nil
}

func (l Local) Render(ctx context.Context, spec Spec) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := l.SVG(spec)
	if err != nil {
		return nil, err
	}
	w, h := size(spec)
	return Rasterize(data, w, h)
}
