package pdf

import (
	"io"
	"time"
)

// Measurer reports the rendered width of text, in points.
type Measurer interface {
	TextWidth(text string, font FontStyle, size float64) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(text string, font FontStyle, size float64) float64

func (f MeasureFunc) TextWidth(text string, font FontStyle, size float64) float64 {
	return f(text, font, size)
}

// Surface is the PDF-construction library seen by the builder. Coordinates are in points with
// the origin at the bottom-left corner of the current page.
type Surface interface {
	Measurer

	AddPage(width, height float64)
	PageCount() int

	RegisterFont(style FontStyle, data []byte) error
	RegisterImage(name string, data []byte) error
	HasImage(name string) bool

	Text(text string, x, y float64, style TextStyle)
	Rect(x, y, w, h float64, style RectStyle)
	Line(x1, y1, x2, y2 float64, color Color, width float64)
	Image(name string, x, y, w, h float64)
	Link(x, y, w, h float64, url string)

	SetMetadata(meta Metadata)
	Output(w io.Writer) error
}

// Metadata is written into the document information dictionary.
type Metadata struct {
	Title   string
	Author  string
	Subject string
	Creator string
	Created time.Time
}
