package pdf

import (
	"fmt"
	"io"
)

type drawnText struct {
	Page  int
	Text  string
	X, Y  float64
	Style TextStyle
}

type drawnBox struct {
	Page       int
	Kind       string
	X, Y, W, H float64
}

// recordingSurface is an in-memory Surface with a monospace metric of half the font size per rune.
type recordingSurface struct {
	pages  int
	texts  []drawnText
	boxes  []drawnBox
	images map[string]bool
	meta   Metadata
	outErr error
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{images: map[string]bool{}}
}

func monoWidth(text string, _ FontStyle, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.5
}

func (s *recordingSurface) TextWidth(text string, font FontStyle, size float64) float64 {
	return monoWidth(text, font, size)
}

func (s *recordingSurface) AddPage(_, _ float64)                 { s.pages++ }
func (s *recordingSurface) PageCount() int                       { return s.pages }
func (s *recordingSurface) RegisterFont(FontStyle, []byte) error { return nil }

func (s *recordingSurface) RegisterImage(name string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty image %s", name)
	}
	s.images[name] = true
	return nil
}

func (s *recordingSurface) HasImage(name string) bool { return s.images[name] }

func (s *recordingSurface) Text(text string, x, y float64, style TextStyle) {
	s.texts = append(s.texts, drawnText{Page: s.pages, Text: text, X: x, Y: y, Style: style})
}

func (s *recordingSurface) Rect(x, y, w, h float64, _ RectStyle) {
	s.boxes = append(s.boxes, drawnBox{Page: s.pages, Kind: "rect", X: x, Y: y, W: w, H: h})
}

func (s *recordingSurface) Line(x1, y1, x2, y2 float64, _ Color, _ float64) {
	s.boxes = append(s.boxes, drawnBox{Page: s.pages, Kind: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

func (s *recordingSurface) Image(name string, x, y, w, h float64) {
	s.boxes = append(s.boxes, drawnBox{Page: s.pages, Kind: "image:" + name, X: x, Y: y, W: w, H: h})
}

func (s *recordingSurface) Link(x, y, w, h float64, _ string) {
	s.boxes = append(s.boxes, drawnBox{Page: s.pages, Kind: "link", X: x, Y: y, W: w, H: h})
}

func (s *recordingSurface) SetMetadata(meta Metadata) { s.meta = meta }

func (s *recordingSurface) Output(w io.Writer) error {
	if s.outErr != nil {
		return s.outErr
	}
	_, err := fmt.Fprintf(w, "%%PDF-fake %d pages", s.pages)
	return err
}

func (s *recordingSurface) textsOn(page int) []string {
	var out []string
	for _, t := range s.texts {
		if t.Page == page {
			out = append(out, t.Text)
		}
	}
	return out
}
