package pdf

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleArea is returned when drawing through an area reserved on an earlier page.
	ErrStaleArea = errors.New("area belongs to a previous page")
	// ErrEmptyArea is returned when drawing through an area that was never reserved.
	ErrEmptyArea = errors.New("area was not reserved")
)

// Area is a rectangle of the current page granted by Builder.Reserve. Drawing primitives are
// only available on an Area, so nothing can be drawn without reserving space first.
// Offsets passed to its methods are relative to the bottom-left corner of the area.
type Area struct {
	b      *Builder
	page   int
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top is the y coordinate of the upper edge of the area.
func (a Area) Top() float64 {
	return a.Y + a.Height
}

// Page is the 1-based page the area was reserved on.
func (a Area) Page() int {
	return a.page
}

func (a Area) check() error {
	if a.b == nil {
		return ErrEmptyArea
	}
	if a.b.finalized {
		return ErrFinalized
	}
	if a.page != a.b.page {
		return fmt.Errorf("%w: reserved on page %d, current page is %d", ErrStaleArea, a.page, a.b.page)
	}
	return nil
}

// Text draws s with its baseline dy points above the bottom of the area.
func (a Area) Text(s string, dx, dy float64, style TextStyle) error {
	if err := a.check(); err != nil {
		return err
	}
	style = style.WithDefaults()
	a.b.surface.Text(s, a.X+dx, a.Y+dy, style)
	a.b.journal.text(a.page, s)
	return nil
}

// AlignedText draws a single line aligned horizontally inside the area.
func (a Area) AlignedText(s string, dy float64, style TextStyle, align Align) error {
	if err := a.check(); err != nil {
		return err
	}
	style = style.WithDefaults()
	dx := 0.0
	switch align {
	case AlignCenter:
		dx = (a.Width - a.b.surface.TextWidth(s, style.Font, style.Size)) / 2
	case AlignRight:
		dx = a.Width - a.b.surface.TextWidth(s, style.Font, style.Size)
	}
	return a.Text(s, dx, dy, style)
}

// Rect draws a rectangle at offset (dx, dy) inside the area.
func (a Area) Rect(dx, dy, w, h float64, style RectStyle) error {
	if err := a.check(); err != nil {
		return err
	}
	a.b.surface.Rect(a.X+dx, a.Y+dy, w, h, style)
	return nil
}

func (a Area) Line(dx1, dy1, dx2, dy2 float64, color Color, width float64) error {
	if err := a.check(); err != nil {
		return err
	}
	a.b.surface.Line(a.X+dx1, a.Y+dy1, a.X+dx2, a.Y+dy2, color, width)
	return nil
}

// Image places a registered image. Unknown names are an error rather than a blank box.
func (a Area) Image(name string, dx, dy, w, h float64) error {
	if err := a.check(); err != nil {
		return err
	}
	if !a.b.surface.HasImage(name) {
		return fmt.Errorf("image %q is not registered", name)
	}
	a.b.surface.Image(name, a.X+dx, a.Y+dy, w, h)
	a.b.journal.image(a.page, name)
	return nil
}

// Link makes a rectangle of the area open url when clicked.
func (a Area) Link(dx, dy, w, h float64, url string) error {
	if err := a.check(); err != nil {
		return err
	}
	a.b.surface.Link(a.X+dx, a.Y+dy, w, h, url)
	a.b.journal.link(a.page, url)
	return nil
}
