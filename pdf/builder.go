// Package pdf lays out content blocks onto fixed-size pages and serializes them as a PDF
// document.
package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/flanksource/commons/logger"
)

// ErrFinalized is returned by every layout operation once the document has been serialized.
var ErrFinalized = errors.New("document already finalized")

// Widget is a content block laid out by the Builder.
type Widget interface {
	// Height is the vertical space the widget needs when laid out at width.
	Height(m Measurer, width float64) float64
	// Draw reserves space on the builder and draws the widget into it.
	Draw(b *Builder) error
}

// Leader is implemented by widgets that can start on a page with less than their full height.
// LeadHeight is the part that must stay together with a preceding heading.
type Leader interface {
	LeadHeight(m Measurer, width float64) float64
}

// Decoration draws into the top or bottom margin of every page.
type Decoration func(area Area, page int) error

// Builder lays widgets out top to bottom, opening a new page whenever the remaining space
// is insufficient. The cursor is measured from the bottom of the page.
type Builder struct {
	surface   Surface
	config    PageConfig
	currentY  float64
	page      int
	fresh     bool
	finalized bool
	err       error
	header    Decoration
	footer    Decoration
	metadata  Metadata
	journal   *Journal
	log       logger.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithHeader redraws d in the top margin of every page.
func WithHeader(d Decoration) Option {
	return func(b *Builder) {
		b.header = d
	}
}

// WithFooter redraws d in the bottom margin of every page.
func WithFooter(d Decoration) Option {
	return func(b *Builder) {
		b.footer = d
	}
}

// WithMetadata sets the document properties written by Finalize.
func WithMetadata(m Metadata) Option {
	return func(b *Builder) {
		b.metadata = m
	}
}

// NewBuilder starts a document on surface and opens its first page.
func NewBuilder(surface Surface, config PageConfig, opts ...Option) (*Builder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		surface: surface,
		config:  config,
		journal: &Journal{},
		log:     logger.GetLogger("pdf"),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.newPage()
	if b.err != nil {
		return nil, b.err
	}
	return b, nil
}

// Config returns the page geometry the builder lays out against.
func (b *Builder) Config() PageConfig {
	return b.config
}

func (b *Builder) Measurer() Measurer {
	return b.surface
}

// ContentWidth is the width available to widgets.
func (b *Builder) ContentWidth() float64 {
	return b.config.ContentWidth()
}

// CurrentY is the cursor position, measured from the bottom of the page.
func (b *Builder) CurrentY() float64 {
	return b.currentY
}

// Page is the 1-based number of the current page.
func (b *Builder) Page() int {
	return b.page
}

// Remaining is the space left above the bottom margin.
func (b *Builder) Remaining() float64 {
	return b.currentY - b.config.Margins.Bottom
}

// AtPageTop reports whether nothing has been reserved on the current page yet.
func (b *Builder) AtPageTop() bool {
	return b.fresh
}

// Journal returns the per-page record of drawn content.
func (b *Builder) Journal() *Journal {
	return b.journal
}

func (b *Builder) Finalized() bool {
	return b.finalized
}

func (b *Builder) newPage() {
	b.surface.AddPage(b.config.Width, b.config.Height)
	b.page++
	b.journal.addPage()
	b.currentY = b.config.Top()
	b.fresh = true

	m := b.config.Margins
	if b.header != nil {
		area := Area{b: b, page: b.page, X: m.Left, Y: b.config.Top(), Width: b.config.ContentWidth(), Height: m.Top}
		if err := b.header(area, b.page); err != nil && b.err == nil {
			b.err = fmt.Errorf("failed to draw header on page %d: %w", b.page, err)
		}
	}
	if b.footer != nil {
		area := Area{b: b, page: b.page, X: m.Left, Y: 0, Width: b.config.ContentWidth(), Height: m.Bottom}
		if err := b.footer(area, b.page); err != nil && b.err == nil {
			b.err = fmt.Errorf("failed to draw footer on page %d: %w", b.page, err)
		}
	}
}

// NewPage unconditionally starts a new page.
func (b *Builder) NewPage() error {
	if b.finalized {
		return ErrFinalized
	}
	b.newPage()
	return b.err
}

// EnsureSpace opens a new page when fewer than h points remain above the bottom margin and
// reports whether it did so. It never breaks a finalized document.
func (b *Builder) EnsureSpace(h float64) bool {
	if b.finalized {
		return false
	}
	if b.currentY-h < b.config.Margins.Bottom {
		b.newPage()
		return true
	}
	return false
}

// Reserve grants an area of height h on the current page, breaking first if needed, and moves
// the cursor below it. A block taller than a whole page is granted on a fresh page and left
// to overflow the bottom margin.
func (b *Builder) Reserve(h float64) (Area, error) {
	if b.finalized {
		return Area{}, ErrFinalized
	}
	if b.err != nil {
		return Area{}, b.err
	}
	if h < 0 {
		return Area{}, fmt.Errorf("cannot reserve negative height %.2f", h)
	}

	if usable := b.config.UsableHeight(); h > usable {
		if !b.fresh {
			b.newPage()
		}
		b.log.Warnf("block of %.1fpt exceeds the usable page height of %.1fpt on page %d", h, usable, b.page)
	} else {
		b.EnsureSpace(h)
	}
	if b.err != nil {
		return Area{}, b.err
	}

	area := Area{
		b:      b,
		page:   b.page,
		X:      b.config.Margins.Left,
		Y:      b.currentY - h,
		Width:  b.config.ContentWidth(),
		Height: h,
	}
	b.currentY -= h
	b.fresh = false
	return area, nil
}

// Advance moves the cursor down by h without breaking the page. Space is not added at the
// top of a fresh page and the cursor never moves below the bottom margin.
func (b *Builder) Advance(h float64) error {
	if b.finalized {
		return ErrFinalized
	}
	if b.fresh || h <= 0 {
		return nil
	}
	b.currentY -= h
	if b.currentY < b.config.Margins.Bottom {
		b.currentY = b.config.Margins.Bottom
	}
	return nil
}

// DrawWidget lays out a single widget.
func (b *Builder) DrawWidget(w Widget) error {
	if b.finalized {
		return ErrFinalized
	}
	if b.err != nil {
		return b.err
	}
	if w == nil {
		return nil
	}
	return w.Draw(b)
}

// DrawWidgets lays out widgets in order, stopping at the first error.
func (b *Builder) DrawWidgets(widgets ...Widget) error {
	for i, w := range widgets {
		if err := b.DrawWidget(w); err != nil {
			return fmt.Errorf("failed to draw block %d (%T): %w", i, w, err)
		}
	}
	return nil
}

// Finalize serializes the document. The builder rejects any further layout afterwards.
func (b *Builder) Finalize() ([]byte, error) {
	if b.finalized {
		return nil, ErrFinalized
	}
	if b.err != nil {
		return nil, b.err
	}
	b.surface.SetMetadata(b.metadata)

	var buf bytes.Buffer
	err := b.surface.Output(&buf)
	b.finalized = true
	if err != nil {
		return nil, err
	}
	b.log.Debugf("finalized document with %d pages (%d bytes)", b.page, buf.Len())
	return buf.Bytes(), nil
}
