package pdf

// LineSpacing is the default gap between consecutive paragraph lines.
const LineSpacing = 4.0

// Heading is a single line of emphasised text followed by HeadingSpacing.
type Heading struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style,omitempty"`
	Align Align     `json:"align,omitempty"`
}

// NewHeading returns a bold heading of the given size.
func NewHeading(text string, size float64) Heading {
	return Heading{Text: text, Style: TextStyle{Font: Bold, Size: size}}
}

func (h Heading) style() TextStyle {
	s := h.Style
	if s.Font == "" {
		s.Font = Bold
	}
	return s.WithDefaults()
}

func (h Heading) Height(_ Measurer, _ float64) float64 {
	return h.style().Size + HeadingSpacing
}

func (h Heading) Draw(b *Builder) error {
	area, err := b.Reserve(h.Height(b.Measurer(), b.ContentWidth()))
	if err != nil {
		return err
	}
	return area.AlignedText(h.Text, HeadingSpacing, h.style(), h.Align)
}

// Paragraph is free text wrapped to the content width. It is the only widget that may span a
// page boundary: each line reserves its own space.
type Paragraph struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style,omitempty"`
	// LineHeight defaults to the font size.
	LineHeight float64 `json:"line_height,omitempty"`
	// Spacing is added below every line, LineSpacing when zero.
	Spacing float64 `json:"spacing,omitempty"`
	// Indent shifts every line right and narrows the wrap width.
	Indent float64 `json:"indent,omitempty"`
	// Continuation is drawn at the top of a new page when the paragraph breaks mid-way.
	Continuation *Heading `json:"continuation,omitempty"`
	// Link, when set, makes every line open the URL.
	Link string `json:"link,omitempty"`
}

func (p Paragraph) lineHeight() float64 {
	lh := p.LineHeight
	if lh <= 0 {
		lh = p.Style.WithDefaults().Size
	}
	spacing := p.Spacing
	if spacing <= 0 {
		spacing = LineSpacing
	}
	return lh + spacing
}

// Lines wraps every paragraph of the text to width.
func (p Paragraph) Lines(m Measurer, width float64) []string {
	style := p.Style.WithDefaults()
	var lines []string
	for _, para := range SplitParagraphs(p.Text) {
		lines = append(lines, WrapText(para, width-p.Indent, style.Font, style.Size, m)...)
	}
	return lines
}

func (p Paragraph) Height(m Measurer, width float64) float64 {
	return float64(len(p.Lines(m, width))) * p.lineHeight()
}

func (p Paragraph) LeadHeight(_ Measurer, _ float64) float64 {
	return p.lineHeight()
}

func (p Paragraph) Draw(b *Builder) error {
	style := p.Style.WithDefaults()
	lh := p.lineHeight()
	spacing := lh - style.Size
	if p.LineHeight > 0 {
		spacing = lh - p.LineHeight
	}

	for i, line := range p.Lines(b.Measurer(), b.ContentWidth()) {
		if b.EnsureSpace(lh) && i > 0 && p.Continuation != nil {
			if err := p.Continuation.Draw(b); err != nil {
				return err
			}
		}
		area, err := b.Reserve(lh)
		if err != nil {
			return err
		}
		if err := area.Text(line, p.Indent, spacing, style); err != nil {
			return err
		}
		if p.Link != "" && line != "" {
			w := b.Measurer().TextWidth(line, style.Font, style.Size)
			if err := area.Link(p.Indent, spacing, w, style.Size, p.Link); err != nil {
				return err
			}
		}
	}
	return nil
}

// TextLine is a single unwrapped line.
type TextLine struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style,omitempty"`
	Align Align     `json:"align,omitempty"`
}

func (t TextLine) Height(_ Measurer, _ float64) float64 {
	return t.Style.WithDefaults().Size + LineSpacing
}

func (t TextLine) Draw(b *Builder) error {
	area, err := b.Reserve(t.Height(b.Measurer(), b.ContentWidth()))
	if err != nil {
		return err
	}
	return area.AlignedText(t.Text, LineSpacing, t.Style, t.Align)
}

// Placeholder stands in for content that could not be produced, such as a chart whose
// provider failed.
func Placeholder(text string) TextLine {
	return TextLine{
		Text:  text,
		Style: TextStyle{Font: Light, Size: 10, Color: Gray},
		Align: AlignCenter,
	}
}

// Spacer moves the cursor down without drawing.
type Spacer float64

func (s Spacer) Height(_ Measurer, _ float64) float64 {
	return float64(s)
}

func (s Spacer) Draw(b *Builder) error {
	return b.Advance(float64(s))
}

// Section keeps a heading on the same page as the start of its body.
type Section struct {
	Heading Widget
	Body    []Widget
}

func (s Section) Height(m Measurer, width float64) float64 {
	h := 0.0
	if s.Heading != nil {
		h += s.Heading.Height(m, width)
	}
	for _, w := range s.Body {
		h += w.Height(m, width)
	}
	return h
}

// LeadHeight is the heading plus the lead of the first body widget.
func (s Section) LeadHeight(m Measurer, width float64) float64 {
	h := 0.0
	if s.Heading != nil {
		h = s.Heading.Height(m, width)
	}
	if len(s.Body) == 0 {
		return h
	}
	if l, ok := s.Body[0].(Leader); ok {
		return h + l.LeadHeight(m, width)
	}
	return h + s.Body[0].Height(m, width)
}

// Draw starts a new page unless the heading and the lead of the body fit. A lead taller than
// a page starts the section on a fresh page.
func (s Section) Draw(b *Builder) error {
	lead := s.LeadHeight(b.Measurer(), b.ContentWidth())
	b.EnsureSpace(min(lead, b.config.UsableHeight()))
	if s.Heading != nil {
		if err := b.DrawWidget(s.Heading); err != nil {
			return err
		}
	}
	for _, w := range s.Body {
		if err := b.DrawWidget(w); err != nil {
			return err
		}
	}
	return nil
}
