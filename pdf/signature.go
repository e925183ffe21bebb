package pdf

const (
	SignatureHeight = 60.0
	SignatureWidth  = 200.0
)

// Signature is the trailer of a document: a rule with the signer's name and role centered
// below it. It is never split across pages.
type Signature struct {
	Name  string  `json:"name"`
	Role  string  `json:"role"`
	Width float64 `json:"width,omitempty"`
}

func (s Signature) Height(_ Measurer, _ float64) float64 {
	return SignatureHeight
}

func (s Signature) Draw(b *Builder) error {
	area, err := b.Reserve(SignatureHeight)
	if err != nil {
		return err
	}
	w := s.Width
	if w <= 0 {
		w = SignatureWidth
	}
	left := (area.Width - w) / 2
	if err := area.Line(left, 40, left+w, 40, Black, 0.8); err != nil {
		return err
	}
	if err := area.AlignedText(s.Name, 24, TextStyle{Font: Bold, Size: DefaultFontSize}, AlignCenter); err != nil {
		return err
	}
	return area.AlignedText(s.Role, 8, TextStyle{Font: Regular, Size: 11}, AlignCenter)
}
