package pdf

// Image places an image registered on the surface at a fixed size.
type Image struct {
	Name  string  `json:"name"`
	W     float64 `json:"width"`
	H     float64 `json:"height"`
	Align Align   `json:"align,omitempty"`
	// Spacing is left free below the image.
	Spacing float64 `json:"spacing,omitempty"`
}

func (i Image) Height(_ Measurer, _ float64) float64 {
	return i.H + i.Spacing
}

func (i Image) Draw(b *Builder) error {
	area, err := b.Reserve(i.H + i.Spacing)
	if err != nil {
		return err
	}
	dx := 0.0
	switch i.Align {
	case AlignCenter:
		dx = (area.Width - i.W) / 2
	case AlignRight:
		dx = area.Width - i.W
	}
	return area.Image(i.Name, dx, i.Spacing, i.W, i.H)
}
