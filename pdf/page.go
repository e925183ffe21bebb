package pdf

import "fmt"

// Margins are page margins in points.
type Margins struct {
	Top    float64 `json:"top" yaml:"top"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
}

// PageConfig is the fixed geometry shared by every page of a document.
type PageConfig struct {
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Margins Margins `json:"margins" yaml:"margins"`
}

// A4 returns a portrait A4 page with the margins used by the monthly report.
func A4() PageConfig {
	return PageConfig{
		Width:   595,
		Height:  842,
		Margins: Margins{Top: 50, Bottom: 40, Left: 50, Right: 50},
	}
}

// ContentWidth is the width between the left and right margins.
func (p PageConfig) ContentWidth() float64 {
	return p.Width - p.Margins.Left - p.Margins.Right
}

// UsableHeight is the height between the top and bottom margins.
func (p PageConfig) UsableHeight() float64 {
	return p.Height - p.Margins.Top - p.Margins.Bottom
}

// Top is the cursor position at the start of every page.
func (p PageConfig) Top() float64 {
	return p.Height - p.Margins.Top
}

func (p PageConfig) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("invalid page size %.0fx%.0f", p.Width, p.Height)
	}
	if p.UsableHeight() <= 0 {
		return fmt.Errorf("margins %+v leave no usable height on a %.0fpt page", p.Margins, p.Height)
	}
	if p.ContentWidth() <= 0 {
		return fmt.Errorf("margins %+v leave no usable width on a %.0fpt page", p.Margins, p.Width)
	}
	return nil
}
