package report

import (
	"context"
	"fmt"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/chart"
	"github.com/flanksource/informe/pdf"
)

const Author = "ProEmpleo Ministerio del Trabajo y Previsión Social"

var (
	headerBlue = pdf.Color{R: 0x0F, G: 0x69, B: 0xB4}
	headerRed  = pdf.Color{R: 0xEB, G: 0x3C, B: 0x46}
)

// Result is a rendered report.
type Result struct {
	PDF      []byte       `json:"-"`
	Journal  *pdf.Journal `json:"journal"`
	Filename string       `json:"filename"`
	Pages    int          `json:"pages"`
}

// Renderer renders reports. It holds no per-request state and is safe for concurrent use.
type Renderer struct {
	Page   pdf.PageConfig
	Assets pdf.AssetConfig
	Charts chart.Provider
	// ChartWidth and ChartHeight are the pixel size requested from the chart provider.
	ChartWidth  int
	ChartHeight int
	Now         func() time.Time
}

// NewRenderer returns a renderer for A4 pages.
func NewRenderer(assets pdf.AssetConfig, charts chart.Provider) *Renderer {
	return &Renderer{
		Page:        pdf.A4(),
		Assets:      assets,
		Charts:      charts,
		ChartWidth:  chart.DefaultWidth,
		ChartHeight: chart.DefaultHeight,
		Now:         time.Now,
	}
}

// header draws the bicolor line at the top of every page.
func header(s pdf.Surface) pdf.Decoration {
	return func(a pdf.Area, _ int) error {
		dy := a.Height - 7
		if s.HasImage(HeaderLineImage) {
			return a.Image(HeaderLineImage, 0, dy, 104, 7)
		}
		if err := a.Rect(0, dy, 52, 7, pdf.Filled(headerBlue)); err != nil {
			return err
		}
		return a.Rect(52, dy, 52, 7, pdf.Filled(headerRed))
	}
}

func footer(a pdf.Area, page int) error {
	text := fmt.Sprintf("Página %d de %s", page, pdf.PageCountAlias)
	return a.AlignedText(text, 15, pdf.TextStyle{Font: pdf.Light, Size: 9, Color: pdf.Gray}, pdf.AlignCenter)
}

// fetchChart fetches the chart image and registers it. Failures are logged and reported as false.
func (r *Renderer) fetchChart(ctx context.Context, s pdf.Surface, rep *Report) bool {
	if r.Charts == nil {
		return false
	}
	log := logger.GetLogger("chart")
	data, err := r.Charts.Render(ctx, rep.ChartSpec(r.ChartWidth, r.ChartHeight))
	if err != nil {
		log.Warnf("chart for %s unavailable, drawing placeholder: %v", rep.Filename(), err)
		return false
	}
	if err := s.RegisterImage(ChartImage, data); err != nil {
		log.Warnf("chart for %s could not be embedded, drawing placeholder: %v", rep.Filename(), err)
		return false
	}
	return true
}

// Render lays out rep and serializes it. Asset failures are fatal; chart failures are not.
func (r *Renderer) Render(ctx context.Context, rep *Report) (*Result, error) {
	surface := pdf.NewFpdfSurface(r.Page)
	if err := pdf.LoadAssets(surface, r.Assets); err != nil {
		return nil, err
	}

	assets := Assets{
		Logo:        surface.HasImage(LogoImage),
		Chart:       r.fetchChart(ctx, surface, rep),
		ChartWidth:  r.Page.ContentWidth(),
		ChartHeight: r.Page.ContentWidth() * float64(r.ChartHeight) / float64(max(r.ChartWidth, 1)),
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	b, err := pdf.NewBuilder(surface, r.Page,
		pdf.WithHeader(header(surface)),
		pdf.WithFooter(footer),
		pdf.WithMetadata(pdf.Metadata{
			Title:   rep.Title() + " - " + rep.Subtitle(),
			Author:  Author,
			Subject: "Informe técnico mensual",
			Creator: "informe",
			Created: now(),
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := b.DrawWidgets(Compose(rep, assets)...); err != nil {
		return nil, fmt.Errorf("failed to lay out report: %w", err)
	}
	data, err := b.Finalize()
	if err != nil {
		return nil, err
	}
	logger.Debugf("rendered %s: %d pages, %d bytes", rep.Filename(), b.Page(), len(data))
	return &Result{PDF: data, Journal: b.Journal(), Filename: rep.Filename(), Pages: b.Page()}, nil
}
