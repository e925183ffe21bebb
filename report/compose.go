package report

import (
	"github.com/flanksource/informe/pdf"
	"github.com/samber/lo"
)

// Image names registered on the surface.
const (
	LogoImage       = "logo"
	HeaderLineImage = "header_line"
	ChartImage      = "chart"
)

const (
	ListNote           = "Listado detallado de trabajadoras/es y fiscalizaciones disponible en este link. (Sólo disponible en versión digital de este archivo)."
	ChartUnavailable   = "Gráfico no disponible"
	continuationSuffix = " (continuación)"
	sectionGap         = pdf.Spacer(12)
)

// Assets tells the composer which optional images are available.
type Assets struct {
	Logo bool
	// Chart is false when the chart could not be produced; a placeholder is drawn instead.
	Chart       bool
	ChartWidth  float64
	ChartHeight float64
}

func heading(text string) pdf.Heading {
	return pdf.NewHeading(text, 13)
}

func subheading(text string) pdf.Heading {
	return pdf.NewHeading(text, 12)
}

func table(items []Item) pdf.KeyValueTable {
	return pdf.KeyValueTable{
		Rows: lo.Map(items, func(it Item, _ int) pdf.Row { return pdf.Row{Label: it.Label, Value: it.Value} }),
	}
}

// commentSection is a heading followed by free text that repeats the heading when it
// continues on another page.
func commentSection(title, text string) pdf.Widget {
	if text == "" {
		text = "Sin comentarios."
	}
	return pdf.Section{
		Heading: heading(title),
		Body: []pdf.Widget{
			pdf.Paragraph{Text: text, Continuation: &pdf.Heading{Text: title + continuationSuffix, Style: pdf.TextStyle{Font: pdf.Bold, Size: 13}}},
			sectionGap,
		},
	}
}

func supervisionWidgets(s Supervision) []pdf.Widget {
	widgets := []pdf.Widget{}
	first := []pdf.Widget{}
	if len(s.Summary) > 0 {
		first = append(first, table(s.Summary), pdf.Spacer(8))
	}
	for i, sec := range s.Sections {
		body := []pdf.Widget{table(sec.Items)}
		if sec.Observations != "" {
			body = append(body,
				pdf.Spacer(4),
				pdf.Paragraph{
					Text:  "Observaciones: " + sec.Observations,
					Style: pdf.TextStyle{Font: pdf.Light, Size: 10},
				},
			)
		}
		body = append(body, pdf.Spacer(8))
		section := pdf.Section{Heading: subheading(sec.Title), Body: body}
		if i == 0 {
			widgets = append(widgets, pdf.Section{Heading: heading(s.Title), Body: append(first, section)})
			continue
		}
		widgets = append(widgets, section)
	}
	if len(s.Sections) == 0 {
		widgets = append(widgets, pdf.Section{Heading: heading(s.Title), Body: first})
	}
	return widgets
}

// Compose lays the report out as an ordered list of widgets.
func Compose(r *Report, assets Assets) []pdf.Widget {
	var widgets []pdf.Widget
	if assets.Logo {
		widgets = append(widgets, pdf.Image{Name: LogoImage, W: 105, H: 47, Spacing: 8})
	}
	widgets = append(widgets,
		pdf.Heading{Text: r.Title(), Style: pdf.TextStyle{Font: pdf.Bold, Size: 16}, Align: pdf.AlignCenter},
		pdf.TextLine{Text: r.Subtitle(), Style: pdf.TextStyle{Font: pdf.Regular, Size: 14}, Align: pdf.AlignCenter},
		pdf.Spacer(20),
	)

	if r.Executor != "" || r.Folios != "" || r.Decree != "" {
		widgets = append(widgets, pdf.Section{
			Heading: heading("Antecedentes"),
			Body: []pdf.Widget{table([]Item{
				{Label: "Nombre ejecutora/s final/es", Value: r.Executor},
				{Label: "Folios", Value: r.Folios},
				{Label: "Decreto/s", Value: r.Decree},
			}), sectionGap},
		})
	}

	general := []pdf.Widget{table(r.General), pdf.Spacer(6)}
	if r.ListURL != "" {
		general = append(general, pdf.Paragraph{
			Text:  ListNote,
			Style: pdf.TextStyle{Font: pdf.Light, Size: 9},
			Link:  r.ListURL,
		})
	}
	widgets = append(widgets, pdf.Section{Heading: heading("Datos generales del mes"), Body: append(general, sectionGap)})

	var chartBody pdf.Widget = pdf.Placeholder(ChartUnavailable)
	if assets.Chart {
		chartBody = pdf.Image{Name: ChartImage, W: assets.ChartWidth, H: assets.ChartHeight}
	}
	widgets = append(widgets, pdf.Section{Heading: heading("Evolución mensual"), Body: []pdf.Widget{chartBody, sectionGap}})

	details := supervisionWidgets(r.FieldSupervision)
	widgets = append(widgets, pdf.Section{Heading: heading("Detalles sobre las supervisiones realizadas"), Body: details[:1]})
	widgets = append(widgets, details[1:]...)
	if r.OfficeSupervision != nil {
		widgets = append(widgets, supervisionWidgets(*r.OfficeSupervision)...)
	}

	widgets = append(widgets,
		commentSection("Comentarios de supervisión", r.SupervisionComments),
		commentSection("Comentarios generales", r.GeneralComments),
	)
	if r.ProjectProgress != "" {
		widgets = append(widgets, commentSection("Avance de proyectos", r.ProjectProgress))
	}

	widgets = append(widgets, pdf.Spacer(30), pdf.Signature{Name: r.Signer, Role: r.Role})
	return widgets
}
