// Package report turns monthly labor-inspection payloads into laid-out PDF documents.
package report

import (
	"github.com/flanksource/informe/chart"
	"github.com/samber/lo"
)

const (
	SchemaV1 = "v1"
	SchemaV2 = "v2"
)

// Item is one label/value line of a report table.
type Item struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a titled table followed by free-text observations.
type Section struct {
	Title        string `json:"title"`
	Items        []Item `json:"items"`
	Observations string `json:"observations,omitempty"`
}

// Supervision groups the sections of one kind of supervision.
type Supervision struct {
	Title    string    `json:"title"`
	Summary  []Item    `json:"summary,omitempty"`
	Sections []Section `json:"sections"`
}

// MonthSummary holds the figures plotted for one month.
type MonthSummary struct {
	Month        int     `json:"month"`
	Label        string  `json:"label"`
	Executed     float64 `json:"executed"`
	Supervisions float64 `json:"supervisions"`
}

// Report is the normalized content of a monthly report, independent of the payload version.
type Report struct {
	SchemaVersion string `json:"schemaVersion"`
	Month         int    `json:"month"`
	Region        string `json:"region"`
	Signer        string `json:"signer"`
	Role          string `json:"role"`

	// Background data only present in v1 payloads.
	Executor string `json:"executor,omitempty"`
	Folios   string `json:"folios,omitempty"`
	Decree   string `json:"decree,omitempty"`

	General           []Item       `json:"general"`
	FieldSupervision  Supervision  `json:"fieldSupervision"`
	OfficeSupervision *Supervision `json:"officeSupervision,omitempty"`

	ListURL             string `json:"listUrl,omitempty"`
	SupervisionComments string `json:"supervisionComments,omitempty"`
	GeneralComments     string `json:"generalComments,omitempty"`
	ProjectProgress     string `json:"projectProgress,omitempty"`

	Current MonthSummary   `json:"current"`
	History []MonthSummary `json:"history,omitempty"`
}

func (r *Report) MonthName() string {
	return MonthName(r.Month)
}

func (r *Report) Filename() string {
	return Filename(r.Region, r.Month)
}

// Title is the document title, e.g. "Informe técnico marzo".
func (r *Report) Title() string {
	return "Informe técnico " + r.MonthName()
}

// Subtitle names the region, e.g. "Región de Ñuble".
func (r *Report) Subtitle() string {
	return "Región de " + r.Region
}

// Months returns the previous months followed by the current one.
func (r *Report) Months() []MonthSummary {
	return append(append([]MonthSummary{}, r.History...), r.Current)
}

// ChartSpec plots executed positions and supervisions of every month in the report.
func (r *Report) ChartSpec(width, height int) chart.Spec {
	months := r.Months()
	spec := chart.Bar(
		lo.Map(months, func(m MonthSummary, _ int) string { return m.Label }),
		chart.Dataset{
			Label:           "Cupos ejecutados",
			Data:            lo.Map(months, func(m MonthSummary, _ int) float64 { return m.Executed }),
			BackgroundColor: "#0F69B4",
		},
		chart.Dataset{
			Label:           "Supervisiones",
			Data:            lo.Map(months, func(m MonthSummary, _ int) float64 { return m.Supervisions }),
			BackgroundColor: "#EB3C46",
		},
	)
	spec.Width, spec.Height = width, height
	return spec
}
