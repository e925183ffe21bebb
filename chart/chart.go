// Package chart produces the bar-chart images embedded in reports.
package chart

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSpec is returned for a chart definition that cannot be drawn.
var ErrInvalidSpec = errors.New("invalid chart definition")

// Dataset is one series of a bar chart.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
}

// Data holds the categories and series of a chart.
type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Spec describes a chart in the Chart.js configuration format understood by QuickChart.
type Spec struct {
	Type    string         `json:"type"`
	Data    Data           `json:"data"`
	Options map[string]any `json:"options,omitempty"`

	// Pixel size of the rendered image; not part of the chart configuration.
	Width  int `json:"-"`
	Height int `json:"-"`
}

// Bar returns a bar chart of the given series over labels.
func Bar(labels []string, datasets ...Dataset) Spec {
	return Spec{
		Type: "bar",
		Data: Data{Labels: labels, Datasets: datasets},
		Options: map[string]any{
			"scales": map[string]any{
				"yAxes": []any{map[string]any{"ticks": map[string]any{"beginAtZero": true}}},
			},
		},
	}
}

// Validate checks that every series has one value per label.
func (s Spec) Validate() error {
	if len(s.Data.Labels) == 0 {
		return fmt.Errorf("%w: no labels", ErrInvalidSpec)
	}
	if len(s.Data.Datasets) == 0 {
		return fmt.Errorf("%w: no datasets", ErrInvalidSpec)
	}
	for _, ds := range s.Data.Datasets {
		if len(ds.Data) != len(s.Data.Labels) {
			return fmt.Errorf("%w: dataset %q has %d values for %d labels", ErrInvalidSpec, ds.Label, len(ds.Data), len(s.Data.Labels))
		}
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidSpec, s.Width, s.Height)
	}
	return nil
}

// Config is the JSON chart configuration sent to a chart service.
func (s Spec) Config() ([]byte, error) {
	return json.Marshal(s)
}

// Key identifies the rendered image of a spec, size included.
func (s Spec) Key() string {
	cfg, _ := s.Config()
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%dx%d", cfg, s.Width, s.Height)))
	return fmt.Sprintf("%x", hash)
}

// Max is the largest value over every series.
func (s Spec) Max() float64 {
	m := 0.0
	for _, ds := range s.Data.Datasets {
		for _, v := range ds.Data {
			m = max(m, v)
		}
	}
	return m
}

// Provider renders a chart to PNG bytes.
type Provider interface {
	Render(ctx context.Context, spec Spec) ([]byte, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, spec Spec) ([]byte, error)

func (f ProviderFunc) Render(ctx context.Context, spec Spec) ([]byte, error) {
	return f(ctx, spec)
}

// Options selects and configures a provider.
type Options struct {
	Provider string        `json:"provider,omitempty" yaml:"provider,omitempty"`
	URL      string        `json:"url,omitempty" yaml:"url,omitempty"`
	Timeout  time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Width    int           `json:"width,omitempty" yaml:"width,omitempty"`
	Height   int           `json:"height,omitempty" yaml:"height,omitempty"`
}

// NewProvider returns the provider named by opts.Provider: "quickchart" (default) or "local".
func NewProvider(opts Options) (Provider, error) {
	switch opts.Provider {
	case "", "quickchart":
		return NewQuickChart(opts.URL, opts.Timeout), nil
	case "local":
		return Local{}, nil
	default:
		return nil, fmt.Errorf("unknown chart provider %q", opts.Provider)
	}
}
