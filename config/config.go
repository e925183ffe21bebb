// Package config holds the settings shared by the informe commands.
//
// Values are resolved in order: compiled defaults, the optional YAML file, the PORT
// environment variable and finally command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/flanksource/informe/chart"
	"github.com/flanksource/informe/pdf"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Server configures the HTTP listener.
type Server struct {
	Addr              string        `json:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigin        string        `json:"cors_origin" yaml:"cors_origin"`
	// MaxBodyBytes bounds the size of a report payload.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`
}

type Config struct {
	Server Server            `json:"server" yaml:"server"`
	Page   pdf.PageConfig    `json:"page" yaml:"page"`
	Assets pdf.AssetConfig   `json:"assets" yaml:"assets"`
	Chart  chart.Options     `json:"chart" yaml:"chart"`
	Cache  chart.CacheConfig `json:"cache" yaml:"cache"`
}

func Default() Config {
	return Config{
		Server: Server{
			Addr:              ":3000",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigin:        "*",
			MaxBodyBytes:      1 << 20,
		},
		Page: pdf.A4(),
		Assets: pdf.AssetConfig{
			Images: map[string]string{},
		},
		Chart: chart.Options{
			Provider: "quickchart",
			URL:      chart.DefaultQuickChartURL,
			Timeout:  chart.DefaultTimeout,
			Width:    chart.DefaultWidth,
			Height:   chart.DefaultHeight,
		},
		Cache: chart.CacheConfig{
			TTL: 24 * time.Hour,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be positive"))
	}
	if err := c.Page.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("page: %w", err))
	}
	switch c.Chart.Provider {
	case "", "quickchart", "local":
	default:
		errs = append(errs, fmt.Errorf("chart.provider %q must be quickchart or local", c.Chart.Provider))
	}
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		errs = append(errs, errors.New("chart size must not be negative"))
	}
	return errors.Join(errs...)
}

// BindFlags registers the override flags. Their values are copied onto a loaded Config by
// ApplyFlags, so file values survive unless a flag is set explicitly.
func BindFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("addr", d.Server.Addr, "HTTP listen address")
	flags.Duration("shutdown-timeout", d.Server.ShutdownTimeout, "Time allowed for in-flight requests on shutdown")
	flags.String("cors-origin", d.Server.CORSOrigin, "Access-Control-Allow-Origin value")

	flags.String("fonts-dir", "", "Directory with the gobCL TrueType fonts (core Helvetica when empty)")
	flags.StringToString("image", nil, "Image asset as name=path, e.g. logo=assets/logo.png")

	flags.String("chart-provider", d.Chart.Provider, "Chart renderer: quickchart or local")
	flags.String("chart-url", d.Chart.URL, "QuickChart compatible endpoint")
	flags.Duration("chart-timeout", d.Chart.Timeout, "Chart request timeout")

	flags.String("cache-path", "", "Chart cache database path (default ~/.cache/informe-charts.db)")
	flags.Duration("cache-ttl", d.Cache.TTL, "Chart cache entry lifetime")
	flags.Bool("no-cache", false, "Disable the chart cache")
}

// ApplyFlags copies every flag set on the command line onto c and validates the result.
// Flags that were never registered are ignored.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	strs := map[string]*string{
		"addr":           &c.Server.Addr,
		"cors-origin":    &c.Server.CORSOrigin,
		"fonts-dir":      &c.Assets.FontsDir,
		"chart-provider": &c.Chart.Provider,
		"chart-url":      &c.Chart.URL,
		"cache-path":     &c.Cache.DBPath,
	}
	durations := map[string]*time.Duration{
		"shutdown-timeout": &c.Server.ShutdownTimeout,
		"chart-timeout":    &c.Chart.Timeout,
		"cache-ttl":        &c.Cache.TTL,
	}
	var err error
	for name, dst := range strs {
		if changed(flags, name) {
			if *dst, err = flags.GetString(name); err != nil {
				return err
			}
		}
	}
	for name, dst := range durations {
		if changed(flags, name) {
			if *dst, err = flags.GetDuration(name); err != nil {
				return err
			}
		}
	}
	if changed(flags, "no-cache") {
		if c.Cache.Disabled, err = flags.GetBool("no-cache"); err != nil {
			return err
		}
	}
	if changed(flags, "image") {
		images, err := flags.GetStringToString("image")
		if err != nil {
			return err
		}
		if c.Assets.Images == nil {
			c.Assets.Images = map[string]string{}
		}
		for name, path := range images {
			c.Assets.Images[name] = path
		}
	}
	return c.Validate()
}

func changed(flags *pflag.FlagSet, name string) bool {
	return flags.Lookup(name) != nil && flags.Changed(name)
}
