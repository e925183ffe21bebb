package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/chart"
	"github.com/flanksource/informe/config"
	"github.com/flanksource/informe/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var logFlags = logger.Flags{
	Level:       "info",
	LogToStderr: true,
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the configuration resolved before any subcommand runs.
type app struct {
	configFile string
	cfg        config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "informe",
		Short: "Render monthly labor-inspection reports as paginated PDFs",
		Long: `informe lays out monthly labor-inspection reports (general data, supervision
tables, a monthly evolution chart, comments and a signature) on A4 pages.

Run it as an HTTP service with 'serve' or offline with 'render'.`,
		Example: `  informe serve --addr :3000 --fonts-dir assets/fonts --image logo=assets/logo.png
  informe render -f informe.json -o informe.pdf
  informe inspect informe.pdf --text`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Configure(logFlags)
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
				return err
			}
			a.cfg = cfg
			logger.Debugf("using config %+v", cfg)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	bindLogFlags(flags)
	flags.StringVarP(&a.configFile, "config", "c", "", "YAML configuration file")
	config.BindFlags(flags)

	rootCmd.AddCommand(
		newServeCommand(a),
		newRenderCommand(a),
		newInspectCommand(),
		newCacheCommand(a),
		newVersionCommand(),
	)
	return rootCmd
}

func bindLogFlags(flags *pflag.FlagSet) {
	flags.CountVarP(&logFlags.LevelCount, "loglevel", "v", "Increase logging level")
	flags.StringVar(&logFlags.Level, "log-level", logFlags.Level, "Set the default log level")
	flags.BoolVar(&logFlags.JsonLogs, "json-logs", false, "Print logs in json format to stderr")
	flags.BoolVar(&logFlags.ReportCaller, "report-caller", false, "Report log caller info")
	flags.BoolVar(&logFlags.LogToStderr, "log-to-stderr", true, "Log to stderr instead of stdout")
}

// renderer builds the report renderer for the resolved config. The returned cache must be
// closed by the caller; it is a disabled no-op cache when caching is off or unavailable.
func (a *app) renderer() (*report.Renderer, *chart.Cache, error) {
	provider, err := chart.NewProvider(a.cfg.Chart)
	if err != nil {
		return nil, nil, err
	}

	cache, err := chart.OpenCache(a.cfg.Cache)
	if err != nil {
		logger.Warnf("chart cache unavailable, rendering without it: %v", err)
		cache, _ = chart.OpenCache(chart.CacheConfig{Disabled: true})
	}
	if cache.Enabled() {
		name := a.cfg.Chart.Provider
		if name == "" {
			name = "quickchart"
		}
		provider = chart.Cached{Provider: provider, Cache: cache, Name: name}
	}

	r := report.NewRenderer(a.cfg.Assets, provider)
	r.Page = a.cfg.Page
	if a.cfg.Chart.Width > 0 && a.cfg.Chart.Height > 0 {
		r.ChartWidth, r.ChartHeight = a.cfg.Chart.Width, a.cfg.Chart.Height
	}
	return r, cache, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionInfo())
		},
	}
}

func versionInfo() string {
	return fmt.Sprintf("informe %s (commit: %s, built: %s, go: %s)",
		version, commit, date, runtime.Version())
}
