package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/flanksource/commons/logger"
	"github.com/flanksource/informe/report"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type renderOptions struct {
	input   string
	output  string
	journal string
	force   bool
}

func newRenderCommand(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a report payload to a PDF file",
		Example: `  informe render -f informe.json -o informe.pdf
  informe render -f informe.json            # writes <region>_<mes>.pdf
  cat informe.json | informe render -f - -o - > informe.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.input, "file", "f", "", "Report payload (JSON), - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output PDF, - for stdout (default <region>_<mes>.pdf)")
	cmd.Flags().StringVar(&opts.journal, "journal", "", "Write the per-page layout journal as JSON to this file")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Write binary output to a terminal")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func (a *app) render(cmd *cobra.Command, opts renderOptions) error {
	body, err := readInput(cmd, opts.input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.input, err)
	}

	rep, err := report.Decode(body)
	if err != nil {
		var invalid *report.ValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid report %s: %w", opts.input, invalid)
		}
		return err
	}

	output := opts.output
	if output == "" {
		output = rep.Filename()
	}
	if output == "-" && !opts.force && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write a PDF to a terminal, redirect stdout or pass --force")
	}

	renderer, cache, err := a.renderer()
	if err != nil {
		return err
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warnf("failed to close chart cache: %v", err)
		}
	}()

	result, err := renderer.Render(cmd.Context(), rep)
	if err != nil {
		return err
	}

	if output == "-" {
		_, err = cmd.OutOrStdout().Write(result.PDF)
	} else {
		err = os.WriteFile(output, result.PDF, 0o644)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	if opts.journal != "" {
		data, err := result.Journal.JSON()
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.journal, data, 0o644); err != nil {
			return fmt.Errorf("failed to write journal %s: %w", opts.journal, err)
		}
	}
	logger.Infof("rendered %s (%d pages)", output, result.Pages)
	return nil
}
