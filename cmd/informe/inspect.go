package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/informe/pdf"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

type inspectOptions struct {
	text    bool
	json    bool
	noColor bool
}

func newInspectCommand() *cobra.Command {
	var opts inspectOptions
	cmd := &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Validate a PDF and print its page count and text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			info, err := pdf.Inspect(data, opts.text)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if opts.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			printInfo(cmd.OutOrStdout(), args[0], info, opts.noColor)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.text, "text", false, "Print the extracted text of every page")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the summary as JSON")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	return cmd
}

func printInfo(w io.Writer, name string, info *pdf.Info, noColor bool) {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	label := r.NewStyle().Foreground(lipgloss.Color("8"))
	page := r.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	body := r.NewStyle().PaddingLeft(2)

	fmt.Fprintln(w, title.Render(name))
	fmt.Fprintf(w, "%s %d\n", label.Render("pages:"), info.Pages)
	fmt.Fprintf(w, "%s %d bytes\n", label.Render("size: "), info.Size)
	for i, text := range info.Texts {
		fmt.Fprintln(w, page.Render(fmt.Sprintf("── page %d ──", i+1)))
		text = strings.TrimSpace(text)
		if text == "" {
			text = "(no text)"
		}
		fmt.Fprintln(w, body.Render(text))
	}
}
