package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jasonmoo/scssexpand/internal/output"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available output formats",
	Long: `List all available output formats.

Built-in formats:
  text       Plain selectors, one per line (default)
  json       JSON output
  yaml       YAML output
  markdown   Markdown tables and lists

Custom formats:
  template:<path>   Use a Go template file
  plugin:<name>     Use external plugin (scssexpand-format-<name>)

Examples:
  scssexpand formats
  scssexpand rules src/ --output yaml
  scssexpand resolve main.scss --offset 40 --output template:./my.tmpl`,
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, args []string) error {
	writer, err := GetWriter(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	resp := &output.FormatsResponse{}
	for _, f := range output.DefaultRegistry.All() {
		resp.Formats = append(resp.Formats, output.FormatInfo{Name: f.Name(), Description: f.Description()})
	}
	resp.Formats = append(resp.Formats,
		output.FormatInfo{Name: "template:<path>", Description: "Use a Go template file"},
		output.FormatInfo{Name: "plugin:<name>", Description: "External plugin (scssexpand-format-<name>)"},
	)
	return writer.Write(resp)
}
