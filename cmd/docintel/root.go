package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	noColor bool
)

// rootCmd is the base command when docintel is called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "docintel",
	Short: "Document extraction and intelligence CLI",
	Long: `docintel extracts structured content from documents: PDF, Office
(DOCX/PPTX/XLSX), email (EML/MSG), archives (ZIP/TAR/7z), CSV, Markdown/HTML,
plain text, and images (via OCR).

  docintel extract report.pdf                       # extract one file, text output
  docintel extract report.pdf --output json          # full ExtractionResult as JSON
  docintel extract a.pdf b.docx c.eml --output json   # batch extraction, order preserved
  docintel extract scan.png --mime image/png --config kreuzberg.toml

Configuration is resolved in three layers, each wholly replacing the one
before it: built-in defaults, a discovered or explicit kreuzberg config
file, then any --config-json/--config-json-base64 or per-flag overrides
given on the command line.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cobra.OnInitialize(func() {
		color.NoColor = color.NoColor || noColor
	})
	rootCmd.AddCommand(extractCmd)
}

func printError(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "warning: %s\n", fmt.Sprintf(format, args...))
}
