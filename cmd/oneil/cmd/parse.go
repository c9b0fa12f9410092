package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/careweather/oneil/internal/ozerr"
	"github.com/careweather/oneil/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an Oneil model file and report any syntax errors",
	Long: `Parse an Oneil model file into its AST.

Parsing recovers from a malformed declaration and continues with the
next one, so a single error does not hide the rest of the file's
problems; every error collected along the way is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: parseFile,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parseFile(_ *cobra.Command, args []string) error {
	file := args[0]
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", file, err)
	}

	model, errs := parser.Parse(string(content))
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, ozerr.RenderAll(errs, file, string(content)))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	fmt.Printf("parsed ok: %d top-level declaration(s), %d section(s)\n", len(model.TopDecls), len(model.Sections))
	return nil
}
