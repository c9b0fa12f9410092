package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/careweather/oneil/internal/lexer"
	"github.com/careweather/oneil/internal/token"
)

var showSpan bool

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an Oneil model file",
	Long: `Tokenize an Oneil model file and print the resulting token stream.

A scanner error does not stop the scan: lexing recovers past the bad
byte and keeps going, printing every error it hit along the way.`,
	Args: cobra.ExactArgs(1),
	RunE: lexFile,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&showSpan, "show-span", false, "show each token's byte offset and length")
}

func lexFile(_ *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", args[0], err)
	}

	l := lexer.New(string(content))
	errCount := 0
	for {
		tok, lexErr := l.Next()
		if lexErr != nil {
			errCount++
			fmt.Fprintln(os.Stderr, lexErr.Error())
			continue
		}
		printToken(tok)
		if tok.Type == token.EOF {
			break
		}
	}

	if errCount > 0 {
		return fmt.Errorf("found %d scanner error(s)", errCount)
	}
	return nil
}

func printToken(tok token.Token) {
	out := fmt.Sprintf("[%-12s] %q", tok.Type, tok.Literal)
	if showSpan {
		out += fmt.Sprintf(" @%d+%d", tok.Span.Offset, tok.Span.Length)
	}
	fmt.Println(out)
}
