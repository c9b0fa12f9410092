package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLexFileRecoversFromIllegalByte(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.oml")
	src := "@\n`x`: x = 1\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	if err := lexFile(nil, []string{path}); err == nil {
		t.Fatal("expected a scanner error for the illegal byte")
	}
}

func TestParseFileReportsSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.oml")
	if err := os.WriteFile(path, []byte("import\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := parseFile(nil, []string{path}); err == nil {
		t.Fatal("expected a parse error for a missing import path")
	}
}
