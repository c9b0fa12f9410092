package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEvalFileSimpleModel(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.oml")
	src := "`mass`: mass = 10 : kg\n`weight`: weight = mass * g\n"
	if err := os.WriteFile(mainPath, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}

	if err := evalFile(nil, []string{mainPath}); err != nil {
		t.Fatalf("evalFile failed: %v", err)
	}
}

func TestEvalFileResolutionError(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.oml")
	src := "`x`: x = undefined_name + 1\n"
	if err := os.WriteFile(mainPath, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}

	if err := evalFile(nil, []string{mainPath}); err == nil {
		t.Fatal("expected an evaluation error for an undefined parameter")
	}
}

func TestResolveFileWithSubmodel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "engine.oml"), []byte("`thrust`: thrust_n = 100\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mainPath := filepath.Join(dir, "main.oml")
	src := "use engine as eng\n`thrust`: t = eng.thrust_n\n"
	if err := os.WriteFile(mainPath, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	if err := resolveFile(nil, []string{mainPath}); err != nil {
		t.Fatalf("resolveFile failed: %v", err)
	}
}
