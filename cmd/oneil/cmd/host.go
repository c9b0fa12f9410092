package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/careweather/oneil/internal/ast"
	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/number"
	"github.com/careweather/oneil/internal/ozerr"
	"github.com/careweather/oneil/internal/parser"
	"github.com/careweather/oneil/internal/value"
)

// fsLoader is the reference FileLoader: it resolves a ModelPath to a
// ".oml" file relative to a base directory, and treats a host (Python)
// import as valid when a same-named ".py" file sits beside it. Neither
// of these is a real Python bridge — the CLI is a thin example
// consumer of the core library, not a host implementation (spec §1
// scope explicitly separates the two).
type fsLoader struct {
	baseDir string
}

func newFsLoader(entryFile string) *fsLoader {
	return &fsLoader{baseDir: filepath.Dir(entryFile)}
}

func (f *fsLoader) modelFile(path ir.ModelPath) string {
	rel := strings.ReplaceAll(string(path), ".", string(filepath.Separator))
	return filepath.Join(f.baseDir, rel+".oml")
}

func (f *fsLoader) ParseAST(path ir.ModelPath) (*ast.Model, []ozerr.SourceError) {
	file := f.modelFile(path)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, []ozerr.SourceError{&fsError{msg: fmt.Sprintf("cannot read model %q: %v", path, err)}}
	}
	return parser.Parse(string(content))
}

func (f *fsLoader) ValidatePythonImport(path string) error {
	rel := strings.ReplaceAll(path, ".", string(filepath.Separator))
	file := filepath.Join(f.baseDir, rel+".py")
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("no such host module %q: %w", path, err)
	}
	return nil
}

type fsError struct{ msg string }

func (e *fsError) Error() string          { return e.msg }
func (e *fsError) ErrorSpan() ozerr.Span { return ozerr.Span{} }

// hostEnv supplies the fixed constants (pi, e, g) the reference driver
// understands, standing in for the real Python host a production
// embedding would provide (spec §6.2/6.3). It provides no imported
// functions: every CallImported returns an error.
type hostEnv struct{}

var hostConstants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
	"g":  9.80665,
}

func (hostEnv) HasBuiltinValue(name string) bool {
	_, ok := hostConstants[name]
	return ok
}

func (hostEnv) BuiltinValue(name string) (value.Value, error) {
	v, ok := hostConstants[name]
	if !ok {
		return value.Value{}, fmt.Errorf("no such builtin %q", name)
	}
	return value.Num(number.NewScalar(v)), nil
}

func (hostEnv) CallImported(name string, args []value.Value) (value.Value, error) {
	return value.Value{}, fmt.Errorf("host import %q is not available to this reference driver", name)
}
