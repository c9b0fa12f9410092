// Package resolver turns parsed ASTs into a resolved ModelCollection:
// it follows `use`/`from` declarations through a FileLoader host
// capability, detects circular model and parameter dependencies,
// rejects duplicate names, and resolves every expression's variables
// and unit expressions into IR as described in spec sections 3 and
// 4.3/5/6.2/7.
package resolver

import (
	"github.com/careweather/oneil/internal/ast"
	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/ozerr"
)

// FileLoader is the resolver-to-host capability from spec section
// 6.2: it turns a model path into a parsed AST, and validates that a
// host (Python-like) import exists and is usable.
type FileLoader interface {
	ParseAST(path ir.ModelPath) (*ast.Model, []ozerr.SourceError)
	ValidatePythonImport(path string) error
}

// BuiltinRef is the resolver-to-host capability from spec section
// 6.2: it tells variable resolution whether a bare name is a
// host-provided builtin constant, as opposed to an undefined
// identifier.
type BuiltinRef interface {
	HasBuiltinValue(name string) bool
}

// Loader builds one ModelCollection by loading an entry model and
// following its `use`/`from` declarations transitively. A Loader is
// single-use: construct one per load session.
type Loader struct {
	files      FileLoader
	builtins   BuiltinRef
	collection *ir.ModelCollection
	stack      []ir.ModelPath
	onStack    map[ir.ModelPath]bool
}

// NewLoader builds a Loader against the given host capabilities.
func NewLoader(files FileLoader, builtins BuiltinRef) *Loader {
	return &Loader{
		files:      files,
		builtins:   builtins,
		collection: ir.NewModelCollection(),
		onStack:    map[ir.ModelPath]bool{},
	}
}

// Load resolves entry and everything it transitively uses/references,
// returning the frozen ModelCollection. The collection is returned
// even when some models recorded errors; only the entry path itself
// failing to ever produce a Model is a hard failure.
func (l *Loader) Load(entry ir.ModelPath) (*ir.ModelCollection, error) {
	l.loadModel(entry)
	if _, ok := l.collection.Models[entry]; !ok {
		return l.collection, newErr("ModelImportResolution.UndefinedModel", string(entry), ozerr.Span{})
	}
	return l.collection, nil
}

// loadModel loads path if not already cached, handling circular
// dependencies per spec section 5: when path is already on the
// loading stack, the cycle is the stack's suffix from the duplicate
// entry to the current entry, plus a stub entry recorded with an
// error rather than recursing. The stub stands in the collection
// until the real model finishes loading, which then takes over the
// stub's error.
func (l *Loader) loadModel(path ir.ModelPath) *ir.Model {
	if m, ok := l.collection.Models[path]; ok {
		return m
	}
	if l.onStack[path] {
		stub := ir.NewModel(path)
		stub.HasError = true
		stub.Errors = append(stub.Errors, newErr(
			"ModelImportResolution.ModelHasError",
			"circular model dependency: "+cycleChain(l.circularChain(path)),
			ozerr.Span{},
		))
		l.collection.Models[path] = stub
		return stub
	}

	l.stack = append(l.stack, path)
	l.onStack[path] = true
	defer func() {
		l.stack = l.stack[:len(l.stack)-1]
		delete(l.onStack, path)
	}()

	model := ir.NewModel(path)

	astModel, parseErrs := l.files.ParseAST(path)
	for _, e := range parseErrs {
		model.Errors = append(model.Errors, e)
	}
	if len(parseErrs) > 0 {
		model.HasError = true
	}
	if astModel == nil {
		l.collection.Models[path] = model
		return model
	}

	r := &modelResolver{loader: l, model: model, ast: astModel}
	r.resolve()

	if stub, ok := l.collection.Models[path]; ok {
		model.Errors = append(model.Errors, stub.Errors...)
		model.HasError = true
	}
	l.collection.Models[path] = model
	return model
}

// circularChain returns the suffix of the current load stack from
// path's first occurrence to the top, with path appended again at the
// end (the DFS-stack cycle convention from spec section 5).
func (l *Loader) circularChain(path ir.ModelPath) []string {
	idx := -1
	for i, p := range l.stack {
		if p == path {
			idx = i
			break
		}
	}
	var chain []string
	if idx >= 0 {
		for _, p := range l.stack[idx:] {
			chain = append(chain, string(p))
		}
	}
	chain = append(chain, string(path))
	return chain
}
