package resolver

import "github.com/careweather/oneil/internal/ozerr"

// checkParameterCycles implements invariant 4 from spec section 3: no
// parameter may depend transitively on itself. Detection walks a
// depth-first stack per parameter; when a name already on the stack
// is revisited, the cycle is the stack's suffix from the duplicate
// entry to the current entry, plus the current entry appended again.
func (r *modelResolver) checkParameterCycles() {
	visited := map[string]bool{}

	var visit func(name string, stack []string) []string
	visit = func(name string, stack []string) []string {
		for i, s := range stack {
			if s == name {
				cycle := append(append([]string{}, stack[i:]...), name)
				return cycle
			}
		}
		if visited[name] {
			return nil
		}
		param, ok := r.model.Parameters[name]
		if !ok {
			return nil
		}
		stack = append(stack, name)
		deps := make([]string, 0, len(param.Dependencies))
		for dep := range param.Dependencies {
			deps = append(deps, dep)
		}
		for _, dep := range deps {
			if cycle := visit(dep, stack); cycle != nil {
				return cycle
			}
		}
		visited[name] = true
		return nil
	}

	reported := map[string]bool{}
	for name := range r.model.Parameters {
		if visited[name] {
			continue
		}
		if cycle := visit(name, nil); cycle != nil {
			key := cycleChain(cycle)
			if reported[key] {
				continue
			}
			reported[key] = true
			r.addErr("ParameterResolution.CircularDependency", key, ozerr.Span{})
		}
	}
}
