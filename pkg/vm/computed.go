package vm

import (
	"fmt"
	"sort"

	"github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"

	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// Computed describes a derived, read-only property.
type Computed struct {
	fn   reactive.ComputedFunc
	expr string
}

// ComputedFunc derives a property with Go code. Reads through r are tracked.
func ComputedFunc(fn func(r reactive.Reader) (any, error)) Computed {
	return Computed{fn: fn}
}

// ComputedExpr derives a property from an expr-lang expression evaluated
// against the data.
func ComputedExpr(expression string) Computed {
	return Computed{expr: expression}
}

// String returns the expression, or "func" for Go computeds.
func (c Computed) String() string {
	if c.expr != "" {
		return c.expr
	}
	return "func"
}

// build returns the getter installed on the store.
func (c Computed) build(name string) (reactive.ComputedFunc, error) {
	if c.fn != nil {
		return c.fn, nil
	}
	if c.expr == "" {
		return nil, fmt.Errorf("vm: computed %q is empty", name)
	}
	program, err := compileExpr(c.expr)
	if err != nil {
		return nil, fmt.Errorf("vm: computed %q: %w", name, err)
	}
	return func(r reactive.Reader) (any, error) {
		out, err := expr.Run(program, r.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("vm: computed %q: %w", name, err)
		}
		return out, nil
	}, nil
}

func compileExpr(src string) (*exprvm.Program, error) {
	return expr.Compile(src,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
}

// Method is callable from v-on directives.
type Method func(v *VM, e *dom.Event) error

// ExprMethod returns a method that assigns the result of each expression to
// its path. Expressions see the data plus an "event" map holding the
// triggering event's type and value. Paths are assigned in sorted order.
func ExprMethod(assignments map[string]string) (Method, error) {
	type step struct {
		path    string
		program *exprvm.Program
	}
	paths := make([]string, 0, len(assignments))
	for p := range assignments {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	steps := make([]step, 0, len(paths))
	for _, p := range paths {
		program, err := compileExpr(assignments[p])
		if err != nil {
			return nil, fmt.Errorf("vm: method assignment to %q: %w", p, err)
		}
		steps = append(steps, step{path: p, program: program})
	}

	return func(v *VM, e *dom.Event) error {
		for _, s := range steps {
			env := v.Data()
			env["event"] = eventEnv(e)
			out, err := expr.Run(s.program, env)
			if err != nil {
				return fmt.Errorf("vm: evaluate %q: %w", s.path, err)
			}
			if err := v.Set(s.path, out); err != nil {
				return err
			}
		}
		return nil
	}, nil
}

func eventEnv(e *dom.Event) map[string]any {
	if e == nil {
		return map[string]any{}
	}
	return map[string]any{
		"type":   e.Type,
		"value":  e.Value,
		"detail": e.Detail,
	}
}
