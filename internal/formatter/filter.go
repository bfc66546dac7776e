package formatter

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/cel-go/cel"
)

// TypeFilter is a compiled CEL predicate over a Go type. The expression sees
// three string variables:
//
//	name       reflect type name, e.g. "main.Greeting" or "[]uint8"
//	kind       reflect kind, e.g. "struct", "slice", "ptr"
//	direction  "read" or "write"
//
// Results are cached per type and direction.
type TypeFilter struct {
	expression string
	program    cel.Program
	cache      sync.Map
}

type filterKey struct {
	t         reflect.Type
	direction string
}

var (
	filterEnvOnce sync.Once
	filterEnv     *cel.Env
	filterEnvErr  error
)

func typeFilterEnv() (*cel.Env, error) {
	filterEnvOnce.Do(func() {
		filterEnv, filterEnvErr = cel.NewEnv(
			cel.Variable("name", cel.StringType),
			cel.Variable("kind", cel.StringType),
			cel.Variable("direction", cel.StringType),
		)
	})
	return filterEnv, filterEnvErr
}

// NewTypeFilter compiles expression, which must evaluate to a bool.
func NewTypeFilter(expression string) (*TypeFilter, error) {
	env, err := typeFilterEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile filter %q: %w", expression, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("filter %q must evaluate to bool, got %s", expression, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	return &TypeFilter{expression: expression, program: program}, nil
}

// Expression returns the source expression.
func (f *TypeFilter) Expression() string {
	return f.expression
}

// Allows evaluates the filter for t. Evaluation errors deny.
func (f *TypeFilter) Allows(t reflect.Type, direction string) bool {
	key := filterKey{t: t, direction: direction}
	if cached, ok := f.cache.Load(key); ok {
		return cached.(bool)
	}

	out, _, err := f.program.Eval(map[string]any{
		"name":      t.String(),
		"kind":      t.Kind().String(),
		"direction": direction,
	})
	allowed := false
	if err == nil {
		allowed, _ = out.Value().(bool)
	}

	f.cache.Store(key, allowed)
	return allowed
}
