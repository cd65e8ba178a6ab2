package inject

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

const engineExpr = "expr"

// ExprPredicate compiles expression with expr-lang/expr. Component
// attributes are available both under attrs and as top-level variables:
//
//	pred, err := inject.ExprPredicate[*Wheel](`side == "left" && active`)
func ExprPredicate[T any](expression string, opts ...PredicateOption) (*Predicate[T], error) {
	if expression == "" {
		return nil, wrapPredicateError(engineExpr, expression, "", fmt.Errorf("expression must not be empty"))
	}
	cfg := applyPredicateOptions(opts)
	key := predicateCacheKey[T](engineExpr, expression, cfg)
	if pred, ok := cachedPredicate[T](cfg.cache, key); ok {
		return pred, nil
	}

	program, err := compileExpr(expression, cfg.registry)
	if err != nil {
		return nil, err
	}
	registry := cfg.registry
	pred := newFalliblePredicate(predicateLabel(engineExpr, expression), func(component T) (bool, error) {
		env := flattenAttrs(componentEnv(component))
		if registry != nil {
			env[envCall] = func(name string, arguments ...any) (any, error) {
				return registry.Call(name, arguments...)
			}
		}
		result, err := exprlang.Run(program, env)
		if err != nil {
			return false, wrapPredicateError(engineExpr, expression, fmt.Sprintf("%T", component), err)
		}
		return asMatch(engineExpr, expression, component, result)
	})
	if cfg.cache != nil {
		cfg.cache.Set(key, pred)
	}
	return pred, nil
}

func compileExpr(expression string, registry *FunctionRegistry) (*exprvm.Program, error) {
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range registry.Names() {
		fn := name
		options = append(options, exprlang.Function(fn, func(arguments ...any) (any, error) {
			return registry.Call(fn, arguments...)
		}))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapPredicateError(engineExpr, expression, "", err)
	}
	return program, nil
}
