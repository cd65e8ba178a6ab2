//go:build js_eval

package inject

import (
	"fmt"

	"github.com/dop251/goja"
)

const engineJS = "js"

// JSPredicate compiles expression with goja. Each match runs on a fresh
// runtime; attributes are exposed under attrs and as globals.
func JSPredicate[T any](expression string, opts ...PredicateOption) (*Predicate[T], error) {
	if expression == "" {
		return nil, wrapPredicateError(engineJS, expression, "", fmt.Errorf("expression must not be empty"))
	}
	cfg := applyPredicateOptions(opts)
	key := predicateCacheKey[T](engineJS, expression, cfg)
	if pred, ok := cachedPredicate[T](cfg.cache, key); ok {
		return pred, nil
	}

	program, err := goja.Compile("predicate", wrapJSExpression(expression), true)
	if err != nil {
		return nil, wrapPredicateError(engineJS, expression, "", err)
	}
	registry := cfg.registry
	pred := newFalliblePredicate(predicateLabel(engineJS, expression), func(component T) (bool, error) {
		vm := goja.New()
		for name, value := range flattenAttrs(componentEnv(component)) {
			if err := vm.Set(name, value); err != nil {
				return false, wrapPredicateError(engineJS, expression, fmt.Sprintf("%T", component), err)
			}
		}
		if registry != nil {
			_ = vm.Set(envCall, func(name string, arguments ...any) (any, error) {
				return registry.Call(name, arguments...)
			})
			for _, name := range registry.Names() {
				fn := name
				_ = vm.Set(fn, func(arguments ...any) (any, error) {
					return registry.Call(fn, arguments...)
				})
			}
		}
		value, err := vm.RunProgram(program)
		if err != nil {
			return false, wrapPredicateError(engineJS, expression, fmt.Sprintf("%T", component), err)
		}
		return asMatch(engineJS, expression, component, value.Export())
	})
	if cfg.cache != nil {
		cfg.cache.Set(key, pred)
	}
	return pred, nil
}

func wrapJSExpression(expression string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", expression)
}

func jsPredicatesAvailable() bool {
	return true
}
