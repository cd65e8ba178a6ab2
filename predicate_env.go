package inject

import (
	"fmt"
	"strings"
)

// PredicateOption configures expression predicate compilation.
type PredicateOption func(*predicateConfig)

type predicateConfig struct {
	cache    ProgramCache
	registry *FunctionRegistry
	// source is the caller's registry; registry is its snapshot.
	source *FunctionRegistry
}

func applyPredicateOptions(opts []PredicateOption) predicateConfig {
	cfg := predicateConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithPredicateCache memoizes compiled predicates in cache. Entries are keyed
// by engine, component type, function registry and expression.
func WithPredicateCache(cache ProgramCache) PredicateOption {
	return func(cfg *predicateConfig) {
		cfg.cache = cache
	}
}

// WithPredicateFunctions exposes registry functions to the expression.
func WithPredicateFunctions(registry *FunctionRegistry) PredicateOption {
	return func(cfg *predicateConfig) {
		if registry == nil {
			return
		}
		cfg.source = registry
		cfg.registry = registry.Clone()
	}
}

const (
	envNode      = "node"
	envActive    = "active"
	envID        = "id"
	envComponent = "component"
	envAttrs     = "attrs"
	envCall      = "call"
)

var reservedEnvNames = map[string]struct{}{
	envNode:      {},
	envActive:    {},
	envID:        {},
	envComponent: {},
	envAttrs:     {},
	envCall:      {},
}

// componentEnv builds the variables visible to an expression evaluated
// against component.
func componentEnv(component any) map[string]any {
	attrs := map[string]any{}
	if attributed, ok := component.(Attributed); ok {
		for key, value := range attributed.Attributes() {
			attrs[key] = value
		}
	}
	env := map[string]any{
		envNode:      "",
		envActive:    false,
		envID:        nil,
		envComponent: fmt.Sprintf("%T", component),
		envAttrs:     attrs,
	}
	if attached, ok := component.(Attached); ok {
		if n := attached.Node(); n != nil {
			env[envNode] = n.Name()
			env[envActive] = n.ActiveInHierarchy()
			env[envID] = nodeIDValue(n)
		}
	}
	return env
}

// flattenAttrs copies attrs to the top level of env without shadowing the
// reserved names.
func flattenAttrs(env map[string]any) map[string]any {
	attrs, _ := env[envAttrs].(map[string]any)
	for key, value := range attrs {
		if _, reserved := reservedEnvNames[key]; reserved {
			continue
		}
		env[key] = value
	}
	return env
}

// predicateCacheKey identifies the registry and the helpers it held at
// compile time, so predicates bound to different helpers never share an
// entry.
func predicateCacheKey[T any](engine, expression string, cfg predicateConfig) string {
	helpers := ""
	if cfg.source != nil {
		helpers = fmt.Sprintf("%p:%s", cfg.source, strings.Join(cfg.registry.Names(), ","))
	}
	return engine + "|" + typeName[T]() + "|" + helpers + "|" + expression
}

func cachedPredicate[T any](cache ProgramCache, key string) (*Predicate[T], bool) {
	if cache == nil {
		return nil, false
	}
	cached, ok := cache.Get(key)
	if !ok {
		return nil, false
	}
	pred, ok := cached.(*Predicate[T])
	return pred, ok
}

func predicateLabel(engine, expression string) string {
	return engine + ":" + expression
}

func asMatch(engine, expression string, component any, result any) (bool, error) {
	matched, ok := result.(bool)
	if !ok {
		return false, &PredicateError{
			Engine:    engine,
			Expr:      expression,
			Component: fmt.Sprintf("%T", component),
			Err:       fmt.Errorf("result %v (%T) is not a boolean", result, result),
		}
	}
	return matched, nil
}
