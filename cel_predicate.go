package inject

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

const engineCEL = "cel"

// CELPredicate compiles expression with cel-go. Attributes are only reachable
// through attrs, and registry functions through call(name, [args]):
//
//	pred, err := inject.CELPredicate[*Wheel](`attrs.side == "left" && id != null`)
func CELPredicate[T any](expression string, opts ...PredicateOption) (*Predicate[T], error) {
	if expression == "" {
		return nil, wrapPredicateError(engineCEL, expression, "", fmt.Errorf("expression must not be empty"))
	}
	cfg := applyPredicateOptions(opts)
	key := predicateCacheKey[T](engineCEL, expression, cfg)
	if pred, ok := cachedPredicate[T](cfg.cache, key); ok {
		return pred, nil
	}

	env, err := celEnv(cfg.registry)
	if err != nil {
		return nil, wrapPredicateError(engineCEL, expression, "", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, wrapPredicateError(engineCEL, expression, "", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapPredicateError(engineCEL, expression, "", err)
	}

	pred := newFalliblePredicate(predicateLabel(engineCEL, expression), func(component T) (bool, error) {
		out, _, err := program.Eval(componentEnv(component))
		if err != nil {
			return false, wrapPredicateError(engineCEL, expression, fmt.Sprintf("%T", component), err)
		}
		return asMatch(engineCEL, expression, component, out.Value())
	})
	if cfg.cache != nil {
		cfg.cache.Set(key, pred)
	}
	return pred, nil
}

func celEnv(registry *FunctionRegistry) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable(envNode, celgo.StringType),
		celgo.Variable(envActive, celgo.BoolType),
		celgo.Variable(envID, celgo.DynType),
		celgo.Variable(envComponent, celgo.StringType),
		celgo.Variable(envAttrs, celgo.MapType(celgo.StringType, celgo.DynType)),
	}
	if registry != nil {
		opts = append(opts, celgo.Function(envCall,
			celgo.Overload("call_string_list",
				[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)},
				celgo.DynType,
				celgo.BinaryBinding(celCallBinding(registry)),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

func celCallBinding(registry *FunctionRegistry) func(ref.Val, ref.Val) ref.Val {
	return func(nameVal, argsVal ref.Val) ref.Val {
		name, ok := nameVal.Value().(string)
		if !ok {
			return types.NewErr("inject: call name must be string")
		}
		lister, ok := argsVal.(traits.Lister)
		if !ok {
			return types.NewErr("inject: call arguments must be a list")
		}
		size, _ := lister.Size().Value().(int64)
		args := make([]any, 0, size)
		for i := int64(0); i < size; i++ {
			args = append(args, lister.Get(types.Int(i)).Value())
		}
		result, err := registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}
