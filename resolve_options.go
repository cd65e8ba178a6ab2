package inject

// ResolveOption configures a single resolve call.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	includeInactive bool
	cacheResult     bool
	useCache        bool
}

func applyResolveOptions(opts []ResolveOption) resolveConfig {
	cfg := resolveConfig{
		includeInactive: true,
		cacheResult:     true,
		useCache:        true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// IncludeInactive controls whether components on inactive nodes are returned.
// Defaults to true.
func IncludeInactive(include bool) ResolveOption {
	return func(cfg *resolveConfig) {
		cfg.includeInactive = include
	}
}

// CacheResult stores the filtered result when no entry exists for the key.
// Defaults to true.
func CacheResult(cache bool) ResolveOption {
	return func(cfg *resolveConfig) {
		cfg.cacheResult = cache
	}
}

// UseCache returns a stored entry instead of querying the host. Defaults to
// true.
func UseCache(use bool) ResolveOption {
	return func(cfg *resolveConfig) {
		cfg.useCache = use
	}
}

// Uncached bypasses the cache for both reads and writes.
func Uncached() ResolveOption {
	return func(cfg *resolveConfig) {
		cfg.cacheResult = false
		cfg.useCache = false
	}
}
