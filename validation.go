package inject

import "strings"

// ValidationPolicy is a set of independent requirements applied to a
// resolved component set.
type ValidationPolicy uint8

const (
	// RequireAtLeastOne fails validation on an empty result.
	RequireAtLeastOne ValidationPolicy = 1 << iota
	// ForbidMultiple fails validation on more than one result.
	ForbidMultiple

	// PolicyNone accepts any result count.
	PolicyNone ValidationPolicy = 0
	// PolicyAll is the union of every requirement.
	PolicyAll = RequireAtLeastOne | ForbidMultiple
)

// Has reports whether every bit in requirement is set on p.
func (p ValidationPolicy) Has(requirement ValidationPolicy) bool {
	return requirement != 0 && p&requirement == requirement
}

func (p ValidationPolicy) String() string {
	if p == PolicyNone {
		return "none"
	}
	var parts []string
	if p.Has(RequireAtLeastOne) {
		parts = append(parts, "require-at-least-one")
	}
	if p.Has(ForbidMultiple) {
		parts = append(parts, "forbid-multiple")
	}
	return strings.Join(parts, "|")
}

// Validate checks count against each requirement bit of policy on its own.
// It returns ErrComponentNotFound or ErrExcessComponents unwrapped; resolve
// calls attach their context through ResolutionError.
func Validate(count int, policy ValidationPolicy) error {
	if policy.Has(RequireAtLeastOne) && count == 0 {
		return ErrComponentNotFound
	}
	if policy.Has(ForbidMultiple) && count > 1 {
		return ErrExcessComponents
	}
	return nil
}
