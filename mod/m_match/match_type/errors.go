package match_type

import (
	"errors"
	"fmt"
)

//---------------------
// Recoverable Errors
//---------------------

var (
	// ErrInvalidSyntax is returned for malformed rule text.
	ErrInvalidSyntax = errors.New("invalid match rule")

	// ErrNotFound is returned when an owner holds no rule with the given keys.
	ErrNotFound = errors.New("match rule not found")
)

//---------------------
// Lifecycle Errors
//---------------------

// ErrLifecycle marks a caller ordering bug rather than a runtime condition.
var ErrLifecycle = errors.New("match lifecycle violation")

var (
	ErrOwnerNotEmpty    = fmt.Errorf("%w: owner still holds rules", ErrLifecycle)
	ErrRegistryNotEmpty = fmt.Errorf("%w: registry still holds rules", ErrLifecycle)
	ErrRuleLinked       = fmt.Errorf("%w: rule is linked into another registry", ErrLifecycle)
	ErrRuleReleased     = fmt.Errorf("%w: rule has no references left", ErrLifecycle)
)
