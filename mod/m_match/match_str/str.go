// Package match_str implements nullable strings and the prefix helpers
// used by match rules.
package match_str

import "strings"

//---------------------
// Nullable String
//---------------------

// Str is a string that may be unset. The zero value is unset (null).
type Str struct {
	v   string
	set bool
}

// Null is the unset string.
var Null = Str{}

// Of returns a set Str holding s. An empty s is still a set value.
func Of(s string) Str {
	return Str{v: s, set: true}
}

// IsSet reports whether the string holds a value.
func (s Str) IsSet() bool { return s.set }

// Value returns the held string, or "" when unset.
func (s Str) Value() string { return s.v }

// String implements fmt.Stringer.
func (s Str) String() string {
	if !s.set {
		return "<null>"
	}
	return s.v
}

//---------------------
// Ordering
//---------------------

// Compare orders two strings. Null sorts before any set value, set values
// compare byte-wise.
func Compare(a, b Str) int {
	switch {
	case !a.set && !b.set:
		return 0
	case !a.set:
		return -1
	case !b.set:
		return 1
	}
	return strings.Compare(a.v, b.v)
}

// Equal reports whether both strings are null, or both are set and equal.
func Equal(a, b Str) bool {
	return a.set == b.set && a.v == b.v
}

//---------------------
// Prefix Helpers
//---------------------

// TrimPrefix returns the remainder of s after prefix. ok is false when either
// side is null or s does not start with prefix.
func TrimPrefix(s, prefix Str) (tail string, ok bool) {
	if !s.set || !prefix.set || !strings.HasPrefix(s.v, prefix.v) {
		return "", false
	}
	return s.v[len(prefix.v):], true
}

// HasNamespace reports whether s equals prefix or lies below it: the
// remainder after prefix must be empty or start with delim.
func HasNamespace(s, prefix Str, delim byte) bool {
	tail, ok := TrimPrefix(s, prefix)
	if !ok {
		return false
	}
	return tail == "" || tail[0] == delim
}
