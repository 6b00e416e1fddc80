package match_keys

import (
	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Filter Matching
//---------------------

// Match reports whether a message with filter f satisfies every key set in
// k. A null message field never satisfies a set key.
func (k *Keys) Match(f *match_type.Filter) bool {
	if k.Filter.Type != match_type.TypeInvalid && k.Filter.Type != f.Type {
		return false
	}

	// Targeted traffic is only visible to eavesdroppers.
	if !k.Eavesdrop && f.Destination.IsSet() {
		return false
	}

	if !exact(k.Filter.Destination, f.Destination) ||
		!exact(k.Filter.Interface, f.Interface) ||
		!exact(k.Filter.Member, f.Member) ||
		!exact(k.Filter.Path, f.Path) {
		return false
	}

	if k.PathNamespace.IsSet() && !match_str.HasNamespace(f.Path, k.PathNamespace, '/') {
		return false
	}

	if k.Arg0Namespace.IsSet() && !match_str.HasNamespace(f.Args[0], k.Arg0Namespace, '.') {
		return false
	}

	for i := 0; i < match_type.NArgs; i++ {
		if !exact(k.Filter.Args[i], f.Args[i]) {
			return false
		}

		want := k.Filter.ArgPaths[i]
		if want.IsSet() &&
			!match_str.HasNamespace(f.ArgPaths[i], want, '/') &&
			!match_str.HasNamespace(want, f.ArgPaths[i], '/') {
			return false
		}
	}

	return true
}

// exact is true when want is unset or equal to got.
func exact(want, got match_str.Str) bool {
	return !want.IsSet() || match_str.Equal(want, got)
}
