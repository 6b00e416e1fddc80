package match_keys

import (
	"cmp"

	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Ordering
//---------------------

// Compare is a total order over Keys. Two Keys compare equal exactly when
// every field is equal, which is the deduplication criterion for owners.
func Compare(a, b *Keys) int {
	strs := [...][2]match_str.Str{
		{a.Filter.Sender, b.Filter.Sender},
		{a.Filter.Destination, b.Filter.Destination},
		{a.Filter.Interface, b.Filter.Interface},
		{a.Filter.Member, b.Filter.Member},
		{a.Filter.Path, b.Filter.Path},
		{a.PathNamespace, b.PathNamespace},
		{a.Arg0Namespace, b.Arg0Namespace},
	}
	for _, p := range strs {
		if r := match_str.Compare(p[0], p[1]); r != 0 {
			return r
		}
	}

	if r := cmp.Compare(a.Filter.Type, b.Filter.Type); r != 0 {
		return r
	}
	if r := cmp.Compare(boolInt(a.Eavesdrop), boolInt(b.Eavesdrop)); r != 0 {
		return r
	}

	for i := 0; i < match_type.NArgs; i++ {
		if r := match_str.Compare(a.Filter.Args[i], b.Filter.Args[i]); r != 0 {
			return r
		}
		if r := match_str.Compare(a.Filter.ArgPaths[i], b.Filter.ArgPaths[i]); r != 0 {
			return r
		}
	}
	return 0
}

// Equal reports whether a and b hold identical keys.
func Equal(a, b *Keys) bool {
	return Compare(a, b) == 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
