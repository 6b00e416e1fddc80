// Package match_keys parses match-rule text into Keys, orders Keys for
// deduplication, and evaluates Keys against message filters.
package match_keys

import (
	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Keys
//---------------------

// Keys is the parsed content of one match rule. Every set string is a slice
// of a single buffer built during parsing, and a Keys value is never changed
// after Parse returns.
//
// Filter.Sender holds the rule's sender key. It takes part in ordering but
// not in Match: sender scoping is applied by whoever picks the registry.
type Keys struct {
	Filter        match_type.Filter
	PathNamespace match_str.Str
	Arg0Namespace match_str.Str
	Eavesdrop     bool

	buf string // backing storage for every set field
}

// Len returns the size of the backing buffer.
func (k *Keys) Len() int { return len(k.buf) }
