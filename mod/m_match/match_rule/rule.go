// Package match_rule holds reference-counted match rules, the per-owner
// index that deduplicates them and the registries that order them for
// dispatch.
//
// Nothing here locks. Callers serialize every operation on an owner and the
// registries its rules are linked into.
package match_rule

import (
	"container/list"

	"github.com/rskv-p/busmatch/mod/m_match/match_keys"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Rule
//---------------------

// Rule is one parsed match rule. It lives in exactly one owner's index for
// as long as it has references, and in at most one registry.
type Rule struct {
	keys  match_keys.Keys
	refs  int
	owner *Owner

	registry *Registry
	elem     *list.Element
}

// Keys returns the parsed keys. The result must not be modified.
func (r *Rule) Keys() *match_keys.Keys { return &r.keys }

// Refs returns the number of user references.
func (r *Rule) Refs() int { return r.refs }

// Owner returns the owner whose index holds the rule, or nil once freed.
func (r *Rule) Owner() *Owner { return r.owner }

// Registry returns the registry the rule is linked into, or nil.
func (r *Rule) Registry() *Registry { return r.registry }

// Match reports whether the rule's keys match f.
func (r *Rule) Match(f *match_type.Filter) bool { return r.keys.Match(f) }

// String returns the canonical rule text.
func (r *Rule) String() string { return r.keys.String() }

//---------------------
// References
//---------------------

// Ref takes another user reference. A freed rule cannot be revived.
func (r *Rule) Ref() (*Rule, error) {
	if r.refs <= 0 {
		return nil, match_type.ErrRuleReleased
	}
	r.refs++
	return r, nil
}

// Unref drops a user reference. The last reference unlinks the rule from
// its registry and removes it from its owner's index.
func (r *Rule) Unref() error {
	if r.refs <= 0 {
		return match_type.ErrRuleReleased
	}
	r.refs--
	if r.refs == 0 {
		r.free()
	}
	return nil
}

// free is the only path that takes a rule out of both structures.
func (r *Rule) free() {
	if r.registry != nil {
		r.registry.Unlink(r)
	}
	if r.owner != nil {
		r.owner.remove(r)
		r.owner = nil
	}
}
