package match_rule

import (
	"container/list"

	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Registry
//---------------------

// Registry keeps the rules eligible for one dispatch scope in the order they
// were linked.
type Registry struct {
	rules *list.List
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: list.New()}
}

// Len returns the number of linked rules.
func (g *Registry) Len() int { return g.rules.Len() }

// Close checks that every rule has been unlinked.
func (g *Registry) Close() error {
	if g.rules.Len() != 0 {
		return match_type.ErrRegistryNotEmpty
	}
	return nil
}

// Link appends rule at the tail. Linking a rule that is already in g is a
// no-op; a rule linked elsewhere is refused with ErrRuleLinked.
func (g *Registry) Link(rule *Rule) error {
	switch rule.registry {
	case g:
		return nil
	case nil:
		rule.registry = g
		rule.elem = g.rules.PushBack(rule)
		return nil
	default:
		return match_type.ErrRuleLinked
	}
}

// Unlink removes rule from g. It does nothing if rule is not linked into g.
func (g *Registry) Unlink(rule *Rule) {
	if rule.registry != g {
		return
	}
	g.rules.Remove(rule.elem)
	rule.registry = nil
	rule.elem = nil
}

//---------------------
// Matching
//---------------------

// NextMatch returns the first rule after cursor, or from the head when
// cursor is nil, whose keys match f. It returns nil when the list is
// exhausted or cursor is not linked into g. Feeding each result back as the
// cursor enumerates every match in link order.
func (g *Registry) NextMatch(cursor *Rule, f *match_type.Filter) *Rule {
	var e *list.Element
	switch {
	case cursor == nil:
		e = g.rules.Front()
	case cursor.registry == g:
		e = cursor.elem.Next()
	default:
		return nil
	}

	for ; e != nil; e = e.Next() {
		rule := e.Value.(*Rule)
		if rule.keys.Match(f) {
			return rule
		}
	}
	return nil
}

// Each calls fn for every linked rule in link order until fn returns false.
func (g *Registry) Each(fn func(*Rule) bool) {
	for e := g.rules.Front(); e != nil; e = e.Next() {
		if !fn(e.Value.(*Rule)) {
			return
		}
	}
}
