package match_rule

import (
	"github.com/google/btree"

	"github.com/rskv-p/busmatch/mod/m_match/match_keys"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

// ownerDegree is the B-tree fan-out. Owners usually hold a handful of rules.
const ownerDegree = 8

//---------------------
// Owner
//---------------------

// Owner indexes one subscriber's rules by their keys. Identical keys are
// never stored twice: adding them again takes a reference instead.
type Owner struct {
	tree *btree.BTreeG[*Rule]
}

// NewOwner creates an empty owner.
func NewOwner() *Owner {
	return &Owner{
		tree: btree.NewG(ownerDegree, ruleLess),
	}
}

// ruleLess orders rules by the keys comparator.
func ruleLess(a, b *Rule) bool {
	return match_keys.Compare(&a.keys, &b.keys) < 0
}

// Len returns the number of distinct rules.
func (o *Owner) Len() int { return o.tree.Len() }

// Close checks that every rule has been released.
func (o *Owner) Close() error {
	if o.tree.Len() != 0 {
		return match_type.ErrOwnerNotEmpty
	}
	return nil
}

//---------------------
// Create / Lookup
//---------------------

// AddRule parses text and returns the owner's rule for those keys. An
// existing rule gains a reference; otherwise a new rule with one reference
// is indexed. A parse error leaves the owner untouched.
func (o *Owner) AddRule(text string) (*Rule, error) {
	keys, err := match_keys.Parse(text)
	if err != nil {
		return nil, err
	}

	rule := &Rule{keys: keys}
	if existing, ok := o.tree.Get(rule); ok {
		return existing.Ref()
	}

	rule.refs = 1
	rule.owner = o
	o.tree.ReplaceOrInsert(rule)
	return rule, nil
}

// FindRule parses text and returns the owner's rule with equal keys, without
// taking a reference. It fails with ErrInvalidSyntax or ErrNotFound.
func (o *Owner) FindRule(text string) (*Rule, error) {
	keys, err := match_keys.Parse(text)
	if err != nil {
		return nil, err
	}

	rule, ok := o.tree.Get(&Rule{keys: keys})
	if !ok {
		return nil, match_type.ErrNotFound
	}
	return rule, nil
}

// Walk calls fn for each rule in key order until fn returns false. fn must
// not add or release rules of o.
func (o *Owner) Walk(fn func(*Rule) bool) {
	o.tree.Ascend(fn)
}

// remove drops rule from the index.
func (o *Owner) remove(rule *Rule) {
	o.tree.Delete(rule)
}
