// Package match_bus routes messages to peers through their match rules. It
// owns one rule index per peer and one registry per sender scope, and
// serializes every call into the match core behind a single mutex.
package match_bus

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rskv-p/busmatch/mod/m_match/match_rule"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

// Options tunes a Broker.
type Options struct {
	// MaxMatchesPerPeer caps the match references one peer may hold. Zero
	// means no limit.
	MaxMatchesPerPeer int
}

// peer is one connected subscriber.
type peer struct {
	id    string
	owner *match_rule.Owner
	refs  int
}

// Broker maps message filters to the peers whose rules accept them.
type Broker struct {
	mu   sync.Mutex
	opts Options
	log  zerolog.Logger

	peers   map[string]*peer
	byOwner map[*match_rule.Owner]*peer

	wildcard *match_rule.Registry
	senders  map[string]*match_rule.Registry

	dispatched uint64
	delivered  uint64
}

// NewBroker creates a broker without peers.
func NewBroker(opts Options, log zerolog.Logger) *Broker {
	return &Broker{
		opts:     opts,
		log:      log,
		peers:    make(map[string]*peer),
		byOwner:  make(map[*match_rule.Owner]*peer),
		wildcard: match_rule.NewRegistry(),
		senders:  make(map[string]*match_rule.Registry),
	}
}

//---------------------
// Peers
//---------------------

// AddPeer registers a peer with an empty rule set.
func (b *Broker) AddPeer(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.peers[id]; ok {
		return fmt.Errorf("%w: %s", ErrPeerExists, id)
	}
	p := &peer{id: id, owner: match_rule.NewOwner()}
	b.peers[id] = p
	b.byOwner[p.owner] = p

	b.log.Debug().Str("peer", id).Msg("peer added")
	return nil
}

// RemovePeer releases every reference the peer holds and forgets it.
func (b *Broker) RemovePeer(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.peers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPeerUnknown, id)
	}

	var rules []*match_rule.Rule
	p.owner.Walk(func(r *match_rule.Rule) bool {
		rules = append(rules, r)
		return true
	})
	for _, r := range rules {
		reg := r.Registry()
		for r.Refs() > 0 {
			if err := r.Unref(); err != nil {
				return err
			}
		}
		b.dropSender(reg)
	}
	p.refs = 0

	if err := p.owner.Close(); err != nil {
		return err
	}
	delete(b.peers, id)
	delete(b.byOwner, p.owner)

	b.log.Debug().Str("peer", id).Int("rules", len(rules)).Msg("peer removed")
	return nil
}

// Peers returns the registered peer ids in sorted order.
func (b *Broker) Peers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.peers))
	for id := range b.peers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

//---------------------
// Matches
//---------------------

// AddMatch adds a rule for the peer. A rule the peer already holds gains a
// reference; a new one is linked into the registry of its sender.
func (b *Broker) AddMatch(id, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.peers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPeerUnknown, id)
	}
	if max := b.opts.MaxMatchesPerPeer; max > 0 && p.refs >= max {
		return fmt.Errorf("%w: peer %s holds %d", ErrQuotaExceeded, id, p.refs)
	}

	rule, err := p.owner.AddRule(text)
	if err != nil {
		return err
	}
	p.refs++

	if rule.Refs() == 1 {
		if err := b.registryFor(rule).Link(rule); err != nil {
			return err
		}
	}

	b.log.Debug().Str("peer", id).Str("rule", rule.String()).Int("refs", rule.Refs()).Msg("match added")
	return nil
}

// RemoveMatch drops one reference to the peer's rule equal to text.
func (b *Broker) RemoveMatch(id, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.peers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPeerUnknown, id)
	}

	rule, err := p.owner.FindRule(text)
	if err != nil {
		return err
	}

	reg := rule.Registry()
	if err := rule.Unref(); err != nil {
		return err
	}
	p.refs--
	b.dropSender(reg)

	b.log.Debug().Str("peer", id).Str("rule", rule.String()).Int("refs", rule.Refs()).Msg("match removed")
	return nil
}

// Matches returns the canonical text of every rule the peer holds.
func (b *Broker) Matches(id string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.peers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPeerUnknown, id)
	}

	out := make([]string, 0, p.owner.Len())
	p.owner.Walk(func(r *match_rule.Rule) bool {
		out = append(out, r.String())
		return true
	})
	return out, nil
}

// registryFor returns the registry a new rule belongs to, creating a sender
// registry on first use.
func (b *Broker) registryFor(rule *match_rule.Rule) *match_rule.Registry {
	sender := rule.Keys().Filter.Sender
	if !sender.IsSet() {
		return b.wildcard
	}
	reg, ok := b.senders[sender.Value()]
	if !ok {
		reg = match_rule.NewRegistry()
		b.senders[sender.Value()] = reg
	}
	return reg
}

// dropSender forgets an emptied sender registry.
func (b *Broker) dropSender(reg *match_rule.Registry) {
	if reg == nil || reg == b.wildcard || reg.Len() != 0 {
		return
	}
	for name, r := range b.senders {
		if r == reg {
			delete(b.senders, name)
			return
		}
	}
}

//---------------------
// Dispatch
//---------------------

// Dispatch returns the ids of the peers with at least one rule matching f,
// in the order their first matching rule was found. Rules scoped to f's
// sender are consulted before unscoped ones.
func (b *Broker) Dispatch(f *match_type.Filter) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		ids  []string
		seen = make(map[*peer]struct{})
	)
	collect := func(reg *match_rule.Registry) {
		for r := reg.NextMatch(nil, f); r != nil; r = reg.NextMatch(r, f) {
			p := b.byOwner[r.Owner()]
			if p == nil {
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			ids = append(ids, p.id)
		}
	}

	if f.Sender.IsSet() {
		if reg, ok := b.senders[f.Sender.Value()]; ok {
			collect(reg)
		}
	}
	collect(b.wildcard)

	b.dispatched++
	b.delivered += uint64(len(ids))
	return ids
}

//---------------------
// Stats
//---------------------

// Stats is a snapshot of broker counters.
type Stats struct {
	Peers      int    `json:"peers"`
	Rules      int    `json:"rules"`
	References int    `json:"references"`
	Registries int    `json:"registries"`
	Dispatched uint64 `json:"dispatched"`
	Delivered  uint64 `json:"delivered"`
}

// Stats returns current counters.
func (b *Broker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := Stats{
		Peers:      len(b.peers),
		Registries: len(b.senders) + 1,
		Dispatched: b.dispatched,
		Delivered:  b.delivered,
	}
	for _, p := range b.peers {
		s.Rules += p.owner.Len()
		s.References += p.refs
	}
	return s
}
