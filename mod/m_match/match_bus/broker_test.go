package match_bus_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

// newBroker returns a broker with the given peers registered.
func newBroker(t *testing.T, opts match_bus.Options, peers ...string) *match_bus.Broker {
	t.Helper()
	b := match_bus.NewBroker(opts, zerolog.Nop())
	for _, id := range peers {
		require.NoError(t, b.AddPeer(id))
	}
	return b
}

// signal builds a broadcast signal filter.
func signal(sender, iface, member string) *match_type.Filter {
	f := &match_type.Filter{
		Type:      match_type.TypeSignal,
		Interface: match_str.Of(iface),
		Member:    match_str.Of(member),
		Path:      match_str.Of("/org/foo"),
	}
	if sender != "" {
		f.Sender = match_str.Of(sender)
	}
	return f
}

//---------------------
// Peers
//---------------------

// TestBroker_AddPeer rejects duplicate ids.
func TestBroker_AddPeer(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "b", "a")

	assert.ErrorIs(t, b.AddPeer("a"), match_bus.ErrPeerExists)
	assert.Equal(t, []string{"a", "b"}, b.Peers())
}

// TestBroker_UnknownPeer fails every per-peer call.
func TestBroker_UnknownPeer(t *testing.T) {
	b := newBroker(t, match_bus.Options{})

	assert.ErrorIs(t, b.AddMatch("x", "member=Foo"), match_bus.ErrPeerUnknown)
	assert.ErrorIs(t, b.RemoveMatch("x", "member=Foo"), match_bus.ErrPeerUnknown)
	assert.ErrorIs(t, b.RemovePeer("x"), match_bus.ErrPeerUnknown)
	_, err := b.Matches("x")
	assert.ErrorIs(t, err, match_bus.ErrPeerUnknown)
}

// TestBroker_RemovePeer releases all of the peer's references.
func TestBroker_RemovePeer(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "a", "b")

	require.NoError(t, b.AddMatch("a", "member=Foo"))
	require.NoError(t, b.AddMatch("a", "member=Foo"))
	require.NoError(t, b.AddMatch("a", "sender=org.svc,member=Foo"))
	require.NoError(t, b.AddMatch("b", "member=Foo"))

	require.NoError(t, b.RemovePeer("a"))

	s := b.Stats()
	assert.Equal(t, 1, s.Peers)
	assert.Equal(t, 1, s.Rules)
	assert.Equal(t, 1, s.References)
	assert.Equal(t, 1, s.Registries)

	assert.Equal(t, []string{"b"}, b.Dispatch(signal("org.svc", "org.foo", "Foo")))
}

//---------------------
// Matches
//---------------------

// TestBroker_AddMatch dedups equivalent rules per peer.
func TestBroker_AddMatch(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "a")

	require.NoError(t, b.AddMatch("a", "type=signal,member=Foo"))
	require.NoError(t, b.AddMatch("a", "member='Foo',type='signal'"))

	got, err := b.Matches("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"type='signal',member='Foo'"}, got)

	s := b.Stats()
	assert.Equal(t, 1, s.Rules)
	assert.Equal(t, 2, s.References)
}

// TestBroker_AddMatch_Invalid returns the parse error.
func TestBroker_AddMatch_Invalid(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "a")

	err := b.AddMatch("a", "arg100=x")
	assert.ErrorIs(t, err, match_type.ErrInvalidSyntax)
	assert.Equal(t, 0, b.Stats().References)
}

// TestBroker_Quota counts references, not distinct rules.
func TestBroker_Quota(t *testing.T) {
	b := newBroker(t, match_bus.Options{MaxMatchesPerPeer: 2}, "a")

	require.NoError(t, b.AddMatch("a", "member=Foo"))
	require.NoError(t, b.AddMatch("a", "member=Foo"))
	assert.ErrorIs(t, b.AddMatch("a", "member=Bar"), match_bus.ErrQuotaExceeded)

	require.NoError(t, b.RemoveMatch("a", "member=Foo"))
	assert.NoError(t, b.AddMatch("a", "member=Bar"))
}

// TestBroker_RemoveMatch releases one reference at a time.
func TestBroker_RemoveMatch(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "a")
	f := signal("", "org.foo", "Foo")

	require.NoError(t, b.AddMatch("a", "member=Foo"))
	require.NoError(t, b.AddMatch("a", "member=Foo"))

	require.NoError(t, b.RemoveMatch("a", "member='Foo'"))
	assert.Equal(t, []string{"a"}, b.Dispatch(f))

	require.NoError(t, b.RemoveMatch("a", "member=Foo"))
	assert.Empty(t, b.Dispatch(f))

	assert.ErrorIs(t, b.RemoveMatch("a", "member=Foo"), match_type.ErrNotFound)
	assert.ErrorIs(t, b.RemoveMatch("a", "bogus"), match_type.ErrInvalidSyntax)
}

// TestBroker_RemoveMatch_DropsSenderRegistry forgets empty sender scopes.
func TestBroker_RemoveMatch_DropsSenderRegistry(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "a")

	require.NoError(t, b.AddMatch("a", "sender=org.svc"))
	assert.Equal(t, 2, b.Stats().Registries)

	require.NoError(t, b.RemoveMatch("a", "sender=org.svc"))
	assert.Equal(t, 1, b.Stats().Registries)
}

//---------------------
// Dispatch
//---------------------

// TestBroker_Dispatch returns each matching peer once.
func TestBroker_Dispatch(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "a", "b", "c")

	require.NoError(t, b.AddMatch("c", "interface=org.foo"))
	require.NoError(t, b.AddMatch("a", "member=Foo"))
	require.NoError(t, b.AddMatch("a", "type=signal"))
	require.NoError(t, b.AddMatch("b", "member=Bar"))

	assert.Equal(t, []string{"c", "a"}, b.Dispatch(signal("", "org.foo", "Foo")))

	s := b.Stats()
	assert.Equal(t, uint64(1), s.Dispatched)
	assert.Equal(t, uint64(2), s.Delivered)
}

// TestBroker_Dispatch_Sender scopes rules by sender.
func TestBroker_Dispatch_Sender(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "a", "b")

	require.NoError(t, b.AddMatch("b", "member=Foo"))
	require.NoError(t, b.AddMatch("a", "sender=org.svc,member=Foo"))

	assert.Equal(t, []string{"a", "b"}, b.Dispatch(signal("org.svc", "org.foo", "Foo")))
	assert.Equal(t, []string{"b"}, b.Dispatch(signal("org.other", "org.foo", "Foo")))
	assert.Equal(t, []string{"b"}, b.Dispatch(signal("", "org.foo", "Foo")))
}

// TestBroker_Dispatch_Eavesdrop hides unicast traffic from normal rules.
func TestBroker_Dispatch_Eavesdrop(t *testing.T) {
	b := newBroker(t, match_bus.Options{}, "a", "spy")

	require.NoError(t, b.AddMatch("a", "member=Foo"))
	require.NoError(t, b.AddMatch("spy", "member=Foo,eavesdrop=true"))

	f := signal("", "org.foo", "Foo")
	f.Destination = match_str.Of(":1.7")
	assert.Equal(t, []string{"spy"}, b.Dispatch(f))
}

// TestErrorName maps wrapped errors to D-Bus names.
func TestErrorName(t *testing.T) {
	cases := map[error]string{
		match_type.ErrInvalidSyntax:                     match_bus.ErrNameMatchRuleInvalid,
		fmt.Errorf("x: %w", match_type.ErrNotFound):     match_bus.ErrNameMatchRuleNotFound,
		fmt.Errorf("x: %w", match_bus.ErrQuotaExceeded): match_bus.ErrNameLimitsExceeded,
		match_bus.ErrPeerUnknown:                        match_bus.ErrNameInvalidArgs,
		errors.New("other"):                             match_bus.ErrNameFailed,
	}
	for err, want := range cases {
		assert.Equal(t, want, match_bus.ErrorName(err), err.Error())
	}
}
