// Package match_nats carries bus traffic and match-rule control requests
// over NATS and routes each message through a match_bus.Broker.
package match_nats

import (
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nuid"
	"github.com/rs/zerolog"

	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
	"github.com/rskv-p/busmatch/recover"
)

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "bus"

// Reply payload of a successful control request.
const replyOK = "ok"

//---------------------
// Subjects
//---------------------

// Subjects derives every subject the bridge uses from one prefix.
type Subjects struct {
	Prefix string
}

func (s Subjects) join(parts ...string) string {
	return s.Prefix + "." + strings.Join(parts, ".")
}

// Msg is where bus messages are published.
func (s Subjects) Msg() string { return s.join("msg") }

// Peer is where a peer receives its matched messages.
func (s Subjects) Peer(id string) string { return s.join("peer", id) }

// Ctl is a control request subject.
func (s Subjects) Ctl(op string) string { return s.join("ctl", op) }

// Control operations.
const (
	OpHello       = "hello"
	OpBye         = "bye"
	OpAddMatch    = "add_match"
	OpRemoveMatch = "remove_match"
)

//---------------------
// Bridge
//---------------------

// Bridge subscribes to the bus subjects on a NATS connection.
type Bridge struct {
	nc       *nats.Conn
	broker   *match_bus.Broker
	subjects Subjects
	log      zerolog.Logger
	subs     []*nats.Subscription
}

// NewBridge wires broker to nc under prefix. An empty prefix means
// DefaultPrefix.
func NewBridge(nc *nats.Conn, broker *match_bus.Broker, prefix string, log zerolog.Logger) *Bridge {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Bridge{
		nc:       nc,
		broker:   broker,
		subjects: Subjects{Prefix: prefix},
		log:      log,
	}
}

// ctlHandler serves one control request. A returned error, including a
// recovered panic, is sent back as an error reply.
type ctlHandler func(m *nats.Msg) error

// Start subscribes to the message and control subjects.
func (b *Bridge) Start() error {
	msg := b.subjects.Msg()
	if err := b.subscribe(msg, func(m *nats.Msg) {
		recover.Safe(b.log, msg, func() { b.onMessage(m) })
	}); err != nil {
		return err
	}

	controls := map[string]ctlHandler{
		OpHello:       b.onHello,
		OpBye:         b.onBye,
		OpAddMatch:    b.onAddMatch,
		OpRemoveMatch: b.onRemoveMatch,
	}
	for op, h := range controls {
		subject, handler := b.subjects.Ctl(op), h
		if err := b.subscribe(subject, func(m *nats.Msg) {
			if err := recover.SafeErr(b.log, subject, func() error { return handler(m) }); err != nil {
				b.fail(m, err)
			}
		}); err != nil {
			return err
		}
	}

	// Subscriptions must reach the server before Start returns.
	if err := b.nc.Flush(); err != nil {
		_ = b.Close()
		return err
	}

	b.log.Info().Str("prefix", b.subjects.Prefix).Msg("bridge started")
	return nil
}

func (b *Bridge) subscribe(subject string, cb nats.MsgHandler) error {
	sub, err := b.nc.Subscribe(subject, cb)
	if err != nil {
		_ = b.Close()
		return err
	}
	b.subs = append(b.subs, sub)
	return nil
}

// Close drops every subscription.
func (b *Bridge) Close() error {
	var errs []error
	for _, sub := range b.subs {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			errs = append(errs, err)
		}
	}
	b.subs = nil
	return errors.Join(errs...)
}

//---------------------
// Messages
//---------------------

// onMessage forwards a bus message to every matching peer.
func (b *Bridge) onMessage(m *nats.Msg) {
	f, err := DecodeFilter(m.Header)
	if err != nil {
		b.log.Warn().Err(err).Msg("dropping message")
		return
	}

	ids := b.broker.Dispatch(f)
	for _, id := range ids {
		out := &nats.Msg{
			Subject: b.subjects.Peer(id),
			Reply:   m.Reply,
			Header:  m.Header,
			Data:    m.Data,
		}
		if err := b.nc.PublishMsg(out); err != nil {
			b.log.Error().Err(err).Str("peer", id).Msg("deliver failed")
		}
	}

	b.log.Debug().
		Str("type", f.Type.String()).
		Str("sender", f.Sender.Value()).
		Str("member", f.Member.Value()).
		Int("peers", len(ids)).
		Msg("dispatched")
}

//---------------------
// Control
//---------------------

// onHello allocates a peer id.
func (b *Bridge) onHello(m *nats.Msg) error {
	id := nuid.Next()
	if err := b.broker.AddPeer(id); err != nil {
		return err
	}
	b.respond(m, id, nats.Header{HeaderPeer: []string{id}})
	b.log.Info().Str("peer", id).Msg("hello")
	return nil
}

// onBye forgets a peer and all its rules.
func (b *Bridge) onBye(m *nats.Msg) error {
	id := m.Header.Get(HeaderPeer)
	if err := b.broker.RemovePeer(id); err != nil {
		return err
	}
	b.respond(m, replyOK, nil)
	b.log.Info().Str("peer", id).Msg("bye")
	return nil
}

func (b *Bridge) onAddMatch(m *nats.Msg) error {
	if err := b.broker.AddMatch(m.Header.Get(HeaderPeer), string(m.Data)); err != nil {
		return err
	}
	b.respond(m, replyOK, nil)
	return nil
}

func (b *Bridge) onRemoveMatch(m *nats.Msg) error {
	if err := b.broker.RemoveMatch(m.Header.Get(HeaderPeer), string(m.Data)); err != nil {
		return err
	}
	b.respond(m, replyOK, nil)
	return nil
}

// respond answers a control request.
func (b *Bridge) respond(m *nats.Msg, data string, h nats.Header) {
	if m.Reply == "" {
		return
	}
	if err := m.RespondMsg(&nats.Msg{Header: h, Data: []byte(data)}); err != nil {
		b.log.Error().Err(err).Str("subject", m.Subject).Msg("failed to respond")
	}
}

// fail answers a control request with a D-Bus error name.
func (b *Bridge) fail(m *nats.Msg, err error) {
	name := match_bus.ErrorName(err)
	b.log.Warn().Err(err).Str("subject", m.Subject).Str("error", name).Msg("control request failed")
	b.respond(m, err.Error(), nats.Header{HeaderError: []string{name}})
}
