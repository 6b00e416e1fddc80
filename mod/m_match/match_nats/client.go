package match_nats

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

// DefaultTimeout bounds control requests.
const DefaultTimeout = 2 * time.Second

// RemoteError is a control request failure reported by the bridge.
type RemoteError struct {
	Name    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Is lets errors.Is compare a RemoteError with the local sentinel that
// produces the same D-Bus name.
func (e *RemoteError) Is(target error) bool {
	return e.Name != match_bus.ErrNameFailed && match_bus.ErrorName(target) == e.Name
}

//---------------------
// Client
//---------------------

// Client is one bus peer talking to a Bridge over NATS.
type Client struct {
	nc       *nats.Conn
	subjects Subjects
	timeout  time.Duration
	id       string
}

// Hello registers a new peer and returns its client.
func Hello(nc *nats.Conn, prefix string) (*Client, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	c := &Client{nc: nc, subjects: Subjects{Prefix: prefix}, timeout: DefaultTimeout}

	resp, err := c.request(OpHello, nil)
	if err != nil {
		return nil, err
	}
	c.id = resp.Header.Get(HeaderPeer)
	if c.id == "" {
		c.id = string(resp.Data)
	}
	return c, nil
}

// ID returns the peer id assigned by the bridge.
func (c *Client) ID() string { return c.id }

// Bye unregisters the peer.
func (c *Client) Bye() error {
	_, err := c.request(OpBye, nil)
	return err
}

// AddMatch adds a match rule for the peer.
func (c *Client) AddMatch(rule string) error {
	_, err := c.request(OpAddMatch, []byte(rule))
	return err
}

// RemoveMatch releases one reference to a match rule.
func (c *Client) RemoveMatch(rule string) error {
	_, err := c.request(OpRemoveMatch, []byte(rule))
	return err
}

// Subscribe delivers every message routed to the peer to cb.
func (c *Client) Subscribe(cb nats.MsgHandler) (*nats.Subscription, error) {
	return c.nc.Subscribe(c.subjects.Peer(c.id), cb)
}

// SubscribeSync returns a synchronous subscription for the peer's messages.
func (c *Client) SubscribeSync() (*nats.Subscription, error) {
	return c.nc.SubscribeSync(c.subjects.Peer(c.id))
}

// Publish sends a bus message described by f.
func (c *Client) Publish(f *match_type.Filter, data []byte) error {
	return Publish(c.nc, c.subjects.Prefix, f, data)
}

func (c *Client) request(op string, data []byte) (*nats.Msg, error) {
	msg := &nats.Msg{
		Subject: c.subjects.Ctl(op),
		Header:  nats.Header{},
		Data:    data,
	}
	if c.id != "" {
		msg.Header.Set(HeaderPeer, c.id)
	}

	resp, err := c.nc.RequestMsg(msg, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if name := resp.Header.Get(HeaderError); name != "" {
		return nil, &RemoteError{Name: name, Message: string(resp.Data)}
	}
	return resp, nil
}

// Publish sends a bus message described by f on nc.
func Publish(nc *nats.Conn, prefix string, f *match_type.Filter, data []byte) error {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return nc.PublishMsg(&nats.Msg{
		Subject: Subjects{Prefix: prefix}.Msg(),
		Header:  EncodeFilter(f),
		Data:    data,
	})
}
