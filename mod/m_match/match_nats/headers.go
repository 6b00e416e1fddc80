package match_nats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

// Envelope headers. Names are case-sensitive on the wire.
const (
	HeaderType        = "Bus-Type"
	HeaderSender      = "Bus-Sender"
	HeaderDestination = "Bus-Destination"
	HeaderInterface   = "Bus-Interface"
	HeaderMember      = "Bus-Member"
	HeaderPath        = "Bus-Path"
	HeaderArg         = "Bus-Arg"     // + decimal index
	HeaderArgPath     = "Bus-ArgPath" // + decimal index

	HeaderPeer  = "Bus-Peer"
	HeaderError = "Bus-Error"
)

// ErrBadEnvelope is returned for messages whose headers do not describe a
// valid filter.
var ErrBadEnvelope = errors.New("bad message envelope")

//---------------------
// Decode
//---------------------

// DecodeFilter reads the routing fields of a message from its headers.
// Bus-Type is required; absent fields stay null.
func DecodeFilter(h nats.Header) (*match_type.Filter, error) {
	if h == nil {
		return nil, fmt.Errorf("%w: no headers", ErrBadEnvelope)
	}

	var f match_type.Filter

	t, ok := match_type.ParseMessageType(h.Get(HeaderType))
	if !ok {
		return nil, fmt.Errorf("%w: %s=%q", ErrBadEnvelope, HeaderType, h.Get(HeaderType))
	}
	f.Type = t

	f.Sender = header(h, HeaderSender)
	f.Destination = header(h, HeaderDestination)
	f.Interface = header(h, HeaderInterface)
	f.Member = header(h, HeaderMember)
	f.Path = header(h, HeaderPath)

	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		// Bus-ArgPath shares the Bus-Arg prefix, so test it first.
		if rest, ok := strings.CutPrefix(key, HeaderArgPath); ok {
			n, err := argIndex(key, rest)
			if err != nil {
				return nil, err
			}
			f.ArgPaths[n] = match_str.Of(values[0])
			continue
		}
		if rest, ok := strings.CutPrefix(key, HeaderArg); ok {
			n, err := argIndex(key, rest)
			if err != nil {
				return nil, err
			}
			f.Args[n] = match_str.Of(values[0])
		}
	}

	return &f, nil
}

// header returns the first value of key, or null when absent.
func header(h nats.Header, key string) match_str.Str {
	if values, ok := h[key]; ok && len(values) > 0 {
		return match_str.Of(values[0])
	}
	return match_str.Null
}

// argIndex parses the index suffix of an argument header.
func argIndex(key, digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 || n >= match_type.NArgs {
		return 0, fmt.Errorf("%w: header %q", ErrBadEnvelope, key)
	}
	return n, nil
}

//---------------------
// Encode
//---------------------

// EncodeFilter writes the set fields of f as envelope headers.
func EncodeFilter(f *match_type.Filter) nats.Header {
	h := nats.Header{}
	h.Set(HeaderType, f.Type.String())

	set := func(key string, v match_str.Str) {
		if v.IsSet() {
			h.Set(key, v.Value())
		}
	}
	set(HeaderSender, f.Sender)
	set(HeaderDestination, f.Destination)
	set(HeaderInterface, f.Interface)
	set(HeaderMember, f.Member)
	set(HeaderPath, f.Path)

	for i := 0; i < match_type.NArgs; i++ {
		set(HeaderArg+strconv.Itoa(i), f.Args[i])
		set(HeaderArgPath+strconv.Itoa(i), f.ArgPaths[i])
	}
	return h
}
