package match_type

import (
	"fmt"

	"github.com/rskv-p/busmatch/mod/m_match/match_str"
)

// NArgs is the number of positional arguments a rule can test (arg0..arg63).
const NArgs = 64

//---------------------
// Message Type
//---------------------

// MessageType is the bus message type. The zero value matches any type when
// used in a rule.
type MessageType uint8

const (
	TypeInvalid MessageType = iota
	TypeMethodCall
	TypeMethodReturn
	TypeError
	TypeSignal
)

var typeNames = map[MessageType]string{
	TypeMethodCall:   "method_call",
	TypeMethodReturn: "method_return",
	TypeError:        "error",
	TypeSignal:       "signal",
}

// String returns the match-rule spelling of the type.
func (t MessageType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("invalid(%d)", uint8(t))
}

// ParseMessageType maps a match-rule spelling back to a MessageType.
func ParseMessageType(s string) (MessageType, bool) {
	for t, name := range typeNames {
		if name == s {
			return t, true
		}
	}
	return TypeInvalid, false
}

//---------------------
// Filter
//---------------------

// Filter holds the routing fields of one message, already decoded by the
// transport. Rules reuse the same shape for their exact-match keys.
type Filter struct {
	Type        MessageType
	Sender      match_str.Str
	Destination match_str.Str
	Interface   match_str.Str
	Member      match_str.Str
	Path        match_str.Str
	Args        [NArgs]match_str.Str
	ArgPaths    [NArgs]match_str.Str
}
