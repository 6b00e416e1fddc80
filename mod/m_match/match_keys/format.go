package match_keys

import (
	"strconv"
	"strings"

	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Canonical Text
//---------------------

// String renders k as rule text in a fixed key order with every value
// quoted. Unless k is empty, parsing the result yields Keys equal to k.
func (k *Keys) String() string {
	var b strings.Builder

	if k.Filter.Type != match_type.TypeInvalid {
		writePair(&b, "type", k.Filter.Type.String())
	}
	writeStr(&b, "sender", k.Filter.Sender)
	writeStr(&b, "destination", k.Filter.Destination)
	writeStr(&b, "interface", k.Filter.Interface)
	writeStr(&b, "member", k.Filter.Member)
	writeStr(&b, "path", k.Filter.Path)
	writeStr(&b, "path_namespace", k.PathNamespace)
	if k.Eavesdrop {
		writePair(&b, "eavesdrop", "true")
	}
	writeStr(&b, "arg0namespace", k.Arg0Namespace)
	for i := 0; i < match_type.NArgs; i++ {
		idx := strconv.Itoa(i)
		writeStr(&b, "arg"+idx, k.Filter.Args[i])
		writeStr(&b, "arg"+idx+"path", k.Filter.ArgPaths[i])
	}

	return b.String()
}

func writeStr(b *strings.Builder, key string, v match_str.Str) {
	if v.IsSet() {
		writePair(b, key, v.Value())
	}
}

// writePair appends key='value'. An apostrophe in the value closes the
// quotes, is written as \' and reopens them.
func writePair(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte(',')
	}
	b.WriteString(key)
	b.WriteString("='")
	for i := 0; i < len(value); i++ {
		if value[i] == '\'' {
			b.WriteString(`'\''`)
			continue
		}
		b.WriteByte(value[i])
	}
	b.WriteByte('\'')
}
