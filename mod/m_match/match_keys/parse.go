package match_keys

import (
	"fmt"
	"strings"

	"github.com/rskv-p/busmatch/mod/m_match/match_lex"
	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Parsing
//---------------------

// Parse reads comma separated key=value pairs into Keys. Errors wrap
// match_type.ErrInvalidSyntax.
func Parse(text string) (Keys, error) {
	var k Keys

	// Output never outgrows the input, so the builder does not reallocate
	// and slices taken from b.String() stay valid while it grows.
	var b strings.Builder
	b.Grow(len(text))

	lex := match_lex.New(text)
	for {
		keyStart, valStart := b.Len(), -1

		c, ok := lex.Next()
		for ok && c == ' ' {
			c, ok = lex.Next()
		}

		for ok {
			if c == '=' && valStart < 0 && !lex.Quoted() {
				valStart = b.Len()
			} else {
				b.WriteByte(c)
			}
			c, ok = lex.Next()
		}

		buf := b.String()
		if valStart < 0 {
			return Keys{}, fmt.Errorf("%w: missing '=' in %q", match_type.ErrInvalidSyntax, buf[keyStart:])
		}
		if err := k.assign(buf[keyStart:valStart], buf[valStart:]); err != nil {
			return Keys{}, err
		}

		if lex.Done() {
			break
		}
	}

	k.buf = b.String()
	return k, nil
}

// assign stores one key/value pair.
func (k *Keys) assign(key, value string) error {
	v := match_str.Of(value)

	switch key {
	case "type":
		t, ok := match_type.ParseMessageType(value)
		if !ok {
			return fmt.Errorf("%w: unknown type %q", match_type.ErrInvalidSyntax, value)
		}
		k.Filter.Type = t
	case "sender":
		k.Filter.Sender = v
	case "destination":
		k.Filter.Destination = v
	case "interface":
		k.Filter.Interface = v
	case "member":
		k.Filter.Member = v
	case "path":
		k.Filter.Path = v
	case "path_namespace":
		k.PathNamespace = v
	case "eavesdrop":
		switch value {
		case "true":
			k.Eavesdrop = true
		case "false":
			k.Eavesdrop = false
		default:
			return fmt.Errorf("%w: eavesdrop=%q", match_type.ErrInvalidSyntax, value)
		}
	case "arg0namespace":
		k.Arg0Namespace = v
	default:
		return k.assignArg(key, v)
	}
	return nil
}

// assignArg handles argN and argNpath, N being one or two decimal digits.
func (k *Keys) assignArg(key string, v match_str.Str) error {
	rest, ok := strings.CutPrefix(key, "arg")
	if !ok {
		return fmt.Errorf("%w: unknown key %q", match_type.ErrInvalidSyntax, key)
	}

	n, i := 0, 0
	for ; i < len(rest) && i < 2 && rest[i] >= '0' && rest[i] <= '9'; i++ {
		n = n*10 + int(rest[i]-'0')
	}
	if i == 0 || n >= match_type.NArgs {
		return fmt.Errorf("%w: bad argument key %q", match_type.ErrInvalidSyntax, key)
	}

	switch rest[i:] {
	case "":
		k.Filter.Args[n] = v
	case "path":
		k.Filter.ArgPaths[n] = v
	default:
		return fmt.Errorf("%w: bad argument key %q", match_type.ErrInvalidSyntax, key)
	}
	return nil
}
