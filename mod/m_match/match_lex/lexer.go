// Package match_lex turns raw match-rule text into a stream of logical
// characters with quoting and escaping resolved.
//
// Inside single quotes a backslash stands for itself and an apostrophe ends
// the quoted section. Outside quotes \' stands for an apostrophe and any
// other backslash stands for itself. Unquoted commas end a key/value pair.
package match_lex

//---------------------
// Lexer
//---------------------

// Lexer yields one logical character per call to Next.
type Lexer struct {
	src    string
	pos    int
	quoted bool
}

// New returns a lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Next returns the next logical character. ok is false at the end of a
// value: either an unquoted comma was consumed or the input is exhausted.
func (l *Lexer) Next() (c byte, ok bool) {
	for l.pos < len(l.src) && l.src[l.pos] == '\'' {
		l.pos++
		l.quoted = !l.quoted
	}

	if l.pos >= len(l.src) {
		return 0, false
	}

	c = l.src[l.pos]
	l.pos++

	switch c {
	case ',':
		if l.quoted {
			return ',', true
		}
		return 0, false
	case '\\':
		if !l.quoted && l.pos < len(l.src) && l.src[l.pos] == '\'' {
			l.pos++
			return '\'', true
		}
		return '\\', true
	default:
		return c, true
	}
}

// Quoted reports whether the last character returned by Next was inside
// single quotes.
func (l *Lexer) Quoted() bool { return l.quoted }

// Done reports whether the whole input has been consumed.
func (l *Lexer) Done() bool { return l.pos >= len(l.src) }
