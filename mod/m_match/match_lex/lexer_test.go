package match_lex_test

import (
	"testing"

	"github.com/rskv-p/busmatch/mod/m_match/match_lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//---------------------
// Helpers
//---------------------

// values drains the lexer and returns every logical value it produced.
func values(src string) []string {
	l := match_lex.New(src)
	var out []string
	var cur []byte
	for {
		c, ok := l.Next()
		if ok {
			cur = append(cur, c)
			continue
		}
		out = append(out, string(cur))
		cur = cur[:0]
		if l.Done() {
			return out
		}
	}
}

//---------------------
// Quoting
//---------------------

// TestLexer_QuotedComma keeps commas inside quotes.
func TestLexer_QuotedComma(t *testing.T) {
	assert.Equal(t, []string{"a,b"}, values("'a,b'"))
}

// TestLexer_EscapedApostrophe collapses \' outside quotes.
func TestLexer_EscapedApostrophe(t *testing.T) {
	assert.Equal(t, []string{"a'b"}, values(`a\'b`))
}

// TestLexer_BackslashComma keeps the backslash and still splits at the comma.
func TestLexer_BackslashComma(t *testing.T) {
	assert.Equal(t, []string{`a\`, "b"}, values(`a\,b`))
}

// TestLexer_BackslashInsideQuotes is literal, and the quote still closes.
func TestLexer_BackslashInsideQuotes(t *testing.T) {
	assert.Equal(t, []string{`a\`, "b"}, values(`'a\',b`))
}

// TestLexer_AdjacentQuotes toggles state without emitting anything.
func TestLexer_AdjacentQuotes(t *testing.T) {
	assert.Equal(t, []string{"ab"}, values("a''b"))
	assert.Equal(t, []string{"a,b"}, values("'a'',''b'"))
}

// TestLexer_PairSplit splits at unquoted commas only.
func TestLexer_PairSplit(t *testing.T) {
	assert.Equal(t, []string{"type=signal", "member=Foo"}, values("type='signal',member='Foo'"))
}

// TestLexer_QuotedState reports the state of the last character.
func TestLexer_QuotedState(t *testing.T) {
	l := match_lex.New("a'b'")

	c, ok := l.Next()
	require.True(t, ok)
	assert.Equal(t, byte('a'), c)
	assert.False(t, l.Quoted())

	c, ok = l.Next()
	require.True(t, ok)
	assert.Equal(t, byte('b'), c)
	assert.True(t, l.Quoted())

	_, ok = l.Next()
	assert.False(t, ok)
	assert.True(t, l.Done())
}

// TestLexer_Empty returns end-of-value immediately.
func TestLexer_Empty(t *testing.T) {
	l := match_lex.New("")
	_, ok := l.Next()
	assert.False(t, ok)
	assert.True(t, l.Done())
}
