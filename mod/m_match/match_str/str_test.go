package match_str_test

import (
	"testing"

	"github.com/rskv-p/busmatch/mod/m_match/match_str"
	"github.com/stretchr/testify/assert"
)

// TestCompare_NullOrdering checks that null sorts before every set value.
func TestCompare_NullOrdering(t *testing.T) {
	null := match_str.Null
	empty := match_str.Of("")
	a := match_str.Of("a")

	assert.Equal(t, 0, match_str.Compare(null, null))
	assert.Equal(t, -1, match_str.Compare(null, empty))
	assert.Equal(t, 1, match_str.Compare(empty, null))
	assert.Equal(t, -1, match_str.Compare(empty, a))
	assert.Equal(t, 1, match_str.Compare(match_str.Of("b"), a))
	assert.Equal(t, 0, match_str.Compare(a, match_str.Of("a")))
}

// TestEqual distinguishes null from the empty string.
func TestEqual(t *testing.T) {
	assert.True(t, match_str.Equal(match_str.Null, match_str.Str{}))
	assert.False(t, match_str.Equal(match_str.Null, match_str.Of("")))
	assert.True(t, match_str.Equal(match_str.Of("x"), match_str.Of("x")))
	assert.False(t, match_str.Equal(match_str.Of("x"), match_str.Of("y")))
}

// TestHasNamespace covers delimiter-bounded prefixes.
func TestHasNamespace(t *testing.T) {
	ns := match_str.Of("/org/foo")

	cases := []struct {
		value string
		want  bool
	}{
		{"/org/foo", true},
		{"/org/foo/bar", true},
		{"/org/foobar", false},
		{"/org", false},
		{"/other", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, match_str.HasNamespace(match_str.Of(c.value), ns, '/'), c.value)
	}

	assert.False(t, match_str.HasNamespace(match_str.Null, ns, '/'))
	assert.False(t, match_str.HasNamespace(ns, match_str.Null, '/'))
}

// TestHasNamespace_Dotted uses the bus-name delimiter.
func TestHasNamespace_Dotted(t *testing.T) {
	ns := match_str.Of("org.foo")

	assert.True(t, match_str.HasNamespace(match_str.Of("org.foo"), ns, '.'))
	assert.True(t, match_str.HasNamespace(match_str.Of("org.foo.Bar"), ns, '.'))
	assert.False(t, match_str.HasNamespace(match_str.Of("org.foobar"), ns, '.'))
	assert.False(t, match_str.HasNamespace(match_str.Of("org.foo/bar"), ns, '.'))
}

// TestHasNamespace_TrailingDelimiter needs the delimiter after the prefix,
// so a prefix ending in one only matches itself.
func TestHasNamespace_TrailingDelimiter(t *testing.T) {
	root := match_str.Of("/")

	assert.True(t, match_str.HasNamespace(match_str.Of("/"), root, '/'))
	assert.False(t, match_str.HasNamespace(match_str.Of("/org"), root, '/'))
	assert.False(t, match_str.HasNamespace(match_str.Of("/org/foo"), match_str.Of("/org/"), '/'))
	assert.True(t, match_str.HasNamespace(match_str.Of("/a/b/"), match_str.Of("/a/b/"), '/'))
	assert.True(t, match_str.HasNamespace(match_str.Of("/a/b//c"), match_str.Of("/a/b/"), '/'))
	assert.False(t, match_str.HasNamespace(match_str.Of("org.foo"), match_str.Of("org."), '.'))
}
