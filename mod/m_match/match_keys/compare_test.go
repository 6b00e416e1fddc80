package match_keys_test

import (
	"testing"

	"github.com/rskv-p/busmatch/mod/m_match/match_keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustParse parses text or fails the test.
func mustParse(t *testing.T, text string) *match_keys.Keys {
	t.Helper()
	k, err := match_keys.Parse(text)
	require.NoError(t, err, text)
	return &k
}

// TestCompare_Equivalent treats reordered and requoted rules as equal.
func TestCompare_Equivalent(t *testing.T) {
	a := mustParse(t, "type='signal',interface='org.foo',member='Bar'")
	b := mustParse(t, "member=Bar,interface=org.foo,type=signal")
	c := mustParse(t, "member='B''ar',interface=org'.'foo,type='sig'nal")

	assert.Equal(t, 0, match_keys.Compare(a, b))
	assert.Equal(t, 0, match_keys.Compare(b, c))
	assert.True(t, match_keys.Equal(a, c))
}

// TestCompare_Distinct separates keys that differ in any field.
func TestCompare_Distinct(t *testing.T) {
	pairs := [][2]string{
		{"arg0namespace=a", "arg0namespace=a.b"},
		{"member=Foo", "member=Foo,eavesdrop=true"},
		{"member=Foo", "member=Foo,type=signal"},
		{"arg3=x", "arg3path=x"},
		{"path=/a", "path_namespace=/a"},
		{"sender=a", "destination=a"},
		{"arg0=''", "member=Foo"},
	}
	for _, p := range pairs {
		a, b := mustParse(t, p[0]), mustParse(t, p[1])
		assert.NotEqual(t, 0, match_keys.Compare(a, b), "%s vs %s", p[0], p[1])
		assert.Equal(t, -match_keys.Compare(a, b), match_keys.Compare(b, a), "%s vs %s", p[0], p[1])
	}
}

// TestCompare_FieldOrder checks which field decides first.
func TestCompare_FieldOrder(t *testing.T) {
	// sender decides before member
	a := mustParse(t, "sender=a,member=z")
	b := mustParse(t, "sender=b,member=a")
	assert.Equal(t, -1, match_keys.Compare(a, b))

	// a null field sorts first
	assert.Equal(t, -1, match_keys.Compare(mustParse(t, "member=x"), mustParse(t, "sender=a")))

	// type is numeric: method_call(1) < signal(4)
	assert.Equal(t, -1, match_keys.Compare(mustParse(t, "type=method_call"), mustParse(t, "type=signal")))

	// eavesdrop false < true
	assert.Equal(t, -1, match_keys.Compare(mustParse(t, "eavesdrop=false"), mustParse(t, "eavesdrop=true")))

	// args before argpaths within a slot, lower slots first
	assert.Equal(t, 1, match_keys.Compare(mustParse(t, "arg0=a"), mustParse(t, "arg0path=a")))
	assert.Equal(t, 1, match_keys.Compare(mustParse(t, "arg0=a"), mustParse(t, "arg1=a")))
}

// TestCompare_TotalOrder checks antisymmetry and transitivity over a sample.
func TestCompare_TotalOrder(t *testing.T) {
	texts := []string{
		"member=Foo",
		"member=Bar",
		"type=signal",
		"type=error",
		"sender=a",
		"sender=a,member=Foo",
		"eavesdrop=true",
		"arg0=x",
		"arg0path=/x",
		"arg1=x",
		"path_namespace=/org",
		"arg0namespace=org",
		"interface=org.foo,member=Bar,type=signal",
	}
	keys := make([]*match_keys.Keys, len(texts))
	for i, text := range texts {
		keys[i] = mustParse(t, text)
	}

	for i := range keys {
		assert.Equal(t, 0, match_keys.Compare(keys[i], keys[i]))
		for j := range keys {
			ij := match_keys.Compare(keys[i], keys[j])
			ji := match_keys.Compare(keys[j], keys[i])
			assert.Equal(t, -ij, ji, "%s / %s", texts[i], texts[j])
			if i != j {
				assert.NotEqual(t, 0, ij, "%s / %s", texts[i], texts[j])
			}
			for k := range keys {
				jk := match_keys.Compare(keys[j], keys[k])
				if ij < 0 && jk < 0 {
					assert.Equal(t, -1, match_keys.Compare(keys[i], keys[k]))
				}
			}
		}
	}
}
