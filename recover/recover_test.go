package recover_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	recoverpkg "github.com/rskv-p/busmatch/recover"
)

// capture installs a panic hook for the duration of the test.
func capture(t *testing.T) *[]string {
	labels := &[]string{}
	recoverpkg.OnPanic = func(label string, _ any) {
		*labels = append(*labels, label)
	}
	t.Cleanup(func() { recoverpkg.OnPanic = nil })
	return labels
}

// TestSafe logs and swallows a panic.
func TestSafe(t *testing.T) {
	labels := capture(t)
	var buf bytes.Buffer

	recoverpkg.Safe(zerolog.New(&buf), "my-safe", func() {
		panic("in safe")
	})

	assert.Equal(t, []string{"my-safe"}, *labels)
	assert.Contains(t, buf.String(), `"label":"my-safe"`)
	assert.Contains(t, buf.String(), `"panic":"in safe"`)
	assert.Contains(t, buf.String(), "stack")
}

// TestSafe_NoPanic runs fn without logging.
func TestSafe_NoPanic(t *testing.T) {
	labels := capture(t)
	var buf bytes.Buffer
	called := false

	recoverpkg.Safe(zerolog.New(&buf), "quiet", func() { called = true })

	assert.True(t, called)
	assert.Empty(t, *labels)
	assert.Empty(t, buf.String())
}

// TestSafeErr_WithPanic returns the panic as an error.
func TestSafeErr_WithPanic(t *testing.T) {
	capture(t)
	err := recoverpkg.SafeErr(zerolog.Nop(), "with-panic", func() error {
		panic("boom")
	})
	assert.EqualError(t, err, "panic recovered in with-panic: boom")
}

// TestSafeErr_PassThrough keeps fn's own error.
func TestSafeErr_PassThrough(t *testing.T) {
	want := errors.New("plain")
	err := recoverpkg.SafeErr(zerolog.Nop(), "plain", func() error { return want })
	assert.ErrorIs(t, err, want)
}
