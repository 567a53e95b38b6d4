package main

// Test files cannot import "C", so these tests drive the Go-typed cores
// (parseResult, freeResult, maskedCString) and let the compiler infer the
// cgo types of the returned handles.

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ph1losof/shelter.nvim/pkg/masking"
)

func TestParseResult_Entries(t *testing.T) {
	r := parseResult("FOO=bar\nexport TOKEN=\"s3cret\"\n# comment\n", true, true)
	require.NotNil(t, r)
	defer freeResult(r)

	require.Nil(t, r.error)
	require.Equal(t, 2, int(r.count))

	entries := unsafe.Slice(r.entries, int(r.count))

	foo := entries[0]
	assert.Equal(t, "FOO", goString(foo.key))
	assert.Equal(t, 3, int(foo.key_len))
	assert.Equal(t, "bar", goString(foo.value))
	assert.Equal(t, 1, int(foo.line_number))
	assert.Equal(t, 1, int(foo.value_end_line))
	assert.Equal(t, 0, int(foo.quote_type))
	assert.Equal(t, 0, int(foo.is_exported))

	token := entries[1]
	assert.Equal(t, "TOKEN", goString(token.key))
	assert.Equal(t, "s3cret", goString(token.value))
	assert.Equal(t, 2, int(token.line_number))
	assert.Equal(t, 2, int(token.quote_type))
	assert.Equal(t, 1, int(token.is_exported))
	assert.Equal(t, 0, int(token.is_comment))

	// Three content lines plus the start recorded past the trailing newline.
	require.Equal(t, 4, int(r.line_count))
	offsets := unsafe.Slice(r.line_offsets, int(r.line_count))
	assert.Equal(t, 0, int(offsets[0]))
}

func TestParseResult_ZeroEntries(t *testing.T) {
	r := parseResult("# only a comment\n\n", true, true)
	require.NotNil(t, r)
	defer freeResult(r)

	// Zero entries is a valid terminal state: NULL array, zero count, no
	// error, and the line index still populated.
	assert.Nil(t, r.entries)
	assert.Equal(t, 0, int(r.count))
	assert.Nil(t, r.error)
	assert.GreaterOrEqual(t, int(r.line_count), 1)
}

func TestParseResult_EmptyInput(t *testing.T) {
	r := parseResult("", true, true)
	require.NotNil(t, r)
	defer freeResult(r)

	assert.Nil(t, r.entries)
	require.Equal(t, 1, int(r.line_count))
	offsets := unsafe.Slice(r.line_offsets, 1)
	assert.Equal(t, 0, int(offsets[0]))
}

func TestParseResult_InvalidUTF8(t *testing.T) {
	r := parseResult("FOO=\xff\xfe", true, true)
	require.NotNil(t, r, "invalid encoding yields an error-state result, not a null handle")
	defer freeResult(r)

	assert.Nil(t, r.entries)
	assert.Equal(t, 0, int(r.count))
	require.NotNil(t, r.error)
	assert.Contains(t, goString(r.error), "UTF-8")
}

func TestParseResult_NoPositionTracking(t *testing.T) {
	r := parseResult("FOO=bar", true, false)
	require.NotNil(t, r)
	defer freeResult(r)

	require.Equal(t, 1, int(r.count))
	e := unsafe.Slice(r.entries, 1)[0]
	assert.Equal(t, 0, int(e.key_start))
	assert.Equal(t, 0, int(e.key_end))
	assert.Equal(t, 0, int(e.line_number))
}

func TestFreeResult_NullHandle(t *testing.T) {
	freeResult(nil) // must not crash
}

// Repeated parse+free cycles must return the allocation balance to its
// starting point for 0, 1, and N entries — the single-owner protocol leaks
// nothing and frees nothing twice.
func TestLifecycle_NoLeaks(t *testing.T) {
	inputs := []string{
		"",
		"# comments only\n",
		"ONE=1\n",
		func() string {
			var s string
			for i := 0; i < 100; i++ {
				s += fmt.Sprintf("KEY_%d=value_%d\n", i, i)
			}
			return s
		}(),
		"FOO=\xff", // error path allocates too
	}

	for _, src := range inputs {
		before := liveAllocs.Load()
		for i := 0; i < 10; i++ {
			r := parseResult(src, true, true)
			require.NotNil(t, r)
			freeResult(r)
		}
		assert.Equal(t, before, liveAllocs.Load(), "allocation balance after cycles on %q", src)
	}
}

func TestMaskedString_Lifecycle(t *testing.T) {
	before := liveAllocs.Load()

	p := maskedCString(masking.Full("secret", '*'))
	require.NotNil(t, p)
	assert.Equal(t, "******", goString(p))
	shelter_free_string(p)

	assert.Equal(t, before, liveAllocs.Load())
}

func TestMaskedString_InteriorNUL(t *testing.T) {
	assert.Nil(t, maskedCString("a\x00b"))
}

func TestFreeString_NullHandle(t *testing.T) {
	shelter_free_string(nil) // must not crash
}

func TestVersion(t *testing.T) {
	p := shelter_version()
	require.NotNil(t, p)
	assert.Contains(t, goString(p), "shelter/")

	// Static string: same pointer every call, never tracked for release.
	assert.Same(t, p, shelter_version())
}
