package main

/*
#include <stdlib.h>
#include "shelter.h"
*/
import "C"

import (
	"strings"
	"sync/atomic"
	"unsafe"

	"github.com/ph1losof/shelter.nvim/pkg/document"
)

// liveAllocs is the balance of C-heap allocations made and released by this
// library. It exists so leak tests can assert that repeated parse/free cycles
// return to zero; it is not part of the boundary contract.
var liveAllocs atomic.Int64

// cMalloc allocates n bytes on the C heap, tracking the allocation. Returns
// nil on allocation failure.
func cMalloc(n C.size_t) unsafe.Pointer {
	p := C.malloc(n)
	if p != nil {
		liveAllocs.Add(1)
	}
	return p
}

// cFree releases a tracked C-heap allocation. No-op on nil.
func cFree(p unsafe.Pointer) {
	if p != nil {
		liveAllocs.Add(-1)
		C.free(p)
	}
}

// cString copies s onto the C heap as a NUL-terminated string. Returns nil on
// allocation failure. The caller must ensure s has no interior NUL.
func cString(s string) *C.char {
	p := cMalloc(C.size_t(len(s) + 1))
	if p == nil {
		return nil
	}
	buf := unsafe.Slice((*byte)(p), len(s)+1)
	copy(buf, s)
	buf[len(s)] = 0
	return (*C.char)(p)
}

// goString copies a C string back into Go. Used by in-process tests and debug
// paths; the host runtime reads the pointer directly.
func goString(p *C.char) string {
	if p == nil {
		return ""
	}
	return C.GoString(p)
}

// errResult builds an error-state result carrying only a diagnostic message.
// Exactly one of {entries, error} is ever populated.
func errResult(msg string) *C.shelter_result_t {
	r := (*C.shelter_result_t)(cMalloc(C.sizeof_shelter_result_t))
	if r == nil {
		return nil
	}
	r.entries = nil
	r.count = 0
	r.line_offsets = nil
	r.line_count = 0
	r.error = cString(msg)
	return r
}

// okResult moves a parsed document into a single caller-owned C container:
// one entry array, one line-offset array, no error. Zero entries is a valid
// state and leaves the entries pointer NULL. Returns nil only on allocation
// failure, releasing everything allocated so far.
func okResult(doc document.Document) *C.shelter_result_t {
	r := (*C.shelter_result_t)(cMalloc(C.sizeof_shelter_result_t))
	if r == nil {
		return nil
	}
	r.entries = nil
	r.count = 0
	r.line_offsets = nil
	r.line_count = 0
	r.error = nil

	if n := len(doc.Entries); n > 0 {
		arr := (*C.shelter_entry_t)(cMalloc(C.size_t(n) * C.sizeof_shelter_entry_t))
		if arr == nil {
			freeResult(r)
			return nil
		}
		r.entries = arr
		r.count = C.size_t(n)
		entries := unsafe.Slice(arr, n)
		for i, e := range doc.Entries {
			entries[i] = cEntry(e)
		}
	}

	// The index always holds at least offset 0.
	n := len(doc.LineStarts)
	offs := (*C.size_t)(cMalloc(C.size_t(n) * C.sizeof_size_t))
	if offs == nil {
		freeResult(r)
		return nil
	}
	r.line_offsets = offs
	r.line_count = C.size_t(n)
	starts := unsafe.Slice(offs, n)
	for i, s := range doc.LineStarts {
		starts[i] = C.size_t(s)
	}

	return r
}

// cEntry copies one entry into its fixed-layout C representation. A string
// with an interior NUL cannot cross the boundary and degrades to empty.
func cEntry(e document.Entry) C.shelter_entry_t {
	key := e.Key
	if strings.IndexByte(key, 0) >= 0 {
		key = ""
	}
	value := e.Value
	if strings.IndexByte(value, 0) >= 0 {
		value = ""
	}

	var out C.shelter_entry_t
	out.key = cString(key)
	out.key_len = C.size_t(len(key))
	out.value = cString(value)
	out.value_len = C.size_t(len(value))

	if e.KeySpan != nil {
		out.key_start = C.size_t(e.KeySpan.Start)
		out.key_end = C.size_t(e.KeySpan.End)
	}
	if e.ValueSpan != nil {
		out.value_start = C.size_t(e.ValueSpan.Start)
		out.value_end = C.size_t(e.ValueSpan.End)
	}
	out.line_number = C.size_t(e.LineNumber)
	out.value_end_line = C.size_t(e.ValueEndLine)

	out.quote_type = C.uint8_t(e.Quote)
	out.is_exported = boolByte(e.Exported)
	out.is_comment = boolByte(e.Commented)
	return out
}

// freeResult releases everything transitively owned by a parse result,
// exactly once. Null or zero-length sub-buffers are valid terminal states
// and are skipped, never dereferenced.
func freeResult(r *C.shelter_result_t) {
	if r == nil {
		return
	}

	if r.entries != nil && r.count > 0 {
		entries := unsafe.Slice(r.entries, int(r.count))
		for i := range entries {
			cFree(unsafe.Pointer(entries[i].key))
			cFree(unsafe.Pointer(entries[i].value))
		}
		cFree(unsafe.Pointer(r.entries))
	}

	if r.line_offsets != nil && r.line_count > 0 {
		cFree(unsafe.Pointer(r.line_offsets))
	}

	cFree(unsafe.Pointer(r.error))
	cFree(unsafe.Pointer(r))
}

// maskedCString moves a masked value onto the C heap. A mask output with an
// interior NUL (possible only with a NUL mask character) yields the absence
// sentinel rather than a truncated string.
func maskedCString(masked string) *C.char {
	if strings.IndexByte(masked, 0) >= 0 {
		return nil
	}
	return cString(masked)
}

func boolByte(b bool) C.uint8_t {
	if b {
		return 1
	}
	return 0
}
