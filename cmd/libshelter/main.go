// Native core of the shelter editor plugin, built as a C shared library:
//
//	go build -buildmode=c-shared -o libshelter.so ./cmd/libshelter
//
// The host runtime calls the exported functions through its FFI and owns
// every returned allocation until it hands the handle back to the matching
// release function. No garbage collector exists on the caller's side, so all
// returned memory lives on the C heap — no Go pointer ever crosses the
// boundary.
//
// Caller contract: each handle is released exactly once, through the release
// function paired with the function that produced it. Double release and
// use-after-release are undefined behavior; the library cannot detect them
// once the handle has left its control.
package main

/*
#include <stdlib.h>
#include "shelter.h"
*/
import "C"

import (
	"unicode/utf8"
	"unsafe"

	"github.com/ph1losof/shelter.nvim/pkg/document"
	"github.com/ph1losof/shelter.nvim/pkg/envfile"
	"github.com/ph1losof/shelter.nvim/pkg/masking"
	"github.com/ph1losof/shelter.nvim/pkg/version"
)

// versionC lives for the whole process and is handed out by shelter_version.
// Deliberately untracked: the caller must never free it.
var versionC = C.CString(version.Full())

// shelter_parse tokenizes input and returns a caller-owned parse result.
// input is a buffer plus exact byte length; it is read, never retained.
// Invalid UTF-8 or a NULL input yields an error-state result, never a NULL
// handle. NULL is returned only when allocation itself fails.
//
// Release with shelter_free_result.
//
//export shelter_parse
func shelter_parse(input *C.char, inputLen C.size_t, options C.shelter_parse_options_t) *C.shelter_result_t {
	if input == nil {
		return errResult("input is null")
	}
	src := string(unsafe.Slice((*byte)(unsafe.Pointer(input)), int(inputLen)))
	return parseResult(src, options.include_comments != 0, options.track_positions != 0)
}

// parseResult is the Go-typed core of shelter_parse, shared with in-process
// tests.
func parseResult(src string, includeComments, trackPositions bool) *C.shelter_result_t {
	if !utf8.ValidString(src) {
		return errResult("input is not valid UTF-8")
	}
	doc := document.Parse(src, envfile.Options{
		IncludeComments: includeComments,
		TrackPositions:  trackPositions,
	})
	return okResult(doc)
}

// shelter_free_result destroys a parse result and everything it owns exactly
// once. No-op on NULL.
//
//export shelter_free_result
func shelter_free_result(result *C.shelter_result_t) {
	freeResult(result)
}

// shelter_mask_full masks every character of value. Returns NULL on NULL
// input, invalid UTF-8, or allocation failure. Release with
// shelter_free_string.
//
//export shelter_mask_full
func shelter_mask_full(value *C.char, valueLen C.size_t, maskChar C.char) *C.char {
	s, ok := goSecret(value, valueLen)
	if !ok {
		return nil
	}
	return maskedCString(masking.Full(s, maskRune(maskChar)))
}

// shelter_mask_partial keeps showStart/showEnd characters visible and masks
// the middle, falling back to a full mask when the windows would reveal too
// much. Release with shelter_free_string.
//
//export shelter_mask_partial
func shelter_mask_partial(value *C.char, valueLen C.size_t, maskChar C.char, showStart, showEnd, minMask C.size_t) *C.char {
	s, ok := goSecret(value, valueLen)
	if !ok {
		return nil
	}
	return maskedCString(masking.Partial(s, maskRune(maskChar),
		int(showStart), int(showEnd), int(minMask)))
}

// shelter_mask_fixed returns outputLen mask characters regardless of the
// value's length; outputLen 0 means the value's own character length.
// Release with shelter_free_string.
//
//export shelter_mask_fixed
func shelter_mask_fixed(value *C.char, valueLen C.size_t, maskChar C.char, outputLen C.size_t) *C.char {
	s, ok := goSecret(value, valueLen)
	if !ok {
		return nil
	}
	return maskedCString(masking.Fixed(s, maskRune(maskChar), int(outputLen)))
}

// shelter_mask_value dispatches on options.mode; this is the entry point
// callers use when the mode is configuration-driven. Release with
// shelter_free_string.
//
//export shelter_mask_value
func shelter_mask_value(value *C.char, valueLen C.size_t, options C.shelter_mask_options_t) *C.char {
	s, ok := goSecret(value, valueLen)
	if !ok {
		return nil
	}
	opts := masking.Options{
		MaskChar:   maskRune(options.mask_char),
		MaskLength: int(options.mask_length),
		ShowStart:  int(options.show_start),
		ShowEnd:    int(options.show_end),
		MinMask:    int(options.min_mask),
	}
	if options.mode == 1 {
		opts.Mode = masking.ModePartial
	}
	return maskedCString(masking.Value(s, opts))
}

// shelter_free_string releases a string returned by a masking function.
// No-op on NULL.
//
//export shelter_free_string
func shelter_free_string(str *C.char) {
	cFree(unsafe.Pointer(str))
}

// shelter_version returns the library version string. The pointer is static,
// valid for the process lifetime, and must not be freed.
//
//export shelter_version
func shelter_version() *C.char {
	return versionC
}

// goSecret copies a value buffer into Go, rejecting NULL input and invalid
// UTF-8 so masking never emits a partially-processed string.
func goSecret(value *C.char, valueLen C.size_t) (string, bool) {
	if value == nil {
		return "", false
	}
	s := string(unsafe.Slice((*byte)(unsafe.Pointer(value)), int(valueLen)))
	if !utf8.ValidString(s) {
		return "", false
	}
	return s, true
}

func maskRune(c C.char) rune {
	return rune(byte(c))
}

func main() {}
