// Package masking renders secret values as redacted strings for on-screen
// display. All transforms count and index by character (Unicode scalar
// value), never by byte, so multi-byte characters are masked or preserved
// atomically.
package masking

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaskChar is the mask character used when options leave it unset.
const DefaultMaskChar = '*'

// Mode selects the masking strategy applied by Value.
type Mode uint8

const (
	// ModeFull replaces every character of the value.
	ModeFull Mode = iota
	// ModePartial preserves a window at the start and end of the value.
	ModePartial
)

// Options parameterize Value. Passed by copy; the zero value plus
// DefaultOptions' MinMask is a sane full-mask configuration.
type Options struct {
	// MaskChar replaces masked characters. 0 means DefaultMaskChar.
	MaskChar rune
	// MaskLength forces a fixed output length in full mode. 0 means the
	// output keeps the value's natural character length.
	MaskLength int
	Mode       Mode
	// ShowStart and ShowEnd are the character counts revealed verbatim in
	// partial mode.
	ShowStart int
	ShowEnd   int
	// MinMask is the minimum number of masked characters partial mode must
	// produce before it reveals anything at all.
	MinMask int
}

// DefaultOptions returns full masking with '*' and a partial-mode floor of 3
// masked characters.
func DefaultOptions() Options {
	return Options{MaskChar: DefaultMaskChar, MinMask: 3}
}

// Full replaces every character of value with maskChar. The output has the
// same character count as the input.
func Full(value string, maskChar rune) string {
	return repeatMask(maskChar, utf8.RuneCountInString(value))
}

// Partial preserves the first showStart and last showEnd characters and masks
// everything between. When the windows overlap, exceed the value, or would
// leave fewer than minMask masked characters, the whole value is masked
// instead — short secrets must never leak through generous windows.
func Partial(value string, maskChar rune, showStart, showEnd, minMask int) string {
	runes := []rune(value)
	n := len(runes)

	if showStart < 0 {
		showStart = 0
	}
	if showEnd < 0 {
		showEnd = 0
	}

	masked := n - showStart - showEnd
	if showStart+showEnd >= n || masked < minMask {
		return repeatMask(maskChar, n)
	}

	var b strings.Builder
	b.Grow(len(value))
	b.WriteString(string(runes[:showStart]))
	b.WriteString(repeatMask(maskChar, masked))
	b.WriteString(string(runes[n-showEnd:]))
	return b.String()
}

// Fixed returns outputLen mask characters regardless of the value's length,
// hiding even the secret's size. outputLen 0 falls back to the value's own
// character length so callers can request "natural length" uniformly.
func Fixed(value string, maskChar rune, outputLen int) string {
	if outputLen <= 0 {
		outputLen = utf8.RuneCountInString(value)
	}
	return repeatMask(maskChar, outputLen)
}

// Value is the dispatching entry point: it reads opts.Mode and applies the
// matching primitive. Full mode with a nonzero MaskLength routes through
// Fixed.
func Value(value string, opts Options) string {
	maskChar := opts.MaskChar
	if maskChar == 0 {
		maskChar = DefaultMaskChar
	}

	switch opts.Mode {
	case ModePartial:
		return Partial(value, maskChar, opts.ShowStart, opts.ShowEnd, opts.MinMask)
	default:
		if opts.MaskLength > 0 {
			return Fixed(value, maskChar, opts.MaskLength)
		}
		return Full(value, maskChar)
	}
}

func repeatMask(maskChar rune, n int) string {
	if n <= 0 {
		return ""
	}
	if maskChar == 0 {
		maskChar = DefaultMaskChar
	}
	return strings.Repeat(string(maskChar), n)
}
