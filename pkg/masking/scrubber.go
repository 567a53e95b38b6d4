package masking

import (
	aho "github.com/petar-dambovaliev/aho-corasick"
)

// Scrubber masks every occurrence of a set of known secret values inside
// arbitrary text — buffer previews, terminal output, clipboard content.
// Matching uses Aho-Corasick so the cost is linear in the text regardless of
// how many secrets are registered. Immutable after creation, safe for
// concurrent use.
type Scrubber struct {
	matcher  aho.AhoCorasick
	maskChar rune
	active   bool
}

// NewScrubber builds a scrubber for the given secret values. Empty secrets
// are dropped; with no remaining secrets the scrubber passes text through
// unchanged. maskChar 0 means DefaultMaskChar.
func NewScrubber(secrets []string, maskChar rune) *Scrubber {
	if maskChar == 0 {
		maskChar = DefaultMaskChar
	}

	filtered := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			filtered = append(filtered, s)
		}
	}

	s := &Scrubber{maskChar: maskChar}
	if len(filtered) == 0 {
		return s
	}

	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		MatchKind: aho.LeftMostLongestMatch,
	})
	s.matcher = builder.Build(filtered)
	s.active = true
	return s
}

// Scrub returns text with every secret occurrence replaced by a full mask of
// the same character length, so surrounding layout is preserved.
func (s *Scrubber) Scrub(text string) string {
	if !s.active || text == "" {
		return text
	}

	matches := s.matcher.FindAll(text)
	if len(matches) == 0 {
		return text
	}

	var b []byte
	pos := 0
	for _, m := range matches {
		start, end := m.Start(), m.End()
		if start < pos {
			continue // overlapping match already covered
		}
		b = append(b, text[pos:start]...)
		b = append(b, Full(text[start:end], s.maskChar)...)
		pos = end
	}
	b = append(b, text[pos:]...)
	return string(b)
}
