// Package document turns tokenized env-file items into position-resolved
// entries. It is the adapter between the tokenizer and the boundary layer:
// comments and malformed regions are dropped here, and byte spans are
// resolved to 1-based line numbers through the line index.
package document

import (
	"github.com/ph1losof/shelter.nvim/pkg/envfile"
	"github.com/ph1losof/shelter.nvim/pkg/lineindex"
)

// Entry is one key/value occurrence in the source text, immutable after
// creation. LineNumber is 0 when the tokenizer recorded no key span.
type Entry struct {
	Key   string
	Value string

	// Half-open byte ranges into the original text; nil when position
	// tracking was disabled.
	KeySpan   *envfile.Span
	ValueSpan *envfile.Span

	// LineNumber is the 1-based line of the key. ValueEndLine is the 1-based
	// line holding the value's last byte; for multi-line values it is greater
	// than LineNumber, otherwise it equals it.
	LineNumber   int
	ValueEndLine int

	Quote     envfile.Quote
	Exported  bool
	Commented bool
}

// Document is a successful parse: entries in source order plus the line-start
// index, handed out together so callers can resolve their own offsets without
// rebuilding the index.
type Document struct {
	Entries    []Entry
	LineStarts []int
}

// Parse tokenizes src and adapts the result into a Document. It cannot fail:
// comment items and tokenizer-level errors are expected while a user is
// editing and are silently dropped, so the document always holds the valid
// subset of entries.
func Parse(src string, opts envfile.Options) Document {
	items := envfile.Parse(src, opts)
	starts := lineindex.Build(src)

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.Kind != envfile.KindPair {
			continue
		}
		entries = append(entries, adapt(item, starts))
	}

	return Document{Entries: entries, LineStarts: starts}
}

// adapt maps one pair item to an Entry, resolving spans to line numbers.
func adapt(item envfile.Item, starts []int) Entry {
	e := Entry{
		Key:       item.Key,
		Value:     item.Value,
		KeySpan:   item.KeySpan,
		ValueSpan: item.ValueSpan,
		Quote:     item.Quote,
		Exported:  item.Exported,
		Commented: item.Commented,
	}

	if item.KeySpan != nil {
		e.LineNumber = lineindex.Resolve(starts, item.KeySpan.Start)
	}

	// The value's last real byte is at End-1, so a span ending exactly on a
	// line boundary is attributed to the line it actually closes on, not the
	// following one.
	e.ValueEndLine = e.LineNumber
	if item.ValueSpan != nil && item.ValueSpan.End > 0 {
		end := item.ValueSpan.End - 1
		if end < item.ValueSpan.Start {
			end = item.ValueSpan.Start
		}
		e.ValueEndLine = lineindex.Resolve(starts, end)
	}

	return e
}
