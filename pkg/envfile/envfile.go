// Package envfile tokenizes ".env"-style configuration text into a flat
// sequence of items: key/value assignments, standalone comments, and
// malformed regions. It does no filtering and attaches no line numbers —
// downstream consumers decide what to keep and resolve spans themselves.
//
// The grammar covers what editors actually encounter: `export` prefixes,
// unquoted values with inline comments, single-quoted literal values,
// double-quoted values with escape processing, multi-line quoted values, and
// commented-out assignments (`# KEY=value`), which are surfaced as pair items
// with Commented set so secrets in disabled lines can still be masked.
package envfile

// Kind tags a tokenized item.
type Kind uint8

const (
	// KindPair is a key/value assignment, possibly commented out.
	KindPair Kind = iota
	// KindComment is a standalone comment line.
	KindComment
	// KindError is a region the grammar could not parse. Malformed lines are
	// a continuous state while a user is typing, so errors are items, not
	// failures.
	KindError
)

// Quote records how an assignment's value was quoted in the source.
type Quote uint8

const (
	QuoteNone Quote = iota
	QuoteSingle
	QuoteDouble
)

// Span is a half-open [Start, End) byte-offset range into the source text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Item is one tokenized element of the source text, in source order.
type Item struct {
	Kind Kind

	// Pair fields. Key and Value hold the decoded text (quotes stripped,
	// double-quote escapes processed). Spans are nil when position tracking
	// is disabled; a value span of a quoted value includes the quotes, so a
	// multi-line value's span ends on its closing-quote line.
	Key       string
	Value     string
	KeySpan   *Span
	ValueSpan *Span
	Quote     Quote
	Exported  bool
	Commented bool

	// Text carries the comment body for KindComment and the raw source line
	// for KindError.
	Text string
}

// Options are the two tokenizer switches. Both are passed by value.
type Options struct {
	// IncludeComments emits standalone comment lines as KindComment items.
	// Commented-out assignments are always emitted as pairs regardless.
	IncludeComments bool
	// TrackPositions records byte spans on pair items.
	TrackPositions bool
}
