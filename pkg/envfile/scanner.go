package envfile

import "strings"

// Parse tokenizes src into items in source order. It never fails: regions the
// grammar cannot parse come back as KindError items and scanning resumes on
// the next line.
func Parse(src string, opts Options) []Item {
	p := &parser{src: src, opts: opts}
	// Heuristic pre-size: ~30 bytes per line, roughly half carrying items.
	items := make([]Item, 0, len(src)/60+4)
	for p.pos < len(p.src) {
		if item, ok := p.next(); ok {
			items = append(items, item)
		}
	}
	return items
}

type parser struct {
	src  string
	pos  int
	opts Options
}

// next consumes at least one line and reports the item it produced, if any.
// Blank lines and (when IncludeComments is off) comment lines produce none.
func (p *parser) next() (Item, bool) {
	lineStart := p.pos
	i := p.skipBlank(p.pos)

	if i >= len(p.src) || p.src[i] == '\n' || p.isCRLF(i) {
		p.pos = p.nextLine(i)
		return Item{}, false
	}

	if p.src[i] == '#' {
		return p.comment(i)
	}

	item, end, ok := p.assignment(i, true)
	if ok {
		if rest, clean := p.consumeTrailer(end); clean {
			p.pos = rest
			return p.emitPair(item), true
		}
	}

	// Malformed line. Recover on the next one.
	lineEnd := p.lineContentEnd(lineStart)
	p.pos = p.nextLine(lineEnd)
	return Item{Kind: KindError, Text: p.src[lineStart:lineEnd]}, true
}

// comment handles a line starting at the '#' at offset i. A comment whose
// body parses as an assignment is a commented-out pair; anything else is a
// standalone comment, emitted only when IncludeComments is set.
func (p *parser) comment(i int) (Item, bool) {
	body := p.skipBlank(i + 1)

	item, end, ok := p.assignment(body, false)
	if ok {
		if rest, clean := p.consumeTrailer(end); clean {
			p.pos = rest
			item.Commented = true
			return p.emitPair(item), true
		}
	}

	lineEnd := p.lineContentEnd(i)
	p.pos = p.nextLine(lineEnd)
	if !p.opts.IncludeComments {
		return Item{}, false
	}
	return Item{
		Kind: KindComment,
		Text: strings.TrimSpace(p.src[i+1 : lineEnd]),
	}, true
}

// assignment parses `[export] KEY = value` starting at offset i and returns
// the pair item plus the offset just past the value. multiline permits quoted
// values to span line terminators; it is off inside comments so a commented
// assignment can never swallow following lines.
func (p *parser) assignment(i int, multiline bool) (Item, int, bool) {
	src := p.src
	var item Item

	if strings.HasPrefix(src[i:], "export") {
		after := i + len("export")
		if after < len(src) && (src[after] == ' ' || src[after] == '\t') {
			item.Exported = true
			i = p.skipBlank(after)
		}
	}

	keyStart := i
	for i < len(src) && isKeyByte(src[i]) {
		i++
	}
	if i == keyStart {
		return Item{}, 0, false
	}
	item.Key = src[keyStart:i]
	item.KeySpan = &Span{Start: keyStart, End: i}

	i = p.skipBlank(i)
	if i >= len(src) || src[i] != '=' {
		return Item{}, 0, false
	}
	i = p.skipBlank(i + 1)

	var ok bool
	switch {
	case i < len(src) && src[i] == '"':
		item.Value, item.ValueSpan, i, ok = p.doubleQuoted(i, multiline)
		item.Quote = QuoteDouble
	case i < len(src) && src[i] == '\'':
		item.Value, item.ValueSpan, i, ok = p.singleQuoted(i, multiline)
		item.Quote = QuoteSingle
	default:
		item.Value, item.ValueSpan, i = p.unquoted(i)
		item.Quote = QuoteNone
		ok = true
	}
	if !ok {
		return Item{}, 0, false
	}
	return item, i, true
}

// doubleQuoted decodes a `"..."` value with escape processing, starting at
// the opening quote. The returned span includes both quotes.
func (p *parser) doubleQuoted(open int, multiline bool) (string, *Span, int, bool) {
	src := p.src
	var b strings.Builder
	i := open + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src):
			switch esc := src[i+1]; esc {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"', '\'', '\\':
				b.WriteByte(esc)
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
			i += 2
		case c == '"':
			return b.String(), &Span{Start: open, End: i + 1}, i + 1, true
		case c == '\n' && !multiline:
			return "", nil, 0, false
		default:
			b.WriteByte(c)
			i++
		}
	}
	// Unterminated quote: expected while the user is mid-edit.
	return "", nil, 0, false
}

// singleQuoted decodes a literal `'...'` value. No escape processing.
func (p *parser) singleQuoted(open int, multiline bool) (string, *Span, int, bool) {
	src := p.src
	for i := open + 1; i < len(src); i++ {
		switch {
		case src[i] == '\'':
			return src[open+1 : i], &Span{Start: open, End: i + 1}, i + 1, true
		case src[i] == '\n' && !multiline:
			return "", nil, 0, false
		}
	}
	return "", nil, 0, false
}

// unquoted reads a bare value up to the line terminator or an inline comment
// (`#` at the value start or preceded by whitespace), trimming trailing
// whitespace. An empty value is valid and yields a zero-length span.
func (p *parser) unquoted(start int) (string, *Span, int) {
	src := p.src
	i := start
	for i < len(src) && src[i] != '\n' {
		if src[i] == '#' && (i == start || src[i-1] == ' ' || src[i-1] == '\t') {
			break
		}
		i++
	}
	value := strings.TrimRight(src[start:i], " \t\r")
	return value, &Span{Start: start, End: start + len(value)}, i
}

// consumeTrailer skips whitespace and an optional inline comment after a
// value and reports whether the line ends cleanly. On success the returned
// offset is the start of the next line.
func (p *parser) consumeTrailer(i int) (int, bool) {
	i = p.skipBlank(i)
	if i < len(p.src) && p.src[i] == '#' {
		i = p.lineContentEnd(i)
	}
	if i >= len(p.src) || p.src[i] == '\n' || p.isCRLF(i) {
		return p.nextLine(i), true
	}
	return 0, false
}

func (p *parser) emitPair(item Item) Item {
	item.Kind = KindPair
	if !p.opts.TrackPositions {
		item.KeySpan = nil
		item.ValueSpan = nil
	}
	return item
}

// skipBlank advances past spaces and tabs.
func (p *parser) skipBlank(i int) int {
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	return i
}

// lineContentEnd returns the offset just past the last content byte of the
// line containing i, excluding the terminator and a preceding '\r'.
func (p *parser) lineContentEnd(i int) int {
	for i < len(p.src) && p.src[i] != '\n' {
		i++
	}
	if i > 0 && p.src[i-1] == '\r' {
		return i - 1
	}
	return i
}

// nextLine returns the offset of the first byte after the terminator of the
// line containing i.
func (p *parser) nextLine(i int) int {
	for i < len(p.src) && p.src[i] != '\n' {
		i++
	}
	if i < len(p.src) {
		i++
	}
	return i
}

// isCRLF reports whether offset i sits on the '\r' of a "\r\n" terminator.
func (p *parser) isCRLF(i int) bool {
	return i+1 < len(p.src) && p.src[i] == '\r' && p.src[i+1] == '\n'
}

// isKeyByte reports whether b may appear in an assignment key.
func isKeyByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '.':
		return true
	}
	return false
}
