package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// LSP positions are 0-based lines with UTF-16 code unit columns. The
// completion package works in byte offsets; these helpers translate.

// OffsetAt converts pos to a byte offset in text. A line past the end maps
// to len(text); a column past the end of its line maps to the line end.
func OffsetAt(text string, pos protocol.Position) int {
	start := lineStart(text, int(pos.Line))
	if start < 0 {
		return len(text)
	}

	want := int(pos.Character)
	units := 0
	for i, r := range text[start:] {
		if r == '\n' || units >= want {
			return start + i
		}
		units += utf16.RuneLen(r)
		if units > want {
			// Inside a surrogate pair: snap to the rune start.
			return start + i
		}
	}
	return len(text)
}

// PositionAt converts a byte offset in text to an LSP position. Offsets are
// clamped to the document; an offset inside a multi-byte rune maps to the
// rune's start.
func PositionAt(text string, offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	var line, col int
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if i+size > offset {
			break
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col += utf16.RuneLen(r)
		}
		i += size
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

// RangeOf converts the byte range [start, end) of text to an LSP range.
func RangeOf(text string, start, end int) protocol.Range {
	return protocol.Range{Start: PositionAt(text, start), End: PositionAt(text, end)}
}

// lineStart returns the byte offset where line n begins, or -1 when the
// text has fewer lines.
func lineStart(text string, n int) int {
	if n == 0 {
		return 0
	}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			n--
			if n == 0 {
				return i + 1
			}
		}
	}
	return -1
}
