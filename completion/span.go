package completion

import (
	"unicode"
	"unicode/utf8"

	"github.com/teranos/qualify/internal/util"
	"github.com/teranos/qualify/syntax"
)

// ResolveReplacementSpan returns the run of letters ending at caret. The
// span is empty when the caret is at the start of the text or follows a
// non-letter. Digits and underscores end the run. An out-of-range caret is
// clamped to the text.
func ResolveReplacementSpan(text string, caret int) syntax.Span {
	caret = util.Clamp(caret, 0, len(text))

	start := caret
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:start])
		if !unicode.IsLetter(r) {
			break
		}
		start -= size
	}
	return syntax.Span{Start: start, End: caret}
}
