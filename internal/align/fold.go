package align

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

// foldFunc appends the folded form of r to dst.
type foldFunc func(dst []byte, r rune) []byte

var combiningMarks = runes.In(unicode.Mn)

func foldCase(dst []byte, r rune) []byte {
	return utf8.AppendRune(dst, unicode.ToLower(r))
}

// foldAccents lowercases r, decomposes it and drops nonspacing marks,
// so "É" becomes "e" and a bare U+0301 disappears.
func foldAccents(dst []byte, r rune) []byte {
	r = unicode.ToLower(r)
	if r < utf8.RuneSelf {
		return append(dst, byte(r))
	}
	var buf [utf8.UTFMax]byte
	decomposed := norm.NFD.Append(nil, buf[:utf8.EncodeRune(buf[:], r)]...)
	for len(decomposed) > 0 {
		d, size := utf8.DecodeRune(decomposed)
		decomposed = decomposed[size:]
		if combiningMarks.Contains(d) {
			continue
		}
		dst = utf8.AppendRune(dst, d)
	}
	return dst
}

// foldedText is a rune-by-rune folding of a source string. src[i] is the
// source byte offset of the rune that produced folded byte i; the final
// entry is len(source).
type foldedText struct {
	text string
	src  []int
}

func newFoldedText(s string, fold foldFunc) foldedText {
	buf := make([]byte, 0, len(s))
	src := make([]int, 0, len(s)+1)
	for i, r := range s {
		n := len(buf)
		buf = fold(buf, r)
		for j := n; j < len(buf); j++ {
			src = append(src, i)
		}
	}
	src = append(src, len(s))
	return foldedText{text: string(buf), src: src}
}

// sourceSpan maps the folded range [start, end) back onto the source. The end
// is widened to the end of the last matched source rune and over any following
// runes that folded to nothing, so a dropped accent stays inside the span.
func (f foldedText) sourceSpan(start, end int) (int, int) {
	last := f.src[end-1]
	k := end
	for k < len(f.text) && f.src[k] == last {
		k++
	}
	return f.src[start], f.src[k]
}

func foldString(s string, fold foldFunc) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		buf = fold(buf, r)
	}
	return string(buf)
}
