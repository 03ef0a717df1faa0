package domain

import (
	"strings"
)

var invisibleReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\u00a0", " ",
	"\u200b", "",
)

// NormalizeText canonicalizes article text before any span is computed:
//   - CRLF and CR become LF
//   - non-breaking spaces become spaces, zero-width spaces are removed
//   - runs of spaces and tabs collapse to one space; line breaks are kept
//   - leading and trailing whitespace is trimmed
//
// Invalid UTF-8 is replaced with U+FFFD so that every span slices cleanly.
// Spans are offsets into the returned string. NormalizeText is idempotent.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToValidUTF8(text, "\ufffd")
	text = invisibleReplacer.Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	prevBlank := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ' ' || c == '\t' {
			if !prevBlank {
				b.WriteByte(' ')
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}
