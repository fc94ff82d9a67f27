package injection

import (
	"fmt"
	"strings"
)

// EscapeScriptString escapes text for embedding inside a quoted string
// literal in an inline <script> block. Quotes, backslashes and control
// characters are escaped, and any "</" becomes "<\/" so a value containing
// "</script>" cannot terminate the surrounding script tag.
func EscapeScriptString(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	prev := rune(0)
	for _, r := range text {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '\'':
			b.WriteString(`\'`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '/' && prev == '<':
			b.WriteString(`\/`)
		case r < 0x20, r == '\u2028', r == '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}
