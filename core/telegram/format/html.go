package format

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes the characters Telegram's HTML parse mode treats as
// markup. User-supplied values must pass through this before interpolation
// into an HTML-formatted message.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// Bold wraps text in HTML bold tags without escaping it.
func Bold(text string) string {
	return "<b>" + text + "</b>"
}

// Code wraps text in HTML code tags without escaping it.
func Code(text string) string {
	return "<code>" + text + "</code>"
}
