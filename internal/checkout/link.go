package checkout

import (
	"net/url"
	"strings"
	"unicode"
)

const whatsAppBase = "https://wa.me/55"

// Link builds the wa.me deep link for number with the message prefilled.
// Non-digit characters in number are dropped.
func Link(number, message string) string {
	return whatsAppBase + digits(number) + "?text=" + encodeComponent(message)
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// encodeComponent escapes like a URI component: spaces become %20, not "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
