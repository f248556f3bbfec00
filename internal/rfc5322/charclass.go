package rfc5322

import (
	"strings"
)

// Bracket-expression bodies. They are kept unbracketed so that classes can be
// unioned by concatenation.
const (
	wspBody = ` \t`

	// VCHAR (RFC 5234 Appendix B)
	printableBody = `\x21-\x7E`

	// obs-NO-WS-CTL (RFC 5322 4.1)
	obsNoWsCtlBody = `\x01-\x08\x0B\x0C\x0E-\x1F\x7F`

	// UTF8-non-ascii (RFC 6532 3.1); Pattern rejects invalid UTF-8 before matching.
	utf8NonASCIIBody = `\x{80}-\x{10FFFF}`

	// atext (RFC 5322 3.2.3), dot excluded.
	atextBody = "a-zA-Z0-9!#$%&'*+/=?^_`{|}~\\-"

	// printable minus "(", ")" and "\"
	ctextBody = `\x21-\x27\x2A-\x5B\x5D-\x7E`

	// printable minus `"` and "\"
	qtextBody = `\x21\x23-\x5B\x5D-\x7E`

	// printable minus "[", "]" and "\"
	dtextBody = `\x21-\x5A\x5E-\x7E`

	hostnameStartEndBody = `a-zA-Z0-9`
	hostnameInnerBody    = `a-zA-Z0-9\-`
)

const newline = `\r?\n`

func class(bodies ...string) string {
	return "[" + strings.Join(bodies, "") + "]"
}

func group(s string) string {
	return "(?:" + s + ")"
}

func optional(s string) string {
	return s + "?"
}

// alternatives joins the non-empty operands into a single group.
func alternatives(operands ...string) string {
	nonEmpty := make([]string, 0, len(operands))
	for _, o := range operands {
		if o != "" {
			nonEmpty = append(nonEmpty, o)
		}
	}
	return group(strings.Join(nonEmpty, "|"))
}

// wrapCFWS renders CFWS? center CFWS?, which lets CFWS appear on either side alone.
func wrapCFWS(cfws, center string) string {
	return group(optional(cfws) + center + optional(cfws))
}

func (d Dialect) utf8Body() string {
	if d.UTF8 {
		return utf8NonASCIIBody
	}
	return ""
}

// when returns body if enabled, otherwise nothing.
func when(enabled bool, body string) string {
	if enabled {
		return body
	}
	return ""
}
