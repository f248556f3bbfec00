package rfc5322

import (
	"unicode/utf8"
)

type nestingState int

const (
	outside nestingState = iota
	inQuotedString
	inDomainLiteral
	inComment
)

// stripQuotedPairs removes every backslash together with the character it
// escapes. An escaped character can never open or close a comment, a quoted
// string or a domain literal.
func stripQuotedPairs(s string) string {
	var b []byte
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			continue
		}
		if b == nil {
			b = make([]byte, 0, len(s))
		}
		b = append(b, s[last:i]...)
		_, n := utf8.DecodeRuneInString(s[i+1:])
		i += n
		last = i + 1
	}
	if b == nil {
		return s
	}
	return string(append(b, s[last:]...))
}

// CheckCommentNesting reports whether the parenthetical comments of s are
// balanced. Parentheses inside quoted strings and domain literals are not
// comment delimiters. With DomainRequired the address must also carry an "@"
// outside of any quoted string, domain literal or comment.
func CheckCommentNesting(s string, policy LocalAddressPolicy) bool {
	s = stripQuotedPairs(s)
	state := outside
	depth := 0
	seenBareAt := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case inQuotedString:
			if c == '"' {
				state = outside
			}
		case inDomainLiteral:
			if c == ']' {
				state = outside
			}
		case inComment:
			switch c {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					state = outside
				}
			}
		default:
			switch c {
			case '@':
				seenBareAt = true
			case '"':
				if !seenBareAt {
					state = inQuotedString
				}
			case '[':
				if seenBareAt {
					state = inDomainLiteral
				}
			case '(':
				depth++
				state = inComment
			case ')':
				// closing a comment that was never opened
				return false
			}
		}
	}
	if state == inComment || depth != 0 {
		return false
	}
	if policy == DomainRequired && !seenBareAt {
		return false
	}
	return true
}
