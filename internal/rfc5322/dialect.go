package rfc5322

import (
	"fmt"
)

// LocalAddressPolicy tells whether the domain part of an addr-spec is
// required, optional or forbidden.
type LocalAddressPolicy int

const (
	DomainForbidden LocalAddressPolicy = -1
	DomainRequired  LocalAddressPolicy = 0
	DomainOptional  LocalAddressPolicy = 1
)

// NormalizeLocalAddressPolicy folds any integer onto the three policies by its sign.
func NormalizeLocalAddressPolicy(v int) LocalAddressPolicy {
	switch {
	case v > 0:
		return DomainOptional
	case v < 0:
		return DomainForbidden
	default:
		return DomainRequired
	}
}

func (p LocalAddressPolicy) String() string {
	switch p {
	case DomainForbidden:
		return "forbidden"
	case DomainRequired:
		return "required"
	case DomainOptional:
		return "optional"
	default:
		return fmt.Sprintf("LocalAddressPolicy(%d)", int(p))
	}
}

// DefaultCommentNestingDepth is the number of comment levels unrolled into the
// grammar. Comments nested deeper are rejected.
const DefaultCommentNestingDepth = 5

// MaxCommentNestingDepth caps the unrolling; every level lengthens each CFWS occurrence in the pattern.
const MaxCommentNestingDepth = 8

// Dialect selects the grammar productions. It is comparable and used as a cache key.
type Dialect struct {
	ObsoleteFoldingWhitespace   bool
	Comments                    bool
	ControlCharactersInComments bool
	DomainLiteralEscapes        bool
	EscapedControlCharacters    bool
	BareEscapes                 bool
	QuotedControlCharacters     bool
	SeparateLocalLabels         bool
	SeparateDomainLabels        bool
	UTF8                        bool
	LocalAddresses              LocalAddressPolicy
	CommentNestingDepth         int
}

func (d Dialect) commentNestingDepth() int {
	if d.CommentNestingDepth < 1 {
		return DefaultCommentNestingDepth
	}
	if d.CommentNestingDepth > MaxCommentNestingDepth {
		return MaxCommentNestingDepth
	}
	return d.CommentNestingDepth
}

// DefaultDialect is the most permissive grammar short of bare escapes.
func DefaultDialect() Dialect {
	return Dialect{
		ObsoleteFoldingWhitespace:   true,
		Comments:                    true,
		ControlCharactersInComments: true,
		DomainLiteralEscapes:        true,
		EscapedControlCharacters:    true,
		BareEscapes:                 false,
		QuotedControlCharacters:     true,
		SeparateLocalLabels:         true,
		SeparateDomainLabels:        true,
		UTF8:                        true,
		LocalAddresses:              DomainRequired,
		CommentNestingDepth:         DefaultCommentNestingDepth,
	}
}
