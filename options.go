package addrspec

import (
	"fmt"
	"log/slog"

	"github.com/moriyoshi/addrspec/internal/logging"
	"github.com/moriyoshi/addrspec/internal/rfc5322"
)

type LocalAddressPolicy = rfc5322.LocalAddressPolicy

const (
	DomainForbidden = rfc5322.DomainForbidden
	DomainRequired  = rfc5322.DomainRequired
	DomainOptional  = rfc5322.DomainOptional
)

// Config is a fully resolved validator configuration.
type Config struct {
	AllowObsoleteFoldingWhitespace   bool
	AllowComments                    bool
	AllowControlCharactersInComments bool
	AllowDomainLiteralEscapes        bool
	AllowEscapedControlCharacters    bool
	AllowBareEscapes                 bool
	AllowQuotedControlCharacters     bool
	SeparateLocalLabels              bool
	SeparateDomainLabels             bool
	AllowLocalAddresses              LocalAddressPolicy
	UseRegexOnly                     bool
	ReturnRegex                      bool
	AllowUTF8                        bool
	CommentNestingDepth              int
}

// DefaultConfig returns the configuration used for every option left unset.
func DefaultConfig() Config {
	d := rfc5322.DefaultDialect()
	return Config{
		AllowObsoleteFoldingWhitespace:   d.ObsoleteFoldingWhitespace,
		AllowComments:                    d.Comments,
		AllowControlCharactersInComments: d.ControlCharactersInComments,
		AllowDomainLiteralEscapes:        d.DomainLiteralEscapes,
		AllowEscapedControlCharacters:    d.EscapedControlCharacters,
		AllowBareEscapes:                 d.BareEscapes,
		AllowQuotedControlCharacters:     d.QuotedControlCharacters,
		SeparateLocalLabels:              d.SeparateLocalLabels,
		SeparateDomainLabels:             d.SeparateDomainLabels,
		AllowLocalAddresses:              d.LocalAddresses,
		UseRegexOnly:                     false,
		ReturnRegex:                      false,
		AllowUTF8:                        d.UTF8,
		CommentNestingDepth:              d.CommentNestingDepth,
	}
}

func (c Config) dialect() rfc5322.Dialect {
	return rfc5322.Dialect{
		ObsoleteFoldingWhitespace:   c.AllowObsoleteFoldingWhitespace,
		Comments:                    c.AllowComments,
		ControlCharactersInComments: c.AllowControlCharactersInComments,
		DomainLiteralEscapes:        c.AllowDomainLiteralEscapes,
		EscapedControlCharacters:    c.AllowEscapedControlCharacters,
		BareEscapes:                 c.AllowBareEscapes,
		QuotedControlCharacters:     c.AllowQuotedControlCharacters,
		SeparateLocalLabels:         c.SeparateLocalLabels,
		SeparateDomainLabels:        c.SeparateDomainLabels,
		UTF8:                        c.AllowUTF8,
		LocalAddresses:              c.AllowLocalAddresses,
		CommentNestingDepth:         c.CommentNestingDepth,
	}
}

// Input is a partial configuration. A nil field takes its default.
type Input struct {
	AllowObsoleteFoldingWhitespace   *bool
	AllowComments                    *bool
	AllowControlCharactersInComments *bool
	AllowDomainLiteralEscapes        *bool
	AllowEscapedControlCharacters    *bool
	AllowBareEscapes                 *bool
	AllowQuotedControlCharacters     *bool
	SeparateLocalLabels              *bool
	SeparateDomainLabels             *bool
	AllowLocalAddresses              *int
	UseRegexOnly                     *bool
	ReturnRegex                      *bool
	AllowUTF8                        *bool
	CommentNestingDepth              *int

	// Strict makes contradicting options an error rather than a logged override.
	// Defaults to true.
	Strict *bool

	Logger *slog.Logger
}

type OptionFunc func(*Input) error

func boolOption(dst func(*Input) **bool, v bool) OptionFunc {
	return func(in *Input) error {
		*dst(in) = &v
		return nil
	}
}

func WithObsoleteFoldingWhitespace(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.AllowObsoleteFoldingWhitespace }, enabled)
}

func WithComments(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.AllowComments }, enabled)
}

func WithControlCharactersInComments(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.AllowControlCharactersInComments }, enabled)
}

func WithDomainLiteralEscapes(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.AllowDomainLiteralEscapes }, enabled)
}

func WithEscapedControlCharacters(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.AllowEscapedControlCharacters }, enabled)
}

func WithBareEscapes(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.AllowBareEscapes }, enabled)
}

func WithQuotedControlCharacters(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.AllowQuotedControlCharacters }, enabled)
}

func WithSeparateLocalLabels(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.SeparateLocalLabels }, enabled)
}

func WithSeparateDomainLabels(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.SeparateDomainLabels }, enabled)
}

// WithLocalAddresses takes the tri-state of allowLocalAddresses: 0 requires a
// domain, a positive value makes it optional and a negative one forbids it.
func WithLocalAddresses(v int) OptionFunc {
	return func(in *Input) error {
		in.AllowLocalAddresses = &v
		return nil
	}
}

func WithUseRegexOnly(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.UseRegexOnly }, enabled)
}

func WithReturnRegex(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.ReturnRegex }, enabled)
}

func WithUTF8(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.AllowUTF8 }, enabled)
}

func WithCommentNestingDepth(depth int) OptionFunc {
	return func(in *Input) error {
		in.CommentNestingDepth = &depth
		return nil
	}
}

func WithStrict(enabled bool) OptionFunc {
	return boolOption(func(in *Input) **bool { return &in.Strict }, enabled)
}

func WithLogger(logger *slog.Logger) OptionFunc {
	return func(in *Input) error {
		in.Logger = logger
		return nil
	}
}

// NewInput applies options to an empty Input.
func NewInput(options ...OptionFunc) (Input, error) {
	var in Input
	for _, option := range options {
		if err := option(&in); err != nil {
			return Input{}, err
		}
	}
	return in, nil
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Resolve fills the unset fields of in with defaults and settles conflicts.
func Resolve(in Input) (Config, error) {
	logger := logging.OrDiscard(in.Logger)
	c := DefaultConfig()
	setBool(&c.AllowObsoleteFoldingWhitespace, in.AllowObsoleteFoldingWhitespace)
	setBool(&c.AllowComments, in.AllowComments)
	setBool(&c.AllowControlCharactersInComments, in.AllowControlCharactersInComments)
	setBool(&c.AllowDomainLiteralEscapes, in.AllowDomainLiteralEscapes)
	setBool(&c.AllowEscapedControlCharacters, in.AllowEscapedControlCharacters)
	setBool(&c.AllowBareEscapes, in.AllowBareEscapes)
	setBool(&c.AllowQuotedControlCharacters, in.AllowQuotedControlCharacters)
	setBool(&c.SeparateLocalLabels, in.SeparateLocalLabels)
	setBool(&c.SeparateDomainLabels, in.SeparateDomainLabels)
	setBool(&c.UseRegexOnly, in.UseRegexOnly)
	setBool(&c.ReturnRegex, in.ReturnRegex)
	setBool(&c.AllowUTF8, in.AllowUTF8)
	if in.AllowLocalAddresses != nil {
		c.AllowLocalAddresses = rfc5322.NormalizeLocalAddressPolicy(*in.AllowLocalAddresses)
	}
	if in.CommentNestingDepth != nil {
		depth := *in.CommentNestingDepth
		if depth < 1 || depth > rfc5322.MaxCommentNestingDepth {
			return Config{}, &ConfigurationError{
				Option: "commentNestingDepth",
				Reason: fmt.Sprintf("must be between 1 and %d", rfc5322.MaxCommentNestingDepth),
			}
		}
		c.CommentNestingDepth = depth
	}
	strict := true
	setBool(&strict, in.Strict)

	if !c.AllowComments && c.AllowControlCharactersInComments {
		if in.AllowControlCharactersInComments != nil {
			logger.Debug("control characters in comments disabled along with comments")
		}
		c.AllowControlCharactersInComments = false
	}

	if c.ReturnRegex && !c.UseRegexOnly {
		if in.UseRegexOnly != nil {
			if strict {
				return Config{}, &ConfigurationError{
					Option: "useRegexOnly",
					Reason: "returnRegex requires useRegexOnly, but it is explicitly disabled",
				}
			}
			logger.Warn("returnRegex overrides explicitly disabled useRegexOnly")
		}
		c.UseRegexOnly = true
	}
	return c, nil
}
