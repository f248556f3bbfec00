/*
Package addrspec checks whether a string is an RFC 5322 addr-spec.

The grammar is assembled from the productions of RFC 5322 section 3.4.1,
together with the obsolete syntax of section 4 and the relaxations of RFC 5321
and RFC 3696, each switchable by an option. Comments nest up to a configurable
depth; their balance is confirmed by a separate scan.

The validator only looks at the format. It does not resolve domains, talk to
mail servers or normalize addresses.
*/
package addrspec

import (
	"log/slog"

	"github.com/moriyoshi/addrspec/internal/logging"
	"github.com/moriyoshi/addrspec/internal/rfc5322"
)

// Pattern is a compiled addr-spec grammar, reusable across validations.
type Pattern = rfc5322.Pattern

// Result is the outcome of a validation. Pattern is only set when the
// configuration asks for the regex to be returned, in which case Valid is
// the verdict of the pattern alone.
type Result struct {
	Valid   bool
	Pattern *Pattern
}

// Validator validates addresses against one resolved configuration.
// It is safe for concurrent use.
type Validator struct {
	config  Config
	pattern *Pattern
	logger  *slog.Logger
}

// New resolves options and prepares the grammar.
func New(options ...OptionFunc) (*Validator, error) {
	in, err := NewInput(options...)
	if err != nil {
		return nil, err
	}
	return NewFromInput(in)
}

func NewFromInput(in Input) (*Validator, error) {
	config, err := Resolve(in)
	if err != nil {
		return nil, err
	}
	pattern, err := patterns.get(config.dialect())
	if err != nil {
		return nil, err
	}
	return &Validator{
		config:  config,
		pattern: pattern,
		logger:  logging.OrDiscard(in.Logger),
	}, nil
}

func (v *Validator) Config() Config {
	return v.config
}

func (v *Validator) Pattern() *Pattern {
	return v.pattern
}

// Validate reports whether address is well-formed.
func (v *Validator) Validate(address string) bool {
	if !v.pattern.MatchString(address) {
		v.logger.Debug("rejected by grammar", slog.String("address", address))
		return false
	}
	if v.config.AllowComments && !v.config.UseRegexOnly {
		if !rfc5322.CheckCommentNesting(address, v.config.AllowLocalAddresses) {
			v.logger.Debug("rejected by comment nesting", slog.String("address", address))
			return false
		}
	}
	return true
}

func (v *Validator) Check(address string) Result {
	r := Result{Valid: v.Validate(address)}
	if v.config.ReturnRegex {
		r.Pattern = v.pattern
	}
	return r
}

// Validate checks a single address under the given options.
func Validate(address string, options ...OptionFunc) (Result, error) {
	v, err := New(options...)
	if err != nil {
		return Result{}, err
	}
	return v.Check(address), nil
}

// IsValid is Validate reduced to a boolean; a configuration error counts as invalid.
func IsValid(address string, options ...OptionFunc) bool {
	r, err := Validate(address, options...)
	return err == nil && r.Valid
}

// Compile returns the compiled grammar for the given options.
func Compile(options ...OptionFunc) (*Pattern, error) {
	v, err := New(append(options[:len(options):len(options)], WithReturnRegex(true))...)
	if err != nil {
		return nil, err
	}
	return v.Pattern(), nil
}
