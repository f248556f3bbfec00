package rfc5322

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Pattern is a compiled addr-spec grammar together with its length limits.
// It is immutable and safe for concurrent use.
type Pattern struct {
	re        *regexp.Regexp
	dialect   Dialect
	localIdx  int
	domainIdx int
}

// Compile builds and compiles the grammar for d.
func Compile(d Dialect) (*Pattern, error) {
	g := NewGrammar(d)
	re, err := regexp.Compile(g.Anchored())
	if err != nil {
		return nil, fmt.Errorf("failed to compile addr-spec grammar: %w", err)
	}
	p := &Pattern{
		re:        re,
		dialect:   d,
		localIdx:  re.SubexpIndex(localPartGroup),
		domainIdx: re.SubexpIndex(domainGroup),
	}
	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(d Dialect) *Pattern {
	p, err := Compile(d)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchString reports whether s is valid UTF-8 and an addr-spec of the dialect
// that also fits within the length limits, counted in characters.
func (p *Pattern) MatchString(s string) bool {
	return p.match(s) != nil
}

func (p *Pattern) match(s string) []int {
	if !utf8.ValidString(s) || utf8.RuneCountInString(s) > MaxAddressLength {
		return nil
	}
	m := p.re.FindStringSubmatchIndex(s)
	if m == nil {
		return nil
	}
	if l := p.submatch(s, m, p.localIdx); utf8.RuneCountInString(l) > MaxLocalPartLength {
		return nil
	}
	if d := p.submatch(s, m, p.domainIdx); utf8.RuneCountInString(d) > MaxDomainLength {
		return nil
	}
	return m
}

func (p *Pattern) submatch(s string, m []int, idx int) string {
	if idx < 0 || 2*idx+1 >= len(m) || m[2*idx] < 0 {
		return ""
	}
	return s[m[2*idx]:m[2*idx+1]]
}

// Split returns the local part and the domain of a matching s, the latter
// empty when absent. ok is false if s does not match.
func (p *Pattern) Split(s string) (localPart, domain string, ok bool) {
	m := p.match(s)
	if m == nil {
		return "", "", false
	}
	return p.submatch(s, m, p.localIdx), p.submatch(s, m, p.domainIdx), true
}

// Dialect returns the dialect the pattern was compiled from.
func (p *Pattern) Dialect() Dialect {
	return p.dialect
}

// Regexp returns the underlying expression. It does not enforce the length limits.
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// String returns the source of the anchored expression.
func (p *Pattern) String() string {
	return p.re.String()
}
