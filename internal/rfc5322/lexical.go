package rfc5322

import (
	"strings"
)

// Grammar holds the pattern source of every production for one Dialect.
// Productions the dialect leaves out are empty strings.
type Grammar struct {
	Dialect Dialect

	// Section 3.2.2 White space and Comments
	WSP        string
	FWS        string
	QuotedPair string
	CText      string
	Comment    string
	CFWS       string

	// Section 3.2.4 Quoted Strings
	QText        string
	QContent     string
	QuotedString string

	// Section 3.4.1 Addr-Spec Specification
	DText         string
	DContent      string
	DomainLiteral string

	Atext        string
	DotAtomText  string
	DotAtom      string
	Atom         string
	Word         string
	ObsLocalPart string
	LocalPart    string

	HostnameLabel string
	DomainDotAtom string
	ObsDomain     string
	Domain        string

	AddrSpec string
}

// NewGrammar builds every production of d, leaf first.
func NewGrammar(d Dialect) *Grammar {
	g := &Grammar{Dialect: d}
	g.buildWhitespace()
	g.buildQuotedPair()
	g.buildComment()
	g.buildQuotedString()
	g.buildDomainLiteral()
	g.buildLocalPart()
	g.buildDomain()
	g.buildAddrSpec()
	return g
}

func (g *Grammar) buildWhitespace() {
	g.WSP = class(wspBody)
	// FWS = ([*WSP CRLF] 1*WSP) / obs-FWS
	strict := group(optional(group(g.WSP+"*"+newline)) + g.WSP + "+")
	if g.Dialect.ObsoleteFoldingWhitespace {
		// obs-FWS = 1*WSP *(CRLF 1*WSP)
		obs := group(g.WSP + "+" + group(newline+g.WSP+"+") + "*")
		g.FWS = alternatives(strict, obs)
	} else {
		g.FWS = strict
	}
}

func (g *Grammar) buildQuotedPair() {
	if g.Dialect.EscapedControlCharacters {
		// obs-qp admits NUL, CR and LF too.
		g.QuotedPair = group(`\\(?s:.)`)
	} else {
		g.QuotedPair = group(`\\` + class(printableBody, wspBody, g.Dialect.utf8Body()))
	}
}

// commentLevel renders one level of comment = "(" *([FWS] ccontent) [FWS] ")"
// whose ccontent may hold the given nested comment.
func (g *Grammar) commentLevel(ctext, nested string) string {
	ccontent := alternatives(ctext, g.QuotedPair, nested)
	return group(`\(` + group(optional(g.FWS)+ccontent) + "*" + optional(g.FWS) + `\)`)
}

func (g *Grammar) buildComment() {
	d := g.Dialect
	ctl := when(d.ControlCharactersInComments, obsNoWsCtlBody)
	g.CText = class(ctextBody, ctl, d.utf8Body())

	if !d.Comments {
		// CFWS positions degrade to plain folding white space.
		g.CFWS = g.FWS
		return
	}

	// Comments nest at most commentNestingDepth levels deep; deeper ones do not match.
	comment := g.commentLevel(g.CText, "")
	for i := d.commentNestingDepth() - 1; i > 0; i-- {
		comment = g.commentLevel(g.CText, comment)
	}
	g.Comment = comment

	// CFWS = (1*([FWS] comment) [FWS]) / FWS
	g.CFWS = alternatives(
		group(optional(g.FWS)+g.Comment)+"+"+optional(g.FWS),
		g.FWS,
	)
}

func (g *Grammar) buildQuotedString() {
	d := g.Dialect
	g.QText = class(qtextBody, when(d.QuotedControlCharacters, obsNoWsCtlBody), d.utf8Body())
	g.QContent = alternatives(g.QText, g.QuotedPair)
	// quoted-string = [CFWS] DQUOTE *([FWS] qcontent) [FWS] DQUOTE [CFWS]
	g.QuotedString = wrapCFWS(
		g.CFWS,
		`"`+group(optional(g.FWS)+g.QContent)+"*"+optional(g.FWS)+`"`,
	)
}

func (g *Grammar) buildDomainLiteral() {
	d := g.Dialect
	if d.DomainLiteralEscapes {
		g.DText = class(dtextBody, obsNoWsCtlBody, d.utf8Body())
		g.DContent = alternatives(g.DText, g.QuotedPair)
	} else {
		g.DText = class(dtextBody, d.utf8Body())
		g.DContent = g.DText
	}
}

// repeatWithDots renders item *("." item).
func repeatWithDots(item string) string {
	var sb strings.Builder
	sb.WriteString(item)
	sb.WriteString(group(`\.` + item))
	sb.WriteString("*")
	return group(sb.String())
}
