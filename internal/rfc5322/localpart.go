package rfc5322

func (g *Grammar) buildLocalPart() {
	d := g.Dialect

	atext := class(atextBody, d.utf8Body())
	if d.BareEscapes {
		// RFC 3696 lets a backslash escape characters outside quotes.
		g.Atext = alternatives(atext, g.QuotedPair)
	} else {
		g.Atext = atext
	}

	// dot-atom-text = 1*atext *("." 1*atext)
	g.DotAtomText = repeatWithDots(g.Atext + "+")
	// dot-atom = [CFWS] dot-atom-text [CFWS]
	g.DotAtom = wrapCFWS(g.CFWS, g.DotAtomText)
	// atom = [CFWS] 1*atext [CFWS]
	g.Atom = wrapCFWS(g.CFWS, g.Atext+"+")
	// word = atom / quoted-string
	g.Word = alternatives(g.Atom, g.QuotedString)

	if d.SeparateLocalLabels {
		// obs-local-part = word *("." word)
		g.ObsLocalPart = repeatWithDots(g.Word)
	}

	// local-part = dot-atom / quoted-string / obs-local-part
	g.LocalPart = alternatives(g.DotAtom, g.QuotedString, g.ObsLocalPart)
}
