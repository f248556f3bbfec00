package rfc5322

func (g *Grammar) buildDomain() {
	d := g.Dialect
	if d.LocalAddresses == DomainForbidden {
		return
	}

	// A label is 1 to 63 characters long; letters, digits and inner dashes only.
	g.HostnameLabel = group(
		class(hostnameStartEndBody) +
			optional(group(class(hostnameInnerBody)+"{0,61}"+class(hostnameStartEndBody))),
	)

	g.DomainDotAtom = wrapCFWS(g.CFWS, repeatWithDots(g.HostnameLabel))

	// domain-literal = [CFWS] "[" *([FWS] dtext) [FWS] "]" [CFWS]
	g.DomainLiteral = wrapCFWS(
		g.CFWS,
		`\[`+group(optional(g.FWS)+g.DContent)+"*"+optional(g.FWS)+`\]`,
	)

	if d.SeparateDomainLabels {
		// obs-domain = atom *("." atom), with hostname labels as the atoms
		g.ObsDomain = repeatWithDots(wrapCFWS(g.CFWS, g.HostnameLabel))
	}

	// domain = dot-atom / domain-literal / obs-domain
	g.Domain = alternatives(g.DomainDotAtom, g.DomainLiteral, g.ObsDomain)
}
