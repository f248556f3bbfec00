package rfc5322

const (
	localPartGroup = "local"
	domainGroup    = "domain"
)

// Length limits of RFC 5321 4.5.3.1 as amended by RFC 3696 errata 1690.
const (
	MaxAddressLength   = 254
	MaxLocalPartLength = 64
	MaxDomainLength    = 255
)

func (g *Grammar) buildAddrSpec() {
	local := "(?P<" + localPartGroup + ">" + g.LocalPart + ")"
	switch g.Dialect.LocalAddresses {
	case DomainForbidden:
		g.AddrSpec = local
	case DomainOptional:
		g.AddrSpec = local + optional(group("@(?P<"+domainGroup+">"+g.Domain+")"))
	default:
		// addr-spec = local-part "@" domain
		g.AddrSpec = local + "@(?P<" + domainGroup + ">" + g.Domain + ")"
	}
}

// Anchored returns the addr-spec production anchored to the whole input.
func (g *Grammar) Anchored() string {
	return `^` + group(g.AddrSpec) + `$`
}
