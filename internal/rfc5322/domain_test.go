package rfc5322

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostnameLabel(t *testing.T) {
	t.Parallel()
	g := NewGrammar(DefaultDialect())
	assertMatches(t, g.HostnameLabel, []matchCase{
		{"a", true},
		{"a1", true},
		{"a-b", true},
		{"1", true},
		{"xn--bcher-kva", true},
		{strings.Repeat("a", 63), true},
		{strings.Repeat("a", 64), false},
		{"-a", false},
		{"a-", false},
		{"a_b", false},
		{"", false},
		{"bücher", false},
	})
}

func TestDomain(t *testing.T) {
	t.Parallel()

	t.Run("default", func(t *testing.T) {
		g := NewGrammar(DefaultDialect())
		assertMatches(t, g.Domain, []matchCase{
			{"example.com", true},
			{"com", true},
			{"[127.0.0.1]", true},
			{" example.com (c)", true},
			{"a.(c)b", true},
			{"a (c). b", true},
			{"a..b", false},
			{".a", false},
			{"a.", false},
			{"ex ample.com", false},
			{"example.com(", false},
		})
	})

	t.Run("no separate labels", func(t *testing.T) {
		d := DefaultDialect()
		d.SeparateDomainLabels = false
		g := NewGrammar(d)
		assert.Equal(t, "", g.ObsDomain)
		assertMatches(t, g.Domain, []matchCase{
			{" example.com (c)", true},
			{"a.(c)b", false},
		})
	})

	t.Run("forbidden", func(t *testing.T) {
		d := DefaultDialect()
		d.LocalAddresses = DomainForbidden
		g := NewGrammar(d)
		assert.Equal(t, "", g.Domain)
		assert.Equal(t, "", g.HostnameLabel)
	})
}
