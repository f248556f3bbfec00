package rfc5322

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDotAtomText(t *testing.T) {
	t.Parallel()
	g := NewGrammar(DefaultDialect())
	assertMatches(t, g.DotAtomText, []matchCase{
		{"abc", true},
		{"a.b.c", true},
		{"!#$%&'*+/=?^_`{|}~-", true},
		{"jöran", true},
		{".a", false},
		{"a.", false},
		{"a..b", false},
		{"", false},
		{"a b", false},
		{`a\b`, false},
	})
}

func TestLocalPart(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		alter    func(*Dialect)
		expected []matchCase
	}{
		{
			name:  "default",
			alter: func(*Dialect) {},
			expected: []matchCase{
				{"abc", true},
				{"a.b", true},
				{`"a b"`, true},
				{`""`, true},
				{`"a".b`, true},
				{`a."b"`, true},
				{" a (c) . b", true},
				{"(c)abc", true},
				{"a..b", false},
				{".a", false},
				{"a.", false},
				{"a b", false},
				{`a\ b`, false},
				{"", false},
			},
		},
		{
			name: "no separate labels",
			alter: func(d *Dialect) {
				d.SeparateLocalLabels = false
			},
			expected: []matchCase{
				{"a.b", true},
				{`"a b"`, true},
				{`"a".b`, false},
				{" a (c) . b", false},
			},
		},
		{
			name: "bare escapes",
			alter: func(d *Dialect) {
				d.BareEscapes = true
			},
			expected: []matchCase{
				{`a\ b`, true},
				{`a\@b`, true},
				{`a\`, false},
			},
		},
		{
			name: "ascii only",
			alter: func(d *Dialect) {
				d.UTF8 = false
			},
			expected: []matchCase{
				{"joran", true},
				{"jöran", false},
				{`"jöran"`, false},
			},
		},
		{
			name: "no comments",
			alter: func(d *Dialect) {
				d.Comments = false
			},
			expected: []matchCase{
				{" abc ", true},
				{"(c)abc", false},
			},
		},
	}
	for i, c := range cases {
		t.Run(fmt.Sprintf("#%d: %s", i, c.name), func(t *testing.T) {
			t.Parallel()
			d := DefaultDialect()
			c.alter(&d)
			g := NewGrammar(d)
			assertMatches(t, g.LocalPart, c.expected)
		})
	}
}

func TestObsLocalPartIsOmittedWithoutSeparateLabels(t *testing.T) {
	t.Parallel()
	d := DefaultDialect()
	d.SeparateLocalLabels = false
	g := NewGrammar(d)
	assert.Equal(t, "", g.ObsLocalPart)
	assert.NotEqual(t, "", g.Word)
}
