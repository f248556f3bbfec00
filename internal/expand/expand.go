package expand

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ${name} or ${name:-fallback}
var re = regexp.MustCompile(`\$\{([a-zA-Z0-9_.-]+)(?::-([^}]*))?\}`)

type LookupFunc func(name string) (string, bool)

// Expand replaces every placeholder in v. An unknown name without a fallback
// expands to the empty string.
func Expand(v string, lookup LookupFunc) string {
	return re.ReplaceAllStringFunc(v, func(s string) string {
		m := re.FindStringSubmatch(s)
		if value, ok := lookup(m[1]); ok {
			return value
		}
		return m[2]
	})
}

const envPrefix = "env."

// Env resolves names of the form env.NAME from the process environment.
func Env(name string) (string, bool) {
	if !strings.HasPrefix(name, envPrefix) {
		return "", false
	}
	return os.LookupEnv(name[len(envPrefix):])
}

// Node expands the scalar values under n in place. Mapping keys are left alone.
func Node(n *yaml.Node, lookup LookupFunc) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!str" || n.Tag == "" {
			n.Value = Expand(n.Value, lookup)
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			Node(n.Content[i], lookup)
		}
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			Node(c, lookup)
		}
	case yaml.AliasNode:
		// the anchor is expanded where it is defined
	}
}
