package main

import (
	"errors"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/moriyoshi/addrspec/internal/expand"
)

// yamlLoader resolves flags from a YAML document. Top-level keys name global
// flags; a mapping under a command name holds that command's flags. String
// values may refer to the environment as ${env.NAME}.
func yamlLoader(r io.Reader) (kong.Resolver, error) {
	var doc yaml.Node
	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	values := map[string]interface{}{}
	if doc.Kind != 0 {
		expand.Node(&doc, expand.Env)
		if err := doc.Decode(&values); err != nil {
			return nil, err
		}
	}
	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		scope := values
		if parent != nil && parent.Command != nil {
			section, ok := values[parent.Command.Name].(map[string]interface{})
			if !ok {
				return nil, nil
			}
			scope = section
		}
		return lookupFlag(scope, flag.Name), nil
	}
	return f, nil
}

func lookupFlag(values map[string]interface{}, name string) interface{} {
	if v, ok := values[name]; ok {
		return v
	}
	if v, ok := values[strings.ReplaceAll(name, "-", "_")]; ok {
		return v
	}
	return nil
}
