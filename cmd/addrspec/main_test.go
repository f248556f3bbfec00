package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"

	"github.com/moriyoshi/addrspec"
	"github.com/moriyoshi/addrspec/internal/logging"
)

func parse(t *testing.T, args []string, options ...kong.Option) (*CLI, *kong.Context) {
	var cli CLI
	options = append([]kong.Option{kong.Configuration(yamlLoader), kong.Exit(func(int) { t.FailNow() })}, options...)
	parser, err := kong.New(&cli, options...)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	kongCtx, err := parser.Parse(args)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return &cli, kongCtx
}

func newTestApp(stdin string) (*App, *bytes.Buffer) {
	var stdout bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:    ctx,
		cancel: cancel,
		logger: logging.Discard(),
		stdin:  strings.NewReader(stdin),
		stdout: &stdout,
	}, &stdout
}

func TestConfigFile(t *testing.T) {
	t.Setenv("ADDRSPEC_TEST_DEPTH", "7")
	path := filepath.Join(t.TempDir(), "addrspec.yaml")
	err := os.WriteFile(path, []byte(strings.Join([]string{
		"comments: false",
		"local_addresses: 1",
		"comment-nesting-depth: ${env.ADDRSPEC_TEST_DEPTH}",
		"check:",
		"  concurrency: 4",
		"",
	}, "\n")), 0o644)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	cli, _ := parse(t, []string{"--config", path, "check", "abc@def.com"})
	assert.False(t, cli.Comments)
	assert.True(t, cli.UTF8)
	assert.Equal(t, 1, cli.LocalAddresses)
	assert.Equal(t, 7, cli.CommentNestingDepth)
	assert.Equal(t, 4, cli.Check.Concurrency)
	assert.Equal(t, []string{"abc@def.com"}, cli.Check.Addresses)

	c, err := addrspec.Resolve(mustInput(t, cli.Globals.options(nil)))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.False(t, c.AllowComments)
	assert.False(t, c.AllowControlCharactersInComments)
	assert.Equal(t, addrspec.DomainOptional, c.AllowLocalAddresses)
	assert.Equal(t, 7, c.CommentNestingDepth)
}

func mustInput(t *testing.T, options []addrspec.OptionFunc) addrspec.Input {
	in, err := addrspec.NewInput(options...)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return in
}

func TestCheckCmd(t *testing.T) {
	cli, _ := parse(t, []string{"check"})
	app, stdout := newTestApp("abc@def.com\r\n\n@example.com\n\"abc def\"@example.com\n")
	err := cli.Check.Run(&cli.Globals, app)
	assert.True(t, errors.Is(err, errInvalidAddresses))
	assert.Equal(t, "valid\tabc@def.com\ninvalid\t@example.com\nvalid\t\"abc def\"@example.com\n", stdout.String())

	cli, _ = parse(t, []string{"check", "--quiet", "abc@def.com", "me@[127.0.0.1]"})
	app, stdout = newTestApp("")
	assert.NoError(t, cli.Check.Run(&cli.Globals, app))
	assert.Empty(t, stdout.String())

	cli, _ = parse(t, []string{"--local-addresses=-1", "check", "abc.def"})
	app, stdout = newTestApp("")
	assert.NoError(t, cli.Check.Run(&cli.Globals, app))
	assert.Equal(t, "valid\tabc.def\n", stdout.String())
}

func TestPatternCmd(t *testing.T) {
	cli, _ := parse(t, []string{"--no-comments", "pattern"})
	app, stdout := newTestApp("")
	if !assert.NoError(t, cli.Pattern.Run(&cli.Globals, app)) {
		t.FailNow()
	}
	source := strings.TrimSuffix(stdout.String(), "\n")
	p, err := addrspec.Compile(addrspec.WithComments(false))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, p.String(), source)
}

func TestCheckCmdConfigurationError(t *testing.T) {
	cli, _ := parse(t, []string{"--comment-nesting-depth=0", "check", "abc@def.com"})
	app, _ := newTestApp("")
	var cerr *addrspec.ConfigurationError
	assert.True(t, errors.As(cli.Check.Run(&cli.Globals, app), &cerr))
}

func TestSpoolSink(t *testing.T) {
	dir := t.TempDir()
	sink := spoolSink(dir, logging.Discard())
	messages := []string{"Subject: one\r\n\r\n1\r\n", "Subject: two\r\n\r\n2\r\n"}
	for _, m := range messages {
		err := sink(context.Background(), nil, "foo@example.com", []string{"bar@example.com"}, []byte(m))
		if !assert.NoError(t, err) {
			t.FailNow()
		}
	}
	names, err := filepath.Glob(filepath.Join(dir, "*.eml"))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	if assert.Len(t, names, 2) {
		var contents []string
		for _, name := range names {
			b, err := os.ReadFile(name)
			if !assert.NoError(t, err) {
				t.FailNow()
			}
			contents = append(contents, string(b))
		}
		assert.ElementsMatch(t, messages, contents)
	}
}
