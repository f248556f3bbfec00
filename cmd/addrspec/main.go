package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/moriyoshi/addrspec"
	"github.com/moriyoshi/addrspec/internal/logging"
)

type Globals struct {
	Config                        kong.ConfigFlag `name:"config" help:"Path to a YAML configuration file." env:"ADDRSPEC_CONFIG" optional:""`
	LogLevel                      slog.Level      `name:"log-level" help:"Log level." env:"ADDRSPEC_LOG_LEVEL" default:"WARN" enum:"DEBUG,INFO,WARN,ERROR"`
	Strict                        bool            `name:"strict" negatable:"" help:"Fail on contradicting options instead of overriding them." env:"ADDRSPEC_STRICT" default:"true"`
	ObsoleteFoldingWhitespace     bool            `name:"obsolete-folding-whitespace" negatable:"" help:"Allow the obsolete folding whitespace of RFC 5322 4.2." env:"ADDRSPEC_OBSOLETE_FOLDING_WHITESPACE" default:"true"`
	Comments                      bool            `name:"comments" negatable:"" help:"Allow comments." env:"ADDRSPEC_COMMENTS" default:"true"`
	ControlCharactersInComments   bool            `name:"control-characters-in-comments" negatable:"" help:"Allow obsolete control characters in comments." env:"ADDRSPEC_CONTROL_CHARACTERS_IN_COMMENTS" default:"true"`
	DomainLiteralEscapes          bool            `name:"domain-literal-escapes" negatable:"" help:"Allow quoted pairs in domain literals." env:"ADDRSPEC_DOMAIN_LITERAL_ESCAPES" default:"true"`
	EscapedControlCharacters      bool            `name:"escaped-control-characters" negatable:"" help:"Allow any character in quoted pairs." env:"ADDRSPEC_ESCAPED_CONTROL_CHARACTERS" default:"true"`
	BareEscapes                   bool            `name:"bare-escapes" negatable:"" help:"Allow quoted pairs outside quoted strings (RFC 3696)." env:"ADDRSPEC_BARE_ESCAPES" default:"false"`
	QuotedControlCharacters       bool            `name:"quoted-control-characters" negatable:"" help:"Allow obsolete control characters in quoted strings." env:"ADDRSPEC_QUOTED_CONTROL_CHARACTERS" default:"true"`
	SeparateLocalLabels           bool            `name:"separate-local-labels" negatable:"" help:"Allow CFWS around the dots of the local part." env:"ADDRSPEC_SEPARATE_LOCAL_LABELS" default:"true"`
	SeparateDomainLabels          bool            `name:"separate-domain-labels" negatable:"" help:"Allow CFWS around the dots of the domain." env:"ADDRSPEC_SEPARATE_DOMAIN_LABELS" default:"true"`
	UTF8                          bool            `name:"utf8" negatable:"" help:"Allow non-ASCII characters." env:"ADDRSPEC_UTF8" default:"true"`
	LocalAddresses                int             `name:"local-addresses" help:"0 requires a domain, a positive value makes it optional and a negative one forbids it." env:"ADDRSPEC_LOCAL_ADDRESSES" default:"0"`
	UseRegexOnly                  bool            `name:"use-regex-only" help:"Skip the comment nesting check." env:"ADDRSPEC_USE_REGEX_ONLY" default:"false"`
	CommentNestingDepth           int             `name:"comment-nesting-depth" help:"Deepest comment nesting accepted." env:"ADDRSPEC_COMMENT_NESTING_DEPTH" default:"5"`
}

func (globals *Globals) options(logger *slog.Logger) []addrspec.OptionFunc {
	options := []addrspec.OptionFunc{
		addrspec.WithLogger(logger),
		addrspec.WithStrict(globals.Strict),
		addrspec.WithObsoleteFoldingWhitespace(globals.ObsoleteFoldingWhitespace),
		addrspec.WithComments(globals.Comments),
		addrspec.WithControlCharactersInComments(globals.ControlCharactersInComments),
		addrspec.WithDomainLiteralEscapes(globals.DomainLiteralEscapes),
		addrspec.WithEscapedControlCharacters(globals.EscapedControlCharacters),
		addrspec.WithBareEscapes(globals.BareEscapes),
		addrspec.WithQuotedControlCharacters(globals.QuotedControlCharacters),
		addrspec.WithSeparateLocalLabels(globals.SeparateLocalLabels),
		addrspec.WithSeparateDomainLabels(globals.SeparateDomainLabels),
		addrspec.WithUTF8(globals.UTF8),
		addrspec.WithLocalAddresses(globals.LocalAddresses),
		addrspec.WithCommentNestingDepth(globals.CommentNestingDepth),
	}
	// false is the default; passing it explicitly would conflict with the pattern command
	if globals.UseRegexOnly {
		options = append(options, addrspec.WithUseRegexOnly(true))
	}
	return options
}

// App carries what every command needs besides its flags.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

type CLI struct {
	Globals

	Check   CheckCmd   `cmd:"" default:"withargs" help:"Validate addresses given as arguments or on stdin."`
	Pattern PatternCmd `cmd:"" help:"Print the regular expression for the configured grammar."`
	Serve   ServeCmd   `cmd:"" help:"Run an SMTP listener that rejects malformed envelope addresses."`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()
	var cli CLI
	kongCtx := kong.Parse(
		&cli,
		kong.Name("addrspec"),
		kong.Description("RFC 5322 addr-spec format validator."),
		kong.UsageOnError(),
		kong.Configuration(yamlLoader, "/etc/addrspec.yaml", "~/.config/addrspec.yaml"),
	)
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		logger: logging.NewLogger(cli.LogLevel),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	kongCtx.FatalIfErrorf(kongCtx.Run(&cli.Globals, app))
}
