package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/moriyoshi/addrspec"
)

var errInvalidAddresses = errors.New("invalid addresses")

type CheckCmd struct {
	Addresses   []string `arg:"" optional:"" help:"Addresses to validate. Read from stdin, one per line, when none is given."`
	Concurrency int      `name:"concurrency" help:"Number of concurrent validations; 0 means unlimited." env:"ADDRSPEC_CONCURRENCY" default:"0"`
	Quiet       bool     `name:"quiet" short:"q" help:"Print nothing and only report through the exit status."`
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

func (cmd *CheckCmd) Run(globals *Globals, app *App) error {
	v, err := addrspec.New(globals.options(app.logger)...)
	if err != nil {
		return err
	}
	addresses := cmd.Addresses
	if len(addresses) == 0 {
		addresses, err = readLines(app.stdin)
		if err != nil {
			return err
		}
	}
	results, err := v.ValidateAll(app.ctx, addresses, cmd.Concurrency)
	if err != nil {
		return err
	}
	invalid := 0
	for i, ok := range results {
		verdict := "valid"
		if !ok {
			verdict = "invalid"
			invalid++
		}
		if !cmd.Quiet {
			fmt.Fprintf(app.stdout, "%s\t%s\n", verdict, addresses[i])
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidAddresses, invalid, len(addresses))
	}
	return nil
}
