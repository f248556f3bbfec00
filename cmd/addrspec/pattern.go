package main

import (
	"fmt"

	"github.com/moriyoshi/addrspec"
)

type PatternCmd struct{}

func (cmd *PatternCmd) Run(globals *Globals, app *App) error {
	p, err := addrspec.Compile(globals.options(app.logger)...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(app.stdout, p.String())
	return err
}
