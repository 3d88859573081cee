package main

import (
	"fmt"

	"github.com/fwojciec/coursenotes"
	"github.com/fwojciec/coursenotes/typst"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	html, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	conv := deps.Typst
	if c.Format == "markdown" {
		conv = deps.Markdown
	}

	out, err := conv.Convert(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coursenotes.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, out)
	return nil
}

// Run executes the math command.
func (c *MathCmd) Run(deps *Dependencies) error {
	out, err := typst.TranslateMath(c.Formula)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	fmt.Fprintln(deps.Stdout, out)
	return nil
}
