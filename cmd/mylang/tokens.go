package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/mylang-lang/mylang/internal/cli"
	"github.com/mylang-lang/mylang/internal/diagnostic"
	"github.com/mylang-lang/mylang/internal/lexer"
)

func cmdTokens(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("tokens")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return cli.Usagef("tokens: expected exactly one file")
	}

	name := fs.Arg(0)
	src, err := a.readSource(name)
	if err != nil {
		return err
	}
	tokens, lexErr := lexer.Tokenize(name, src)

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, tok := range tokens {
		fmt.Fprintf(tw, "%s\t%s\t%q\n", tok.Pos(), tok.Type, tok.Literal)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if lexErr != nil {
		fmt.Fprint(a.stderr, diagnostic.Render(lexErr, name, src, a.useColor(a.stderr)))
		return errParseFailed
	}
	return nil
}
