package main

import (
	"context"
	"fmt"

	"github.com/mylang-lang/mylang/internal/cli"
	"github.com/mylang-lang/mylang/internal/diagnostic"
)

func cmdCheck(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("check")
	maxErrors := fs.Int("max-errors", 0, "stop listing after this many errors (0 for all)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return cli.Usagef("check: no input files")
	}

	paths, err := expandPaths(fs.Args())
	if err != nil {
		return err
	}
	return a.check(ctx, paths, *maxErrors)
}

// check parses paths and prints their diagnostics. It returns
// errParseFailed when any file has errors.
func (a *app) check(ctx context.Context, paths []string, maxErrors int) error {
	files, err := a.parseFiles(ctx, paths)
	if err != nil {
		return err
	}

	engine := diagnostic.NewEngine(diagnostic.Config{Color: a.useColor(a.stderr), MaxErrors: maxErrors})
	for _, f := range files {
		engine.Add(f.err, f.name, f.src)
	}
	if engine.HasErrors() {
		fmt.Fprint(a.stderr, engine.Format())
		return errParseFailed
	}
	a.logger.Info("%d file(s) ok", len(files))
	return nil
}
