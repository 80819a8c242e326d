package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mylang-lang/mylang/internal/cli"
	"github.com/mylang-lang/mylang/internal/diagnostic"
	"github.com/mylang-lang/mylang/internal/format"
)

// cmdFmt prints files in canonical layout. Flags:
//
//	-w  write result to (source) file.
//	-l  list files whose formatting differs.
//	-d  print a unified diff instead of the formatted source.
//
// With no files, standard input is formatted to standard output.
func cmdFmt(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("fmt")
	writeInPlace := fs.Bool("w", false, "write result to (source) file instead of stdout")
	listOnly := fs.Bool("l", false, "list files whose formatting differs from mylang fmt output")
	showDiff := fs.Bool("d", false, "display diffs instead of rewriting files")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		if *writeInPlace {
			return cli.Usagef("fmt: cannot use -w with standard input")
		}
		paths = []string{stdinName}
	}
	paths, err := expandPaths(paths)
	if err != nil {
		return err
	}

	opts := format.DefaultOptions()
	opts.IndentSize = a.config.Indent
	opts.PreferTabs = a.config.Indent == 0

	files, err := a.parseFiles(ctx, paths)
	if err != nil {
		return err
	}

	failed := false
	for _, f := range files {
		if f.err != nil {
			failed = true
			fmt.Fprint(a.stderr, diagnostic.Render(f.err, f.name, f.src, a.useColor(a.stderr)))
			continue
		}

		out, err := format.Source(f.name, f.src, opts)
		if err != nil {
			return err
		}
		changed := out != f.src

		switch {
		case *listOnly || *showDiff || *writeInPlace:
			if *listOnly && changed {
				fmt.Fprintln(a.stdout, f.name)
			}
			if *showDiff && changed {
				fmt.Fprint(a.stdout, format.Diff(f.name, f.src, out))
			}
			if *writeInPlace && changed && f.name != "<stdin>" {
				if err := os.WriteFile(f.name, []byte(out), 0o644); err != nil {
					return err
				}
				a.logger.Info("formatted %s", f.name)
			}
		default:
			fmt.Fprint(a.stdout, out)
		}
	}
	if failed {
		return errParseFailed
	}
	return nil
}
