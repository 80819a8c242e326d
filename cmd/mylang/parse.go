package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/cli"
	"github.com/mylang-lang/mylang/internal/diagnostic"
)

func cmdParse(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("parse")
	format := fs.String("format", a.config.DumpFormat, "output format: sexpr or json")
	spans := fs.Bool("spans", false, "include source spans in JSON output")
	output := fs.String("o", "", "write output to file instead of stdout")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *format != cli.DumpSExpr && *format != cli.DumpJSON {
		return cli.Usagef("unknown format %q", *format)
	}
	if fs.NArg() == 0 {
		return cli.Usagef("parse: no input files")
	}

	paths, err := expandPaths(fs.Args())
	if err != nil {
		return err
	}
	files, err := a.parseFiles(ctx, paths)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	failed := false
	for _, f := range files {
		if f.err != nil {
			failed = true
			fmt.Fprint(a.stderr, diagnostic.Render(f.err, f.name, f.src, a.useColor(a.stderr)))
			continue
		}
		if len(files) > 1 && *format == cli.DumpSExpr {
			fmt.Fprintf(&out, ";; %s\n", f.name)
		}
		if err := writeTree(&out, f.prog, *format, *spans); err != nil {
			return err
		}
	}

	if *output != "" {
		if err := os.WriteFile(*output, out.Bytes(), 0o644); err != nil {
			return err
		}
		a.logger.Info("wrote %s", *output)
	} else if _, err := a.stdout.Write(out.Bytes()); err != nil {
		return err
	}
	if failed {
		return errParseFailed
	}
	return nil
}

func writeTree(w io.Writer, node ast.Node, format string, spans bool) error {
	if format == cli.DumpJSON {
		data, err := ast.MarshalJSON(node, spans)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	return ast.Dump(w, node)
}
