package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mylang-lang/mylang/internal/ast"
	"github.com/mylang-lang/mylang/internal/parser"
)

// sourceExt is the extension collected when a directory is named.
const sourceExt = ".my"

// stdinName is the argument that selects standard input.
const stdinName = "-"

type parsedFile struct {
	name string
	src  string
	prog *ast.Program
	err  error // parse error; I/O errors abort the whole run
}

// expandPaths replaces directories with the source files below them.
func expandPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if p == stdinName {
			out = append(out, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, sourceExt) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// readSource reads a file, or standard input for "-".
func (a *app) readSource(name string) (string, error) {
	if name == stdinName {
		data, err := io.ReadAll(a.stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

// parseFiles reads and parses paths concurrently, at most config.Jobs at
// a time. Results keep the order of paths.
func (a *app) parseFiles(ctx context.Context, paths []string) ([]parsedFile, error) {
	results := make([]parsedFile, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := a.readSource(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			name := path
			if path == stdinName {
				name = "<stdin>"
			}
			prog, perr := parser.ParseFile(name, src)
			a.logger.Debug("parsed %s (%d bytes)", name, len(src))
			results[i] = parsedFile{name: name, src: src, prog: prog, err: perr}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
