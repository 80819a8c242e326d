package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/mylang-lang/mylang/internal/cli"
	"github.com/mylang-lang/mylang/internal/diagnostic"
	perrors "github.com/mylang-lang/mylang/internal/errors"
	"github.com/mylang-lang/mylang/internal/parser"
)

const (
	historyFile = ".mylang_history"
	promptMain  = "mylang> "
	promptCont  = "   ...> "
)

// lineReader is the part of liner.State the REPL needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// cmdRepl reads statements, printing the tree of each complete input.
// Input that ends early keeps reading continuation lines.
func cmdRepl(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("repl")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	defer closeOnCancel(ctx, ln)()

	fmt.Fprintf(a.stdout, "%s %s - type :quit to exit, :json or :sexpr to switch output\n", toolName, cli.Version)
	return a.repl(ln, func(entry string) { ln.AppendHistory(entry) })
}

// closeOnCancel closes c if ctx ends before the returned stop function is
// called. stop also ends the waiting goroutine.
func closeOnCancel(ctx context.Context, c io.Closer) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

// repl runs the read-parse-print loop over in.
func (a *app) repl(in lineReader, remember func(string)) error {
	format := a.config.DumpFormat
	for {
		src, ok := readByParseProbe(in)
		if !ok {
			fmt.Fprintln(a.stdout)
			return nil
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return nil
			case ":json":
				format = cli.DumpJSON
			case ":sexpr":
				format = cli.DumpSExpr
			default:
				fmt.Fprintln(a.stdout, "unknown command. Type :quit to exit.")
			}
			continue
		}

		remember(strings.ReplaceAll(src, "\n", " "))
		items, err := parser.ParseStatements("", src)
		if err != nil {
			fmt.Fprint(a.stdout, diagnostic.Render(err, "", src, a.useColor(a.stdout)))
			continue
		}
		for _, item := range items {
			if err := writeTree(a.stdout, item, format, false); err != nil {
				return err
			}
		}
	}
}

// readByParseProbe reads lines until they form input that parses or fails
// for a reason other than running out of input.
func readByParseProbe(in lineReader) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := in.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl-C drops the pending input.
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		_, perr := parser.ParseStatements("", src)
		if perr == nil || !perrors.IsIncomplete(perr) {
			return src, true
		}
	}
}
