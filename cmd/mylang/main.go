// Command mylang parses, checks and formats mylang source files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mylang-lang/mylang/internal/cli"
)

const toolName = "mylang"

// app carries the resolved configuration and I/O streams of one
// invocation.
type app struct {
	config *cli.Config
	logger *cli.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	info cli.CommandInfo
	run  func(ctx context.Context, a *app, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{cli.CommandInfo{Name: "parse", Usage: "mylang parse [-format sexpr|json] [-spans] [-o file] files...",
			Description: "print the syntax tree of each file",
			Examples:    []string{"mylang parse main.my", "mylang parse -format json - < main.my"}}, cmdParse},
		{cli.CommandInfo{Name: "tokens", Usage: "mylang tokens file",
			Description: "print the token stream of a file"}, cmdTokens},
		{cli.CommandInfo{Name: "check", Usage: "mylang check files...",
			Description: "report syntax errors; exit 1 if any are found"}, cmdCheck},
		{cli.CommandInfo{Name: "fmt", Usage: "mylang fmt [-w] [-l] [-d] files...",
			Description: "print files in canonical layout",
			Examples:    []string{"mylang fmt -l .", "mylang fmt -w main.my"}}, cmdFmt},
		{cli.CommandInfo{Name: "watch", Usage: "mylang watch paths...",
			Description: "re-check files whenever they change"}, cmdWatch},
		{cli.CommandInfo{Name: "repl", Usage: "mylang repl",
			Description: "parse statements interactively"}, cmdRepl},
		{cli.CommandInfo{Name: "version", Usage: "mylang version [-json] [-require constraint]",
			Description: "print version information"}, cmdVersion},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	cli.ExitWithCode(code, "")
}

// run executes one invocation and returns its exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet(toolName, flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "path to a JSON config file (default $"+cli.ConfigEnvVar+")")
	verbose := global.Bool("v", false, "verbose logging")
	debug := global.Bool("debug", false, "debug logging")
	color := global.String("color", "", "color output: auto, always or never")
	jobs := global.Int("jobs", 0, "number of files processed concurrently")
	global.Usage = func() { printUsage(stderr) }
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cli.ExitOK
		}
		return cli.ExitUsage
	}

	config, err := cli.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitUsage
	}
	global.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "v":
			config.Verbose = *verbose
		case "debug":
			config.Debug = *debug
		case "color":
			config.Color = *color
		case "jobs":
			config.Jobs = *jobs
		}
	})
	if err := config.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitUsage
	}

	a := &app{
		config: config,
		logger: cli.NewLoggerTo(stderr, config.Verbose, config.Debug),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rest := global.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return cli.ExitUsage
	}
	name, rest := rest[0], rest[1:]
	if name == "help" {
		printUsage(stdout)
		return cli.ExitOK
	}
	for _, cmd := range commands {
		if cmd.info.Name == name {
			a.logger.Debug("running %s with %d argument(s)", name, len(rest))
			return a.exitCode(cmd.run(ctx, a, rest))
		}
	}
	fmt.Fprintf(stderr, "Error: unknown command %q\n\n", name)
	printUsage(stderr)
	return cli.ExitUsage
}

// errParseFailed reports that diagnostics were already printed.
var errParseFailed = errors.New("parse errors")

func (a *app) exitCode(err error) int {
	var usage *cli.UsageError
	switch {
	case err == nil:
		return cli.ExitOK
	case errors.Is(err, flag.ErrHelp):
		return cli.ExitOK
	case errors.Is(err, errParseFailed):
		return cli.ExitParseError
	case errors.As(err, &usage):
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return cli.ExitUsage
	}
	a.logger.Error("%v", err)
	return cli.ExitParseError
}

// newFlagSet creates a subcommand flag set whose -h prints the command
// usage.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	for _, cmd := range commands {
		if cmd.info.Name == name {
			info := cmd.info
			fs.Usage = func() { cli.PrintCommandUsage(a.stderr, toolName, info, fs.PrintDefaults) }
		}
	}
	return fs
}

// parseFlags parses subcommand flags, mapping flag errors to usage errors.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &cli.UsageError{Err: err}
	}
	return nil
}

// useColor reports whether output to w should be colored.
func (a *app) useColor(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return a.config.UseColor(f)
	}
	return a.config.Color == cli.ColorAlways
}

func printUsage(w io.Writer) {
	infos := make([]cli.CommandInfo, len(commands))
	for i, cmd := range commands {
		infos[i] = cmd.info
	}
	cli.PrintUsage(w, toolName, infos)
}
