package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mylang-lang/mylang/internal/cli"
)

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUsageAndUnknownCommand(t *testing.T) {
	if code, _, stderr := runCLI(t, ""); code != cli.ExitUsage || !strings.Contains(stderr, "COMMANDS:") {
		t.Errorf("no args: code %d, stderr %q", code, stderr)
	}
	if code, _, stderr := runCLI(t, "", "frobnicate"); code != cli.ExitUsage || !strings.Contains(stderr, "unknown command") {
		t.Errorf("unknown command: code %d, stderr %q", code, stderr)
	}
	if code, stdout, _ := runCLI(t, "", "help"); code != cli.ExitOK || !strings.Contains(stdout, "parse") {
		t.Errorf("help: code %d, stdout %q", code, stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "version")
	if code != cli.ExitOK || !strings.HasPrefix(stdout, "mylang v"+cli.Version) {
		t.Errorf("version: code %d, stdout %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "", "version", "-json")
	if code != cli.ExitOK || !json.Valid([]byte(stdout)) {
		t.Errorf("version -json: code %d, stdout %q", code, stdout)
	}

	if code, _, _ := runCLI(t, "", "version", "-require", ">= 0.1"); code != cli.ExitOK {
		t.Errorf("satisfied constraint: code %d", code)
	}
	if code, _, stderr := runCLI(t, "", "version", "-require", ">= 99"); code != cli.ExitUsage || stderr == "" {
		t.Errorf("unsatisfied constraint: code %d, stderr %q", code, stderr)
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.my", "def f(x) x; end\n")

	code, stdout, stderr := runCLI(t, "", "parse", path)
	if code != cli.ExitOK {
		t.Fatalf("parse: code %d, stderr %q", code, stderr)
	}
	want := "(Program\n  (FuncDef\n    (Signature f\n      (Arg x)\n    )\n    (ExprStmt\n      (Identifier x)\n    )\n  )\n)\n"
	if stdout != want {
		t.Errorf("got:\n%s\nwant:\n%s", stdout, want)
	}

	code, stdout, _ = runCLI(t, "", "parse", "-format", "json", path)
	if code != cli.ExitOK {
		t.Fatalf("parse json: code %d", code)
	}
	var tree map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &tree); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if tree["node"] != "Program" {
		t.Errorf("root node = %v", tree["node"])
	}

	out := filepath.Join(dir, "tree.txt")
	if code, _, _ := runCLI(t, "", "parse", "-o", out, path); code != cli.ExitOK {
		t.Fatalf("parse -o: code %d", code)
	}
	if data, err := os.ReadFile(out); err != nil || !strings.HasPrefix(string(data), "(Program") {
		t.Errorf("output file = %q, %v", data, err)
	}
}

func TestParseFromStdin(t *testing.T) {
	code, stdout, _ := runCLI(t, "def main() end", "parse", "-")
	if code != cli.ExitOK || !strings.Contains(stdout, "(Signature main)") {
		t.Errorf("code %d, stdout %q", code, stdout)
	}
}

func TestParseErrorsAndUsage(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.my", "def ok() end")
	bad := writeFile(t, dir, "bad.my", "def f() x end")

	code, stdout, stderr := runCLI(t, "", "parse", good, bad)
	if code != cli.ExitParseError {
		t.Errorf("code = %d, want %d", code, cli.ExitParseError)
	}
	if !strings.Contains(stdout, ";; "+good) {
		t.Errorf("good file missing from output:\n%s", stdout)
	}
	if !strings.Contains(stderr, "bad.my:1:11: SyntaxError[MISSING_TOKEN]") {
		t.Errorf("unexpected diagnostics:\n%s", stderr)
	}

	if code, _, _ := runCLI(t, "", "parse"); code != cli.ExitUsage {
		t.Errorf("no files: code %d", code)
	}
	if code, _, _ := runCLI(t, "", "parse", "-format", "xml", good); code != cli.ExitUsage {
		t.Errorf("bad format: code %d", code)
	}
	if code, _, _ := runCLI(t, "", "parse", "-nope", good); code != cli.ExitUsage {
		t.Errorf("bad flag: code %d", code)
	}
	if code, _, _ := runCLI(t, "", "parse", "-h"); code != cli.ExitOK {
		t.Errorf("-h: code %d", code)
	}
	if code, _, _ := runCLI(t, "", "parse", filepath.Join(dir, "missing.my")); code != cli.ExitParseError {
		t.Errorf("missing file: code %d", code)
	}
}

func TestTokensCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "t.my", "x = 1;")
	code, stdout, _ := runCLI(t, "", "tokens", path)
	if code != cli.ExitOK {
		t.Fatalf("code %d", code)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d token lines, want 5:\n%s", len(lines), stdout)
	}
	if !strings.Contains(lines[0], `"x"`) || !strings.Contains(lines[4], "EOF") {
		t.Errorf("unexpected token listing:\n%s", stdout)
	}

	bad := writeFile(t, dir, "bad.my", "x @")
	if code, _, stderr := runCLI(t, "", "tokens", bad); code != cli.ExitParseError || !strings.Contains(stderr, "INVALID_CHAR") {
		t.Errorf("lex error: code %d, stderr %q", code, stderr)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.my", "def a() end")
	writeFile(t, dir, "two.my", "def b() while x y; end end")
	writeFile(t, dir, "notes.txt", "not source")

	if code, _, stderr := runCLI(t, "", "check", dir); code != cli.ExitOK {
		t.Errorf("clean directory: code %d, stderr %q", code, stderr)
	}

	writeFile(t, dir, "three.my", "def c() if a then end")
	code, _, stderr := runCLI(t, "", "check", dir)
	if code != cli.ExitParseError {
		t.Errorf("broken directory: code %d", code)
	}
	if !strings.Contains(stderr, "three.my") || !strings.Contains(stderr, "Found 1 error(s) in 1 file(s).") {
		t.Errorf("unexpected diagnostics:\n%s", stderr)
	}
}

func TestFmtCommand(t *testing.T) {
	dir := t.TempDir()
	messy := "def f()   x=1;\nend"
	path := writeFile(t, dir, "m.my", messy)
	clean := "def f()\n    x = 1;\nend\n"

	code, stdout, _ := runCLI(t, "", "fmt", path)
	if code != cli.ExitOK || stdout != clean {
		t.Errorf("fmt: code %d, got %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "", "fmt", "-l", path)
	if code != cli.ExitOK || strings.TrimSpace(stdout) != path {
		t.Errorf("fmt -l: code %d, got %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "", "fmt", "-d", path)
	if code != cli.ExitOK || !strings.Contains(stdout, "+    x = 1;") || !strings.Contains(stdout, "-def f()   x=1;") {
		t.Errorf("fmt -d: code %d, got:\n%s", code, stdout)
	}

	if code, _, _ := runCLI(t, "", "fmt", "-w", path); code != cli.ExitOK {
		t.Fatalf("fmt -w: code %d", code)
	}
	if data, _ := os.ReadFile(path); string(data) != clean {
		t.Errorf("file after -w = %q", data)
	}
	if _, stdout, _ := runCLI(t, "", "fmt", "-l", path); stdout != "" {
		t.Errorf("formatted file still listed: %q", stdout)
	}

	code, stdout, _ = runCLI(t, "def g() {y;} end", "fmt")
	if code != cli.ExitOK || stdout != "def g()\n    {\n        y;\n    }\nend\n" {
		t.Errorf("fmt stdin: code %d, got %q", code, stdout)
	}

	if code, _, _ := runCLI(t, "", "fmt", "-w"); code != cli.ExitUsage {
		t.Errorf("fmt -w on stdin: code %d", code)
	}
}

func TestGlobalFlagsAndConfig(t *testing.T) {
	dir := t.TempDir()
	config := writeFile(t, dir, "mylang.json", `{"indent": 2, "dump_format": "json"}`)
	src := writeFile(t, dir, "s.my", "def f() x; end")

	code, stdout, _ := runCLI(t, "", "-config", config, "fmt", src)
	if code != cli.ExitOK || stdout != "def f()\n  x;\nend\n" {
		t.Errorf("indent from config: code %d, got %q", code, stdout)
	}
	code, stdout, _ = runCLI(t, "", "-config", config, "parse", src)
	if code != cli.ExitOK || !json.Valid([]byte(stdout)) {
		t.Errorf("dump format from config: code %d, got %q", code, stdout)
	}

	if code, _, _ := runCLI(t, "", "-jobs", "0", "check", src); code != cli.ExitUsage {
		t.Errorf("invalid -jobs: code %d", code)
	}
	if code, _, _ := runCLI(t, "", "-color", "sometimes", "check", src); code != cli.ExitUsage {
		t.Errorf("invalid -color: code %d", code)
	}
	broken := writeFile(t, dir, "broken.json", `{`)
	if code, _, _ := runCLI(t, "", "-config", broken, "check", src); code != cli.ExitUsage {
		t.Errorf("broken config: code %d", code)
	}

	_, _, stderr := runCLI(t, "", "-v", "check", src)
	if !strings.Contains(stderr, "[INFO]") {
		t.Errorf("-v should enable info logging, got %q", stderr)
	}
}

// scriptedInput feeds fixed lines to the REPL.
type scriptedInput struct {
	lines   []string
	prompts []string
}

func (s *scriptedInput) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestReadByParseProbe(t *testing.T) {
	in := &scriptedInput{lines: []string{"begin", "  x;", "end", "y;"}}
	src, ok := readByParseProbe(in)
	if !ok || src != "begin\n  x;\nend" {
		t.Errorf("got %q, %v", src, ok)
	}
	if len(in.prompts) != 3 || in.prompts[1] != promptCont {
		t.Errorf("prompts = %q", in.prompts)
	}

	src, ok = readByParseProbe(in)
	if !ok || src != "y;" {
		t.Errorf("got %q, %v", src, ok)
	}
	if _, ok := readByParseProbe(in); ok {
		t.Error("expected end of input")
	}
}

func TestReplSession(t *testing.T) {
	var out, errOut bytes.Buffer
	a := &app{
		config: cli.DefaultConfig(),
		logger: cli.NewLoggerTo(&errOut, false, false),
		stdout: &out,
		stderr: &errOut,
	}
	a.config.Color = cli.ColorNever

	in := &scriptedInput{lines: []string{"x = 1;", ":json", "y;", ")", ":bogus", ":quit", "z;"}}
	var history []string
	if err := a.repl(in, func(s string) { history = append(history, s) }); err != nil {
		t.Fatalf("repl error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "(Assign") {
		t.Errorf("missing S-expression output:\n%s", got)
	}
	if !strings.Contains(got, `"node": "ExprStmt"`) {
		t.Errorf("missing JSON output after :json:\n%s", got)
	}
	if !strings.Contains(got, "EXPECTED_STATEMENT") {
		t.Errorf("missing error report:\n%s", got)
	}
	if !strings.Contains(got, "unknown command") {
		t.Errorf("missing unknown command message:\n%s", got)
	}
	if strings.Contains(got, "z") {
		t.Errorf("input after :quit was processed:\n%s", got)
	}
	if len(history) != 3 {
		t.Errorf("history = %q, want 3 entries", history)
	}
}

func TestWatchReportsInitialErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.my", "def f() x end")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	var out, errOut bytes.Buffer
	code := run(ctx, []string{"watch", dir}, strings.NewReader(""), &out, &errOut)
	if code != cli.ExitOK {
		t.Errorf("code = %d, stderr %q", code, errOut.String())
	}
	if !strings.Contains(errOut.String(), "MISSING_TOKEN") {
		t.Errorf("missing diagnostics:\n%s", errOut.String())
	}
	if strings.Contains(errOut.String(), "[ERROR]") {
		t.Errorf("parse failures should not be logged as errors:\n%s", errOut.String())
	}
}

type countingCloser struct{ closed atomic.Int32 }

func (c *countingCloser) Close() error {
	c.closed.Add(1)
	return nil
}

func TestCloseOnCancel(t *testing.T) {
	t.Run("stop before cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		c := &countingCloser{}
		stop := closeOnCancel(ctx, c)
		stop()
		cancel()
		if n := c.closed.Load(); n != 0 {
			t.Errorf("closed %d times after stop, want 0", n)
		}
	})

	t.Run("cancel closes", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c := &countingCloser{}
		stop := closeOnCancel(ctx, c)
		cancel()
		deadline := time.Now().Add(5 * time.Second)
		for c.closed.Load() == 0 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		stop()
		if n := c.closed.Load(); n != 1 {
			t.Errorf("closed %d times, want 1", n)
		}
	})
}
