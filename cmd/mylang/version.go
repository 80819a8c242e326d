package main

import (
	"context"

	"github.com/mylang-lang/mylang/internal/cli"
)

func cmdVersion(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("version")
	jsonOutput := fs.Bool("json", false, "output version in JSON format")
	require := fs.String("require", "", "fail unless the version satisfies this semver constraint")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *require != "" {
		if err := cli.CheckVersion(cli.Version, *require); err != nil {
			return &cli.UsageError{Err: err}
		}
	}
	return cli.PrintVersion(a.stdout, toolName, *jsonOutput)
}
