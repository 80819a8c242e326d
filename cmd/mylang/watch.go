package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mylang-lang/mylang/internal/cli"
	"github.com/mylang-lang/mylang/internal/watch"
)

// cmdWatch checks the named files once, then again after every batch of
// changes, until interrupted.
func cmdWatch(ctx context.Context, a *app, args []string) error {
	fs := a.newFlagSet("watch")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return cli.Usagef("watch: no paths given")
	}

	debounce := time.Duration(a.config.WatchDebounceMs) * time.Millisecond
	w, err := watch.New(debounce, func(path string) bool { return strings.HasSuffix(path, sourceExt) })
	if err != nil {
		return err
	}
	defer w.Close()
	for _, p := range fs.Args() {
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	recheck := func() {
		paths, err := expandPaths(fs.Args())
		if err != nil {
			a.logger.Error("%v", err)
			return
		}
		if err := a.check(ctx, paths, 0); err == nil {
			fmt.Fprintf(a.stdout, "%s ok: %d file(s)\n", time.Now().Format("15:04:05"), len(paths))
		} else if !errors.Is(err, errParseFailed) {
			a.logger.Error("%v", err)
		}
	}

	recheck()
	a.logger.Info("watching %s", strings.Join(fs.Args(), ", "))
	return w.Run(ctx, func(batch []watch.Event) {
		for _, ev := range batch {
			a.logger.Debug("%s %s", ev.Op, ev.Path)
		}
		recheck()
	})
}
