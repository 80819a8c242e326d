package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "NONE"},
		{OpWrite, "WRITE"},
		{OpCreate | OpWrite, "CREATE|WRITE"},
		{OpRemove | OpRename | OpChmod, "REMOVE|RENAME|CHMOD"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func runWatcher(t *testing.T, w *Watcher) (<-chan []Event, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []Event, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(batch []Event) {
			select {
			case batches <- batch:
			default:
			}
		})
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned %v", err)
		}
		w.Close()
	})
	return batches, cancel
}

func waitForPath(t *testing.T, batches <-chan []Event, path string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case batch := <-batches:
			for _, ev := range batch {
				if ev.Path == path {
					return
				}
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatchDirectory(t *testing.T) {
	dir, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	w, err := New(20*time.Millisecond, func(path string) bool { return strings.HasSuffix(path, ".my") })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}
	batches, _ := runWatcher(t, w)

	ignored := filepath.Join(dir, "notes.txt")
	target := filepath.Join(dir, "main.my")
	if err := os.WriteFile(ignored, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("def f() end"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, batches, target)
}

func TestWatchNestedDirectories(t *testing.T) {
	dir, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(dir, "pkg", "inner")
	if err := os.MkdirAll(existing, 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := New(20*time.Millisecond, func(path string) bool { return strings.HasSuffix(path, ".my") })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !w.wants(filepath.Join(existing, "a.my")) {
		t.Error("file in a nested directory should be wanted")
	}
	batches, _ := runWatcher(t, w)

	nested := filepath.Join(existing, "a.my")
	if err := os.WriteFile(nested, []byte("def f() end"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, batches, nested)

	later := filepath.Join(dir, "later")
	if err := os.Mkdir(later, 0o755); err != nil {
		t.Fatal(err)
	}
	created := filepath.Join(later, "b.my")
	if err := os.WriteFile(created, []byte("def g() end"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, batches, created)
}

func TestWatchSingleFile(t *testing.T) {
	dir, err := filepath.Abs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "one.my")
	if err := os.WriteFile(target, []byte("def f() end"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Add(target); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if w.wants(filepath.Join(dir, "other.my")) {
		t.Error("sibling of a watched file should be ignored")
	}
	batches, _ := runWatcher(t, w)

	if err := os.WriteFile(target, []byte("def g() end"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitForPath(t, batches, target)
}

func TestAddMissingPath(t *testing.T) {
	w, err := New(time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Join(t.TempDir(), "absent.my")); err == nil {
		t.Error("expected an error for a missing path")
	}
}
