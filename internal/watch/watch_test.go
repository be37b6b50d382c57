package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("New(missing) error = nil")
	}
	if _, err := New(dir); !errors.Is(err, ErrNotRegular) {
		t.Errorf("New(dir) error = %v, want ErrNotRegular", err)
	}
}

func TestRun_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.csv")
	other := filepath.Join(dir, "other.csv")
	if err := os.WriteFile(path, []byte("a,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(path, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 10)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(p string) { changes <- p }) }()

	for i := range 3 {
		if err := os.WriteFile(path, []byte{'a', ',', byte('b' + i), '\n'}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(other, []byte("x"), 0o644)

	select {
	case p := <-changes:
		if p != w.Path() {
			t.Errorf("changed path = %q, want %q", p, w.Path())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case p := <-changes:
		t.Errorf("extra change reported for %q", p)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
