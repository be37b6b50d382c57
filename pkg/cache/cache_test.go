package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/netgraph/pkg/graph"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	if data, ok, err := c.Get(ctx, "key"); ok || data != nil || err != nil {
		t.Errorf("Get() = %v, %v, %v, want miss", data, ok, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() on empty cache hit")
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(data) != "v" {
		t.Errorf("Get() = %q, %v, %v, want v, true, nil", data, ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() missing key error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() after Delete hit")
	}
}

func TestFileCache_ExpiredAndCorrupt(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	c.Set(ctx, "old", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, ok, _ := c.Get(ctx, "old"); ok {
		t.Error("expired entry hit")
	}

	c.Set(ctx, "bad", []byte("v"), 0)
	if err := os.WriteFile(c.path("bad"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "bad"); ok || err != nil {
		t.Errorf("corrupt Get() = %v, %v, want miss", ok, err)
	}
	if _, err := os.Stat(c.path("bad")); !os.IsNotExist(err) {
		t.Error("corrupt entry not removed")
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear() = %d, %v, want 3, nil", n, err)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("Get() after Clear hit")
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash() not deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("Hash() collided for different inputs")
	}
	if n := len(Hash([]byte("x"))); n != 64 {
		t.Errorf("len(Hash()) = %d, want 64", n)
	}
}

func TestGraphHash(t *testing.T) {
	load := func(label string, edges ...graph.EdgeSpec) *graph.Graph {
		g, _ := graph.Load([]graph.NodeSpec{{Key: "a", Label: label}, {Key: "b"}, {Key: "c"}}, edges)
		return g
	}
	ab := graph.EdgeSpec{Source: "a", Target: "b"}
	bc := graph.EdgeSpec{Source: "b", Target: "c"}

	base := GraphHash(load("A", ab, bc))
	if GraphHash(load("Other label", ab, bc)) != base {
		t.Error("GraphHash() changed with label")
	}
	if GraphHash(load("A", ab)) == base {
		t.Error("GraphHash() ignored an edge")
	}

	// A filtered view hashes like its original.
	g := load("A", ab, bc)
	if GraphHash(g.ApplyConnectionFilter(2)) != GraphHash(g) {
		t.Error("GraphHash() of view differs from original")
	}
}

func TestKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	a := k.LayoutKey("h", LayoutKeyOpts{MinConnections: 1})
	b := k.LayoutKey("h", LayoutKeyOpts{MinConnections: 2})
	if a == b {
		t.Error("LayoutKey() ignored options")
	}
	if a[:7] != "layout:" {
		t.Errorf("LayoutKey() = %q, want layout: prefix", a)
	}

	scoped := NewScopedKeyer(nil, "tenant:")
	if got := scoped.LayoutKey("h", LayoutKeyOpts{MinConnections: 1}); got != "tenant:"+a {
		t.Errorf("scoped LayoutKey() = %q, want %q", got, "tenant:"+a)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(filepath.Join(t.TempDir(), "layouts"))

	g, _ := graph.Load([]graph.NodeSpec{
		{Key: "a", X: 1, Y: 2, HasPosition: true},
		{Key: "b", X: 3, Y: 4, HasPosition: true},
		{Key: "c"},
	}, nil)

	if _, err := LoadLayout(ctx, c, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("LoadLayout() on empty cache error = %v, want ErrCacheMiss", err)
	}
	if err := SaveLayout(ctx, c, "k", Capture(g), 0); err != nil {
		t.Fatalf("SaveLayout() error = %v", err)
	}

	fresh, _ := graph.Load([]graph.NodeSpec{{Key: "a"}, {Key: "b"}, {Key: "c"}}, nil)
	fresh.Node("b").Pin(9, 9)
	p, err := LoadLayout(ctx, c, "k")
	if err != nil {
		t.Fatalf("LoadLayout() error = %v", err)
	}
	if n := p.Apply(fresh); n != 1 {
		t.Errorf("Apply() = %d, want 1", n)
	}
	if a := fresh.Node("a"); a.X != 1 || a.Y != 2 {
		t.Errorf("a = (%v, %v), want (1, 2)", a.X, a.Y)
	}
	if fresh.Node("c").HasPosition() {
		t.Error("unrecorded node was placed")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("RetryWithBackoff() = %v after %d calls, want nil after 2", err, calls)
	}

	calls = 0
	plain := errors.New("bad")
	if err := RetryWithBackoff(ctx, func() error { calls++; return plain }); err != plain || calls != 1 {
		t.Errorf("non-retryable: err = %v after %d calls, want bad after 1", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err = %v after %d calls, want network error after 3", err, calls)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := RetryWithBackoff(cctx, func() error { return Retryable(ErrNetwork) }); err != context.Canceled {
		t.Errorf("cancelled: err = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) || err.Error() != ErrNetwork.Error() {
		t.Errorf("Retryable() = %v, want wrapped network error", err)
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable(unwrapped) = true")
	}
}
