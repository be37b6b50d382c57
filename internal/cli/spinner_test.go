package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinner_StopIsNotCancel(t *testing.T) {
	s := newSpinner("Settling...")
	s.out = &bytes.Buffer{}
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after plain Stop")
	}
	if s.out.(*bytes.Buffer).Len() == 0 {
		t.Error("spinner drew nothing")
	}
}

func TestSpinner_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerWithContext(ctx, "Settling...")
	s.out = &bytes.Buffer{}
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancel")
	}
}

func TestSpinner_StopWithoutStart(t *testing.T) {
	s := newSpinner("never started")
	done := make(chan struct{})
	go func() { s.Stop(); close(done) }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked on a spinner that never started")
	}
}
