package live

import (
	"testing"
)

func TestSession_PushFrameKeepsNewest(t *testing.T) {
	s := newSession("a")
	s.pushFrame([]byte("1"))
	s.pushFrame([]byte("2"))
	s.pushFrame([]byte("3"))

	if got := string(<-s.frame); got != "3" {
		t.Errorf("pending frame = %q, want 3", got)
	}
	select {
	case f := <-s.frame:
		t.Errorf("second pending frame %q", f)
	default:
	}
}

func TestHub_NewSessionGetsLastFrame(t *testing.T) {
	h := NewHub()
	h.publishFrame([]byte("frame-1"))

	s := newSession("a")
	h.add(s)
	select {
	case f := <-s.frame:
		if string(f) != "frame-1" {
			t.Errorf("frame = %q, want frame-1", f)
		}
	default:
		t.Fatal("new session got no frame")
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHub_DropsSlowSession(t *testing.T) {
	h := NewHub()
	slow, fast := newSession("slow"), newSession("fast")
	h.add(slow)
	h.add(fast)

	for range sendBuffer {
		h.broadcast([]byte("x"))
		<-fast.send
	}
	h.broadcast([]byte("overflow"))

	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	select {
	case <-slow.done:
	default:
		t.Error("slow session not closed")
	}
	if got := string(<-fast.send); got != "overflow" {
		t.Errorf("fast session got %q, want overflow", got)
	}
}

func TestHub_SendTo(t *testing.T) {
	h := NewHub()
	a, b := newSession("a"), newSession("b")
	h.add(a)
	h.add(b)

	h.sendTo("b", []byte("hi"))
	h.sendTo("missing", []byte("ignored"))
	if len(a.send) != 0 || len(b.send) != 1 {
		t.Errorf("queued a=%d b=%d, want 0 and 1", len(a.send), len(b.send))
	}

	h.closeAll()
	if h.Len() != 0 {
		t.Errorf("Len() after closeAll = %d", h.Len())
	}
}
