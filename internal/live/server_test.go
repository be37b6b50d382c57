package live

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/netgraph/pkg/config"
	"github.com/matzehuels/netgraph/pkg/graph"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(config.Default(), WithInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		cancel()
		<-done
		ts.Close()
	})

	g, _ := graph.Load([]graph.NodeSpec{
		{Key: "A", Label: "Alpha"}, {Key: "B", Label: "Beta"}, {Key: "C", Label: "Gamma"},
	}, []graph.EdgeSpec{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}})
	if err := s.Load(ctx, g); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s, ts
}

func postEvent(t *testing.T, ts *httptest.Server, ev Event) (*http.Response, message) {
	t.Helper()
	body, _ := json.Marshal(ev)
	resp, err := http.Post(ts.URL+"/api/events", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()
	var m message
	if resp.StatusCode != http.StatusNoContent {
		json.NewDecoder(resp.Body).Decode(&m)
	}
	return resp, m
}

func TestStats(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var st statsBody
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatal(err)
	}
	if st.Nodes != 3 || st.Edges != 2 {
		t.Errorf("stats = %+v, want 3 nodes 2 edges", st)
	}
}

func TestEvents(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name     string
		ev       Event
		status   int
		wantCode string
		wantKeys []string
	}{
		{"select", Event{Type: EventSelect, Key: "B"}, http.StatusNoContent, "", nil},
		{"select unknown", Event{Type: EventSelect, Key: "zzz"}, http.StatusNotFound, "NOT_FOUND", nil},
		{"search", Event{Type: EventSearch, Term: "gam"}, http.StatusOK, "", []string{"C"}},
		{"search miss", Event{Type: EventSearch, Term: "qqq"}, http.StatusNotFound, "NOT_FOUND", nil},
		{"bad threshold", Event{Type: EventThreshold, Threshold: -2}, http.StatusBadRequest, "INVALID_CONFIG", nil},
		{"bad zoom", Event{Type: EventZoom, Factor: 0}, http.StatusBadRequest, "INVALID_DATA", nil},
		{"unknown", Event{Type: "teleport"}, http.StatusBadRequest, "UNSUPPORTED", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, m := postEvent(t, ts, tt.ev)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.wantCode != "" && (m.Error == nil || m.Error.Code != tt.wantCode) {
				t.Errorf("error = %+v, want code %s", m.Error, tt.wantCode)
			}
			if tt.wantKeys != nil && !reflect.DeepEqual(m.Keys, tt.wantKeys) {
				t.Errorf("keys = %v, want %v", m.Keys, tt.wantKeys)
			}
		})
	}
}

func TestFrameSVG(t *testing.T) {
	_, ts := newTestServer(t)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/frame.svg")
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		buf.ReadFrom(resp.Body)
		resp.Body.Close()
		// Frames drawn before the load show an empty graph.
		if resp.StatusCode == http.StatusOK && strings.Contains(buf.String(), `data-key="B"`) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no frame with node B drawn")
}

func TestWebsocket(t *testing.T) {
	s, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func(want string) message {
		t.Helper()
		for {
			var m message
			if err := conn.ReadJSON(&m); err != nil {
				t.Fatalf("waiting for %s: %v", want, err)
			}
			if m.Type == want {
				return m
			}
		}
	}

	hello := read(msgHello)
	if hello.Session == "" {
		t.Error("hello without session id")
	}
	if f := read(msgFrame); !strings.HasPrefix(f.SVG, "<svg") {
		t.Errorf("frame svg = %.40q", f.SVG)
	}
	if s.Hub().Len() != 1 {
		t.Errorf("Hub().Len() = %d, want 1", s.Hub().Len())
	}

	if err := conn.WriteJSON(Event{Type: EventSelect, Key: "C"}); err != nil {
		t.Fatal(err)
	}
	if m := read(msgSelected); m.Key != "C" {
		t.Errorf("selected = %q, want C", m.Key)
	}

	conn.WriteJSON(Event{Type: EventSelect, Key: "nope"})
	if m := read(msgError); m.Error == nil || m.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", m.Error)
	}
}
