package broadcast

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
	"github.com/vovakirdan/stream-orbs/internal/stage"
)

var sprite0 = sprite.Config{ImageSrc: "color:#ff0000", Label: "alice"}

func newServer(t *testing.T) (*stage.Stage, *Hub, string) {
	t.Helper()
	rt := core.DefaultConfig()
	rt.Seed = 1
	hub := NewHub(nil)
	st, err := stage.New(rt, stage.WithChanges(hub.PublishChange))
	if err != nil {
		t.Fatalf("stage.New() error = %v", err)
	}
	srv := httptest.NewServer(NewWSServer(hub, st, nil))
	t.Cleanup(srv.Close)
	return st, hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

// next reads messages until one of the given type arrives.
func next(t *testing.T, conn *websocket.Conn, typ string) Message {
	t.Helper()
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if msg.Type == typ {
			return msg
		}
	}
}

func TestWSInitialFrame(t *testing.T) {
	_, _, url := newServer(t)
	conn := dial(t, url)

	msg := next(t, conn, TypeFrame)
	if msg.Frame == nil || msg.Frame.Mode != stage.DefaultMode {
		t.Errorf("initial frame = %+v, expected mode %s", msg.Frame, stage.DefaultMode)
	}
}

func TestWSCommands(t *testing.T) {
	st, _, url := newServer(t)
	conn := dial(t, url)
	next(t, conn, TypeFrame)

	send := func(cmd Command) {
		t.Helper()
		if err := conn.WriteJSON(cmd); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
	}

	send(Command{Type: "add", Orb: &sprite0})
	ack := next(t, conn, TypeAck)
	if ack.ID == "" || st.Len() != 1 {
		t.Fatalf("ack = %+v, len = %d, expected a new sprite", ack, st.Len())
	}

	send(Command{Type: "switch", Mode: "race"})
	next(t, conn, TypeAck)
	if st.Mode() != "race" {
		t.Errorf("Mode() = %q, expected race", st.Mode())
	}

	send(Command{Type: "config", Config: []byte(`{"lane_count": 3}`)})
	next(t, conn, TypeAck)

	send(Command{Type: "switch", Mode: "bowling"})
	if msg := next(t, conn, TypeError); !strings.Contains(msg.Error, "mode not found") {
		t.Errorf("error = %q, expected mode not found", msg.Error)
	}

	send(Command{Type: "remove", ID: ack.ID})
	next(t, conn, TypeAck)
	if st.Len() != 0 {
		t.Errorf("Len() = %d after remove, expected 0", st.Len())
	}

	send(Command{Type: "dance"})
	next(t, conn, TypeError)
}

func TestWSChangesReachDisplays(t *testing.T) {
	st, _, url := newServer(t)
	display := dial(t, url+"?display=1")
	next(t, display, TypeFrame)

	// A display never acts on commands.
	display.WriteJSON(Command{Type: "clear"})

	if _, err := st.Add(sprite0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	msg := next(t, display, TypeChange)
	if msg.Change.Kind != stage.ChangeAdded {
		t.Errorf("change = %+v, expected added", msg.Change)
	}
}
