package broadcast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/stream-orbs/internal/core"
	"github.com/vovakirdan/stream-orbs/internal/sprite"
	"github.com/vovakirdan/stream-orbs/internal/stage"
)

const (
	writeWait    = 5 * time.Second
	pingInterval = 20 * time.Second
	maxCommand   = 64 << 10
)

// Controller is the part of the stage API that remote admins may drive.
type Controller interface {
	Add(cfg sprite.Config) (string, error)
	Remove(id string) bool
	Clear()
	Update(id string, p sprite.Patch) error
	SwitchMode(id string) error
	UpdateConfig(patch []byte) error
	Rerun(id string) error
	Explode(cx, cy, force float64) int
	Handle(a core.Action) error
	Snapshot() stage.Frame
}

var _ Controller = (*stage.Stage)(nil)

// Command is a JSON admin command sent by a client.
type Command struct {
	Type   string          `json:"type"`
	ID     string          `json:"id,omitempty"`
	Orb    *sprite.Config  `json:"orb,omitempty"`
	Patch  *sprite.Patch   `json:"patch,omitempty"`
	Mode   string          `json:"mode,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
	X      float64         `json:"x,omitempty"`
	Y      float64         `json:"y,omitempty"`
	Force  float64         `json:"force,omitempty"`
}

var errBadCommand = errors.New("broadcast: bad command")

// WSServer streams frames to websocket clients and accepts admin commands.
// Clients connected with ?display=1 only receive frames.
type WSServer struct {
	hub      *Hub
	ctrl     Controller
	logger   *log.Logger
	upgrader websocket.Upgrader
	buffer   int
}

// NewWSServer creates a websocket endpoint backed by hub and ctrl.
func NewWSServer(hub *Hub, ctrl Controller, logger *log.Logger) *WSServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &WSServer{
		hub:    hub,
		ctrl:   ctrl,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		buffer: 32,
	}
}

// ServeHTTP upgrades the connection and runs it until the client leaves.
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	display := r.URL.Query().Get("display") != ""
	sub := s.hub.Subscribe(s.buffer)
	defer s.hub.Unsubscribe(sub.ID())

	s.logger.Info("client connected", "id", sub.ID(), "remote", r.RemoteAddr, "display", display)

	frame := s.ctrl.Snapshot()
	sub.Send(Message{Type: TypeFrame, Frame: &frame})

	go s.writeLoop(conn, sub)

	conn.SetReadLimit(maxCommand)
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug("client disconnected", "id", sub.ID(), "err", err)
			return
		}
		if display {
			continue
		}

		var cmd Command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			sub.Send(Message{Type: TypeError, Error: "malformed command"})
			continue
		}
		id, err := s.apply(cmd)
		if err != nil {
			s.logger.Debug("command rejected", "type", cmd.Type, "err", err)
			sub.Send(Message{Type: TypeError, ID: cmd.ID, Error: err.Error()})
			continue
		}
		sub.Send(Message{Type: TypeAck, ID: id})
	}
}

// writeLoop is the connection's only writer.
func (s *WSServer) writeLoop(conn *websocket.Conn, sub *Subscriber) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case msg := <-sub.Events():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				conn.Close()
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(writeWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				conn.Close()
				return
			}
		case <-sub.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

// apply runs one command against the stage. Returns the id the ack
// refers to.
func (s *WSServer) apply(cmd Command) (string, error) {
	switch cmd.Type {
	case "add":
		if cmd.Orb == nil {
			return "", fmt.Errorf("%w: add needs an orb", errBadCommand)
		}
		return s.ctrl.Add(*cmd.Orb)
	case "remove":
		if !s.ctrl.Remove(cmd.ID) {
			return "", fmt.Errorf("%w: %q", stage.ErrSpriteNotFound, cmd.ID)
		}
		return cmd.ID, nil
	case "clear":
		s.ctrl.Clear()
		return "", nil
	case "update":
		if cmd.Patch == nil {
			return "", fmt.Errorf("%w: update needs a patch", errBadCommand)
		}
		return cmd.ID, s.ctrl.Update(cmd.ID, *cmd.Patch)
	case "switch":
		return cmd.Mode, s.ctrl.SwitchMode(cmd.Mode)
	case "config":
		return "", s.ctrl.UpdateConfig(cmd.Config)
	case "rerun":
		return cmd.ID, s.ctrl.Rerun(cmd.ID)
	case "explode":
		force := cmd.Force
		if force == 0 {
			force = sprite.DefaultExplodeForce
		}
		s.ctrl.Explode(cmd.X, cmd.Y, force)
		return "", nil
	}

	if a := core.ParseAction(cmd.Type); a != core.ActionNone {
		return "", s.ctrl.Handle(a)
	}
	return "", fmt.Errorf("%w: unknown type %q", errBadCommand, cmd.Type)
}
