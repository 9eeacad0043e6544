package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bloxpace/internal/types"

	"github.com/gorilla/websocket"
)

func dialTestServer(t *testing.T, srv *httptest.Server, withCookie bool) (*websocket.Conn, *http.Response) {
	t.Helper()
	header := http.Header{}
	if withCookie {
		header.Set("Cookie", SessionCookieName+"="+testSessionID)
	}
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + RouteWebSocket
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, resp
}

func sendCommand(t *testing.T, conn *websocket.Conn, cmd any) types.ServerMessage {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(cmd); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply types.ServerMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.State == nil {
		t.Fatalf("reply %q carries no state", reply.Type)
	}
	return reply
}

func TestWebSocketCommands(t *testing.T) {
	app := newTestApp()
	seedSession(app, monominoes())
	srv := httptest.NewServer(setupTestRouter(app))
	defer srv.Close()

	conn, _ := dialTestServer(t, srv, true)

	reply := sendCommand(t, conn, map[string]any{"type": CommandState})
	if reply.Type != MessageGameState || reply.State.Selected != -1 {
		t.Fatalf("state reply = %+v", reply)
	}

	reply = sendCommand(t, conn, map[string]any{"type": CommandSelect, "slot": 1})
	if reply.Type != MessageGameState || reply.State.Selected != 1 {
		t.Fatalf("select reply: type=%q selected=%d", reply.Type, reply.State.Selected)
	}

	reply = sendCommand(t, conn, map[string]any{"type": CommandPlace, "x": 7, "y": 7})
	if reply.Type != MessageGameState || reply.State.Score != 1 {
		t.Fatalf("place reply: type=%q score=%d", reply.Type, reply.State.Score)
	}
	if reply.State.Board[7][7].Color != "#f00" {
		t.Errorf("cell (7,7) = %q, want #f00", reply.State.Board[7][7].Color)
	}

	reply = sendCommand(t, conn, map[string]any{"type": CommandPlace, "x": 0, "y": 0})
	if reply.Type != MessageError || reply.Error != ErrorInvalidPlacement {
		t.Errorf("place without selection: type=%q error=%q", reply.Type, reply.Error)
	}
	if reply.State.Score != 1 {
		t.Errorf("rejected place changed score to %d", reply.State.Score)
	}

	reply = sendCommand(t, conn, map[string]any{"type": "rotate"})
	if reply.Type != MessageError || reply.Error != ErrorUnknownCommand {
		t.Errorf("unknown command: type=%q error=%q", reply.Type, reply.Error)
	}

	reply = sendCommand(t, conn, map[string]any{"type": CommandRestart})
	if reply.Type != MessageGameState || reply.State.Score != 0 || reply.State.Filled != 0 {
		t.Errorf("restart reply: score=%d filled=%d", reply.State.Score, reply.State.Filled)
	}
}

func TestWebSocketSharesSessionWithHTTP(t *testing.T) {
	app := newTestApp()
	sess := seedSession(app, monominoes())
	srv := httptest.NewServer(setupTestRouter(app))
	defer srv.Close()

	conn, _ := dialTestServer(t, srv, true)
	sendCommand(t, conn, map[string]any{"type": CommandSelect, "slot": 0})
	sendCommand(t, conn, map[string]any{"type": CommandPlace, "x": 4, "y": 4})

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if got := sess.Game.Score(); got != 1 {
		t.Errorf("session score = %d, want 1", got)
	}
}

func TestWebSocketIssuesSessionCookie(t *testing.T) {
	app := newTestApp()
	srv := httptest.NewServer(setupTestRouter(app))
	defer srv.Close()

	conn, resp := dialTestServer(t, srv, false)
	if !strings.Contains(resp.Header.Get("Set-Cookie"), SessionCookieName+"=") {
		t.Errorf("handshake did not set a session cookie: %v", resp.Header)
	}

	reply := sendCommand(t, conn, map[string]any{"type": CommandState})
	if reply.Type != MessageGameState || len(reply.State.Shapes) != 3 {
		t.Errorf("unexpected reply %+v", reply)
	}
	if app.sessionCount() != 1 {
		t.Errorf("expected 1 session, got %d", app.sessionCount())
	}
}
