package main

import (
	"net/http"

	"bloxpace/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsReadLimit = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// webSocketHandler upgrades the connection and serves commands for the
// caller's session until the client goes away. Every command is answered
// with the current game, or with an error plus the unchanged game.
func (app *App) webSocketHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)

	// The upgrade hijacks the connection, so a freshly issued cookie has to
	// travel in the handshake response.
	header := http.Header{}
	if cookies := c.Writer.Header().Values("Set-Cookie"); len(cookies) > 0 {
		header["Set-Cookie"] = cookies
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		logWarn("%sWebSocket upgrade failed: %v", requestTag(ctx), err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)
	logInfo("%sWebSocket connected for session %s", requestTag(ctx), sessionID)

	for {
		var cmd types.CommandMessage
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logWarn("%sWebSocket read for session %s: %v", requestTag(ctx), sessionID, err)
			}
			return
		}

		// Looked up per message so the sweeper cannot strand a long-lived connection.
		sess := app.getSession(ctx, sessionID)
		view, err := app.applyCommand(ctx, sess, cmd)
		reply := types.ServerMessage{Type: MessageGameState, State: &view}
		if err != nil {
			reply = types.ServerMessage{Type: MessageError, Error: err.Error(), State: &view}
		}
		if err := conn.WriteJSON(reply); err != nil {
			logWarn("%sWebSocket write for session %s: %v", requestTag(ctx), sessionID, err)
			return
		}
	}
}
