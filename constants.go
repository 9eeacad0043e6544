package main

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome      = "/"
	RouteGameState = "/game-state"
	RouteSelect    = "/select"
	RouteCancel    = "/cancel"
	RoutePlace     = "/place"
	RouteNewGame   = "/new-game"
	RouteAPI       = "/api"
	RouteWebSocket = "/ws"
	RouteHealthz   = "/healthz"
)

// Command types shared by the JSON API and the websocket channel
const (
	CommandState   = "state"
	CommandSelect  = "select"
	CommandCancel  = "cancel"
	CommandPlace   = "place"
	CommandRestart = "restart"
)

// Websocket reply types
const (
	MessageGameState = "gameState"
	MessageError     = "error"
)

// Error message constants
const (
	ErrorGameOver         = "Game is over."
	ErrorInvalidSelection = "That shape cannot be selected."
	ErrorInvalidPlacement = "The shape does not fit there."
	ErrorBadRequest       = "Malformed request."
	ErrorUnknownCommand   = "Unknown command."
)

const pageTitle = "Bloxpace - Block Placement Puzzle"

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)
