package types

// CellView is one board cell as seen by a client. Color is empty for a free cell.
type CellView struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

type ShapeView struct {
	Slot     int      `json:"slot"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Color    string   `json:"color"`
	Rows     [][]bool `json:"rows"`
	Value    int      `json:"value"`
	Fits     bool     `json:"fits"`
	Selected bool     `json:"selected"`
}

type StatsView struct {
	Placements int `json:"placements"`
	Rows       int `json:"rows"`
	Columns    int `json:"columns"`
	LastClear  int `json:"lastClear"`
}

type GameView struct {
	Board    [][]CellView `json:"board"`
	Shapes   []ShapeView  `json:"shapes"`
	Selected int          `json:"selected"`
	Score    int          `json:"score"`
	State    string       `json:"state"`
	GameOver bool         `json:"gameOver"`
	Filled   int          `json:"filled"`
	Stats    StatsView    `json:"stats"`
}

// CommandMessage is a player command, sent as a JSON body or a websocket frame.
// Slot, X and Y are pointers so a missing field can be told apart from zero.
type CommandMessage struct {
	Type string `json:"type"`
	Slot *int   `json:"slot,omitempty"`
	X    *int   `json:"x,omitempty"`
	Y    *int   `json:"y,omitempty"`
}

// ServerMessage is a websocket reply.
type ServerMessage struct {
	Type  string    `json:"type"`
	State *GameView `json:"state,omitempty"`
	Error string    `json:"error,omitempty"`
}
