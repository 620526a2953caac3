package gameModel

type RegionView struct {
	ID      Region `json:"id"`
	Name    string `json:"name"`
	Text    string `json:"text"`
	Painted bool   `json:"painted"`
	Color   string `json:"color,omitempty"`
}

type NumberView struct {
	Number  int         `json:"number"`
	Color   string      `json:"color"`
	State   NumberState `json:"state"`
	Regions int         `json:"regions"`
	Painted int         `json:"painted"`
}

// GameView is what a presentation needs to draw the current round. It
// carries expression text but never the results.
type GameView struct {
	ID         string       `json:"id,omitempty"`
	Seed       int64        `json:"seed"`
	Difficulty Difficulty   `json:"difficulty"`
	Regions    []RegionView `json:"regions"`
	Numbers    []NumberView `json:"numbers"`
	Selected   int          `json:"selected,omitempty"`
	Painted    int          `json:"painted"`
	Complete   bool         `json:"complete"`
}

type EventType string

const (
	EventRoundStarted  EventType = "round_started"
	EventRegionPainted EventType = "region_painted"
	EventNumberState   EventType = "number_state"
	EventFeedback      EventType = "feedback"
	EventGameComplete  EventType = "game_complete"
)

type Event struct {
	Type    EventType    `json:"type"`
	Game    *GameView    `json:"game,omitempty"`
	Region  string       `json:"region,omitempty"`
	Color   string       `json:"color,omitempty"`
	Number  int          `json:"number,omitempty"`
	State   string       `json:"state,omitempty"`
	Message string       `json:"message,omitempty"`
	Kind    FeedbackKind `json:"kind,omitempty"`
}

type NewGameRequest struct {
	Difficulty string `json:"difficulty"`
	Seed       int64  `json:"seed,omitempty"`
}

type RoundRequest struct {
	Difficulty string `json:"difficulty"`
}

type SelectRequest struct {
	Number int    `json:"number"`
	Color  string `json:"color,omitempty"`
}

// PaintRequest names a region directly or gives a point in illustration
// space.
type PaintRequest struct {
	Region string   `json:"region,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
}

type DropRequest struct {
	Region string   `json:"region,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Number int      `json:"number"`
}

type Response struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Outcome string    `json:"outcome,omitempty"`
	Game    *GameView `json:"game,omitempty"`
	Events  []Event   `json:"events,omitempty"`
}
