package game

// View is the screen implied by a session's state.
type View string

const (
	ViewEntry    View = "entry"
	ViewIdle     View = "idle"
	ViewRunning  View = "running"
	ViewGameOver View = "game_over"
)

// Snapshot captures the state needed for rendering.
type Snapshot struct {
	ID          string
	Nickname    string
	Submitted   bool
	Score       int
	TimeLeft    int
	Running     bool
	Asset       *Asset // nil outside a round
	ShowPopup   bool
	PopupPoints int
	Round       uint64
	Clicks      int
	View        View
}

// DeriveView maps state to a screen. A stopped countdown at zero is the
// game-over summary; a stopped countdown at full length is the start prompt.
func DeriveView(s Snapshot) View {
	switch {
	case !s.Submitted:
		return ViewEntry
	case s.Running:
		return ViewRunning
	case s.TimeLeft == 0:
		return ViewGameOver
	default:
		return ViewIdle
	}
}
