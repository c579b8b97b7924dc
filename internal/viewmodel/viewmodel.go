package viewmodel

// AssetView is the clickable asset as rendered.
type AssetView struct {
	Name     string `json:"name"`
	ImageURL string `json:"image"`
	Points   int    `json:"points"`
}

// GamePanel holds data for the game panel fragment.
type GamePanel struct {
	SessionID    string     `json:"-"`
	View         string     `json:"view"`
	Nickname     string     `json:"nickname"`
	Submitted    bool       `json:"submitted"`
	Score        int        `json:"score"`
	TimeLeft     int        `json:"timeLeft"`
	RoundSeconds int        `json:"roundSeconds"`
	Running      bool       `json:"running"`
	Asset        *AssetView `json:"asset,omitempty"`
	ShowPopup    bool       `json:"showPopup"`
	PopupPoints  int        `json:"popupPoints,omitempty"`
	Round        uint64     `json:"round"`
	Clicks       int        `json:"clicks"`
	MaxNickname  int        `json:"-"`
}

// GamePage holds data for the full page template.
type GamePage struct {
	Title     string
	SessionID string
	Panel     GamePanel
}
