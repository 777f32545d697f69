package domain

// Result is computed once per player per race and never mutated.
type Result struct {
	WPM      int     `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
}

// WinnerDraw is the winner value announced when both players typed
// at exactly the same wpm. Accuracy never breaks a tie.
const WinnerDraw = "Draw"
