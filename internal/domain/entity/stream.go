package entity

// Stream is a live broadcast of a game.
type Stream struct {
	Title       string `json:"title"`
	ViewerCount int    `json:"viewer_count"`
}

// StreamDashboard is the charting payload for a game's live streams.
// The JSON keys are consumed as-is by the dashboard front end.
type StreamDashboard struct {
	Labels           []string  `json:"labels"`
	SimulatedRatings []float64 `json:"data_avaliacoes"`
	ViewerCounts     []int     `json:"data_visualizadores"`
	Title            string    `json:"titulo"`
}
