package match

import "time"

type Outcome string

const (
	OutcomeBlack Outcome = "black"
	OutcomeWhite Outcome = "white"
	OutcomeDraw  Outcome = "draw"
)

type EndReason string

const (
	EndTerritory   EndReason = "territory"
	EndMaxMoves    EndReason = "maxMoves"
	EndInvalidMove EndReason = "invalidMove"
	EndError       EndReason = "error"
)

// Suggestion is a move proposed by the remote service, in 1-based board coordinates.
type Suggestion struct {
	Row          int
	Column       int
	ResponseTime float64 // ms
}

// Move is one applied placement. Row and Column are 1-based as received.
type Move struct {
	MoveNumber   int     `json:"move_number"`
	Row          int     `json:"row"`
	Column       int     `json:"column"`
	Color        string  `json:"color"`
	ResponseTime float64 `json:"response_time"`
}

type Result struct {
	GameNumber          int       `json:"game_number"`
	TotalMoves          int       `json:"total_moves"`
	TotalTime           float64   `json:"total_time"`
	AverageResponseTime float64   `json:"average_response_time"`
	Moves               []Move    `json:"moves"`
	Winner              Outcome   `json:"winner"`
	EndReason           EndReason `json:"end_reason"`
	EndDetail           string    `json:"end_detail,omitempty"`
	FinalBoard          [][]int   `json:"final_board"`
}

// Skip describes a match that could not be run at all.
type Skip struct {
	GameNumber int    `json:"game_number"`
	Reason     string `json:"reason"`
}

type Stats struct {
	TotalGames          int       `json:"total_games"`
	TotalMoves          int       `json:"total_moves"`
	TotalTime           float64   `json:"total_time"`
	AverageGameTime     float64   `json:"average_game_time"`
	AverageResponseTime float64   `json:"average_response_time"`
	MinResponseTime     float64   `json:"min_response_time"`
	MaxResponseTime     float64   `json:"max_response_time"`
	P50ResponseTime     float64   `json:"p50_response_time"`
	P90ResponseTime     float64   `json:"p90_response_time"`
	P99ResponseTime     float64   `json:"p99_response_time"`
	MinGameTime         float64   `json:"min_game_time"`
	MaxGameTime         float64   `json:"max_game_time"`
	ResponseTimes       []float64 `json:"response_times"`
	GameTimes           []float64 `json:"game_times"`
	Games               []Result  `json:"games"`
	Skipped             []Skip    `json:"skipped"`
	Interrupted         bool      `json:"interrupted"`
}

func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
