package perf

import (
	"github.com/montanaflynn/stats"

	"ggsperf/internal/domain/match"
)

// Summarize derives run-wide statistics from completed matches. It depends
// only on results, so calling it twice on the same slice gives equal Stats.
// Empty sample sets yield zeros.
func Summarize(results []match.Result) match.Stats {
	responseTimes := make([]float64, 0)
	gameTimes := make([]float64, 0, len(results))
	totalMoves := 0
	for _, r := range results {
		gameTimes = append(gameTimes, r.TotalTime)
		totalMoves += r.TotalMoves
		for _, m := range r.Moves {
			responseTimes = append(responseTimes, m.ResponseTime)
		}
	}

	games := append([]match.Result{}, results...)
	latency := stats.Float64Data(responseTimes)
	duration := stats.Float64Data(gameTimes)

	return match.Stats{
		TotalGames:          len(results),
		TotalMoves:          totalMoves,
		TotalTime:           orZero(duration.Sum()),
		AverageGameTime:     orZero(duration.Mean()),
		AverageResponseTime: orZero(latency.Mean()),
		MinResponseTime:     orZero(latency.Min()),
		MaxResponseTime:     orZero(latency.Max()),
		P50ResponseTime:     orZero(latency.Percentile(50)),
		P90ResponseTime:     orZero(latency.Percentile(90)),
		P99ResponseTime:     orZero(latency.Percentile(99)),
		MinGameTime:         orZero(duration.Min()),
		MaxGameTime:         orZero(duration.Max()),
		ResponseTimes:       responseTimes,
		GameTimes:           gameTimes,
		Games:               games,
		Skipped:             []match.Skip{},
	}
}

func orZero(v float64, err error) float64 {
	if err != nil {
		return 0
	}
	return v
}
