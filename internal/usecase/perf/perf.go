package perf

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ggsperf/internal/domain/match"
	perfErrors "ggsperf/internal/errors"
	matchUC "ggsperf/internal/usecase/match"
)

type MatchRunner interface {
	Run(ctx context.Context) (match.Result, error)
}

// MatchFactory builds the runner for one 1-based game number. An error
// skips that game.
type MatchFactory func(gameNumber int) (MatchRunner, error)

type PerfUseCase struct {
	factory MatchFactory
	games   int
	workers int
	log     *zap.SugaredLogger
}

func NewPerfUseCase(factory MatchFactory, games, workers int, log *zap.SugaredLogger) *PerfUseCase {
	if workers < 1 {
		workers = 1
	}
	return &PerfUseCase{
		factory: factory,
		games:   games,
		workers: workers,
		log:     log,
	}
}

// SimulatorFactory returns a MatchFactory that gives every game a fresh
// simulator sharing the same move store.
func SimulatorFactory(store matchUC.MoveStore, boardSize int, log *zap.SugaredLogger) MatchFactory {
	return func(gameNumber int) (MatchRunner, error) {
		return matchUC.NewSimulator(gameNumber, store, boardSize, log)
	}
}

type slot struct {
	result *match.Result
	skip   *match.Skip
}

// Run plays every requested game, at most workers at a time, and returns
// the statistics of the games that completed. Results are ordered by game
// number regardless of completion order. Cancelling ctx stops new games from
// starting; a game cut short by cancellation is dropped.
func (p *PerfUseCase) Run(ctx context.Context) match.Stats {
	p.log.Infow("starting performance test", "games", p.games, "workers", p.workers)

	slots := make([]slot, p.games)
	var interrupted atomic.Bool

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 1; i <= p.games; i++ {
		if ctx.Err() != nil {
			interrupted.Store(true)
			break
		}
		gameNumber := i
		g.Go(func() error {
			if ctx.Err() != nil {
				interrupted.Store(true)
				return nil
			}
			result, skip, err := p.playGame(ctx, gameNumber)
			switch {
			case errors.Is(err, perfErrors.ErrInterrupted):
				interrupted.Store(true)
			case skip != nil:
				slots[gameNumber-1].skip = skip
			default:
				slots[gameNumber-1].result = result
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]match.Result, 0, p.games)
	skipped := make([]match.Skip, 0)
	for _, s := range slots {
		if s.result != nil {
			results = append(results, *s.result)
		}
		if s.skip != nil {
			skipped = append(skipped, *s.skip)
		}
	}

	summary := Summarize(results)
	summary.Skipped = skipped
	summary.Interrupted = interrupted.Load()

	if summary.Interrupted {
		p.log.Warnw("performance test interrupted", "completed_games", summary.TotalGames)
	}
	return summary
}

func (p *PerfUseCase) playGame(ctx context.Context, gameNumber int) (result *match.Result, skip *match.Skip, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("game failed", "game", gameNumber, "panic", r)
			result, skip, err = nil, &match.Skip{GameNumber: gameNumber, Reason: fmt.Sprintf("panic: %v", r)}, nil
		}
	}()

	p.log.Infow("game", "game", gameNumber, "of", p.games)

	runner, err := p.factory(gameNumber)
	if err != nil {
		p.log.Errorw("game failed", "game", gameNumber, "error", err)
		return nil, &match.Skip{GameNumber: gameNumber, Reason: err.Error()}, nil
	}

	res, err := runner.Run(ctx)
	if errors.Is(err, perfErrors.ErrInterrupted) {
		p.log.Warnw("game abandoned", "game", gameNumber, "moves", res.TotalMoves)
		return nil, nil, err
	}
	if err != nil {
		p.log.Errorw("game failed", "game", gameNumber, "error", err)
		return nil, &match.Skip{GameNumber: gameNumber, Reason: err.Error()}, nil
	}

	p.log.Infow("game completed", "game", gameNumber, "moves", res.TotalMoves,
		"total_time_ms", res.TotalTime, "avg_response_time_ms", res.AverageResponseTime,
		"winner", res.Winner, "end_reason", res.EndReason)
	return &res, nil, nil
}
