package match

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ggsperf/internal/domain/board"
	"ggsperf/internal/domain/match"
	perfErrors "ggsperf/internal/errors"
)

type MoveStore interface {
	RequestMove(ctx context.Context, boardData string, color board.Stone) (match.Suggestion, error)
}

type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NotStarted"
	case StateInProgress:
		return "InProgress"
	}
	return "Finished"
}

// Simulator plays one match against the remote service. It owns its board
// and cannot be reused once Run has been called.
type Simulator struct {
	gameNumber int
	store      MoveStore
	board      *board.Board
	maxMoves   int
	state      State
	log        *zap.SugaredLogger
}

func NewSimulator(gameNumber int, store MoveStore, boardSize int, log *zap.SugaredLogger) (*Simulator, error) {
	b, err := board.New(boardSize, boardSize)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		gameNumber: gameNumber,
		store:      store,
		board:      b,
		maxMoves:   b.Cells(),
		state:      StateNotStarted,
		log:        log,
	}, nil
}

func (s *Simulator) State() State {
	return s.state
}

// Run plays until territory, the move cap, an invalid suggestion or a failed
// request ends the match. The error is non-nil only when the match was not
// played to a terminal state: ErrMatchAlreadyRun, or ErrInterrupted when ctx
// was cancelled (the partial result is still returned).
func (s *Simulator) Run(ctx context.Context) (match.Result, error) {
	if s.state != StateNotStarted {
		return match.Result{}, perfErrors.ErrMatchAlreadyRun
	}
	s.state = StateInProgress
	start := time.Now()

	s.log.Infow("starting game", "game", s.gameNumber, "board_size", s.board.Width)

	moves := make([]match.Move, 0)
	color := board.Black
	winner, reason, detail := match.OutcomeDraw, match.EndMaxMoves, ""

	for moveNumber := 1; moveNumber <= s.maxMoves; moveNumber++ {
		if ctx.Err() != nil {
			return s.finish(start, moves, match.OutcomeDraw, match.EndError, perfErrors.ErrInterrupted.Error()), perfErrors.ErrInterrupted
		}

		suggestion, err := s.store.RequestMove(ctx, s.board.Serialize(), color)
		if err != nil {
			if ctx.Err() != nil {
				return s.finish(start, moves, match.OutcomeDraw, match.EndError, perfErrors.ErrInterrupted.Error()), perfErrors.ErrInterrupted
			}
			reason, detail = match.EndError, err.Error()
			s.log.Warnw("game ended due to error", "game", s.gameNumber, "move", moveNumber, "error", err)
			break
		}

		row, col := suggestion.Row-1, suggestion.Column-1
		if !s.board.IsInBounds(row, col) || !s.board.IsEmpty(row, col) {
			reason = match.EndInvalidMove
			detail = fmt.Sprintf("invalid move suggested: %d,%d", suggestion.Row, suggestion.Column)
			s.log.Warnw("invalid move suggested", "game", s.gameNumber, "move", moveNumber,
				"row", suggestion.Row, "column", suggestion.Column)
			break
		}

		if err := s.board.Place(row, col, color, moveNumber); err != nil {
			reason, detail = match.EndInvalidMove, err.Error()
			break
		}
		moves = append(moves, match.Move{
			MoveNumber:   moveNumber,
			Row:          suggestion.Row,
			Column:       suggestion.Column,
			Color:        color.String(),
			ResponseTime: suggestion.ResponseTime,
		})
		s.log.Debugw("move", "game", s.gameNumber, "move", moveNumber, "color", color.String(),
			"row", suggestion.Row, "column", suggestion.Column, "response_time_ms", suggestion.ResponseTime)

		if over, w := s.territoryOutcome(); over {
			winner, reason = w, match.EndTerritory
			break
		}

		color = color.Opponent()
	}

	return s.finish(start, moves, winner, reason, detail), nil
}

// territoryOutcome ends the match once fewer than 10% of the cells are
// empty; the color with more stones wins.
func (s *Simulator) territoryOutcome() (bool, match.Outcome) {
	empty, black, white := s.board.Count()
	if empty*10 >= s.board.Cells() {
		return false, match.OutcomeDraw
	}
	switch {
	case black > white:
		return true, match.OutcomeBlack
	case white > black:
		return true, match.OutcomeWhite
	}
	return true, match.OutcomeDraw
}

func (s *Simulator) finish(start time.Time, moves []match.Move, winner match.Outcome, reason match.EndReason, detail string) match.Result {
	s.state = StateFinished

	var average float64
	if len(moves) > 0 {
		var sum float64
		for _, m := range moves {
			sum += m.ResponseTime
		}
		average = sum / float64(len(moves))
	}

	return match.Result{
		GameNumber:          s.gameNumber,
		TotalMoves:          len(moves),
		TotalTime:           match.Millis(time.Since(start)),
		AverageResponseTime: average,
		Moves:               moves,
		Winner:              winner,
		EndReason:           reason,
		EndDetail:           detail,
		FinalBoard:          s.board.SequenceSnapshot(),
	}
}
