package match

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"ggsperf/internal/bootstrap"
	"ggsperf/internal/domain/board"
	"ggsperf/internal/domain/match"
	perfErrors "ggsperf/internal/errors"
	"ggsperf/internal/repository"
)

type reply struct {
	row, col int
	latency  float64
	err      error
}

// scriptedStore answers requests from a fixed list, then falls back to the
// first empty cell in row-major order.
type scriptedStore struct {
	replies []reply
	colors  []board.Stone
	boards  []string
}

func (s *scriptedStore) RequestMove(_ context.Context, boardData string, color board.Stone) (match.Suggestion, error) {
	s.colors = append(s.colors, color)
	s.boards = append(s.boards, boardData)

	n := len(s.colors) - 1
	if n < len(s.replies) {
		r := s.replies[n]
		if r.err != nil {
			return match.Suggestion{}, r.err
		}
		return match.Suggestion{Row: r.row, Column: r.col, ResponseTime: r.latency}, nil
	}

	b, err := board.Parse(boardData)
	if err != nil {
		return match.Suggestion{}, err
	}
	cells := b.EmptyCells()
	if len(cells) == 0 {
		return match.Suggestion{}, &perfErrors.Failure{Kind: perfErrors.FailureNoValidMoves}
	}
	return match.Suggestion{Row: cells[0][0] + 1, Column: cells[0][1] + 1, ResponseTime: float64(n + 1)}, nil
}

func newSimulator(t *testing.T, store MoveStore, size int) *Simulator {
	s, err := NewSimulator(1, store, size, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	return s
}

func requireMatchInvariants(t *testing.T, result match.Result) {
	t.Helper()

	require.Equal(t, len(result.Moves), result.TotalMoves)

	color := board.Black
	var sum float64
	for i, m := range result.Moves {
		require.Equal(t, i+1, m.MoveNumber)
		require.Equal(t, color.String(), m.Color)
		require.Equal(t, m.MoveNumber, result.FinalBoard[m.Row-1][m.Column-1])
		color = color.Opponent()
		sum += m.ResponseTime
	}

	occupied := 0
	for _, row := range result.FinalBoard {
		for _, seq := range row {
			if seq > 0 {
				occupied++
				require.LessOrEqual(t, seq, result.TotalMoves)
			}
		}
	}
	require.Equal(t, result.TotalMoves, occupied)

	if result.TotalMoves == 0 {
		require.Zero(t, result.AverageResponseTime)
	} else {
		require.InDelta(t, sum/float64(result.TotalMoves), result.AverageResponseTime, 1e-9)
	}
}

func TestRunFillsBoardUntilTerritory(t *testing.T) {
	cases := []struct {
		size      int
		wantMoves int
		winner    match.Outcome
	}{
		{size: 1, wantMoves: 1, winner: match.OutcomeBlack},
		{size: 2, wantMoves: 4, winner: match.OutcomeDraw},
		{size: 3, wantMoves: 9, winner: match.OutcomeBlack},
		{size: 4, wantMoves: 15, winner: match.OutcomeBlack},
		{size: 5, wantMoves: 23, winner: match.OutcomeBlack},
	}

	for _, c := range cases {
		store := &scriptedStore{}
		s := newSimulator(t, store, c.size)

		result, err := s.Run(context.Background())
		require.NoError(t, err)

		require.Equal(t, StateFinished, s.State())
		require.Equal(t, c.wantMoves, result.TotalMoves, "size %d", c.size)
		require.Equal(t, c.winner, result.Winner, "size %d", c.size)
		require.Equal(t, match.EndTerritory, result.EndReason)
		require.Empty(t, result.EndDetail)
		requireMatchInvariants(t, result)
	}
}

func TestRunSendsBoardAndAlternatesColors(t *testing.T) {
	store := &scriptedStore{}
	s := newSimulator(t, store, 3)

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, ".,.,.;.,.,.;.,.,.", store.boards[0])
	require.Equal(t, "B,.,.;.,.,.;.,.,.", store.boards[1])
	require.Equal(t, "B,W,.;.,.,.;.,.,.", store.boards[2])
	for i, color := range store.colors {
		if i%2 == 0 {
			require.Equal(t, board.Black, color)
		} else {
			require.Equal(t, board.White, color)
		}
	}
}

func TestRunNoValidMovesOnFirstMove(t *testing.T) {
	store := &scriptedStore{replies: []reply{
		{err: &perfErrors.Failure{Kind: perfErrors.FailureNoValidMoves, ResponseTime: 12}},
	}}
	s := newSimulator(t, store, 9)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Zero(t, result.TotalMoves)
	require.Empty(t, result.Moves)
	require.Equal(t, match.OutcomeDraw, result.Winner)
	require.Equal(t, match.EndError, result.EndReason)
	require.Equal(t, "no valid moves available", result.EndDetail)
	require.Zero(t, result.AverageResponseTime)
	requireMatchInvariants(t, result)
}

func TestRunOccupiedSuggestion(t *testing.T) {
	store := &scriptedStore{replies: []reply{
		{row: 1, col: 1, latency: 10},
		{row: 2, col: 2, latency: 30},
		{row: 1, col: 1, latency: 5},
	}}
	s := newSimulator(t, store, 9)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, result.TotalMoves)
	require.Equal(t, match.EndInvalidMove, result.EndReason)
	require.Equal(t, match.OutcomeDraw, result.Winner)
	require.Equal(t, "invalid move suggested: 1,1", result.EndDetail)
	require.InDelta(t, 20.0, result.AverageResponseTime, 1e-9)
	requireMatchInvariants(t, result)
}

func TestRunOutOfBoundsSuggestion(t *testing.T) {
	for _, r := range []reply{{row: 0, col: 1}, {row: 1, col: 10}, {row: -3, col: 2}} {
		store := &scriptedStore{replies: []reply{r}}
		s := newSimulator(t, store, 9)

		result, err := s.Run(context.Background())
		require.NoError(t, err)
		require.Zero(t, result.TotalMoves)
		require.Equal(t, match.EndInvalidMove, result.EndReason)
	}
}

func TestRunTimeoutKeepsEarlierMoves(t *testing.T) {
	var requests atomic.Int32
	r := chi.NewRouter()
	r.Get("/npc/{color}", func(w http.ResponseWriter, req *http.Request) {
		if requests.Add(1) == 1 {
			_, _ = w.Write([]byte("5,5"))
			return
		}
		select {
		case <-req.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	cfg := &bootstrap.Config{ServerUrl: srv.URL, RequestTimeout: 50 * time.Millisecond}
	repo := repository.NewNpcRepository(cfg, zap.NewNop().Sugar())
	s := newSimulator(t, repo, 9)

	result, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, result.TotalMoves)
	require.Equal(t, 5, result.Moves[0].Row)
	require.Equal(t, 5, result.Moves[0].Column)
	require.Equal(t, match.EndError, result.EndReason)
	require.Equal(t, match.OutcomeDraw, result.Winner)
	require.Contains(t, result.EndDetail, "request timeout")
	requireMatchInvariants(t, result)
}

func TestRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := &cancellingStore{cancelAfter: 2, cancel: cancel}
	s := newSimulator(t, store, 9)

	result, err := s.Run(ctx)
	require.ErrorIs(t, err, perfErrors.ErrInterrupted)
	require.Equal(t, 2, result.TotalMoves)
	require.Equal(t, 2, store.calls)
	require.Equal(t, StateFinished, s.State())
}

func TestRunOnlyOnce(t *testing.T) {
	s := newSimulator(t, &scriptedStore{}, 2)

	_, err := s.Run(context.Background())
	require.NoError(t, err)

	_, err = s.Run(context.Background())
	require.ErrorIs(t, err, perfErrors.ErrMatchAlreadyRun)
}

func TestNewSimulatorRejectsBadSize(t *testing.T) {
	_, err := NewSimulator(1, &scriptedStore{}, 0, zap.NewNop().Sugar())
	require.ErrorIs(t, err, perfErrors.ErrInvalidBoardSize)
}

type cancellingStore struct {
	calls       int
	cancelAfter int
	cancel      context.CancelFunc
}

func (c *cancellingStore) RequestMove(_ context.Context, _ string, _ board.Stone) (match.Suggestion, error) {
	c.calls++
	if c.calls == c.cancelAfter {
		c.cancel()
	}
	return match.Suggestion{Row: 1, Column: c.calls}, nil
}
