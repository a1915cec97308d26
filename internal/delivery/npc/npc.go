package npc

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"ggsperf/internal/bootstrap"
	"ggsperf/internal/domain/board"
	"ggsperf/internal/httpresponse"
)

const noValidMovesMessage = "No valid moves available"

// NpcHandler is a stand-in for the game service: it answers every move
// request with a random empty cell.
type NpcHandler struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	delay time.Duration
	pick  func(n int) int
}

func NewNpcHandler(cfg bootstrap.Config, log *zap.SugaredLogger) *NpcHandler {
	return &NpcHandler{
		cfg:   cfg,
		log:   log,
		delay: cfg.NpcDelay,
		pick:  rand.Intn,
	}
}

func (h *NpcHandler) Router(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/npc/{color}", h.HandleNpcMove)
}

func (h *NpcHandler) HandleNpcMove(w http.ResponseWriter, r *http.Request) {
	color, ok := board.StoneFromColor(chi.URLParam(r, "color"))
	if !ok {
		httpresponse.WriteMessage(w, http.StatusBadRequest, "unknown color")
		return
	}

	b, err := board.Parse(r.URL.Query().Get("board"))
	if err != nil {
		h.log.Debugw("bad board", "error", err)
		httpresponse.WriteMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.delay > 0 {
		select {
		case <-time.After(h.delay):
		case <-r.Context().Done():
			return
		}
	}

	cells := b.EmptyCells()
	if len(cells) == 0 {
		httpresponse.WriteMessage(w, http.StatusOK, noValidMovesMessage)
		return
	}

	cell := cells[h.pick(len(cells))]
	h.log.Debugw("npc move", "request_id", r.Header.Get("X-Request-ID"), "color", color.String(),
		"row", cell[0]+1, "column", cell[1]+1)
	httpresponse.WriteMove(w, cell[0]+1, cell[1]+1)
}
