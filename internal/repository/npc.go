package repository

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ggsperf/internal/bootstrap"
	"ggsperf/internal/domain/board"
	"ggsperf/internal/domain/match"
	perfErrors "ggsperf/internal/errors"
	"ggsperf/internal/utils"
)

const noValidMovesMarker = "No valid moves"

// NpcRepository asks the remote game service for NPC moves, one HTTP
// request per move. It never retries.
type NpcRepository struct {
	cfg     *bootstrap.Config
	log     *zap.SugaredLogger
	baseURL string
	client  *http.Client
}

type npcMessage struct {
	Message string `json:"message"`
}

func NewNpcRepository(cfg *bootstrap.Config, log *zap.SugaredLogger) *NpcRepository {
	return &NpcRepository{
		cfg:     cfg,
		log:     log,
		baseURL: strings.TrimRight(cfg.ServerUrl, "/"),
		client:  &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func generateRequestID() string {
	return uuid.New().String()
}

// RequestMove sends GET {base}/npc/{color}?board={boardData}. A nil error
// means the service suggested a move; any other outcome is a *errors.Failure.
func (n *NpcRepository) RequestMove(ctx context.Context, boardData string, color board.Stone) (match.Suggestion, error) {
	endpoint := fmt.Sprintf("%s/npc/%s?%s", n.baseURL, color, url.Values{"board": {boardData}}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return match.Suggestion{}, &perfErrors.Failure{
			Kind:  perfErrors.FailureTransport,
			Cause: fmt.Errorf("failed to create request: %w", err),
		}
	}
	requestID := generateRequestID()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		return match.Suggestion{}, transportFailure(err, match.Millis(time.Since(start)))
	}
	body, err := utils.ReadResponseBody(resp)
	responseTime := match.Millis(time.Since(start))
	if err != nil {
		return match.Suggestion{}, transportFailure(err, responseTime)
	}

	n.log.Debugw("npc response", "request_id", requestID, "color", color.String(),
		"status", resp.StatusCode, "response_time_ms", responseTime)

	return decodeMove(resp.StatusCode, body, responseTime)
}

func decodeMove(status int, body []byte, responseTime float64) (match.Suggestion, error) {
	text := strings.TrimSpace(string(body))
	unexpected := &perfErrors.Failure{
		Kind:         perfErrors.FailureUnexpectedResponse,
		ResponseTime: responseTime,
		StatusCode:   status,
		Body:         text,
	}

	if status < 200 || status > 299 {
		return match.Suggestion{}, unexpected
	}

	if row, col, ok := parseCoordinates(text); ok {
		return match.Suggestion{Row: row, Column: col, ResponseTime: responseTime}, nil
	}

	var msg npcMessage
	if err := utils.DecodeJSON(body, &msg); err == nil && strings.Contains(msg.Message, noValidMovesMarker) {
		return match.Suggestion{}, &perfErrors.Failure{
			Kind:         perfErrors.FailureNoValidMoves,
			ResponseTime: responseTime,
			StatusCode:   status,
			Body:         text,
		}
	}

	return match.Suggestion{}, unexpected
}

// parseCoordinates accepts exactly "<int>,<int>", spaces around numbers allowed.
func parseCoordinates(text string) (row, col int, ok bool) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	col, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return row, col, true
}

func transportFailure(err error, responseTime float64) *perfErrors.Failure {
	kind := perfErrors.FailureTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = perfErrors.FailureTimeout
	}
	return &perfErrors.Failure{
		Kind:         kind,
		ResponseTime: responseTime,
		Cause:        err,
	}
}
