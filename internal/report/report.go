package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"ggsperf/internal/domain/match"
)

const Version = "2.0.0"

// Report is everything a renderer needs; it performs no computation of its own.
type Report struct {
	RunID          string      `json:"run_id"`
	Version        string      `json:"version"`
	GeneratedAt    time.Time   `json:"generated_at"`
	ServerUrl      string      `json:"server_url"`
	BoardSize      int         `json:"board_size"`
	RequestedGames int         `json:"requested_games"`
	Stats          match.Stats `json:"stats"`
}

func New(serverUrl string, boardSize, requestedGames int, stats match.Stats) Report {
	return Report{
		RunID:          uuid.New().String(),
		Version:        Version,
		GeneratedAt:    time.Now().UTC(),
		ServerUrl:      serverUrl,
		BoardSize:      boardSize,
		RequestedGames: requestedGames,
		Stats:          stats,
	}
}

type Renderer interface {
	Render(w io.Writer, r Report) error
}

type JSONRenderer struct {
	Indent string
}

func (j JSONRenderer) Render(w io.Writer, r Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", j.Indent)
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteFile renders to path, or to stdout when path is "-".
func WriteFile(path string, renderer Renderer, r Report) error {
	if path == "-" {
		return renderer.Render(os.Stdout, r)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := renderer.Render(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
