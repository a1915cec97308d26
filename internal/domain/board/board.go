package board

import (
	"fmt"
	"strings"

	perfErrors "ggsperf/internal/errors"
)

type Stone uint8

const (
	Empty Stone = iota
	Black
	White
)

const (
	rowSeparator  = ";"
	cellSeparator = ","
)

// String returns the color name used in the /npc/{color} path.
func (s Stone) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

func (s Stone) Symbol() string {
	switch s {
	case Black:
		return "B"
	case White:
		return "W"
	}
	return "."
}

func (s Stone) Opponent() Stone {
	switch s {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func StoneFromSymbol(symbol string) (Stone, bool) {
	switch symbol {
	case ".":
		return Empty, true
	case "B":
		return Black, true
	case "W":
		return White, true
	}
	return Empty, false
}

func StoneFromColor(color string) (Stone, bool) {
	switch color {
	case "black":
		return Black, true
	case "white":
		return White, true
	}
	return Empty, false
}

// Board keeps stone occupancy and, in a parallel grid, the 1-based move
// number that claimed each cell (0 = unoccupied).
type Board struct {
	Width  int
	Height int

	grid     [][]Stone
	sequence [][]int
}

func New(width, height int) (*Board, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", perfErrors.ErrInvalidBoardSize, width, height)
	}

	grid := make([][]Stone, height)
	sequence := make([][]int, height)
	for row := range grid {
		grid[row] = make([]Stone, width)
		sequence[row] = make([]int, width)
	}

	return &Board{
		Width:    width,
		Height:   height,
		grid:     grid,
		sequence: sequence,
	}, nil
}

func (b *Board) IsInBounds(row, col int) bool {
	return row >= 0 && row < b.Height && col >= 0 && col < b.Width
}

// IsEmpty reports false for out-of-bounds positions.
func (b *Board) IsEmpty(row, col int) bool {
	return b.IsInBounds(row, col) && b.grid[row][col] == Empty
}

func (b *Board) Stone(row, col int) Stone {
	if !b.IsInBounds(row, col) {
		return Empty
	}
	return b.grid[row][col]
}

func (b *Board) SequenceNumber(row, col int) int {
	if !b.IsInBounds(row, col) {
		return 0
	}
	return b.sequence[row][col]
}

// Place leaves the board untouched when the position is out of bounds.
func (b *Board) Place(row, col int, stone Stone, sequenceNumber int) error {
	if !b.IsInBounds(row, col) {
		return fmt.Errorf("%w: %d,%d", perfErrors.ErrOutOfBounds, row, col)
	}
	b.grid[row][col] = stone
	b.sequence[row][col] = sequenceNumber
	return nil
}

func (b *Board) Count() (empty, black, white int) {
	for _, cells := range b.grid {
		for _, stone := range cells {
			switch stone {
			case Black:
				black++
			case White:
				white++
			default:
				empty++
			}
		}
	}
	return empty, black, white
}

func (b *Board) Cells() int {
	return b.Width * b.Height
}

// SequenceSnapshot returns a copy of the sequence grid.
func (b *Board) SequenceSnapshot() [][]int {
	snapshot := make([][]int, b.Height)
	for row := range b.sequence {
		snapshot[row] = append([]int(nil), b.sequence[row]...)
	}
	return snapshot
}

// Serialize encodes occupancy row by row, e.g. "B,.,.;.,W,.;.,.,." for 3x3.
func (b *Board) Serialize() string {
	var builder strings.Builder
	builder.Grow(b.Cells()*2 + b.Height)
	for row, cells := range b.grid {
		if row > 0 {
			builder.WriteString(rowSeparator)
		}
		for col, stone := range cells {
			if col > 0 {
				builder.WriteString(cellSeparator)
			}
			builder.WriteString(stone.Symbol())
		}
	}
	return builder.String()
}

// Parse decodes a Serialize string. Sequence numbers are not encoded, so
// occupied cells are numbered in row-major order.
func Parse(data string) (*Board, error) {
	rows := strings.Split(data, rowSeparator)
	width := len(strings.Split(rows[0], cellSeparator))

	b, err := New(width, len(rows))
	if err != nil {
		return nil, err
	}

	seq := 0
	for row, line := range rows {
		cells := strings.Split(line, cellSeparator)
		if len(cells) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", perfErrors.ErrMalformedBoard, row, len(cells), width)
		}
		for col, symbol := range cells {
			stone, ok := StoneFromSymbol(symbol)
			if !ok {
				return nil, fmt.Errorf("%w: unknown symbol %q at %d,%d", perfErrors.ErrMalformedBoard, symbol, row, col)
			}
			if stone == Empty {
				continue
			}
			seq++
			b.grid[row][col] = stone
			b.sequence[row][col] = seq
		}
	}
	return b, nil
}

// EmptyCells lists the empty positions in row-major order (0-based).
func (b *Board) EmptyCells() [][2]int {
	cells := make([][2]int, 0)
	for row, line := range b.grid {
		for col, stone := range line {
			if stone == Empty {
				cells = append(cells, [2]int{row, col})
			}
		}
	}
	return cells
}
