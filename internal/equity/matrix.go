// Package equity builds river equity matrices: for a fixed board and two
// ranges of starting hands, it produces the exact (not sampled) win/tie/loss
// value of every hand in range0 against every hand in range1.
package equity

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/riversolver/internal/deck"
	"github.com/lox/riversolver/internal/errs"
	"github.com/lox/riversolver/internal/evaluator"
)

// Matrix is a row-major |R0|x|R1| equity table. Entries are 1.0 (row hand
// wins), 0.0 (row hand loses), 0.5 (tie), or NaN (blocked: a card collision
// between the hand and the board, or between the two hands).
type Matrix struct {
	rows, cols int
	values     []float64
}

// Rows reports |R0|.
func (m *Matrix) Rows() int { return m.rows }

// Cols reports |R1|.
func (m *Matrix) Cols() int { return m.cols }

// At returns E[i,j].
func (m *Matrix) At(i, j int) float64 {
	return m.values[i*m.cols+j]
}

func (m *Matrix) set(i, j int, v float64) {
	m.values[i*m.cols+j] = v
}

// Build computes the full equity matrix for range0 against range1 on board,
// filling rows in parallel across runtime.NumCPU() workers via errgroup. It
// blocks until every row is filled; from the caller's perspective it is
// synchronous.
func Build(board [5]deck.Card, range0, range1 []deck.Hand) (*Matrix, error) {
	if len(range0) == 0 || len(range1) == 0 {
		return nil, errs.NewShapeError("ranges must be nonempty")
	}

	boardMask := deck.NewMask(board[:])
	m := &Matrix{
		rows:   len(range0),
		cols:   len(range1),
		values: make([]float64, len(range0)*len(range1)),
	}

	workers := runtime.NumCPU()
	if workers > len(range0) {
		workers = len(range0)
	}
	if workers < 1 {
		workers = 1
	}

	rowsPerWorker := len(range0) / workers
	remainder := len(range0) % workers

	g := new(errgroup.Group)
	start := 0
	for w := 0; w < workers; w++ {
		count := rowsPerWorker
		if w < remainder {
			count++
		}
		if count == 0 {
			continue
		}
		lo, hi := start, start+count
		start = hi

		g.Go(func() error {
			fillRows(m, boardMask, board, range0, range1, lo, hi)
			return nil
		})
	}
	_ = g.Wait() // workers never return an error; kept for future fallible fills

	return m, nil
}

func fillRows(m *Matrix, boardMask deck.Mask, board [5]deck.Card, range0, range1 []deck.Hand, lo, hi int) {
	var cards0, cards1 [7]deck.Card
	copy(cards0[2:], board[:])
	copy(cards1[2:], board[:])

	for i := lo; i < hi; i++ {
		h0 := range0[i]
		h0Mask := h0.Mask()
		blockedByBoard := h0Mask.Overlaps(boardMask)

		for j, h1 := range range1 {
			if blockedByBoard || h1.Mask().Overlaps(boardMask) || h0Mask.Overlaps(h1.Mask()) {
				m.set(i, j, math.NaN())
				continue
			}

			cards0[0], cards0[1] = h0[0], h0[1]
			cards1[0], cards1[1] = h1[0], h1[1]

			s0 := evaluator.Evaluate7(cards0[:])
			s1 := evaluator.Evaluate7(cards1[:])

			switch {
			case s0 < s1:
				m.set(i, j, 1.0)
			case s0 > s1:
				m.set(i, j, 0.0)
			default:
				m.set(i, j, 0.5)
			}
		}
	}
}

// Single evaluates one matchup directly, without building a matrix. ok is
// false when the matchup is blocked (card collision).
func Single(board [5]deck.Card, h0, h1 deck.Hand) (result float64, ok bool) {
	boardMask := deck.NewMask(board[:])
	if h0.Mask().Overlaps(boardMask) || h1.Mask().Overlaps(boardMask) || h0.Mask().Overlaps(h1.Mask()) {
		return 0, false
	}

	var cards0, cards1 [7]deck.Card
	copy(cards0[2:], board[:])
	copy(cards1[2:], board[:])
	cards0[0], cards0[1] = h0[0], h0[1]
	cards1[0], cards1[1] = h1[0], h1[1]

	s0 := evaluator.Evaluate7(cards0[:])
	s1 := evaluator.Evaluate7(cards1[:])

	switch {
	case s0 < s1:
		return 1.0, true
	case s0 > s1:
		return 0.0, true
	default:
		return 0.5, true
	}
}
