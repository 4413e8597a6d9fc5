package solver_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/riversolver/internal/deck"
	"github.com/lox/riversolver/internal/equity"
	"github.com/lox/riversolver/sdk/solver"
)

func mustHand(t *testing.T, s string) deck.Hand {
	t.Helper()
	h, err := deck.ParseHand(s)
	require.NoError(t, err)
	return h
}

func mustBoard(t *testing.T, s string) [5]deck.Card {
	t.Helper()
	cards, err := deck.ParseN(s)
	require.NoError(t, err)
	require.Len(t, cards, 5)
	var b [5]deck.Card
	copy(b[:], cards)
	return b
}

func TestTrainerFiniteRegretAndStrategy(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	arena, root, err := solver.Build(cfg)
	require.NoError(t, err)

	board := mustBoard(t, "Kh Qd Jc 2s 3h")
	r0 := []deck.Hand{mustHand(t, "AsKs"), mustHand(t, "2c2d")}
	r1 := []deck.Hand{mustHand(t, "Kd5c"), mustHand(t, "9h8h")}
	m, err := equity.Build(board, r0, r1)
	require.NoError(t, err)

	trainer := solver.NewTrainer(arena, root, m, len(r0), len(r1))
	trainer.Step(25, nil)

	rootNode := arena.Node(root)
	n := int(rootNode.ChildrenCount)
	for h := 0; h < len(r0); h++ {
		avg := trainer.AverageStrategy(int(rootNode.InfosetID), h, n)
		sum := 0.0
		for _, p := range avg {
			assert.False(t, math.IsNaN(p))
			assert.False(t, math.IsInf(p, 0))
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestTrainerStrategySumAtIterationOne(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	arena, root, err := solver.Build(cfg)
	require.NoError(t, err)

	board := mustBoard(t, "Kh Qd Jc 2s 3h")
	r0 := []deck.Hand{mustHand(t, "AsKs")}
	r1 := []deck.Hand{mustHand(t, "Kd5c")}
	m, err := equity.Build(board, r0, r1)
	require.NoError(t, err)

	trainer := solver.NewTrainer(arena, root, m, 1, 1)
	trainer.Step(1, nil)

	rootNode := arena.Node(root)
	n := int(rootNode.ChildrenCount)
	// sigma^c at t=1 is (1/2)^2 = 0.25. The raw strategy-sum row is not
	// observable through the exported API (AverageStrategy normalizes), so
	// this test re-derives sigmaC and checks that the normalized row sums to
	// 1; it does not check the raw row's total.
	raw := trainer.AverageStrategy(int(rootNode.InfosetID), 0, n)
	sigmaC := math.Pow(1.0/2.0, 2.0)
	assert.InDelta(t, 0.25, sigmaC, 1e-9)
	sum := 0.0
	for _, p := range raw {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestRoyalFlushBoardTiesAndTrains(t *testing.T) {
	t.Parallel()
	cfg := baseConfig()
	arena, root, err := solver.Build(cfg)
	require.NoError(t, err)

	board := mustBoard(t, "As Ks Qs Js Ts")
	r0 := []deck.Hand{mustHand(t, "2c3c")}
	r1 := []deck.Hand{mustHand(t, "4d5d")}
	m, err := equity.Build(board, r0, r1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.At(0, 0))

	trainer := solver.NewTrainer(arena, root, m, 1, 1)
	trainer.Step(1, nil)
	assert.True(t, trainer.NumInfosets() >= 1)
}

func TestSymmetricRootTrainsRequestedIterations(t *testing.T) {
	t.Parallel()
	cfg := solver.GameConfig{
		InitialPot: 100,
		Stacks:     [2]float64{200, 200},
		BetSizes:   []float64{1.0},
		RaiseSizes: []float64{1.0},
		RaiseLimit: 1,
	}
	arena, root, err := solver.Build(cfg)
	require.NoError(t, err)

	board := mustBoard(t, "2h 7d 9c Tc 4s")
	hands := []deck.Hand{mustHand(t, "AsKs"), mustHand(t, "QhQd")}
	m, err := equity.Build(board, hands, hands)
	require.NoError(t, err)

	trainer := solver.NewTrainer(arena, root, m, len(hands), len(hands))
	trainer.Step(300, nil)

	assert.True(t, trainer.Iteration() == 300)
}
