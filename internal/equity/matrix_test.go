package equity_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/riversolver/internal/deck"
	"github.com/lox/riversolver/internal/equity"
)

func board(t *testing.T, s string) [5]deck.Card {
	t.Helper()
	cards, err := deck.ParseN(s)
	require.NoError(t, err)
	require.Len(t, cards, 5)
	var b [5]deck.Card
	copy(b[:], cards)
	return b
}

func hand(t *testing.T, s string) deck.Hand {
	t.Helper()
	h, err := deck.ParseHand(s)
	require.NoError(t, err)
	return h
}

func TestBuildEmptyRangeIsShapeError(t *testing.T) {
	t.Parallel()
	b := board(t, "Kh Qd Jc 2s 3h")
	_, err := equity.Build(b, nil, []deck.Hand{hand(t, "AsKs")})
	assert.Error(t, err)
}

func TestBuildBlockedPairsAreNaN(t *testing.T) {
	t.Parallel()
	b := board(t, "Kh Qd Jc 2s 3h")
	r0 := []deck.Hand{hand(t, "KhTc")} // Kh collides with board
	r1 := []deck.Hand{hand(t, "4c5c")}
	m, err := equity.Build(b, r0, r1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.At(0, 0)))
}

func TestBuildSwapSymmetry(t *testing.T) {
	t.Parallel()
	b := board(t, "2h 7d 9c Tc Ah")
	r0 := []deck.Hand{hand(t, "AsKs"), hand(t, "QhQd")}
	r1 := []deck.Hand{hand(t, "8c8d"), hand(t, "JsJc")}

	m, err := equity.Build(b, r0, r1)
	require.NoError(t, err)
	swapped, err := equity.Build(b, r1, r0)
	require.NoError(t, err)

	for i := 0; i < len(r0); i++ {
		for j := 0; j < len(r1); j++ {
			e := m.At(i, j)
			es := swapped.At(j, i)
			if math.IsNaN(e) {
				assert.True(t, math.IsNaN(es))
				continue
			}
			assert.InDelta(t, 1.0, e+es, 1e-9)
		}
	}
}

func TestBuildRoyalFlushBoardAllTies(t *testing.T) {
	t.Parallel()
	b := board(t, "As Ks Qs Js Ts")
	r0 := []deck.Hand{hand(t, "2c3c")}
	r1 := []deck.Hand{hand(t, "4d5d")}
	m, err := equity.Build(b, r0, r1)
	require.NoError(t, err)
	assert.Equal(t, 0.5, m.At(0, 0))
}

func TestSingleBlocked(t *testing.T) {
	t.Parallel()
	b := board(t, "Kh Qd Jc 2s 3h")
	_, ok := equity.Single(b, hand(t, "AsKh"), hand(t, "4c5c"))
	assert.False(t, ok)
}

func TestSingleUnblockedMatchesBuild(t *testing.T) {
	t.Parallel()
	b := board(t, "Kh Qd Jc 2s 3h")
	h0 := hand(t, "AsKs")
	h1 := hand(t, "Kd5c")

	result, ok := equity.Single(b, h0, h1)
	require.True(t, ok)
	assert.Equal(t, 1.0, result)

	m, err := equity.Build(b, []deck.Hand{h0}, []deck.Hand{h1})
	require.NoError(t, err)
	assert.Equal(t, result, m.At(0, 0))
}

func TestMatrixDimensions(t *testing.T) {
	t.Parallel()
	b := board(t, "2h 7d 9c Tc Ah")
	r0 := []deck.Hand{hand(t, "AsKs"), hand(t, "QhQd"), hand(t, "JdJh")}
	r1 := []deck.Hand{hand(t, "8c8d")}
	m, err := equity.Build(b, r0, r1)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 1, m.Cols())
}
