package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/riversolver/internal/deck"
	"github.com/lox/riversolver/internal/evaluator"
)

func mustHand5(t *testing.T, s string) [5]deck.Card {
	t.Helper()
	cards, err := deck.ParseN(s)
	require.NoError(t, err)
	require.Len(t, cards, 5)
	var out [5]deck.Card
	copy(out[:], cards)
	return out
}

func TestRoyalFlushIsOne(t *testing.T) {
	t.Parallel()
	s := evaluator.Evaluate5(mustHand5(t, "As Ks Qs Js Ts"))
	assert.Equal(t, evaluator.Score(1), s)
	assert.Equal(t, evaluator.CategoryStraightFlush, s.Category())
}

func TestWheelStraightFlush(t *testing.T) {
	t.Parallel()
	s := evaluator.Evaluate5(mustHand5(t, "As 2s 3s 4s 5s"))
	assert.True(t, s >= 2 && s <= 10, "wheel straight flush should score 2-10, got %d", s)
	assert.Equal(t, evaluator.CategoryStraightFlush, s.Category())
}

func TestWheelStraight(t *testing.T) {
	t.Parallel()
	s := evaluator.Evaluate5(mustHand5(t, "As 2d 3c 4h 5s"))
	assert.True(t, s >= 1600 && s <= 1609, "wheel straight should score 1600-1609, got %d", s)
	assert.Equal(t, evaluator.CategoryStraight, s.Category())
}

func TestFourOfAKind(t *testing.T) {
	t.Parallel()
	s := evaluator.Evaluate5(mustHand5(t, "Ac Ad Ah As Kc"))
	assert.Equal(t, evaluator.CategoryFourOfAKind, s.Category())
}

func TestFullHouse(t *testing.T) {
	t.Parallel()
	s := evaluator.Evaluate5(mustHand5(t, "Ac Ad Ah Kc Kd"))
	assert.Equal(t, evaluator.CategoryFullHouse, s.Category())
}

func TestFlushBeatsStraight(t *testing.T) {
	t.Parallel()
	flush := evaluator.Evaluate5(mustHand5(t, "2s 5s 7s 9s Ks"))
	straight := evaluator.Evaluate5(mustHand5(t, "2c 3d 4h 5s 6c"))
	assert.Equal(t, -1, flush.Compare(straight))
}

func TestTwoPairAndOnePair(t *testing.T) {
	t.Parallel()
	two := evaluator.Evaluate5(mustHand5(t, "Ac Ad Kc Kd 2h"))
	one := evaluator.Evaluate5(mustHand5(t, "Ac Ad Kc Qd 2h"))
	assert.Equal(t, evaluator.CategoryTwoPair, two.Category())
	assert.Equal(t, evaluator.CategoryOnePair, one.Category())
	assert.Equal(t, -1, two.Compare(one))
}

func TestHighCardWorst(t *testing.T) {
	t.Parallel()
	s := evaluator.Evaluate5(mustHand5(t, "2c 4d 7h 9s Jc"))
	assert.Equal(t, evaluator.CategoryHighCard, s.Category())
	assert.True(t, s <= evaluator.WorstScore)
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()
	sf := evaluator.Evaluate5(mustHand5(t, "9s Ts Js Qs Ks"))
	quads := evaluator.Evaluate5(mustHand5(t, "2c 2d 2h 2s Kc"))
	full := evaluator.Evaluate5(mustHand5(t, "3c 3d 3h Kc Kd"))
	flush := evaluator.Evaluate5(mustHand5(t, "2s 5s 7s 9s Qs"))
	straight := evaluator.Evaluate5(mustHand5(t, "4c 5d 6h 7s 8c"))
	trips := evaluator.Evaluate5(mustHand5(t, "4c 4d 4h 7s 8c"))
	twoPair := evaluator.Evaluate5(mustHand5(t, "4c 4d 7h 7s 8c"))
	pair := evaluator.Evaluate5(mustHand5(t, "4c 4d 6h 7s 8c"))
	high := evaluator.Evaluate5(mustHand5(t, "2c 4d 6h 8s Tc"))

	ordered := []evaluator.Score{sf, quads, full, flush, straight, trips, twoPair, pair, high}
	for i := 1; i < len(ordered); i++ {
		assert.True(t, ordered[i-1] < ordered[i], "category %d should beat category %d", i-1, i)
	}
}

func TestEvaluate7PicksBestSubset(t *testing.T) {
	t.Parallel()
	cards, err := deck.ParseN("As Ks Qs Js Ts 2c 3d")
	require.NoError(t, err)
	s := evaluator.Evaluate7(cards)
	assert.Equal(t, evaluator.Score(1), s)
}

func TestEvaluate7ShortInputReturnsWorst(t *testing.T) {
	t.Parallel()
	cards, err := deck.ParseN("As Ks Qs")
	require.NoError(t, err)
	assert.Equal(t, evaluator.WorstScore, evaluator.Evaluate7(cards))
}

func TestEvaluate7SixCards(t *testing.T) {
	t.Parallel()
	cards, err := deck.ParseN("Ac Ad Ah As Kc Kd")
	require.NoError(t, err)
	s := evaluator.Evaluate7(cards)
	assert.Equal(t, evaluator.CategoryFourOfAKind, s.Category())
}

func TestTableCoverage(t *testing.T) {
	t.Parallel()
	// Every distinct 5-card combination from a 52-card deck maps to a score
	// within the documented bounds; spot-check a representative sample
	// rather than all C(52,5)=2,598,960 combinations.
	deckCards := make([]deck.Card, deck.NumCards)
	for i := range deckCards {
		deckCards[i] = deck.Card(i)
	}
	count := 0
	for i := 0; i < len(deckCards) && count < 500; i++ {
		for j := i + 1; j < len(deckCards) && count < 500; j++ {
			for k := j + 1; k < len(deckCards) && count < 500; k++ {
				for l := k + 1; l < len(deckCards) && count < 500; l++ {
					for m := l + 1; m < len(deckCards) && count < 500; m++ {
						hand := [5]deck.Card{deckCards[i], deckCards[j], deckCards[k], deckCards[l], deckCards[m]}
						s := evaluator.Evaluate5(hand)
						assert.True(t, s >= 1 && s <= evaluator.WorstScore, "score out of range: %d", s)
						count++
					}
				}
			}
		}
	}
	assert.Equal(t, 500, count)
}

func TestCategoryString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "straight flush", evaluator.CategoryStraightFlush.String())
	assert.Equal(t, "high card", evaluator.CategoryHighCard.String())
}
