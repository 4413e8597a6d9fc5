// Package evaluator implements a Cactus-Kev-style 7-card hand evaluator.
//
// The approach follows the classic scheme referenced by poker engines
// worldwide (Cactus Kev's original evaluator, as adopted by TwoPlusTwo-style
// lookup tables): three small lookup tables, built once at init time, turn a
// 5-card hand into a single integer score where lower is stronger. A 7-card
// hand is scored by taking the minimum over all 21 five-card subsets.
//
// # Score bands
//
//	1-10      straight flush (1 = royal)
//	11-166    four of a kind
//	167-322   full house
//	323-1599  flush
//	1600-1609 straight
//	1610-2467 three of a kind
//	2468-3325 two pair
//	3326-6185 one pair
//	6186-7462 high card
package evaluator

import (
	"math/bits"

	"github.com/lox/riversolver/internal/deck"
)

// Score is a hand strength score, 1..7462. Lower is stronger; 7462 is the
// worst high card and also the fallback for ill-formed input.
type Score int

const WorstScore Score = 7462

// Category enumerates the nine standard poker hand categories.
type Category int

const (
	CategoryStraightFlush Category = iota
	CategoryFourOfAKind
	CategoryFullHouse
	CategoryFlush
	CategoryStraight
	CategoryThreeOfAKind
	CategoryTwoPair
	CategoryOnePair
	CategoryHighCard
)

func (c Category) String() string {
	switch c {
	case CategoryStraightFlush:
		return "straight flush"
	case CategoryFourOfAKind:
		return "four of a kind"
	case CategoryFullHouse:
		return "full house"
	case CategoryFlush:
		return "flush"
	case CategoryStraight:
		return "straight"
	case CategoryThreeOfAKind:
		return "three of a kind"
	case CategoryTwoPair:
		return "two pair"
	case CategoryOnePair:
		return "one pair"
	default:
		return "high card"
	}
}

// Category derives the hand rank category from the score's fixed band, per
// the table in the package doc comment.
func (s Score) Category() Category {
	switch {
	case s <= 10:
		return CategoryStraightFlush
	case s <= 166:
		return CategoryFourOfAKind
	case s <= 322:
		return CategoryFullHouse
	case s <= 1599:
		return CategoryFlush
	case s <= 1609:
		return CategoryStraight
	case s <= 2467:
		return CategoryThreeOfAKind
	case s <= 3325:
		return CategoryTwoPair
	case s <= 6185:
		return CategoryOnePair
	default:
		return CategoryHighCard
	}
}

// Compare returns -1 if s is stronger than other, 1 if weaker, 0 if equal.
// Lower scores are stronger, so this is the reverse of a numeric compare.
func (s Score) Compare(other Score) int {
	switch {
	case s < other:
		return -1
	case s > other:
		return 1
	default:
		return 0
	}
}

// primes are the first 13 primes, one per rank, used to build a collision-free
// product for each 5-card rank multiset.
var primes = [deck.NumRanks]uint32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

// straightMasks lists the 10 possible straight rank-masks (13 bits, bit i set
// for rank i present) ordered highest-to-lowest, wheel last: A-K-Q-J-T down to
// 6-5-4-3-2, then the wheel A-2-3-4-5.
var straightMasks = [10]uint16{
	0x1F00, // A K Q J T
	0x0F80, // K Q J T 9
	0x07C0, // Q J T 9 8
	0x03E0, // J T 9 8 7
	0x01F0, // T 9 8 7 6
	0x00F8, // 9 8 7 6 5
	0x007C, // 8 7 6 5 4
	0x003E, // 7 6 5 4 3
	0x001F, // 6 5 4 3 2
	0x100F, // A 2 3 4 5 (wheel)
}

var (
	flushTable  map[uint16]Score
	unique5     map[uint16]Score
	primeTable  map[uint32]Score
	tablesReady bool
)

func init() {
	buildTables()
}

// buildTables constructs the three lookup tables described in the package
// doc comment. It runs once via init and is not reentrancy-safe; callers
// never need to invoke it directly.
func buildTables() {
	flushTable = make(map[uint16]Score, 1287)
	unique5 = make(map[uint16]Score, 1287)
	primeTable = make(map[uint32]Score, 4888)

	straightSet := make(map[uint16]bool, 10)
	for _, m := range straightMasks {
		straightSet[m] = true
	}

	// Straight flushes and straights: scores 1-10 and 1600-1609, royal and
	// the king-high..six-high run first, wheel last.
	for i, m := range straightMasks {
		flushTable[m] = Score(1 + i)
		unique5[m] = Score(1600 + i)
	}

	// All other 5-bit rank masks, descending numeric order: flushes get
	// 323.., high-card-unique-5s get 6186...
	masks := allFiveBitMasks()
	flushScore := Score(323)
	highCardScore := Score(6186)
	for _, m := range masks {
		if straightSet[m] {
			continue
		}
		flushTable[m] = flushScore
		flushScore++
		unique5[m] = highCardScore
		highCardScore++
	}

	buildPrimeTable()
	tablesReady = true
}

// allFiveBitMasks returns every 13-bit mask with exactly 5 bits set, in
// descending numeric order.
func allFiveBitMasks() []uint16 {
	masks := make([]uint16, 0, 1287)
	for m := 0; m < (1 << deck.NumRanks); m++ {
		if bits.OnesCount(uint(m)) == 5 {
			masks = append(masks, uint16(m))
		}
	}
	// Numeric ascending above; reverse for descending.
	for i, j := 0, len(masks)-1; i < j; i, j = i+1, j-1 {
		masks[i], masks[j] = masks[j], masks[i]
	}
	return masks
}

// buildPrimeTable fills in quads, full houses, trips, two pair, and pair by
// enumerating descending-rank outer loops over the defining ranks, then
// descending-rank kickers, which fixes the score assignment deterministically
// per the package doc comment.
func buildPrimeTable() {
	quad := Score(11)
	full := Score(167)
	trips := Score(1610)
	twoPair := Score(2468)
	pair := Score(3326)

	for hi := deck.NumRanks - 1; hi >= 0; hi-- {
		// Four of a kind: hi quad + one kicker.
		for k := deck.NumRanks - 1; k >= 0; k-- {
			if k == hi {
				continue
			}
			product := primes[hi] * primes[hi] * primes[hi] * primes[hi] * primes[k]
			primeTable[product] = quad
			quad++
		}

		// Full house: hi trips + any other pair rank.
		for p := deck.NumRanks - 1; p >= 0; p-- {
			if p == hi {
				continue
			}
			product := primes[hi] * primes[hi] * primes[hi] * primes[p] * primes[p]
			primeTable[product] = full
			full++
		}

		// Three of a kind: hi trips + two descending kickers.
		for k1 := deck.NumRanks - 1; k1 >= 0; k1-- {
			if k1 == hi {
				continue
			}
			for k2 := k1 - 1; k2 >= 0; k2-- {
				if k2 == hi {
					continue
				}
				product := primes[hi] * primes[hi] * primes[hi] * primes[k1] * primes[k2]
				primeTable[product] = trips
				trips++
			}
		}

		// Two pair: hi pair + a lower pair rank + a kicker.
		for p := hi - 1; p >= 0; p-- {
			for k := deck.NumRanks - 1; k >= 0; k-- {
				if k == hi || k == p {
					continue
				}
				product := primes[hi] * primes[hi] * primes[p] * primes[p] * primes[k]
				primeTable[product] = twoPair
				twoPair++
			}
		}

		// One pair: hi pair + three descending kickers.
		for k1 := deck.NumRanks - 1; k1 >= 0; k1-- {
			if k1 == hi {
				continue
			}
			for k2 := k1 - 1; k2 >= 0; k2-- {
				if k2 == hi {
					continue
				}
				for k3 := k2 - 1; k3 >= 0; k3-- {
					if k3 == hi {
						continue
					}
					product := primes[hi] * primes[hi] * primes[k1] * primes[k2] * primes[k3]
					primeTable[product] = pair
					pair++
				}
			}
		}
	}
}

// Evaluate5 scores a 5-card hand. Ill-formed input (this function always
// receives exactly 5 cards from its callers) has no representation here;
// Evaluate7 is the documented fallback boundary (spec: fewer than 5 cards
// returns WorstScore).
func Evaluate5(cards [5]deck.Card) Score {
	var rankMask uint16
	var suitCounts [deck.NumSuits]int
	var product uint32 = 1

	for _, c := range cards {
		rankMask |= 1 << uint(c.Rank())
		suitCounts[c.Suit()]++
		product *= primes[c.Rank()]
	}

	for _, n := range suitCounts {
		if n == 5 {
			return flushTable[rankMask]
		}
	}

	if bits.OnesCount16(rankMask) == 5 {
		return unique5[rankMask]
	}

	return primeTable[product]
}

// Evaluate7 scores the best 5-card hand from 7 cards via direct combinatorial
// scan over all C(7,5)=21 five-card subsets, returning the minimum (strongest)
// score. Per the spec, fewer than 5 cards returns WorstScore.
func Evaluate7(cards []deck.Card) Score {
	if len(cards) < 5 {
		return WorstScore
	}
	if len(cards) == 5 {
		return Evaluate5([5]deck.Card{cards[0], cards[1], cards[2], cards[3], cards[4]})
	}

	best := WorstScore
	var combo [5]deck.Card
	forEachFiveSubset(cards, func(idx [5]int) {
		for i, v := range idx {
			combo[i] = cards[v]
		}
		if s := Evaluate5(combo); s < best {
			best = s
		}
	})
	return best
}

// forEachFiveSubset invokes fn once per 5-element index combination drawn
// from [0, len(cards)). Only 6 and 7 card inputs are exercised by callers
// (river hole+board), but the implementation is general.
func forEachFiveSubset(cards []deck.Card, fn func(idx [5]int)) {
	n := len(cards)
	var idx [5]int
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == 5 {
			fn(idx)
			return
		}
		for i := start; i < n; i++ {
			idx[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
}
