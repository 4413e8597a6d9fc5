package solver

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/lox/riversolver/internal/equity"
)

// DCFR discount constants, fixed per the algorithm (not configurable): alpha
// governs how fast positive regret grows into the running total, beta how
// hard negative regret is discounted, gamma how strategy-sum weighting
// ramps up over iterations, theta the strategy-sum's own decay.
const (
	dcfrAlpha = 1.5
	dcfrBeta  = 0.5
	dcfrGamma = 2.0
	dcfrTheta = 0.9
)

// TraversalStats captures instrumentation for a single training iteration,
// in the shape of the teacher's TraversalStats (sdk/solver/trainer.go),
// adapted to the full-traversal DCFR body: there is no sampling, so there
// is nothing analogous to the teacher's per-sample node count to track
// beyond total nodes visited this iteration.
type TraversalStats struct {
	NodesVisited  int64
	IterationTime time.Duration
}

// Progress is emitted by Step's optional callback after every iteration,
// mirroring the teacher's Progress struct (sdk/solver/trainer.go).
type Progress struct {
	Iteration   int64
	NumInfosets int
	Stats       TraversalStats
}

// Trainer runs Discounted CFR over a river action tree, using an equity
// matrix for showdown payoffs. R and S are dense (numInfosets, hMax, aMax)
// tensors; the tensor shape is fixed at construction from the arena and
// range sizes and never resized.
type Trainer struct {
	arena *Arena
	root  int
	eq    *equity.Matrix

	n0, n1 int
	hMax   int
	aMax   int

	numInfosets int
	r           []float64
	s           []float64
	regretSum   []float64

	iteration atomic.Int64
}

// NewTrainer builds a trainer over arena (rooted at root) with the given
// equity matrix and range sizes. aMax is derived by scanning the arena for
// the widest action node; numInfosets is read from the arena's dense
// allocator.
func NewTrainer(arena *Arena, root int, eq *equity.Matrix, n0, n1 int) *Trainer {
	aMax := 1
	for i := 0; i < arena.Len(); i++ {
		n := arena.Node(i)
		if n.Type == NodeAction && int(n.ChildrenCount) > aMax {
			aMax = int(n.ChildrenCount)
		}
	}

	hMax := n0
	if n1 > hMax {
		hMax = n1
	}

	numInfosets := arena.NumInfosets()

	return &Trainer{
		arena:       arena,
		root:        root,
		eq:          eq,
		n0:          n0,
		n1:          n1,
		hMax:        hMax,
		aMax:        aMax,
		numInfosets: numInfosets,
		r:           make([]float64, numInfosets*hMax*aMax),
		s:           make([]float64, numInfosets*hMax*aMax),
		regretSum:   make([]float64, numInfosets*hMax),
	}
}

// Iteration returns the number of completed DCFR iterations.
func (t *Trainer) Iteration() int64 {
	return t.iteration.Load()
}

// NumInfosets returns the number of distinct infosets in the tree.
func (t *Trainer) NumInfosets() int {
	return t.numInfosets
}

// Step runs n DCFR iterations, invoking progress (if non-nil) after each
// one. It returns after all n iterations complete; there is no mid-run
// cancellation, per the core's synchronous concurrency model.
func (t *Trainer) Step(n int, progress func(Progress)) {
	for i := 0; i < n; i++ {
		start := time.Now()

		pi0 := onesVector(t.n0)
		pi1 := onesVector(t.n1)

		var nodesVisited int64
		t.traverse(t.root, pi0, pi1, &nodesVisited)

		iter := t.iteration.Add(1)
		t.discountAndUpdate(iter)

		if progress != nil {
			progress(Progress{
				Iteration:   iter,
				NumInfosets: t.numInfosets,
				Stats: TraversalStats{
					NodesVisited:  nodesVisited,
					IterationTime: time.Since(start),
				},
			})
		}
	}
}

func onesVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1.0
	}
	return v
}

// rIndex returns the flat offset of (infoset, hand, action) in r/s.
func (t *Trainer) rIndex(infoset int, hand int, action int) int {
	return (infoset*t.hMax+hand)*t.aMax + action
}

// discountAndUpdate applies the three-pass per-iteration discount and
// strategy-sum accumulation described in the trainer's per-iteration
// algorithm, over the whole dense tensor regardless of any one infoset's
// true arity (unused columns beyond a node's real arity are simply never
// read back by a query).
func (t *Trainer) discountAndUpdate(iteration int64) {
	tf := float64(iteration)
	alphaC := math.Pow(tf, dcfrAlpha) / (1 + math.Pow(tf, dcfrAlpha))
	sigmaC := math.Pow(tf/(tf+1), dcfrGamma)

	for i := range t.r {
		if t.r[i] > 0 {
			t.r[i] *= alphaC
		} else {
			t.r[i] *= dcfrBeta
		}
	}

	for infoset := 0; infoset < t.numInfosets; infoset++ {
		for h := 0; h < t.hMax; h++ {
			sum := 0.0
			for a := 0; a < t.aMax; a++ {
				if v := t.r[t.rIndex(infoset, h, a)]; v > 0 {
					sum += v
				}
			}
			t.regretSum[infoset*t.hMax+h] = sum
		}
	}

	for infoset := 0; infoset < t.numInfosets; infoset++ {
		for h := 0; h < t.hMax; h++ {
			sum := t.regretSum[infoset*t.hMax+h]
			for a := 0; a < t.aMax; a++ {
				idx := t.rIndex(infoset, h, a)
				var sigma float64
				if sum > 0 {
					sigma = math.Max(0, t.r[idx]) / sum
				} else {
					sigma = 1.0 / float64(t.aMax)
				}
				t.s[idx] = t.s[idx]*dcfrTheta + sigma*sigmaC
			}
		}
	}
}

// currentStrategy computes the regret-matched strategy for (infoset, hand)
// restricted to the node's true arity n, without touching the discounted
// regret-sum cache (that cache is only meaningful immediately after
// discountAndUpdate; mid-traversal regret matching recomputes locally).
func (t *Trainer) currentStrategy(infoset, hand, n int) []float64 {
	sigma := make([]float64, n)
	sum := 0.0
	for a := 0; a < n; a++ {
		if v := t.r[t.rIndex(infoset, hand, a)]; v > 0 {
			sigma[a] = v
			sum += v
		}
	}
	if sum > 0 {
		for a := range sigma {
			sigma[a] /= sum
		}
	} else {
		for a := range sigma {
			sigma[a] = 1.0 / float64(n)
		}
	}
	return sigma
}

// AverageStrategy returns the average strategy for (infoset, hand)
// restricted to arity n: the strategy-sum row clamped to nonnegative and
// normalized, or uniform if the row sums to zero.
func (t *Trainer) AverageStrategy(infoset, hand, n int) []float64 {
	avg := make([]float64, n)
	sum := 0.0
	for a := 0; a < n; a++ {
		v := t.s[t.rIndex(infoset, hand, a)]
		if v < 0 {
			v = 0
		}
		avg[a] = v
		sum += v
	}
	if sum > 0 {
		for a := range avg {
			avg[a] /= sum
		}
	} else {
		for a := range avg {
			avg[a] = 1.0 / float64(n)
		}
	}
	return avg
}

// traverse implements the recursive CFR body over one node, returning
// utility vectors (u0, u1) indexed by player 0's and player 1's hands
// respectively.
func (t *Trainer) traverse(nodeIdx int, pi0, pi1 []float64, nodesVisited *int64) (u0, u1 []float64) {
	*nodesVisited++
	node := t.arena.Node(nodeIdx)

	switch node.Type {
	case NodeTerminal:
		return t.terminalUtility(node)
	case NodeShowdown:
		return t.showdownUtility(node, pi0, pi1)
	default:
		return t.actionUtility(nodeIdx, node, pi0, pi1, nodesVisited)
	}
}

func (t *Trainer) terminalUtility(node Node) (u0, u1 []float64) {
	u0 = make([]float64, t.n0)
	u1 = make([]float64, t.n1)
	half := node.Pot / 2
	if node.ActingPlayer == 0 {
		fillConst(u0, half)
		fillConst(u1, -half)
	} else {
		fillConst(u0, -half)
		fillConst(u1, half)
	}
	return u0, u1
}

func fillConst(v []float64, c float64) {
	for i := range v {
		v[i] = c
	}
}

func (t *Trainer) showdownUtility(node Node, pi0, pi1 []float64) (u0, u1 []float64) {
	u0 = make([]float64, t.n0)
	u1 = make([]float64, t.n1)

	for h0 := 0; h0 < t.n0; h0++ {
		var weight, weightedEquity float64
		for j := 0; j < t.n1; j++ {
			e := t.eq.At(h0, j)
			if math.IsNaN(e) {
				continue
			}
			weight += pi1[j]
			weightedEquity += e * pi1[j]
		}
		if weight > 0 {
			u0[h0] = (weightedEquity/weight - 0.5) * node.Pot * weight
		}
	}

	for h1 := 0; h1 < t.n1; h1++ {
		var weight, weightedEquity float64
		for i := 0; i < t.n0; i++ {
			e := t.eq.At(i, h1)
			if math.IsNaN(e) {
				continue
			}
			weight += pi0[i]
			weightedEquity += (1 - e) * pi0[i]
		}
		if weight > 0 {
			u1[h1] = (weightedEquity/weight - 0.5) * node.Pot * weight
		}
	}

	return u0, u1
}

func (t *Trainer) actionUtility(nodeIdx int, node Node, pi0, pi1 []float64, nodesVisited *int64) (u0, u1 []float64) {
	p := int(node.ActingPlayer)
	opp := 1 - p
	n := int(node.ChildrenCount)
	infoset := int(node.InfosetID)

	piByPlayer := [2][]float64{pi0, pi1}
	ownReach := piByPlayer[p]
	k := len(ownReach)

	sigma := make([][]float64, k)
	for h := 0; h < k; h++ {
		sigma[h] = t.currentStrategy(infoset, h, n)
	}

	oppHands := len(piByPlayer[opp])
	uOwn := make([]float64, k)
	uOpp := make([]float64, oppHands)

	childStart, _ := node.Children()

	// childOwnUtil[a][h] holds u_p^a[h], the acting player's utility at
	// hand h had it taken action a; needed again below once u_p[h] (the
	// weighted sum across actions) is fully known.
	childOwnUtil := make([][]float64, n)

	for a := 0; a < n; a++ {
		newOwnReach := make([]float64, k)
		for h := 0; h < k; h++ {
			newOwnReach[h] = ownReach[h] * sigma[h][a]
		}

		var childPi [2][]float64
		childPi[p] = newOwnReach
		childPi[opp] = piByPlayer[opp]

		cu0, cu1 := t.traverse(childStart+a, childPi[0], childPi[1], nodesVisited)
		cuByPlayer := [2][]float64{cu0, cu1}

		childOwnUtil[a] = cuByPlayer[p]

		for h := 0; h < oppHands; h++ {
			uOpp[h] += cuByPlayer[opp][h]
		}
		for h := 0; h < k; h++ {
			uOwn[h] += sigma[h][a] * cuByPlayer[p][h]
		}
	}

	// Raw per-action regret accumulation against the final u_p[h];
	// discounting happens once per iteration in discountAndUpdate, not
	// here.
	for a := 0; a < n; a++ {
		for h := 0; h < k; h++ {
			delta := childOwnUtil[a][h] - uOwn[h]
			idx := t.rIndex(infoset, h, a)
			t.r[idx] += delta
		}
	}

	if p == 0 {
		return uOwn, uOpp
	}
	return uOpp, uOwn
}
