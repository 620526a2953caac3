package generator

import (
	"math/rand"
	"slices"

	"github.com/tiggercwh/go-mathpaint/gameModel"
)

// Puzzle is one round's worth of expressions, indexed by region.
type Puzzle struct {
	Expressions [gameModel.NumRegions]gameModel.Expression
	Pool        [gameModel.PoolSize]int
}

func (p Puzzle) Expression(r gameModel.Region) gameModel.Expression {
	if !r.Valid() {
		return gameModel.Expression{}
	}
	return p.Expressions[r]
}

// Product candidates used when a hard pool has no 2..9 factorisation.
var productCandidates = []int{6, 8, 9, 10, 12, 14, 15, 16}

// Generate builds a puzzle for the given difficulty. All randomness comes
// from rng so a seeded source replays the same round.
func Generate(rng *rand.Rand, d gameModel.Difficulty) *Puzzle {
	p := &Puzzle{Pool: drawPool(rng, d)}

	// Every pool number appears once, plus duplicates drawn with replacement.
	var targets [gameModel.NumRegions]int
	copy(targets[:], p.Pool[:])
	for i := gameModel.PoolSize; i < gameModel.NumRegions; i++ {
		targets[i] = p.Pool[rng.Intn(gameModel.PoolSize)]
	}
	rng.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })

	ops := assignOperators(rng, d, targets)
	for i, r := range gameModel.Regions {
		p.Expressions[r] = synthesize(rng, targets[i], ops[i])
	}
	return p
}

func drawPool(rng *rand.Rand, d gameModel.Difficulty) [gameModel.PoolSize]int {
	var pool [gameModel.PoolSize]int
	perm := rng.Perm(gameModel.PoolMax - gameModel.PoolMin + 1)
	for i := range pool {
		pool[i] = gameModel.PoolMin + perm[i]
	}
	if d == gameModel.Hard {
		pool = ensureProduct(rng, pool)
	}
	return pool
}

// ensureProduct swaps one pool entry for an unused product candidate when
// no entry factors into two numbers in [2, 9]. Pools that already hold a
// product come back unchanged.
func ensureProduct(rng *rand.Rand, pool [gameModel.PoolSize]int) [gameModel.PoolSize]int {
	for _, n := range pool {
		if IsProduct(n) {
			return pool
		}
	}
	available := make([]int, 0, len(productCandidates))
	for _, c := range productCandidates {
		if !slices.Contains(pool[:], c) {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		available = productCandidates
	}
	pool[rng.Intn(len(pool))] = available[rng.Intn(len(available))]
	return pool
}

// assignOperators reserves the region that carries the difficulty's
// required operator before filling the rest uniformly.
func assignOperators(rng *rand.Rand, d gameModel.Difficulty, targets [gameModel.NumRegions]int) [gameModel.NumRegions]gameModel.Operator {
	var ops [gameModel.NumRegions]gameModel.Operator
	reserved := -1
	var required gameModel.Operator
	switch d {
	case gameModel.Medium:
		reserved, required = rng.Intn(len(ops)), gameModel.Sub
	case gameModel.Hard:
		reserved, required = rng.Intn(len(ops)), gameModel.Mul
		for i, t := range targets {
			if IsProduct(t) {
				reserved = i
				break
			}
		}
	}
	candidates := d.Operators()
	for i := range ops {
		if i == reserved {
			ops[i] = required
			continue
		}
		ops[i] = candidates[rng.Intn(len(candidates))]
	}
	return ops
}

func synthesize(rng *rand.Rand, target int, op gameModel.Operator) gameModel.Expression {
	switch op {
	case gameModel.Sub:
		lo := min(target+1, gameModel.MaxNumber)
		a := between(rng, lo, gameModel.MaxNumber)
		return gameModel.Expression{Operand1: a, Operand2: a - target, Operator: gameModel.Sub, Result: target}
	case gameModel.Mul:
		pairs := factorPairs(target)
		if len(pairs) > 0 {
			f := pairs[rng.Intn(len(pairs))]
			return gameModel.Expression{Operand1: f[0], Operand2: f[1], Operator: gameModel.Mul, Result: target}
		}
	}
	a := between(rng, 1, min(target-1, 9))
	return gameModel.Expression{Operand1: a, Operand2: target - a, Operator: gameModel.Add, Result: target}
}

// IsProduct reports whether n = a*b with a, b in [2, 9].
func IsProduct(n int) bool {
	return len(factorPairs(n)) > 0
}

func factorPairs(n int) [][2]int {
	var pairs [][2]int
	for a := 2; a <= 9; a++ {
		if n%a == 0 {
			if b := n / a; b >= 2 && b <= 9 {
				pairs = append(pairs, [2]int{a, b})
			}
		}
	}
	return pairs
}

func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
