package game

import "github.com/tiggercwh/go-mathpaint/gameModel"

// Selection is the colour/number picked for the select-then-click modality.
type Selection struct {
	Number int
	Color  string
}

// State is one session's mutable game state. It is not safe for concurrent
// use; callers serialise input.
//
// Per-region data lives in fixed slots indexed by Region and per-number
// counters in slots indexed by the number itself, so the struct is a plain
// comparable value.
type State struct {
	results      [gameModel.NumRegions]int
	painted      [gameModel.NumRegions]bool
	paintedTotal int

	numbers    [gameModel.PoolSize]int
	numbersSet int

	used             [gameModel.MaxNumber + 1]bool
	regionsPerNumber [gameModel.MaxNumber + 1]int
	paintedPerNumber [gameModel.MaxNumber + 1]int

	selection    Selection
	hasSelection bool

	difficulty gameModel.Difficulty
}

func New() *State {
	return &State{}
}

// Reset clears everything except the difficulty.
func (s *State) Reset() {
	*s = State{difficulty: s.difficulty}
}

func inDomain(n int) bool {
	return n >= gameModel.MinNumber && n <= gameModel.MaxNumber
}

func (s *State) SetExpressionResult(r gameModel.Region, v int) {
	if !r.Valid() {
		return
	}
	s.results[r] = v
}

// ExpressionResult returns 0 when the region is unknown or unset.
func (s *State) ExpressionResult(r gameModel.Region) int {
	if !r.Valid() {
		return 0
	}
	return s.results[r]
}

func (s *State) SetSelection(number int, color string) {
	s.selection = Selection{Number: number, Color: color}
	s.hasSelection = true
}

func (s *State) Selection() (Selection, bool) {
	return s.selection, s.hasSelection
}

// SetGameNumbers records the pool and recomputes the per-number counters
// from the expression results already set.
func (s *State) SetGameNumbers(pool []int) {
	s.numbers = [gameModel.PoolSize]int{}
	s.numbersSet = copy(s.numbers[:], pool)
	s.regionsPerNumber = [gameModel.MaxNumber + 1]int{}
	s.paintedPerNumber = [gameModel.MaxNumber + 1]int{}
	for _, v := range s.results {
		if inDomain(v) {
			s.regionsPerNumber[v]++
		}
	}
}

func (s *State) GameNumbers() []int {
	return append([]int(nil), s.numbers[:s.numbersSet]...)
}

// MarkPainted commits a region. It is a no-op for unknown regions, regions
// without a result and regions already painted.
func (s *State) MarkPainted(r gameModel.Region) {
	if !r.Valid() || s.painted[r] {
		return
	}
	v := s.results[r]
	if !inDomain(v) {
		return
	}
	s.painted[r] = true
	s.paintedTotal++
	s.paintedPerNumber[v]++
}

func (s *State) MarkNumberUsed(n int) {
	if inDomain(n) {
		s.used[n] = true
	}
}

func (s *State) IsPainted(r gameModel.Region) bool {
	return r.Valid() && s.painted[r]
}

func (s *State) IsNumberUsed(n int) bool {
	return inDomain(n) && s.used[n]
}

func (s *State) IsNumberComplete(n int) bool {
	return inDomain(n) && s.regionsPerNumber[n] > 0 && s.paintedPerNumber[n] >= s.regionsPerNumber[n]
}

func (s *State) NumberState(n int) gameModel.NumberState {
	switch {
	case s.IsNumberComplete(n):
		return gameModel.Complete
	case s.IsNumberUsed(n):
		return gameModel.Used
	default:
		return gameModel.Unused
	}
}

// CompletedNumbers lists complete numbers in pool order.
func (s *State) CompletedNumbers() []int {
	var out []int
	for _, n := range s.numbers[:s.numbersSet] {
		if s.IsNumberComplete(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s *State) RegionsFor(n int) int {
	if !inDomain(n) {
		return 0
	}
	return s.regionsPerNumber[n]
}

func (s *State) PaintedFor(n int) int {
	if !inDomain(n) {
		return 0
	}
	return s.paintedPerNumber[n]
}

func (s *State) PaintedCount() int {
	return s.paintedTotal
}

func (s *State) IsGameComplete() bool {
	return s.paintedTotal == gameModel.NumRegions
}

func (s *State) Difficulty() gameModel.Difficulty {
	return s.difficulty
}

func (s *State) SetDifficulty(d gameModel.Difficulty) {
	s.difficulty = d
}
