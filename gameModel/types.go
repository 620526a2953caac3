package gameModel

import (
	"fmt"
	"strings"
)

const (
	MinNumber = 4
	MaxNumber = 18

	// Pool numbers are drawn from [PoolMin, PoolMax].
	PoolMin  = 6
	PoolMax  = 16
	PoolSize = 5
)

type Operator byte

const (
	Add Operator = '+'
	Sub Operator = '-'
	Mul Operator = 'x'
)

func (o Operator) String() string {
	return string(rune(o))
}

func (o Operator) Apply(a, b int) int {
	switch o {
	case Sub:
		return a - b
	case Mul:
		return a * b
	default:
		return a + b
	}
}

func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Operator) UnmarshalText(b []byte) error {
	switch string(b) {
	case "+":
		*o = Add
	case "-", "−":
		*o = Sub
	case "x", "×", "*":
		*o = Mul
	default:
		return fmt.Errorf("unknown operator %q", string(b))
	}
	return nil
}

// Expression is the arithmetic problem attached to one region.
type Expression struct {
	Operand1 int      `json:"operand1"`
	Operand2 int      `json:"operand2"`
	Operator Operator `json:"operator"`
	Result   int      `json:"result"`
}

// Text renders the expression as "a OP b".
func (e Expression) Text() string {
	return fmt.Sprintf("%d %s %d", e.Operand1, e.Operator, e.Operand2)
}

func (e Expression) Valid() bool {
	return e.Operator.Apply(e.Operand1, e.Operand2) == e.Result
}

type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// ParseDifficulty accepts the English names and the original Portuguese
// labels. Anything else is Easy.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "medium", "medio", "médio":
		return Medium
	case "hard", "dificil", "difícil":
		return Hard
	default:
		return Easy
	}
}

func (d Difficulty) String() string {
	switch d {
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "easy"
	}
}

// Operators returns the operator set a difficulty draws from.
func (d Difficulty) Operators() []Operator {
	switch d {
	case Medium:
		return []Operator{Add, Sub}
	case Hard:
		return []Operator{Add, Sub, Mul}
	default:
		return []Operator{Add}
	}
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(b []byte) error {
	*d = ParseDifficulty(string(b))
	return nil
}

// NumberState tracks a pool number: Unused -> Used -> Complete.
type NumberState int

const (
	Unused NumberState = iota
	Used
	Complete
)

func (s NumberState) String() string {
	switch s {
	case Used:
		return "used"
	case Complete:
		return "complete"
	default:
		return "unused"
	}
}

func (s NumberState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *NumberState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unused":
		*s = Unused
	case "used":
		*s = Used
	case "complete":
		*s = Complete
	default:
		return fmt.Errorf("unknown number state %q", string(b))
	}
	return nil
}

type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)
