package validator

import (
	"github.com/tiggercwh/go-mathpaint/game"
	"github.com/tiggercwh/go-mathpaint/gameModel"
)

// Modality is how the player delivered the number.
type Modality int

const (
	SelectThenClick Modality = iota
	DragAndDrop
)

type Outcome int

const (
	Rejected Outcome = iota
	Incorrect
	Correct
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "rejected"
	}
}

// Reason explains a rejection.
type Reason int

const (
	NoReason Reason = iota
	NoSelection
	AlreadyPainted
	UnknownRegion
)

func (r Reason) String() string {
	switch r {
	case NoSelection:
		return "no-selection"
	case AlreadyPainted:
		return "already-painted"
	case UnknownRegion:
		return "unknown-region"
	default:
		return ""
	}
}

const (
	MsgChooseColor     = "Choose a color first!"
	MsgAlreadyPainted  = "This region is already painted!"
	MsgClickInside     = "Click inside one of the regions with a calculation!"
	MsgDropInside      = "Drop the color on a region with a calculation!"
	MsgCorrect         = "Well done! That's right!"
	MsgIncorrect       = "Oops! Try again!"
	MsgPictureComplete = "Congratulations! You painted the whole picture! Start a new game to play again."
)

type Input struct {
	Region   gameModel.Region
	Number   int
	Modality Modality
}

// Verdict is the result of one submission. Only Correct verdicts mutate
// state.
type Verdict struct {
	Outcome  Outcome
	Reason   Reason
	Modality Modality
	Region   gameModel.Region
	Number   int

	// Set on Correct only.
	Previous     gameModel.NumberState
	NumberState  gameModel.NumberState
	GameComplete bool
}

func (v Verdict) NumberChanged() bool {
	return v.Outcome == Correct && v.Previous != v.NumberState
}

func (v Verdict) Message() string {
	switch v.Reason {
	case NoSelection:
		return MsgChooseColor
	case AlreadyPainted:
		return MsgAlreadyPainted
	case UnknownRegion:
		if v.Modality == DragAndDrop {
			return MsgDropInside
		}
		return MsgClickInside
	}
	if v.Outcome == Correct {
		return MsgCorrect
	}
	return MsgIncorrect
}

func (v Verdict) Kind() gameModel.FeedbackKind {
	if v.Outcome == Correct {
		return gameModel.FeedbackSuccess
	}
	return gameModel.FeedbackError
}

// Submit checks one answer against the state and commits it when correct.
// For SelectThenClick the number comes from the current selection and
// in.Number is ignored.
func Submit(s *game.State, in Input) Verdict {
	v := Verdict{Outcome: Rejected, Modality: in.Modality, Region: in.Region, Number: in.Number}

	if in.Modality == SelectThenClick {
		sel, ok := s.Selection()
		if !ok {
			v.Reason = NoSelection
			return v
		}
		v.Number = sel.Number
	}
	if s.IsPainted(in.Region) {
		v.Reason = AlreadyPainted
		return v
	}
	// A region with no expression yet (no round started) cannot be answered.
	if !in.Region.Valid() || s.ExpressionResult(in.Region) == 0 {
		v.Reason = UnknownRegion
		return v
	}

	if v.Number != s.ExpressionResult(in.Region) {
		v.Outcome = Incorrect
		return v
	}

	v.Outcome = Correct
	v.Previous = s.NumberState(v.Number)
	s.MarkPainted(in.Region)
	s.MarkNumberUsed(v.Number)
	v.NumberState = s.NumberState(v.Number)
	v.GameComplete = s.IsGameComplete()
	return v
}
