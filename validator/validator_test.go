package validator

import (
	"testing"

	"github.com/tiggercwh/go-mathpaint/game"
	"github.com/tiggercwh/go-mathpaint/gameModel"
)

var results = [gameModel.NumRegions]int{
	gameModel.Planet:         6,
	gameModel.Sun:            8,
	gameModel.RocketTop:      6,
	gameModel.RocketWindow:   10,
	gameModel.RocketBottom:   12,
	gameModel.RocketFlame:    14,
	gameModel.AstronautHead:  6,
	gameModel.AstronautTorso: 8,
	gameModel.AstronautLegs:  12,
}

func newState() *game.State {
	s := game.New()
	for _, r := range gameModel.Regions {
		s.SetExpressionResult(r, results[r])
	}
	s.SetGameNumbers([]int{6, 8, 10, 12, 14})
	return s
}

func drop(r gameModel.Region, n int) Input {
	return Input{Region: r, Number: n, Modality: DragAndDrop}
}

func TestCorrectAnswerPaintsRegion(t *testing.T) {
	s := newState()
	v := Submit(s, drop(gameModel.Sun, 8))
	if v.Outcome != Correct {
		t.Fatalf("expected correct, got %s", v.Outcome)
	}
	if !s.IsPainted(gameModel.Sun) || !s.IsNumberUsed(8) {
		t.Fatal("correct answer was not committed")
	}
	if v.NumberState != gameModel.Used || !v.NumberChanged() {
		t.Fatalf("expected 8 to become used, got %s", v.NumberState)
	}
	if v.Message() != MsgCorrect || v.Kind() != gameModel.FeedbackSuccess {
		t.Fatalf("unexpected feedback %q/%s", v.Message(), v.Kind())
	}
}

func TestRepaintIsRejected(t *testing.T) {
	s := newState()
	Submit(s, drop(gameModel.RocketWindow, 10))
	before := *s

	for _, n := range []int{10, 6, 99} {
		v := Submit(s, drop(gameModel.RocketWindow, n))
		if v.Outcome != Rejected || v.Reason != AlreadyPainted {
			t.Fatalf("number %d: expected already-painted rejection, got %s/%s", n, v.Outcome, v.Reason)
		}
		if v.Message() != MsgAlreadyPainted {
			t.Fatalf("unexpected message %q", v.Message())
		}
	}
	if *s != before {
		t.Fatal("rejected submission mutated state")
	}
}

func TestWrongAnswerLeavesStateUntouched(t *testing.T) {
	s := newState()
	Submit(s, drop(gameModel.Planet, 6))
	before := *s

	v := Submit(s, drop(gameModel.Sun, 6))
	if v.Outcome != Incorrect || v.Reason != NoReason {
		t.Fatalf("expected incorrect, got %s/%s", v.Outcome, v.Reason)
	}
	if v.Message() != MsgIncorrect || v.Kind() != gameModel.FeedbackError {
		t.Fatalf("unexpected feedback %q", v.Message())
	}
	if *s != before {
		t.Fatal("incorrect answer mutated state")
	}

	// No lockout: the region stays open.
	if v := Submit(s, drop(gameModel.Sun, 8)); v.Outcome != Correct {
		t.Fatalf("retry after a wrong answer should succeed, got %s", v.Outcome)
	}
}

func TestSelectThenClickNeedsSelection(t *testing.T) {
	s := newState()
	v := Submit(s, Input{Region: gameModel.Planet, Number: 6, Modality: SelectThenClick})
	if v.Reason != NoSelection || v.Message() != MsgChooseColor {
		t.Fatalf("expected no-selection rejection, got %s", v.Reason)
	}
	if s.IsPainted(gameModel.Planet) {
		t.Fatal("region painted without a selection")
	}

	s.SetSelection(6, "#ff0000")
	v = Submit(s, Input{Region: gameModel.Planet, Number: 99, Modality: SelectThenClick})
	if v.Outcome != Correct || v.Number != 6 {
		t.Fatalf("selected number should be used, got %s with %d", v.Outcome, v.Number)
	}
}

func TestDragAndDropIgnoresSelection(t *testing.T) {
	s := newState()
	if v := Submit(s, drop(gameModel.RocketFlame, 14)); v.Outcome != Correct {
		t.Fatalf("drop should not require a selection, got %s/%s", v.Outcome, v.Reason)
	}
}

func TestUnknownRegion(t *testing.T) {
	s := newState()
	v := Submit(s, drop(gameModel.NoRegion, 6))
	if v.Reason != UnknownRegion || v.Message() != MsgDropInside {
		t.Fatalf("drop outside: got %s %q", v.Reason, v.Message())
	}

	s.SetSelection(6, "#ff0000")
	v = Submit(s, Input{Region: gameModel.Region(42), Modality: SelectThenClick})
	if v.Reason != UnknownRegion || v.Message() != MsgClickInside {
		t.Fatalf("click outside: got %s %q", v.Reason, v.Message())
	}
}

func TestRegionWithoutExpressionIsRejected(t *testing.T) {
	s := game.New()
	before := *s

	for _, n := range []int{0, 6} {
		v := Submit(s, drop(gameModel.Planet, n))
		if v.Outcome != Rejected || v.Reason != UnknownRegion {
			t.Fatalf("number %d on a fresh state: got %s/%s", n, v.Outcome, v.Reason)
		}
	}
	if s.IsPainted(gameModel.Planet) || *s != before {
		t.Fatal("rejected answer changed state")
	}
}

func TestNumberStateProgression(t *testing.T) {
	s := newState()
	regions := []gameModel.Region{gameModel.Planet, gameModel.RocketTop, gameModel.AstronautHead}
	want := []gameModel.NumberState{gameModel.Used, gameModel.Used, gameModel.Complete}
	changed := []bool{true, false, true}
	for i, r := range regions {
		v := Submit(s, drop(r, 6))
		if v.NumberState != want[i] || v.NumberChanged() != changed[i] {
			t.Fatalf("step %d: state %s changed=%v", i, v.NumberState, v.NumberChanged())
		}
		if got := s.IsNumberComplete(6); got != (i == 2) {
			t.Fatalf("step %d: IsNumberComplete(6) = %v", i, got)
		}
	}

	// A number bound to a single region jumps straight to complete.
	v := Submit(s, drop(gameModel.RocketWindow, 10))
	if v.Previous != gameModel.Unused || v.NumberState != gameModel.Complete {
		t.Fatalf("expected unused -> complete, got %s -> %s", v.Previous, v.NumberState)
	}
}

func TestGameCompleteOnLastRegion(t *testing.T) {
	s := newState()
	for i, r := range gameModel.Regions {
		v := Submit(s, drop(r, results[r]))
		if v.Outcome != Correct {
			t.Fatalf("%s: expected correct", r)
		}
		if v.GameComplete != (i == len(gameModel.Regions)-1) {
			t.Fatalf("%s: GameComplete = %v", r, v.GameComplete)
		}
	}
}
