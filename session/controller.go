package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/tiggercwh/go-mathpaint/game"
	"github.com/tiggercwh/go-mathpaint/gameModel"
	"github.com/tiggercwh/go-mathpaint/generator"
	"github.com/tiggercwh/go-mathpaint/validator"
)

var ErrUnknownNumber = errors.New("number is not part of this round")

// Presenter receives everything the core wants shown to the player.
type Presenter interface {
	RoundStarted(view gameModel.GameView)
	RegionPainted(region gameModel.Region, color string)
	NumberStateChanged(number int, state gameModel.NumberState)
	Feedback(message string, kind gameModel.FeedbackKind)
	GameCompleted()
}

// Round is the generated content of the current round.
type Round struct {
	Seed       int64
	Difficulty gameModel.Difficulty
	Puzzle     generator.Puzzle
	Binding    generator.Binding
}

// Controller runs one player's session. Like game.State it expects input
// one call at a time.
type Controller struct {
	state     *game.State
	presenter Presenter
	logger    *slog.Logger
	nextSeed  func() int64
	round     Round
}

type Option func(*Controller)

// WithSeed makes the first round use seed and every later round use a seed
// derived from it.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		next := seed
		src := rand.New(rand.NewSource(seed))
		c.nextSeed = func() int64 {
			s := next
			next = src.Int63()
			return s
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(p Presenter, opts ...Option) *Controller {
	if p == nil {
		p = nopPresenter{}
	}
	c := &Controller{
		state:     game.New(),
		presenter: p,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		nextSeed:  func() int64 { return time.Now().UnixNano() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartNewRound switches to d and starts a fresh round.
func (c *Controller) StartNewRound(d gameModel.Difficulty) Round {
	c.state.SetDifficulty(d)
	return c.Restart()
}

// Restart starts a fresh round at the current difficulty.
func (c *Controller) Restart() Round {
	seed := c.nextSeed()
	rng := rand.New(rand.NewSource(seed))
	d := c.state.Difficulty()

	c.state.Reset()
	puzzle := generator.Generate(rng, d)
	for _, r := range gameModel.Regions {
		c.state.SetExpressionResult(r, puzzle.Expression(r).Result)
	}
	binding := generator.Bind(rng, puzzle.Pool[:])
	c.state.SetGameNumbers(binding.Numbers)

	c.round = Round{Seed: seed, Difficulty: d, Puzzle: *puzzle, Binding: binding}
	c.logger.Info("round started", "difficulty", d, "seed", seed, "pool", binding.Numbers)
	c.presenter.RoundStarted(c.View())
	return c.round
}

func (c *Controller) Round() Round {
	return c.round
}

func (c *Controller) Difficulty() gameModel.Difficulty {
	return c.state.Difficulty()
}

// SelectColor picks the number (and its colour) for select-then-click.
// An empty color means the round's bound colour.
func (c *Controller) SelectColor(number int, color string) error {
	bound, ok := c.round.Binding.Color(number)
	if !ok {
		return fmt.Errorf("select %d: %w", number, ErrUnknownNumber)
	}
	if color == "" {
		color = bound
	}
	c.state.SetSelection(number, color)
	return nil
}

// PaintSelected paints region with the selected colour.
func (c *Controller) PaintSelected(region gameModel.Region) validator.Verdict {
	sel, _ := c.state.Selection()
	return c.HandleInput(validator.Input{Region: region, Modality: validator.SelectThenClick}, sel.Color)
}

// SubmitAnswer is the drag-and-drop path: number is dropped onto region.
func (c *Controller) SubmitAnswer(region gameModel.Region, number int) validator.Verdict {
	color, _ := c.round.Binding.Color(number)
	return c.HandleInput(validator.Input{Region: region, Number: number, Modality: validator.DragAndDrop}, color)
}

// HandleInput validates one answer and reports the outcome to the presenter.
func (c *Controller) HandleInput(in validator.Input, color string) validator.Verdict {
	v := validator.Submit(c.state, in)
	c.logger.Debug("answer",
		"region", v.Region,
		"number", v.Number,
		"outcome", v.Outcome,
		"reason", v.Reason,
	)
	if v.Outcome != validator.Correct {
		c.presenter.Feedback(v.Message(), v.Kind())
		return v
	}

	c.presenter.RegionPainted(v.Region, color)
	if v.NumberChanged() {
		c.presenter.NumberStateChanged(v.Number, v.NumberState)
	}
	c.presenter.Feedback(v.Message(), v.Kind())
	if v.GameComplete {
		c.logger.Info("round complete", "seed", c.round.Seed, "difficulty", c.round.Difficulty)
		c.presenter.Feedback(validator.MsgPictureComplete, gameModel.FeedbackSuccess)
		c.presenter.GameCompleted()
	}
	return v
}

func (c *Controller) IsGameComplete() bool {
	return c.state.IsGameComplete()
}

// View renders the round and its progress for a presentation.
func (c *Controller) View() gameModel.GameView {
	view := gameModel.GameView{
		Seed:       c.round.Seed,
		Difficulty: c.round.Difficulty,
		Regions:    make([]gameModel.RegionView, 0, gameModel.NumRegions),
		Numbers:    make([]gameModel.NumberView, 0, len(c.round.Binding.Numbers)),
		Painted:    c.state.PaintedCount(),
		Complete:   c.state.IsGameComplete(),
	}
	for _, r := range gameModel.Regions {
		e := c.round.Puzzle.Expression(r)
		rv := gameModel.RegionView{ID: r, Name: r.Info().Name, Text: e.Text()}
		if c.state.IsPainted(r) {
			rv.Painted = true
			rv.Color, _ = c.round.Binding.Color(e.Result)
		}
		view.Regions = append(view.Regions, rv)
	}
	for _, n := range c.round.Binding.Numbers {
		color, _ := c.round.Binding.Color(n)
		view.Numbers = append(view.Numbers, gameModel.NumberView{
			Number:  n,
			Color:   color,
			State:   c.state.NumberState(n),
			Regions: c.state.RegionsFor(n),
			Painted: c.state.PaintedFor(n),
		})
	}
	if sel, ok := c.state.Selection(); ok {
		view.Selected = sel.Number
	}
	return view
}

type nopPresenter struct{}

func (nopPresenter) RoundStarted(gameModel.GameView) {}
func (nopPresenter) RegionPainted(gameModel.Region, string) {}
func (nopPresenter) NumberStateChanged(int, gameModel.NumberState) {}
func (nopPresenter) Feedback(string, gameModel.FeedbackKind) {}
func (nopPresenter) GameCompleted() {}
