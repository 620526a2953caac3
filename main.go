package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tiggercwh/go-mathpaint/gameModel"
	"github.com/tiggercwh/go-mathpaint/session"
	"github.com/tiggercwh/go-mathpaint/termview"
)

var (
	difficulty = flag.String("difficulty", "easy", "easy|medium|hard")
	seed       = flag.Int64("seed", 0, "replay the round with this seed (0 picks one)")
	verbose    = flag.Bool("v", false, "log rounds and answers to stderr")
)

// terminal is the presenter for the local game. Paint and number events
// are reflected by redrawing the board after each command.
type terminal struct {
	out      io.Writer
	complete bool
}

func (t *terminal) RoundStarted(v gameModel.GameView) {
	fmt.Fprintf(t.out, "\nNew round! Seed %d\n", v.Seed)
	t.complete = false
}

func (t *terminal) RegionPainted(r gameModel.Region, color string) {
	fmt.Fprintf(t.out, "Painted the %s %s\n", r.Info().Name, termview.Swatch(color, "    "))
}

func (t *terminal) NumberStateChanged(n int, s gameModel.NumberState) {
	if s == gameModel.Complete {
		fmt.Fprintf(t.out, "Every region for %d is painted.\n", n)
	}
}

func (t *terminal) Feedback(msg string, kind gameModel.FeedbackKind) {
	termview.PrintFeedback(t.out, msg, kind)
}

func (t *terminal) GameCompleted() {
	t.complete = true
}

func main() {
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	opts := []session.Option{session.WithLogger(logger)}
	if *seed != 0 {
		opts = append(opts, session.WithSeed(*seed))
	}

	term := &terminal{out: os.Stdout}
	ctrl := session.New(term, opts...)
	fmt.Println("Welcome to Math Paint! Solve each sum and paint its region.")
	ctrl.StartNewRound(gameModel.ParseDifficulty(*difficulty))
	termview.Print(os.Stdout, ctrl.View())
	fmt.Println(termview.Usage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		cmd, err := termview.Parse(scanner.Text())
		if err != nil {
			fmt.Println(err)
			continue
		}
		switch cmd.Verb {
		case termview.Quit:
			return
		case termview.Help:
			fmt.Println(termview.Usage)
			continue
		case termview.Pick:
			if err := ctrl.SelectColor(cmd.Number, ""); err != nil {
				fmt.Println(err)
				continue
			}
		case termview.Paint:
			r, _ := gameModel.ParseRegion(cmd.Region)
			ctrl.PaintSelected(r)
		case termview.Drop:
			r, _ := gameModel.ParseRegion(cmd.Region)
			ctrl.SubmitAnswer(r, cmd.Number)
		case termview.NewRound:
			if cmd.Difficulty == "" {
				ctrl.Restart()
			} else {
				ctrl.StartNewRound(gameModel.ParseDifficulty(cmd.Difficulty))
			}
		}
		termview.Print(os.Stdout, ctrl.View())
		if term.complete {
			fmt.Println("Type \"new\" to play again.")
		}
	}
}
