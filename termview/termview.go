package termview

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tiggercwh/go-mathpaint/gameModel"
)

// Swatch wraps text in a 24-bit background colour. Unparseable colours
// leave the text plain.
func Swatch(hex, text string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return text
	}
	r, g, b := c.RGB255()
	fg := "30"
	if _, _, l := c.Hcl(); l < 0.5 {
		fg = "97"
	}
	return fmt.Sprintf("\033[%s;48;2;%d;%d;%dm%s\033[0m", fg, r, g, b, text)
}

func Dim(text string) string {
	return "\033[1;90m" + text + "\033[0m"
}

// Print draws the regions and the palette.
func Print(w io.Writer, v gameModel.GameView) {
	fmt.Fprintf(w, "\nDifficulty: %s   painted %d/%d\n", v.Difficulty, v.Painted, gameModel.NumRegions)
	for _, r := range v.Regions {
		label := fmt.Sprintf(" %-16s ", r.ID)
		if r.Painted {
			fmt.Fprintf(w, "  %s %s\n", Swatch(r.Color, label), Dim(r.Name))
			continue
		}
		fmt.Fprintf(w, "  %s %-10s %s\n", label, r.Text, Dim(r.Name))
	}

	var palette []string
	for _, n := range v.Numbers {
		cell := fmt.Sprintf(" %2d ", n.Number)
		switch n.State {
		case gameModel.Complete:
			cell = Dim(fmt.Sprintf("[%2d]", n.Number))
		case gameModel.Used:
			cell = Swatch(n.Color, fmt.Sprintf("*%2d ", n.Number))
		default:
			cell = Swatch(n.Color, cell)
		}
		if n.Number == v.Selected {
			cell = ">" + cell + "<"
		}
		palette = append(palette, cell)
	}
	fmt.Fprintf(w, "  colors: %s\n", strings.Join(palette, " "))
}

// PrintFeedback prints a feedback line, green for success and red for
// errors.
func PrintFeedback(w io.Writer, msg string, kind gameModel.FeedbackKind) {
	code := "1;31"
	if kind == gameModel.FeedbackSuccess {
		code = "1;32"
	}
	fmt.Fprintf(w, "\033[%sm%s\033[0m\n", code, msg)
}

const Usage = `commands:
  pick N             select the color bound to N
  paint REGION       paint REGION with the selected color
  drop REGION N      drop the color bound to N onto REGION
  new [difficulty]   start a new round (easy, medium, hard)
  quit`
