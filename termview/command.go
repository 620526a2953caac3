package termview

import (
	"fmt"
	"strconv"
	"strings"
)

type Verb int

const (
	Pick Verb = iota + 1
	Paint
	Drop
	NewRound
	Quit
	Help
)

// Command is one parsed input line.
type Command struct {
	Verb       Verb
	Region     string
	Number     int
	Difficulty string
}

// Parse reads one line of player input.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	args := fields[1:]
	switch fields[0] {
	case "pick", "p":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: pick N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("pick: %q is not a number", args[0])
		}
		return Command{Verb: Pick, Number: n}, nil
	case "paint", "c":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: paint REGION")
		}
		return Command{Verb: Paint, Region: args[0]}, nil
	case "drop", "d":
		if len(args) != 2 {
			return Command{}, fmt.Errorf("usage: drop REGION N")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return Command{}, fmt.Errorf("drop: %q is not a number", args[1])
		}
		return Command{Verb: Drop, Region: args[0], Number: n}, nil
	case "new", "n":
		cmd := Command{Verb: NewRound}
		if len(args) > 0 {
			cmd.Difficulty = args[0]
		}
		return cmd, nil
	case "quit", "q", "exit":
		return Command{Verb: Quit}, nil
	case "help", "h", "?":
		return Command{Verb: Help}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}
