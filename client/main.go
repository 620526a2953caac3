package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tiggercwh/go-mathpaint/gameModel"
	"github.com/tiggercwh/go-mathpaint/termview"
)

var (
	serverURL  = flag.String("server", "http://localhost:8080/api", "base URL of the game API")
	difficulty = flag.String("difficulty", "easy", "easy|medium|hard")
)

type apiClient struct {
	base   string
	http   *http.Client
	gameID string
}

func (c *apiClient) do(method, path string, body any) (*gameModel.Response, error) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out gameModel.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &out, fmt.Errorf("%s %s: %s (%d)", method, path, out.Message, resp.StatusCode)
	}
	return &out, nil
}

func (c *apiClient) newGame(d string) (*gameModel.Response, error) {
	resp, err := c.do(http.MethodPost, "/game/new", gameModel.NewGameRequest{Difficulty: d})
	if err != nil {
		return nil, err
	}
	c.gameID = resp.Game.ID
	return resp, nil
}

func (c *apiClient) gamePath(action string) string {
	return "/game/" + c.gameID + "/" + action
}

func (c *apiClient) run(cmd termview.Command) (*gameModel.Response, error) {
	switch cmd.Verb {
	case termview.Pick:
		return c.do(http.MethodPost, c.gamePath("select"), gameModel.SelectRequest{Number: cmd.Number})
	case termview.Paint:
		return c.do(http.MethodPost, c.gamePath("paint"), gameModel.PaintRequest{Region: cmd.Region})
	case termview.Drop:
		return c.do(http.MethodPost, c.gamePath("drop"), gameModel.DropRequest{Region: cmd.Region, Number: cmd.Number})
	case termview.NewRound:
		return c.do(http.MethodPost, c.gamePath("round"), gameModel.RoundRequest{Difficulty: cmd.Difficulty})
	}
	return nil, fmt.Errorf("unsupported command")
}

// show prints the feedback carried by a response, then the board.
func show(resp *gameModel.Response) {
	printed := false
	for _, ev := range resp.Events {
		if ev.Type == gameModel.EventFeedback {
			termview.PrintFeedback(os.Stdout, ev.Message, ev.Kind)
			printed = true
		}
	}
	if !printed && resp.Message != "" {
		kind := gameModel.FeedbackError
		if resp.Success {
			kind = gameModel.FeedbackSuccess
		}
		termview.PrintFeedback(os.Stdout, resp.Message, kind)
	}
	if resp.Game != nil {
		termview.Print(os.Stdout, *resp.Game)
	}
}

func main() {
	flag.Parse()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Welcome to Math Paint!")

	c := &apiClient{base: strings.TrimRight(*serverURL, "/"), http: &http.Client{Timeout: 10 * time.Second}}
	resp, err := c.newGame(*difficulty)
	if err != nil {
		fmt.Printf("Error creating game: %v\n", err)
		fmt.Printf("Make sure the server is running at %s\n", *serverURL)
		return
	}
	termview.Print(os.Stdout, *resp.Game)
	fmt.Println(termview.Usage)

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
		}
		resp, err := c.run(cmd)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			continue
		}
		show(resp)
	}
}
