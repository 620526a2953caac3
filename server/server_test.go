package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tiggercwh/go-mathpaint/gameModel"
	"github.com/tiggercwh/go-mathpaint/validator"
)

func newTestServer(t *testing.T) (*GameServer, *httptest.Server) {
	t.Helper()
	cfg := config{Addr: ":0", SessionTTL: time.Minute, SweepInterval: time.Minute, AllowedOrigin: "*"}
	gs := NewGameServer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(gs.routes())
	t.Cleanup(srv.Close)
	return gs, srv
}

func post(t *testing.T, url string, body any) (int, gameModel.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	res, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer res.Body.Close()
	var out gameModel.Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return res.StatusCode, out
}

func newGame(t *testing.T, srv *httptest.Server, difficulty string) *gameModel.GameView {
	t.Helper()
	status, resp := post(t, srv.URL+"/api/game/new", gameModel.NewGameRequest{Difficulty: difficulty, Seed: 77})
	if status != http.StatusOK || !resp.Success || resp.Game == nil {
		t.Fatalf("new game failed: %d %+v", status, resp)
	}
	return resp.Game
}

func answer(t *testing.T, gs *GameServer, id string, r gameModel.Region) int {
	t.Helper()
	s, err := gs.getGame(id)
	if err != nil {
		t.Fatal(err)
	}
	return s.ctrl.Round().Puzzle.Expression(r).Result
}

func hasEvent(events []gameModel.Event, typ gameModel.EventType) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

func TestNewGame(t *testing.T) {
	_, srv := newTestServer(t)
	game := newGame(t, srv, "hard")

	if game.ID == "" || game.Seed != 77 || game.Difficulty != gameModel.Hard {
		t.Fatalf("unexpected game %+v", game)
	}
	if len(game.Regions) != gameModel.NumRegions || len(game.Numbers) != gameModel.PoolSize {
		t.Fatalf("game has %d regions and %d numbers", len(game.Regions), len(game.Numbers))
	}

	res, err := http.Get(srv.URL + "/api/game/" + game.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	var got gameModel.Response
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Game == nil || got.Game.ID != game.ID {
		t.Fatalf("GET returned %+v", got)
	}
}

func TestUnknownGame(t *testing.T) {
	_, srv := newTestServer(t)
	status, resp := post(t, srv.URL+"/api/game/nope/drop", gameModel.DropRequest{Region: "sun", Number: 6})
	if status != http.StatusNotFound || resp.Success {
		t.Fatalf("expected 404, got %d %+v", status, resp)
	}
}

func TestInvalidBody(t *testing.T) {
	_, srv := newTestServer(t)
	game := newGame(t, srv, "easy")
	res, err := http.Post(srv.URL+"/api/game/"+game.ID+"/drop", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.StatusCode)
	}
}

func TestDropAndRepaint(t *testing.T) {
	gs, srv := newTestServer(t)
	game := newGame(t, srv, "medium")
	url := srv.URL + "/api/game/" + game.ID + "/drop"
	n := answer(t, gs, game.ID, gameModel.RocketWindow)

	_, resp := post(t, url, gameModel.DropRequest{Region: "rocket-window", Number: n + 100})
	if resp.Success || resp.Outcome != "incorrect" || resp.Message != validator.MsgIncorrect {
		t.Fatalf("wrong number: %+v", resp)
	}

	_, resp = post(t, url, gameModel.DropRequest{Region: "rocket-window", Number: n})
	if !resp.Success || resp.Outcome != "correct" {
		t.Fatalf("right number: %+v", resp)
	}
	if !hasEvent(resp.Events, gameModel.EventRegionPainted) || !hasEvent(resp.Events, gameModel.EventNumberState) {
		t.Fatalf("missing paint events: %+v", resp.Events)
	}
	if resp.Game.Painted != 1 {
		t.Fatalf("painted = %d", resp.Game.Painted)
	}

	_, resp = post(t, url, gameModel.DropRequest{Region: "rocket-window", Number: n})
	if resp.Success || resp.Message != validator.MsgAlreadyPainted {
		t.Fatalf("repaint: %+v", resp)
	}

	_, resp = post(t, url, gameModel.DropRequest{Region: "moon", Number: n})
	if resp.Message != validator.MsgDropInside {
		t.Fatalf("unknown region: %+v", resp)
	}
}

func TestSelectThenPaintByPoint(t *testing.T) {
	gs, srv := newTestServer(t)
	game := newGame(t, srv, "easy")
	base := srv.URL + "/api/game/" + game.ID

	x, y := 100.0, 100.0 // inside the planet
	_, resp := post(t, base+"/paint", gameModel.PaintRequest{X: &x, Y: &y})
	if resp.Message != validator.MsgChooseColor {
		t.Fatalf("paint without selection: %+v", resp)
	}

	_, resp = post(t, base+"/select", gameModel.SelectRequest{Number: 99})
	if resp.Success {
		t.Fatalf("selecting a number outside the pool should fail: %+v", resp)
	}

	n := answer(t, gs, game.ID, gameModel.Planet)
	_, resp = post(t, base+"/select", gameModel.SelectRequest{Number: n})
	if !resp.Success || resp.Game.Selected != n {
		t.Fatalf("select: %+v", resp)
	}

	_, resp = post(t, base+"/paint", gameModel.PaintRequest{X: &x, Y: &y})
	if !resp.Success || !resp.Game.Regions[gameModel.Planet].Painted {
		t.Fatalf("paint: %+v", resp)
	}

	ox, oy := 400.0, 550.0
	_, resp = post(t, base+"/paint", gameModel.PaintRequest{X: &ox, Y: &oy})
	if resp.Message != validator.MsgClickInside {
		t.Fatalf("paint outside: %+v", resp)
	}
}

func TestFullRoundAndNewRound(t *testing.T) {
	gs, srv := newTestServer(t)
	game := newGame(t, srv, "hard")
	base := srv.URL + "/api/game/" + game.ID

	var last gameModel.Response
	for _, r := range gameModel.Regions {
		_, last = post(t, base+"/drop", gameModel.DropRequest{Region: r.String(), Number: answer(t, gs, game.ID, r)})
		if !last.Success {
			t.Fatalf("%s: %+v", r, last)
		}
	}
	if !last.Game.Complete || !hasEvent(last.Events, gameModel.EventGameComplete) {
		t.Fatalf("round did not complete: %+v", last)
	}

	_, resp := post(t, base+"/round", nil)
	if !resp.Success || resp.Game.Complete || resp.Game.Painted != 0 || resp.Game.Difficulty != gameModel.Hard {
		t.Fatalf("new round: %+v", resp.Game)
	}
	if !hasEvent(resp.Events, gameModel.EventRoundStarted) {
		t.Fatalf("missing round_started: %+v", resp.Events)
	}

	_, resp = post(t, base+"/round", gameModel.RoundRequest{Difficulty: "whatever"})
	if resp.Game.Difficulty != gameModel.Easy {
		t.Fatalf("unknown difficulty should fall back to easy, got %s", resp.Game.Difficulty)
	}
}

func TestEventsWebsocket(t *testing.T) {
	gs, srv := newTestServer(t)
	game := newGame(t, srv, "easy")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/game/" + game.ID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ev gameModel.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Type != gameModel.EventRoundStarted || ev.Game == nil || ev.Game.ID != game.ID {
		t.Fatalf("first event = %+v", ev)
	}

	n := answer(t, gs, game.ID, gameModel.Sun)
	post(t, srv.URL+"/api/game/"+game.ID+"/drop", gameModel.DropRequest{Region: "sun", Number: n})

	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Type != gameModel.EventRegionPainted || ev.Region != "sun" || ev.Color == "" {
		t.Fatalf("second event = %+v", ev)
	}
}

func TestSweepDropsIdleGames(t *testing.T) {
	gs, srv := newTestServer(t)
	now := time.Now()
	gs.now = func() time.Time { return now }
	game := newGame(t, srv, "easy")

	if n := gs.sweep(time.Minute); n != 0 {
		t.Fatalf("fresh game swept")
	}
	now = now.Add(2 * time.Minute)
	if n := gs.sweep(time.Minute); n != 1 {
		t.Fatalf("expected one idle game swept, got %d", n)
	}
	if _, err := gs.getGame(game.ID); err == nil {
		t.Fatal("swept game still reachable")
	}
}

func TestSubscribeAfterSweep(t *testing.T) {
	gs, srv := newTestServer(t)
	now := time.Now()
	gs.now = func() time.Time { return now }
	game := newGame(t, srv, "easy")
	s, err := gs.getGame(game.ID)
	if err != nil {
		t.Fatal(err)
	}

	ev, ch, ok := gs.subscribe(s)
	if !ok || ev.Game == nil || ev.Game.ID != game.ID {
		t.Fatalf("subscribe to a live game: ok=%v event=%+v", ok, ev)
	}
	now = now.Add(2 * time.Minute)
	gs.sweep(time.Minute)
	if _, open := <-ch; open {
		t.Fatal("sweep left the subscriber open")
	}

	if _, ch, ok := gs.subscribe(s); ok || ch != nil {
		t.Fatal("subscribed to a swept game")
	}
}

func TestPreflightOnReadRoutes(t *testing.T) {
	_, srv := newTestServer(t)
	game := newGame(t, srv, "easy")

	for _, path := range []string{"/api/game/" + game.ID, "/api/game/" + game.ID + "/events"} {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+path, nil)
		if err != nil {
			t.Fatal(err)
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != http.StatusOK || res.Header.Get("Access-Control-Allow-Origin") != "*" {
			t.Fatalf("OPTIONS %s: %d, allow-origin %q", path, res.StatusCode, res.Header.Get("Access-Control-Allow-Origin"))
		}
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MATHPAINT_ADDR", ":9090")
	t.Setenv("MATHPAINT_SESSION_TTL", "5m")
	cfg, err := loadConfig([]string{"-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" || cfg.SessionTTL != 5*time.Minute || cfg.LogLevel != "debug" || cfg.SweepInterval != time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}

	cfg, err = loadConfig([]string{"-addr", ":7070"})
	if err != nil || cfg.Addr != ":7070" {
		t.Fatalf("flag should override env: %+v %v", cfg, err)
	}

	if _, err := loadConfig([]string{"-session-ttl", "0s"}); err == nil {
		t.Fatal("zero ttl should be rejected")
	}
}
