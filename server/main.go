package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/tiggercwh/go-mathpaint/gameModel"
	"github.com/tiggercwh/go-mathpaint/session"
	"github.com/tiggercwh/go-mathpaint/validator"
)

var errGameNotFound = errors.New("game not found")

type gameSession struct {
	// mu serialises player input; the controller is single-threaded.
	mu           sync.Mutex
	id           string
	ctrl         *session.Controller
	presenter    *eventPresenter
	createdAt    time.Time
	lastActivity time.Time
}

func (s *gameSession) view() *gameModel.GameView {
	v := s.ctrl.View()
	v.ID = s.id
	return &v
}

type GameServer struct {
	games  map[string]*gameSession
	mutex  sync.RWMutex
	cfg    config
	logger *slog.Logger
	now    func() time.Time

	upgrader websocket.Upgrader
}

func NewGameServer(cfg config, logger *slog.Logger) *GameServer {
	gs := &GameServer{
		games:  make(map[string]*gameSession),
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	gs.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     gs.originAllowed,
	}
	return gs
}

func (gs *GameServer) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return gs.cfg.AllowedOrigin == "*" || origin == "" || origin == gs.cfg.AllowedOrigin
}

func (gs *GameServer) createGame(d gameModel.Difficulty, seed int64) *gameSession {
	id := uuid.NewString()
	p := newEventPresenter(id)
	opts := []session.Option{session.WithLogger(gs.logger.With("game", id))}
	if seed != 0 {
		opts = append(opts, session.WithSeed(seed))
	}
	now := gs.now()
	s := &gameSession{
		id:           id,
		ctrl:         session.New(p, opts...),
		presenter:    p,
		createdAt:    now,
		lastActivity: now,
	}
	s.ctrl.StartNewRound(d)
	gs.mutex.Lock()
	gs.games[id] = s
	gs.mutex.Unlock()
	return s
}

func (gs *GameServer) getGame(gameID string) (*gameSession, error) {
	gs.mutex.RLock()
	defer gs.mutex.RUnlock()
	s, ok := gs.games[gameID]
	if !ok {
		return nil, errGameNotFound
	}
	return s, nil
}

// sweep drops games idle for longer than ttl and returns how many went.
func (gs *GameServer) sweep(ttl time.Duration) int {
	cutoff := gs.now().Add(-ttl)
	gs.mutex.Lock()
	var stale []*gameSession
	for id, s := range gs.games {
		s.mu.Lock()
		idle := s.lastActivity.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(gs.games, id)
			stale = append(stale, s)
		}
	}
	gs.mutex.Unlock()
	for _, s := range stale {
		s.presenter.closeAll()
	}
	return len(stale)
}

func (gs *GameServer) runSweeper(ctx context.Context) {
	t := time.NewTicker(gs.cfg.SweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := gs.sweep(gs.cfg.SessionTTL); n > 0 {
				gs.logger.Info("swept idle games", "count", n)
			}
		}
	}
}

// withGame runs fn under the game's lock and answers with the view and the
// events fn produced.
func (gs *GameServer) withGame(w http.ResponseWriter, r *http.Request, fn func(s *gameSession) gameModel.Response) {
	s, err := gs.getGame(mux.Vars(r)["gameID"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, gameModel.Response{Message: "Game not found"})
		return
	}
	s.mu.Lock()
	s.presenter.drain()
	resp := fn(s)
	resp.Events = s.presenter.drain()
	resp.Game = s.view()
	s.lastActivity = gs.now()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (gs *GameServer) setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", gs.cfg.AllowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads an optional JSON body; an empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, gameModel.Response{Message: "Invalid request body"})
		return false
	}
	return true
}

func resolveRegion(id string, x, y *float64) gameModel.Region {
	if id != "" {
		r, _ := gameModel.ParseRegion(id)
		return r
	}
	if x != nil && y != nil {
		r, _ := gameModel.RegionAt(*x, *y)
		return r
	}
	return gameModel.NoRegion
}

func verdictResponse(v validator.Verdict) gameModel.Response {
	return gameModel.Response{
		Success: v.Outcome == validator.Correct,
		Message: v.Message(),
		Outcome: v.Outcome.String(),
	}
}

func (gs *GameServer) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req gameModel.NewGameRequest
	if !decode(w, r, &req) {
		return
	}
	s := gs.createGame(gameModel.ParseDifficulty(req.Difficulty), req.Seed)
	s.mu.Lock()
	resp := gameModel.Response{
		Success: true,
		Message: "New game created successfully",
		Game:    s.view(),
		Events:  s.presenter.drain(),
	}
	s.mu.Unlock()
	gs.logger.Info("game created", "game", s.id, "difficulty", resp.Game.Difficulty)
	writeJSON(w, http.StatusOK, resp)
}

func (gs *GameServer) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s, err := gs.getGame(mux.Vars(r)["gameID"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, gameModel.Response{Message: "Game not found"})
		return
	}
	s.mu.Lock()
	view := s.view()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, gameModel.Response{Success: true, Message: "ok", Game: view})
}

func (gs *GameServer) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req gameModel.RoundRequest
	if !decode(w, r, &req) {
		return
	}
	gs.withGame(w, r, func(s *gameSession) gameModel.Response {
		if req.Difficulty == "" {
			s.ctrl.Restart()
		} else {
			s.ctrl.StartNewRound(gameModel.ParseDifficulty(req.Difficulty))
		}
		return gameModel.Response{Success: true, Message: "New round started"}
	})
}

func (gs *GameServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req gameModel.SelectRequest
	if !decode(w, r, &req) {
		return
	}
	gs.withGame(w, r, func(s *gameSession) gameModel.Response {
		if err := s.ctrl.SelectColor(req.Number, req.Color); err != nil {
			return gameModel.Response{Message: err.Error()}
		}
		return gameModel.Response{Success: true, Message: "Color selected"}
	})
}

func (gs *GameServer) handlePaint(w http.ResponseWriter, r *http.Request) {
	var req gameModel.PaintRequest
	if !decode(w, r, &req) {
		return
	}
	region := resolveRegion(req.Region, req.X, req.Y)
	gs.withGame(w, r, func(s *gameSession) gameModel.Response {
		return verdictResponse(s.ctrl.PaintSelected(region))
	})
}

func (gs *GameServer) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req gameModel.DropRequest
	if !decode(w, r, &req) {
		return
	}
	region := resolveRegion(req.Region, req.X, req.Y)
	gs.withGame(w, r, func(s *gameSession) gameModel.Response {
		return verdictResponse(s.ctrl.SubmitAnswer(region, req.Number))
	})
}

// subscribe attaches a listener to s and returns the snapshot it starts
// from. It fails once the sweeper has removed s, whose presenter is then
// closed or about to be. Locks are taken in the same order as sweep.
func (gs *GameServer) subscribe(s *gameSession) (gameModel.Event, chan gameModel.Event, bool) {
	gs.mutex.RLock()
	defer gs.mutex.RUnlock()
	if gs.games[s.id] != s {
		return gameModel.Event{}, nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return gameModel.Event{Type: gameModel.EventRoundStarted, Game: s.view()}, s.presenter.subscribe(), true
}

// handleEvents streams presenter events over a websocket. The first
// message is a round_started snapshot of the current round.
func (gs *GameServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	s, err := gs.getGame(mux.Vars(r)["gameID"])
	if err != nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}
	conn, err := gs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		gs.logger.Warn("websocket upgrade", "game", s.id, "err", err)
		return
	}
	defer conn.Close()

	snapshot, ch, ok := gs.subscribe(s)
	if !ok {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "game expired"))
		return
	}
	defer s.presenter.unsubscribe(ch)

	// Reads only to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(snapshot); err != nil {
		return
	}
	for {
		select {
		case <-done:
			return
		case ev, ok := <-ch:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "game expired"))
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

func (gs *GameServer) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gs.setCORS(w)
			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Use(func(next http.Handler) http.Handler { return requestLogger(gs.logger, next) })

	r.HandleFunc("/api/game/new", gs.handleNewGame).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}", gs.handleGetGame).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}/round", gs.handleNewRound).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}/select", gs.handleSelect).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}/paint", gs.handlePaint).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}/drop", gs.handleDrop).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/game/{gameID}/events", gs.handleEvents).Methods("GET", "OPTIONS")
	return r
}

// statusWriter captures HTTP status and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Hijack lets the websocket upgrade through the logging middleware.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"bytes", sw.bytes,
			"dur", time.Since(start).Round(time.Millisecond),
		)
	})
}

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(2)
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameServer := NewGameServer(cfg, logger)
	go gameServer.runSweeper(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           gameServer.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Addr, "sessionTTL", cfg.SessionTTL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
