package main

import (
	"sync"

	"github.com/tiggercwh/go-mathpaint/gameModel"
)

const subscriberBuffer = 32

// eventPresenter turns controller callbacks into wire events. Events are
// queued for the HTTP response of the current call and fanned out to every
// websocket subscriber of the game.
type eventPresenter struct {
	gameID  string
	pending []gameModel.Event

	mu   sync.Mutex
	subs map[chan gameModel.Event]struct{}
}

func newEventPresenter(gameID string) *eventPresenter {
	return &eventPresenter{gameID: gameID, subs: make(map[chan gameModel.Event]struct{})}
}

func (p *eventPresenter) RoundStarted(view gameModel.GameView) {
	view.ID = p.gameID
	p.emit(gameModel.Event{Type: gameModel.EventRoundStarted, Game: &view})
}

func (p *eventPresenter) RegionPainted(region gameModel.Region, color string) {
	p.emit(gameModel.Event{Type: gameModel.EventRegionPainted, Region: region.String(), Color: color})
}

func (p *eventPresenter) NumberStateChanged(number int, state gameModel.NumberState) {
	p.emit(gameModel.Event{Type: gameModel.EventNumberState, Number: number, State: state.String()})
}

func (p *eventPresenter) Feedback(message string, kind gameModel.FeedbackKind) {
	p.emit(gameModel.Event{Type: gameModel.EventFeedback, Message: message, Kind: kind})
}

func (p *eventPresenter) GameCompleted() {
	p.emit(gameModel.Event{Type: gameModel.EventGameComplete})
}

func (p *eventPresenter) emit(ev gameModel.Event) {
	p.pending = append(p.pending, ev)
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		select {
		case ch <- ev:
		default:
			// Slow reader; it can resync from GET /api/game/{id}.
		}
	}
}

// drain returns and clears the events queued since the last call.
func (p *eventPresenter) drain() []gameModel.Event {
	out := p.pending
	p.pending = nil
	return out
}

func (p *eventPresenter) subscribe() chan gameModel.Event {
	ch := make(chan gameModel.Event, subscriberBuffer)
	p.mu.Lock()
	p.subs[ch] = struct{}{}
	p.mu.Unlock()
	return ch
}

func (p *eventPresenter) unsubscribe(ch chan gameModel.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.subs[ch]; ok {
		delete(p.subs, ch)
		close(ch)
	}
}

func (p *eventPresenter) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for ch := range p.subs {
		delete(p.subs, ch)
		close(ch)
	}
}
