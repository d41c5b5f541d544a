// Package hub runs the shared game: one player at a time from a FIFO queue,
// any number of viewers, and a fixed-rate authoritative tick loop.
package hub

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/tui-bomber/internal/engine"
)

// ScoreRecorder receives every score event of every game. Record is called
// on the arena goroutine and must not block.
type ScoreRecorder interface {
	Record(ev engine.ScoreEvent)
}

// RecorderFunc adapts a function to ScoreRecorder.
type RecorderFunc func(engine.ScoreEvent)

func (f RecorderFunc) Record(ev engine.ScoreEvent) { f(ev) }

// ArenaConfig holds configuration for the arena.
type ArenaConfig struct {
	Engine     engine.Config
	Logger     *log.Logger
	Recorder   ScoreRecorder      // optional
	Highscores func() []Highscore // optional, attached to every InfoEvent
}

// Status is a point-in-time view of the arena, safe to read from any goroutine.
type Status struct {
	Player  string `json:"player,omitempty"`
	Level   int    `json:"level,omitempty"`
	Score   int    `json:"score,omitempty"`
	Step    int    `json:"step,omitempty"`
	Queue   int    `json:"queue"`
	Viewers int    `json:"viewers"`
	Games   int    `json:"games"`

	Connections int   `json:"connections"`
	Dropped     int64 `json:"dropped_frames"`
}

type waiting struct {
	id   SessionID
	name string
}

// Arena owns the engine. All game state is confined to the Run goroutine;
// other goroutines talk to it through Send.
type Arena struct {
	cfg      ArenaConfig
	sessions *SessionRegistry
	logger   *log.Logger

	msgChan  chan Message
	done     chan struct{}
	doneOnce sync.Once
	status   atomic.Pointer[Status]

	viewers  mapset.Set[SessionID]
	queue    []waiting
	current  *waiting
	eng      *engine.Engine
	games    int
	idleInfo engine.Info
}

// NewArena validates the engine configuration and creates an idle arena.
func NewArena(cfg ArenaConfig, sessions *SessionRegistry) (*Arena, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	idle, err := engine.New(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("hub: %w", err)
	}

	a := &Arena{
		cfg:      cfg,
		sessions: sessions,
		logger:   cfg.Logger,
		msgChan:  make(chan Message, 256),
		done:     make(chan struct{}),
		viewers:  mapset.New[SessionID](),
		idleInfo: idle.Info(),
	}
	a.publish()
	return a, nil
}

// Send sends a message to the arena for processing on its goroutine.
func (a *Arena) Send(msg Message) {
	select {
	case a.msgChan <- msg:
	case <-a.done:
	}
}

// Status returns the latest published status.
func (a *Arena) Status() Status {
	return *a.status.Load()
}

// Stop shuts down the arena loop.
func (a *Arena) Stop() {
	a.doneOnce.Do(func() {
		close(a.done)
	})
}

// Run drives the arena at the configured tick rate until ctx is cancelled
// or Stop is called. A game still in progress is abandoned and its score
// reported.
func (a *Arena) Run(ctx context.Context) {
	defer a.Stop()

	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.Engine.TickRate))
	defer ticker.Stop()

	a.logger.Info("arena running", "tick_rate", a.cfg.Engine.TickRate)
	for {
		select {
		case <-ticker.C:
			a.drainMessages()
			a.tick()
			a.publish()

		case msg := <-a.msgChan:
			a.handle(msg)
			a.publish()

		case <-ctx.Done():
			a.abandon()
			return

		case <-a.done:
			a.abandon()
			return
		}
	}
}

// drainMessages applies everything that arrived before the tick boundary.
func (a *Arena) drainMessages() {
	for {
		select {
		case msg := <-a.msgChan:
			a.handle(msg)
		default:
			return
		}
	}
}

func (a *Arena) handle(msg Message) {
	switch m := msg.(type) {
	case JoinPlayerMsg:
		a.handleJoinPlayer(m)
	case JoinViewerMsg:
		a.handleJoinViewer(m)
	case KeyMsg:
		a.handleKey(m)
	case DisconnectMsg:
		a.handleDisconnect(m)
	}
}

func (a *Arena) handleJoinPlayer(msg JoinPlayerMsg) {
	session, ok := a.sessions.Get(msg.SessionID)
	if !ok {
		return
	}
	a.queue = append(a.queue, waiting{id: msg.SessionID, name: msg.Name})
	a.logger.Info("player queued", "name", msg.Name, "session", msg.SessionID, "position", len(a.queue))
	session.Send(a.infoEvent(a.idleInfo))
}

func (a *Arena) handleJoinViewer(msg JoinViewerMsg) {
	session, ok := a.sessions.Get(msg.SessionID)
	if !ok {
		return
	}
	a.viewers.Put(msg.SessionID)
	a.logger.Info("viewer joined", "session", msg.SessionID, "viewers", a.viewers.Size())

	info := a.idleInfo
	if a.eng != nil {
		info = a.eng.Info()
	}
	session.Send(a.infoEvent(info))
}

func (a *Arena) handleKey(msg KeyMsg) {
	if a.current == nil || a.current.id != msg.SessionID {
		return
	}
	if err := a.eng.Keypress(msg.Key); err != nil {
		a.logger.Debug("key dropped", "name", a.current.name, "err", err)
	}
}

func (a *Arena) handleDisconnect(msg DisconnectMsg) {
	defer a.sessions.Unregister(msg.SessionID)

	if a.viewers.Has(msg.SessionID) {
		a.viewers.Remove(msg.SessionID)
		a.logger.Info("viewer left", "session", msg.SessionID)
		return
	}

	if a.current != nil && a.current.id == msg.SessionID {
		a.logger.Info("player left mid-game", "name", a.current.name, "score", a.eng.Score())
		a.eng.Stop()
		a.current, a.eng = nil, nil
		return
	}

	for i, w := range a.queue {
		if w.id == msg.SessionID {
			a.queue = append(a.queue[:i], a.queue[i+1:]...)
			a.logger.Info("player left the queue", "name", w.name)
			return
		}
	}
}

func (a *Arena) tick() {
	if a.eng == nil {
		a.startNext()
		return
	}

	evt := SnapshotEvent{Snapshot: a.eng.Tick()}
	a.sendPlayer(evt)
	a.broadcastViewers(evt)

	if !a.eng.Running() {
		a.finishGame()
	}
}

// startNext pops the queue until a still-connected player is found.
func (a *Arena) startNext() {
	for len(a.queue) > 0 {
		next := a.queue[0]
		a.queue = a.queue[1:]
		session, ok := a.sessions.Get(next.id)
		if !ok {
			continue
		}

		cfg := a.cfg.Engine
		if cfg.Seed != 0 {
			cfg.Seed += int64(a.games)
		}
		eng, err := engine.New(cfg,
			engine.WithLogger(a.logger.WithPrefix("engine")),
			engine.WithScoreFunc(a.record),
		)
		if err == nil {
			err = eng.Start(next.name)
		}
		if err != nil {
			a.logger.Error("cannot start game", "name", next.name, "err", err)
			session.Close()
			continue
		}

		a.games++
		a.current, a.eng = &next, eng
		a.logger.Info("game started", "name", next.name, "game", a.games, "queue", len(a.queue))

		evt := a.infoEvent(eng.Info())
		session.Send(evt)
		a.broadcastViewers(evt)
		return
	}
}

func (a *Arena) finishGame() {
	score := a.eng.Score()
	a.logger.Info("game finished", "name", a.current.name, "score", score, "level", a.eng.Level(), "won", a.eng.Won())
	if session, ok := a.sessions.Get(a.current.id); ok {
		session.Send(FinalScoreEvent{Score: score})
		session.Close()
	}
	a.current, a.eng = nil, nil
}

func (a *Arena) abandon() {
	if a.eng != nil && a.eng.Running() {
		a.eng.Stop()
	}
	a.current, a.eng = nil, nil
}

func (a *Arena) record(ev engine.ScoreEvent) {
	if a.cfg.Recorder != nil {
		a.cfg.Recorder.Record(ev)
	}
}

func (a *Arena) infoEvent(info engine.Info) InfoEvent {
	evt := InfoEvent{Info: info, Highscores: []Highscore{}}
	if a.cfg.Highscores != nil {
		if hs := a.cfg.Highscores(); hs != nil {
			evt.Highscores = hs
		}
	}
	return evt
}

func (a *Arena) sendPlayer(evt Event) {
	if a.current == nil {
		return
	}
	if session, ok := a.sessions.Get(a.current.id); ok {
		session.Send(evt)
	}
}

func (a *Arena) broadcastViewers(evt Event) {
	a.viewers.Each(func(id SessionID) {
		if session, ok := a.sessions.Get(id); ok {
			session.Send(evt)
		}
	})
}

func (a *Arena) publish() {
	s := &Status{
		Queue:   len(a.queue),
		Viewers: a.viewers.Size(),
		Games:   a.games,
	}
	s.Connections, s.Dropped = a.sessions.Stats()
	if a.current != nil && a.eng != nil {
		s.Player = a.current.name
		s.Level = a.eng.Level()
		s.Score = a.eng.Score()
		s.Step = a.eng.Step()
	}
	a.status.Store(s)
}
