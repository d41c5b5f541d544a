package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bomber/internal/engine"
	"github.com/vovakirdan/tui-bomber/internal/grading"
	"github.com/vovakirdan/tui-bomber/internal/hub"
	"github.com/vovakirdan/tui-bomber/internal/storage"
)

const (
	scoreQueueSize = 64
	gradingTimeout = 15 * time.Second
)

// Scores persists finished games off the game loop and caches the
// leaderboard that is attached to every info message.
type Scores struct {
	store   storage.ScoreStore
	grading *grading.Client
	logger  *log.Logger

	events chan engine.ScoreEvent
	top    atomic.Pointer[[]hub.Highscore]
}

var _ hub.ScoreRecorder = (*Scores)(nil)

// NewScores creates a score worker. store and grader may be nil.
func NewScores(store storage.ScoreStore, grader *grading.Client, logger *log.Logger) *Scores {
	s := &Scores{
		store:   store,
		grading: grader,
		logger:  logger,
		events:  make(chan engine.ScoreEvent, scoreQueueSize),
	}
	empty := []hub.Highscore{}
	s.top.Store(&empty)
	return s
}

// Record queues a finished game. Level completions are not persisted.
// Never blocks: when the queue is full the result is logged and dropped.
func (s *Scores) Record(ev engine.ScoreEvent) {
	if !ev.Outcome.Final() {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("score queue full, dropping result", "player", ev.Player, "score", ev.Score)
	}
}

// Highscores returns the cached top scores as [name, score] pairs.
func (s *Scores) Highscores() []hub.Highscore {
	return *s.top.Load()
}

// Run saves queued results until Close is called and the queue is drained.
func (s *Scores) Run() {
	s.refresh()
	for ev := range s.events {
		s.save(ev)
	}
}

// Close stops accepting results. Call it only after the arena has stopped.
func (s *Scores) Close() {
	close(s.events)
}

func (s *Scores) save(ev engine.ScoreEvent) {
	s.logger.Info("game over", "player", ev.Player, "level", ev.Level, "score", ev.Score, "outcome", ev.Outcome)

	if s.store != nil {
		if _, err := s.store.SaveScore(ev.Player, ev.Level, ev.Score, ev.Outcome.String()); err != nil {
			s.logger.Error("cannot save score", "player", ev.Player, "err", err)
		} else {
			s.refresh()
		}
	}

	if s.grading != nil {
		ctx, cancel := context.WithTimeout(context.Background(), gradingTimeout)
		err := s.grading.Submit(ctx, grading.Result{Player: ev.Player, Level: ev.Level, Score: ev.Score})
		cancel()
		if err != nil {
			s.logger.Warn("grading submission failed", "player", ev.Player, "err", err)
		} else {
			s.logger.Debug("result graded", "player", ev.Player, "url", s.grading.URL())
		}
	}
}

func (s *Scores) refresh() {
	if s.store == nil {
		return
	}
	entries, err := s.store.TopScores(storage.DefaultLimit)
	if err != nil {
		s.logger.Error("cannot load highscores", "err", err)
		return
	}
	top := make([]hub.Highscore, 0, len(entries))
	for _, e := range entries {
		top = append(top, hub.Highscore{Name: e.Player, Score: e.Score})
	}
	s.top.Store(&top)
}
