// Package engine runs one game of the bomber simulation: level setup, the
// fixed-order tick, scoring and the public snapshot.
//
// An Engine is not safe for concurrent use. Callers own it on one goroutine
// and drive it with Keypress and Tick.
package engine

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/tui-bomber/internal/actor"
	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/grid"
	"github.com/vovakirdan/tui-bomber/internal/hazard"
)

// ErrNotRunning is returned for input sent to a game that is not in progress.
var ErrNotRunning = errors.New("engine: game is not running")

// debugEvery is how often, in ticks, the running score is logged.
const debugEvery = 100

// Outcome says why a score was reported.
type Outcome int

const (
	OutcomeLevelComplete Outcome = iota
	OutcomeGameOver
	OutcomeTimeout
	OutcomeWin
	OutcomeQuit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLevelComplete:
		return "level-complete"
	case OutcomeGameOver:
		return "game-over"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeWin:
		return "win"
	case OutcomeQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Final reports whether the outcome ends the game.
func (o Outcome) Final() bool {
	return o != OutcomeLevelComplete
}

// ScoreEvent is passed to the score callback.
type ScoreEvent struct {
	Player  string
	Level   int
	Score   int
	Outcome Outcome
}

// ScoreFunc receives score events. It runs on the caller's goroutine inside
// Tick, so it must not block for long.
type ScoreFunc func(ScoreEvent)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithScoreFunc registers the score callback.
func WithScoreFunc(fn ScoreFunc) Option {
	return func(e *Engine) { e.onScore = fn }
}

// WithRand replaces the random source seeded from Config.Seed.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

type powerup struct {
	pos  core.Pos
	kind actor.Upgrade
}

// Engine is one game instance.
type Engine struct {
	cfg     Config
	rng     *rand.Rand
	logger  *log.Logger
	onScore ScoreFunc

	grid     *grid.Grid
	running  bool
	won      bool
	finished bool

	// outcome waits in unreported until the tick that ended the game is over.
	outcome    Outcome
	unreported bool

	player string
	level  int
	step   int
	score  int

	avatar      *actor.Avatar
	adversaries []*actor.Adversary
	bombs       []*hazard.Bomb
	powerups    []powerup
	bonus       []core.Pos
	flash       []core.Pos // cells swept by explosions this tick

	exit         core.Pos
	exitRevealed bool

	pending string
}

// New validates cfg and builds an idle engine showing an empty lattice.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: log.New(io.Discard),
		level:  cfg.StartLevel,
	}
	for _, opt := range opts {
		opt(e)
	}

	g, err := grid.Generate(e.rng, cfg.StartLevel, cfg.Width, cfg.Height, 0, grid.Options{Empty: true})
	if err != nil {
		return nil, fmt.Errorf("engine: cannot build lattice: %w", err)
	}
	e.grid = g
	e.avatar = actor.NewAvatar(g.AvatarSpawn(), cfg.Lives)
	return e, nil
}

// Start resets the world for player and enters the starting level.
func (e *Engine) Start(player string) error {
	e.player = player
	e.score = 0
	e.won = false
	e.finished = false
	e.unreported = false
	e.avatar = actor.NewAvatar(e.grid.AvatarSpawn(), e.cfg.Lives)
	e.running = true

	if err := e.enterLevel(e.cfg.StartLevel); err != nil {
		e.running = false
		e.finished = true
		return err
	}
	e.flush()
	e.logger.Info("game started", "player", player, "level", e.level)
	return nil
}

// Stop abandons the game. The score is reported once with OutcomeQuit.
func (e *Engine) Stop() {
	if e.running {
		e.logger.Info("game stopped", "player", e.player, "score", e.score)
	}
	e.finish(OutcomeQuit)
	e.flush()
}

// Keypress records the command for the next tick. Later calls overwrite
// earlier ones.
func (e *Engine) Keypress(key string) error {
	if !e.running {
		return ErrNotRunning
	}
	e.pending = key
	return nil
}

func (e *Engine) Running() bool  { return e.running }
func (e *Engine) Won() bool      { return e.won }
func (e *Engine) Score() int     { return e.score }
func (e *Engine) Level() int     { return e.level }
func (e *Engine) Step() int      { return e.step }
func (e *Engine) Lives() int     { return e.avatar.Lives() }
func (e *Engine) Player() string { return e.player }

// Tick advances the simulation by one step and returns the new snapshot.
// A stopped engine returns the current snapshot unchanged.
func (e *Engine) Tick() Snapshot {
	if !e.running {
		return e.Snapshot()
	}

	e.step++
	e.flash = e.flash[:0]
	if e.step >= e.cfg.Timeout {
		e.logger.Info("time is up", "player", e.player, "step", e.step)
		e.finish(OutcomeTimeout)
	}
	if e.step%debugEvery == 0 {
		e.logger.Debug("progress", "step", e.step, "score", e.score, "lives", e.avatar.Lives())
	}

	e.explodeBombs()
	e.updateAvatar()
	e.collide()

	if e.step%(e.avatar.Count(actor.Speed)+1) == 0 {
		e.moveAdversaries()
		e.collide()
	}

	e.checkLevelComplete()
	e.flush()
	return e.Snapshot()
}

func (e *Engine) enterLevel(level int) error {
	if level > len(e.cfg.Levels) {
		e.logger.Info("campaign complete", "player", e.player, "score", e.score)
		e.won = true
		e.finish(OutcomeWin)
		return nil
	}

	spec := e.cfg.Levels[level-1]
	g, err := grid.Generate(e.rng, level, e.cfg.Width, e.cfg.Height, len(spec.Enemies), e.cfg.Grid)
	if err != nil {
		return fmt.Errorf("engine: cannot generate level %d: %w", level, err)
	}

	e.grid = g
	e.level = level
	e.step = 0
	e.avatar.Respawn()
	e.bombs = nil
	e.powerups = nil
	e.bonus = nil
	e.flash = nil
	e.exit = core.Pos{}
	e.exitRevealed = false
	e.pending = ""

	e.adversaries = make([]*actor.Adversary, 0, len(spec.Enemies))
	for i, spawn := range g.EnemySpawns() {
		a := actor.NewAdversary(e.newID(), spec.Enemies[i], spawn, core.DirUp)
		e.adversaries = append(e.adversaries, a)
	}
	e.logger.Info("entering level", "level", level, "enemies", len(e.adversaries), "walls", len(g.Walls()))
	return nil
}

// newID draws adversary ids from the game's random source so seeded games
// replay identically.
func (e *Engine) newID() string {
	id, err := uuid.NewRandomFromReader(e.rng)
	if err != nil {
		return fmt.Sprintf("adv-%d", e.rng.Int63())
	}
	return id.String()
}

// finish ends the game. The outcome is reported by flush, so points scored
// later in the same tick are included.
func (e *Engine) finish(o Outcome) {
	e.running = false
	if e.finished {
		return
	}
	e.finished = true
	e.outcome = o
	e.unreported = true
}

func (e *Engine) flush() {
	if !e.unreported {
		return
	}
	e.unreported = false
	e.report(e.outcome)
}

func (e *Engine) report(o Outcome) {
	if e.onScore == nil {
		return
	}
	e.onScore(ScoreEvent{Player: e.player, Level: e.level, Score: e.score, Outcome: o})
}

func (e *Engine) killAvatar() {
	e.logger.Info("avatar died", "step", e.step, "level", e.level)
	if e.avatar.Kill() {
		e.logger.Debug("respawn", "lives", e.avatar.Lives())
		e.avatar.Respawn()
		return
	}
	e.logger.Info("game over", "player", e.player, "score", e.score)
	e.finish(OutcomeGameOver)
}

func (e *Engine) explodeBombs() {
	live := e.bombs[:0]
	for _, b := range e.bombs {
		b.Tick()
		if !b.HasDetonated() {
			live = append(live, b)
			continue
		}
		e.logger.Debug("boom", "pos", b.Pos(), "radius", b.Radius())

		blast := b.Blast(e.grid)
		swept := mapset.New[core.Pos]()
		for _, p := range blast {
			swept.Put(p)
		}
		e.flash = append(e.flash, blast...)

		if b.Covers(e.grid, e.avatar.Pos()) && !e.avatar.Has(actor.Flamepass) {
			e.killAvatar()
		}

		exit, hidden := e.grid.Exit()
		reward, _ := e.grid.Reward()
		for _, w := range blast {
			if !e.grid.IsWall(w) {
				continue
			}
			e.grid.Destroy(w)
			switch {
			case hidden && w == exit:
				e.exit, e.exitRevealed = w, true
				e.logger.Debug("exit revealed", "pos", w)
			case hidden && w == reward:
				kind := e.cfg.Levels[e.level-1].Reward
				e.powerups = append(e.powerups, powerup{pos: w, kind: kind})
				e.logger.Debug("reward revealed", "pos", w, "kind", kind)
			}
		}

		survivors := e.adversaries[:0]
		for _, a := range e.adversaries {
			if swept.Has(a.Pos()) {
				e.score += a.Points()
				e.logger.Debug("adversary killed", "name", a.Name(), "points", a.Points())
				continue
			}
			survivors = append(survivors, a)
		}
		e.adversaries = survivors
	}
	e.bombs = live
}

func (e *Engine) updateAvatar() {
	key := e.pending
	e.pending = ""

	cmd, err := core.ParseCommand(key)
	if err != nil {
		e.logger.Warn("discarding input", "err", err)
		return
	}

	switch cmd {
	case core.CmdNone:
	case core.CmdDetonate:
		if len(e.bombs) > 0 {
			e.bombs[0].Trigger()
		}
	case core.CmdPlace:
		if len(e.bombs) < e.avatar.Count(actor.Bombs)+1 {
			radius := e.cfg.BaseRadius + e.avatar.Count(actor.Flames)
			e.bombs = append(e.bombs, hazard.New(e.avatar.Pos(), radius, e.avatar.Has(actor.Detonator)))
		}
	default:
		from := e.avatar.Pos()
		to := e.grid.Move(from, cmd.Direction(), e.avatar.Has(actor.Wallpass))
		if to == from {
			return
		}
		if e.bombAt(to) && !e.avatar.Has(actor.Bombpass) {
			return
		}
		e.avatar.MoveTo(to)
		e.collect(to)
	}
}

func (e *Engine) bombAt(p core.Pos) bool {
	for _, b := range e.bombs {
		if b.Pos() == p {
			return true
		}
	}
	return false
}

func (e *Engine) collect(p core.Pos) {
	for i, pu := range e.powerups {
		if pu.pos == p {
			e.avatar.Grant(pu.kind)
			e.powerups = append(e.powerups[:i], e.powerups[i+1:]...)
			e.logger.Info("upgrade collected", "kind", pu.kind, "player", e.player)
			return
		}
	}
}

func (e *Engine) collide() {
	for _, a := range e.adversaries {
		if a.Pos() == e.avatar.Pos() {
			e.killAvatar()
			a.Respawn()
		}
	}
}

func (e *Engine) moveAdversaries() {
	s := actor.Surroundings{Avatar: e.avatar.Pos()}
	if len(e.bombs) > 0 {
		s.Hazard, s.HasHazard = e.bombs[0].Pos(), true
	}
	for i, a := range e.adversaries {
		if !a.Ready() {
			continue
		}
		occupied := mapset.New[core.Pos]()
		for j, other := range e.adversaries {
			if j != i {
				occupied.Put(other.Pos())
			}
		}
		s.Occupied = occupied.Has
		a.Step(e.grid, s)
	}
}

func (e *Engine) checkLevelComplete() {
	if !e.running || len(e.adversaries) > 0 || !e.exitRevealed || e.avatar.Pos() != e.exit {
		return
	}
	e.logger.Info("level completed", "level", e.level, "score", e.score)
	e.report(OutcomeLevelComplete)
	if err := e.enterLevel(e.level + 1); err != nil {
		e.logger.Error("cannot enter next level", "err", err)
		e.finish(OutcomeGameOver)
	}
}
