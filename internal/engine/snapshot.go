package engine

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/vovakirdan/tui-bomber/internal/core"
)

// Snapshot is the per-tick public view of a game. It shares no memory with
// the engine.
type Snapshot struct {
	Level     int           `json:"level"`
	Step      int           `json:"step"`
	Timeout   int           `json:"timeout"`
	Player    string        `json:"player"`
	Score     int           `json:"score"`
	Lives     int           `json:"lives"`
	Bomberman [2]int        `json:"bomberman"`
	Bombs     []BombView    `json:"bombs"`
	Enemies   []EnemyView   `json:"enemies"`
	Walls     [][2]int      `json:"walls"`
	Powerups  []PowerupView `json:"powerups"`
	Bonus     [][2]int      `json:"bonus"`
	Exit      []int         `json:"exit"` // empty until revealed
}

// BombView encodes as [[x,y],timeout,radius].
type BombView struct {
	Pos     [2]int
	Timeout float64
	Radius  int
}

func (b BombView) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{b.Pos, b.Timeout, b.Radius})
}

func (b *BombView) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("engine: bomb tuple has %d elements, expected 3", len(raw))
	}
	if err := json.Unmarshal(raw[0], &b.Pos); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &b.Timeout); err != nil {
		return err
	}
	return json.Unmarshal(raw[2], &b.Radius)
}

func (BombView) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: "[[x,y], timeout, radius]"}
}

// PowerupView encodes as [[x,y],"Name"].
type PowerupView struct {
	Pos  [2]int
	Name string
}

func (p PowerupView) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.Pos, p.Name})
}

func (p *PowerupView) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("engine: powerup tuple has %d elements, expected 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Pos); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Name)
}

func (PowerupView) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Description: "[[x,y], name]"}
}

// EnemyView is one adversary in a snapshot.
type EnemyView struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Pos  [2]int `json:"pos"`
}

// Info is sent once when a client joins and again when a game starts.
type Info struct {
	Size    [2]int  `json:"size"`
	Map     [][]int `json:"map"` // [x][y] tile kinds
	FPS     int     `json:"fps"`
	Timeout int     `json:"timeout"`
	Lives   int     `json:"lives"`
	Score   int     `json:"score"`
}

func positions(ps []core.Pos) [][2]int {
	out := make([][2]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Pair())
	}
	return out
}

// Snapshot builds the public view of the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Level:     e.level,
		Step:      e.step,
		Timeout:   e.cfg.Timeout,
		Player:    e.player,
		Score:     e.score,
		Lives:     e.avatar.Lives(),
		Bomberman: e.avatar.Pos().Pair(),
		Bombs:     make([]BombView, 0, len(e.bombs)),
		Enemies:   make([]EnemyView, 0, len(e.adversaries)),
		Walls:     positions(e.grid.Walls()),
		Powerups:  make([]PowerupView, 0, len(e.powerups)),
		Bonus:     positions(e.bonus),
		Exit:      []int{},
	}
	for _, b := range e.bombs {
		s.Bombs = append(s.Bombs, BombView{Pos: b.Pos().Pair(), Timeout: b.Timeout(), Radius: b.Radius()})
	}
	for _, a := range e.adversaries {
		s.Enemies = append(s.Enemies, EnemyView{Name: a.Name(), ID: a.ID(), Pos: a.Pos().Pair()})
	}
	for _, p := range e.powerups {
		s.Powerups = append(s.Powerups, PowerupView{Pos: p.pos.Pair(), Name: p.kind.String()})
	}
	if e.exitRevealed {
		s.Exit = []int{e.exit.X, e.exit.Y}
	}
	return s
}

// Info returns the join-time description of the current level.
func (e *Engine) Info() Info {
	tiles := e.grid.Tiles()
	m := make([][]int, len(tiles))
	for x, col := range tiles {
		m[x] = make([]int, len(col))
		for y, t := range col {
			m[x][y] = int(t)
		}
	}
	return Info{
		Size:    [2]int{e.grid.Width(), e.grid.Height()},
		Map:     m,
		FPS:     e.cfg.TickRate,
		Timeout: e.cfg.Timeout,
		Lives:   e.avatar.Lives(),
		Score:   e.score,
	}
}
