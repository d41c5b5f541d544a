package engine

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-bomber/internal/core"
	"github.com/vovakirdan/tui-bomber/internal/grid"
)

// hudRows is the number of screen rows above the lattice.
const hudRows = 2

// Render draws the HUD and a viewport of the lattice that follows the avatar.
func (e *Engine) Render(dst *core.Screen) {
	dst.Clear()
	e.renderHUD(dst)

	ox, oy := e.viewport(dst)
	put := func(p core.Pos, r rune, c core.Color) {
		dst.SetCell(p.X-ox, p.Y-oy+hudRows, r, c)
	}

	for x := 0; x < e.grid.Width(); x++ {
		for y := 0; y < e.grid.Height(); y++ {
			p := core.P(x, y)
			switch e.grid.At(p) {
			case grid.Stone:
				put(p, '█', core.ColorGray)
			case grid.Wall:
				put(p, '▒', core.ColorOrange)
			}
		}
	}

	if e.exitRevealed {
		put(e.exit, 'E', core.ColorGreen)
	}
	for _, pu := range e.powerups {
		put(pu.pos, '+', core.ColorCyan)
	}
	for _, p := range e.flash {
		put(p, '#', core.ColorYellow)
	}
	for _, b := range e.bombs {
		r := '*'
		if !b.Detonator() {
			r = rune('0' + min(9, int(math.Ceil(b.Timeout()))))
		}
		put(b.Pos(), r, core.ColorBrightRed)
	}
	for _, a := range e.adversaries {
		put(a.Pos(), []rune(a.Name())[0], core.ColorMagenta)
	}
	put(e.avatar.Pos(), '@', core.ColorBrightYellow)

	switch {
	case e.won:
		e.renderOverlay(dst, "You Win!", fmt.Sprintf("Final Score: %d", e.score))
	case e.finished:
		e.renderOverlay(dst, "Game Over", fmt.Sprintf("Final Score: %d", e.score))
	}
}

func (e *Engine) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" Level %d  Score %d  Lives %d  Time %d",
		e.level, e.score, e.avatar.Lives(), max(0, e.cfg.Timeout-e.step))
	dst.DrawTextColor(0, 0, hud, core.ColorWhite)
	if ups := e.avatar.Upgrades(); len(ups) > 0 {
		text := fmt.Sprintf("%v", ups)
		dst.DrawTextColor(dst.Width()-len(text)-1, 0, text, core.ColorCyan)
	}
	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

func (e *Engine) renderOverlay(dst *core.Screen, title, subtitle string) {
	mid := dst.Height() / 2
	dst.DrawTextCentered(mid-1, title, core.ColorBrightYellow)
	dst.DrawTextCentered(mid+1, subtitle, core.ColorWhite)
}

// viewport returns the lattice coordinate shown at the top-left corner.
func (e *Engine) viewport(dst *core.Screen) (int, int) {
	cols, rows := dst.Width(), dst.Height()-hudRows
	p := e.avatar.Pos()
	ox := core.Clamp(p.X-cols/2, 0, max(0, e.grid.Width()-cols))
	oy := core.Clamp(p.Y-rows/2, 0, max(0, e.grid.Height()-rows))
	return ox, oy
}
