package arena

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-starwars/internal/core"
	"github.com/vovakirdan/tui-starwars/internal/match"
	"github.com/vovakirdan/tui-starwars/internal/space"
)

const (
	minScreenW  = 24
	minScreenH  = 8
	flashFrames = 6
	shotGlyph   = '•'
)

// Eight headings per hull, counter-clockwise from east.
var (
	xwingGlyphs = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}
	tieGlyphs   = [8]rune{'▶', '◥', '▲', '◤', '◀', '◣', '▼', '◢'}
)

// Glyph picks the ship rune for a hull and heading in degrees.
func Glyph(body space.BodyType, rotation float64) rune {
	i := core.ModInt(int(math.Round(rotation/45)), 8)
	if body == space.TieFighter {
		return tieGlyphs[i]
	}
	return xwingGlyphs[i]
}

// fieldRect is the boxed play field: one HUD row above, one help row below.
func fieldRect(w, h int) core.Rect {
	return core.NewRect(0, 1, w, h-2)
}

// Render paints the HUD, the field border, shots and visible ships.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	w, h := dst.Width(), dst.Height()

	if w < minScreenW || h < minScreenH {
		dst.DrawTextCentered(h/2, "Terminal too small")
		return
	}
	if g.err != nil {
		dst.DrawColoredText(1, h/2, "error: "+g.err.Error(), core.ColorRed)
		return
	}
	if g.m == nil {
		return
	}

	snap := g.m.Snapshot()
	field := fieldRect(w, h)
	border := core.ColorDark
	if g.flash > 0 {
		border = core.ColorOrange
	}
	dst.DrawBox(field, border)
	inner := field.Inset(1)

	colors := make(map[string]core.RGB, len(snap.Ships))
	for _, s := range snap.Ships {
		colors[s.Name] = s.Primary
	}
	for _, shot := range snap.Shots {
		x, y := project(snap.Arena, inner, shot.Position)
		dst.SetColored(x, y, shotGlyph, colors[shot.Shooter])
	}
	for _, s := range snap.Ships {
		if !s.Visible {
			continue
		}
		x, y := project(snap.Arena, inner, s.Position)
		if s.ShieldUp {
			if inner.Contains(x-1, y) {
				dst.SetColored(x-1, y, '(', s.Secondary)
			}
			if inner.Contains(x+1, y) {
				dst.SetColored(x+1, y, ')', s.Secondary)
			}
		}
		dst.SetCell(x, y, core.Cell{Rune: Glyph(s.Body, s.Rotation), FG: s.Primary, Bold: true})
	}

	g.renderHUD(dst, snap)
}

// project maps a world position onto a cell of r. World y points up.
func project(a space.Arena, r core.Rect, p core.Vec2) (int, int) {
	fx := (p.X + a.Width/2) / a.Width
	fy := (a.Height/2 - p.Y) / a.Height
	x := core.Clamp(int(fx*float64(r.W)), 0, r.W-1)
	y := core.Clamp(int(fy*float64(r.H)), 0, r.H-1)
	return r.X + x, r.Y + y
}

func (g *Game) renderHUD(dst *core.Screen, snap match.Snapshot) {
	w, h := dst.Width(), dst.Height()

	status := fmt.Sprintf(" %s  tick %d", g.title, snap.Tick)
	if limit := g.m.DeathLimit(); limit > 0 {
		status += fmt.Sprintf("  deaths %d/%d", snap.Deaths, limit)
	}
	dst.DrawColoredText(0, 0, status, core.ColorCyan)

	switch snap.Paused {
	case match.NotPaused:
	case match.PauseManual:
		dst.DrawColoredText(w-9, 0, " PAUSED ", core.ColorYellow)
	default:
		dst.DrawColoredText(w-16, 0, " ROUND OVER (r) ", core.ColorYellow)
	}

	if g.player != nil {
		if me, ok := snap.Ship(g.player.DefaultName()); ok {
			line := fmt.Sprintf(" hp %d  energy %d  score %d", me.Health, me.Energy, g.m.Board().Score(me.Name))
			if !me.Alive {
				line = fmt.Sprintf(" respawn in %d  score %d", me.TurnsToRespawn, g.m.Board().Score(me.Name))
			}
			dst.DrawColoredText(0, h-1, line, core.ColorWhite)
			return
		}
	}
	dst.DrawColoredText(0, h-1, " spectating", core.ColorGray)
}
