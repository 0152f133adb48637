//go:build !nowindow

// Package window shows the chart in a desktop window. The window's update
// loop is the tick: each Update reads at most one line and each Draw
// presents the current chart.
package window

import (
	"log"

	"github.com/ericogr/serial-flow-plot/pkg/monitor"
	"github.com/ericogr/serial-flow-plot/pkg/render"
	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens the window and blocks until it is closed.
func Run(m *monitor.Monitor, ch *render.Chart, title string, tps int) error {
	w, h := ch.Size()
	g := &game{m: m, ch: ch, w: w, h: h}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(tps)
	return ebiten.RunGame(g)
}

type game struct {
	m       *monitor.Monitor
	ch      *render.Chart
	w, h    int
	img     *ebiten.Image
	drawn   uint64
	hasDraw bool
}

func (g *game) Update() error {
	g.m.Tick()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	// rebuild only when the buffer changed; otherwise redraw the last frame
	if !g.hasDraw || g.drawn != g.m.Version() {
		img, err := g.ch.Image(g.m.View())
		if err != nil {
			log.Printf("chart render error: %v", err)
		} else {
			if g.img != nil {
				g.img.Deallocate()
			}
			g.img = ebiten.NewImageFromImage(img)
			g.drawn = g.m.Version()
			g.hasDraw = true
		}
	}
	if g.img != nil {
		screen.DrawImage(g.img, nil)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w, g.h
}
