// Package terminal draws the monitor view as a text sparkline, for use
// without a display.
package terminal

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/ericogr/serial-flow-plot/pkg/monitor"
	"github.com/ericogr/serial-flow-plot/pkg/stats"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	clearScreen  = "\033[H\033[J"
)

var levels = []rune("▁▂▃▄▅▆▇█")

type Terminal struct {
	w     io.Writer
	cfg   config.ChartConfig
	width func() int
	ansi  bool
}

// New writes plain frames to w, one per Draw, at a fixed width.
func New(w io.Writer, cfg config.ChartConfig, width int) *Terminal {
	return &Terminal{w: w, cfg: cfg, width: func() int { return width }}
}

// NewStdout follows the terminal width and redraws in place when stdout is
// a terminal.
func NewStdout(cfg config.ChartConfig) *Terminal {
	fd := int(os.Stdout.Fd())
	t := &Terminal{w: os.Stdout, cfg: cfg, ansi: term.IsTerminal(fd)}
	t.width = func() int {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
		return defaultWidth
	}
	return t
}

func (t *Terminal) Draw(view monitor.View) error {
	width := t.width()
	var b strings.Builder
	if t.ansi {
		b.WriteString(clearScreen)
	}
	switch sum, err := stats.Summarize(view.Values()); {
	case len(view.Samples) == 0:
		fmt.Fprintf(&b, "%s  (no data)\n", t.cfg.Title)
	case err != nil:
		fmt.Fprintf(&b, "%s  %s\n", t.cfg.Title, t.cfg.SeriesLabel)
	default:
		fmt.Fprintf(&b, "%s  %s  (%s)\n", t.cfg.Title, t.cfg.SeriesLabel, sum)
	}
	b.WriteString(Sparkline(view, width))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s %.1f .. %.1f\n", t.cfg.XLabel, view.XMin, view.XMax)
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Sparkline maps the view's x-range onto cols columns. Each column shows the
// latest sample falling in it, scaled to the fixed y-range; empty columns
// are blank.
func Sparkline(view monitor.View, cols int) string {
	if cols <= 0 {
		return ""
	}
	cells := make([]rune, cols)
	for i := range cells {
		cells[i] = ' '
	}
	span := view.XMax - view.XMin
	ySpan := view.YMax - view.YMin
	if span <= 0 || ySpan <= 0 {
		return string(cells)
	}
	for _, s := range view.Samples {
		col := int((s.Elapsed - view.XMin) / span * float64(cols))
		if col >= cols {
			col = cols - 1
		}
		if col < 0 {
			continue
		}
		frac := (s.Value - view.YMin) / ySpan
		frac = math.Max(0, math.Min(1, frac))
		cells[col] = levels[int(math.Round(frac*float64(len(levels)-1)))]
	}
	return string(cells)
}
