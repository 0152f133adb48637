//go:build nowindow

package window

import (
	"errors"

	"github.com/ericogr/serial-flow-plot/pkg/monitor"
	"github.com/ericogr/serial-flow-plot/pkg/render"
)

// Run is unavailable in builds without a display; use the terminal renderer.
func Run(m *monitor.Monitor, ch *render.Chart, title string, tps int) error {
	return errors.New("window renderer not built (nowindow tag); use -renderer terminal")
}
