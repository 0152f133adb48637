// Package monitor owns the plot state advanced once per tick: read a line,
// parse it, append the sample.
package monitor

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/ericogr/serial-flow-plot/pkg/output"
	"github.com/ericogr/serial-flow-plot/pkg/parse"
	"github.com/ericogr/serial-flow-plot/pkg/sample"
	"github.com/ericogr/serial-flow-plot/pkg/source"
)

// Outcome describes what one tick did to the buffer.
type Outcome int

const (
	// NoData: nothing arrived within the read timeout.
	NoData Outcome = iota
	// Rejected: a line or read failed and was skipped.
	Rejected
	// Appended: a sample was added.
	Appended
)

func (o Outcome) String() string {
	switch o {
	case NoData:
		return "no-data"
	case Rejected:
		return "rejected"
	case Appended:
		return "appended"
	default:
		return "unknown"
	}
}

// View is what a renderer draws: the retained samples inside the visible
// x-range, plus the range itself.
type View struct {
	Samples []sample.Sample
	XMin    float64
	XMax    float64
	YMin    float64
	YMax    float64
}

// Values returns the sample values in time order.
func (v View) Values() []float64 {
	out := make([]float64, len(v.Samples))
	for i, s := range v.Samples {
		out[i] = s.Value
	}
	return out
}

type Monitor struct {
	src     source.Source
	buf     *sample.Buffer
	outputs []output.Output
	now     func() time.Time
	start   time.Time
	window  float64
	yMin    float64
	yMax    float64
	debug   bool
	version uint64
}

// New creates the monitor and starts its elapsed-time clock.
func New(src source.Source, cfg config.Config, outputs ...output.Output) *Monitor {
	return newWithClock(src, cfg, time.Now, outputs...)
}

func newWithClock(src source.Source, cfg config.Config, now func() time.Time, outputs ...output.Output) *Monitor {
	return &Monitor{
		src:     src,
		buf:     sample.NewBuffer(cfg.Capacity),
		outputs: outputs,
		now:     now,
		start:   now(),
		window:  cfg.WindowSeconds,
		yMin:    cfg.YMin,
		yMax:    cfg.YMax,
		debug:   cfg.Debug,
	}
}

// Tick performs one read, parse and append. Failures leave the buffer
// unchanged and never escape to the caller.
func (m *Monitor) Tick() Outcome {
	line, err := m.src.ReadLine()
	if err != nil {
		if errors.Is(err, source.ErrNoData) {
			return NoData
		}
		if m.debug || !errors.Is(err, source.ErrMalformed) {
			log.Printf("source read error: %v", err)
		}
		return Rejected
	}
	value, err := parse.Value(line)
	if err != nil {
		if m.debug {
			log.Printf("skipping line: %v", err)
		}
		return Rejected
	}
	m.Append(m.now().Sub(m.start).Seconds(), value)
	return Appended
}

// Append records a sample and mirrors it to every output.
func (m *Monitor) Append(elapsed, value float64) {
	m.buf.Append(elapsed, value)
	m.version++
	if len(m.outputs) == 0 {
		return
	}
	batch := []sample.Sample{{Elapsed: elapsed, Value: value}}
	for _, o := range m.outputs {
		if err := o.Publish(batch); err != nil {
			log.Printf("output publish error: %v", err)
		}
	}
}

// Version changes whenever the buffer does, so a renderer can skip
// rebuilding an unchanged frame.
func (m *Monitor) Version() uint64 { return m.version }

func (m *Monitor) Len() int { return m.buf.Len() }

// View returns the retained samples clipped to
// [max(0, latest-window), latest]. An empty buffer shows [0, window].
func (m *Monitor) View() View {
	v := View{XMin: 0, XMax: m.window, YMin: m.yMin, YMax: m.yMax}
	recent := m.buf.Recent(m.buf.Cap())
	if len(recent) == 0 {
		return v
	}
	latest := recent[len(recent)-1].Elapsed
	lo := math.Max(0, latest-m.window)
	if latest > lo {
		v.XMin, v.XMax = lo, latest
	}
	first := 0
	for first < len(recent) && recent[first].Elapsed < v.XMin {
		first++
	}
	v.Samples = recent[first:]
	return v
}

// Close releases the source and outputs.
func (m *Monitor) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := m.src.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
