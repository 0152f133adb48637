package source

import (
	"math"
	"math/rand"
	"time"

	"github.com/ericogr/serial-flow-plot/pkg/config"
)

// SimulationSource produces a slow flow-rate wave with noise inside the
// configured y range, paced like a device sending every interval.
type SimulationSource struct {
	rnd      *rand.Rand
	now      func() time.Time
	start    time.Time
	last     time.Time
	interval time.Duration
	min, max float64
}

// NewSimulation builds a simulated source. A nil rnd seeds from the clock.
func NewSimulation(cfg config.Config, rnd *rand.Rand) *SimulationSource {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimulationSource{
		rnd:      rnd,
		now:      time.Now,
		start:    time.Now(),
		interval: 100 * time.Millisecond,
		min:      cfg.YMin,
		max:      cfg.YMax,
	}
}

func (s *SimulationSource) ReadLine() (string, error) {
	now := s.now()
	if !s.last.IsZero() && now.Sub(s.last) < s.interval {
		return "", ErrNoData
	}
	s.last = now
	t := now.Sub(s.start).Seconds()
	mid := (s.min + s.max) / 2
	amp := (s.max - s.min) * 0.3
	v := mid + amp*math.Sin(2*math.Pi*t/8) + s.rnd.NormFloat64()*amp*0.05
	v = math.Max(s.min, math.Min(s.max, v))
	return formatValue(v), nil
}

func (s *SimulationSource) Close() error { return nil }
