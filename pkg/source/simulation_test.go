package source

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/ericogr/serial-flow-plot/pkg/parse"
)

func TestSimulationStaysInRangeAndPaces(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSimulation(cfg, rand.New(rand.NewSource(1)))
	now := s.start
	s.now = func() time.Time { return now }

	for i := 0; i < 200; i++ {
		line, err := s.ReadLine()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		v, err := parse.Value(line)
		if err != nil {
			t.Fatalf("step %d: simulated line %q does not parse: %v", i, line, err)
		}
		if v < cfg.YMin || v > cfg.YMax {
			t.Fatalf("step %d: %g outside [%g, %g]", i, v, cfg.YMin, cfg.YMax)
		}
		// a second read before the interval elapses yields nothing
		if _, err := s.ReadLine(); !errors.Is(err, ErrNoData) {
			t.Fatalf("step %d: paced read err = %v", i, err)
		}
		now = now.Add(s.interval)
	}
}

func TestOpenSimulation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SourceType = config.SourceSimulation
	src, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	if _, ok := src.(*SimulationSource); !ok {
		t.Fatalf("Open returned %T", src)
	}
}

func TestOpenSerialMissingDevice(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Serial.Device = "/dev/serial-flow-plot-does-not-exist"
	if _, err := Open(cfg); err == nil {
		t.Fatalf("expected error opening missing device")
	}
}

func TestOpenUnknownType(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SourceType = "carrier-pigeon"
	if _, err := Open(cfg); err == nil {
		t.Fatalf("expected error for unknown source type")
	}
}
