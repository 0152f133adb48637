package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/ericogr/serial-flow-plot/pkg/monitor"
	"github.com/ericogr/serial-flow-plot/pkg/output"
	"github.com/ericogr/serial-flow-plot/pkg/output/console"
	"github.com/ericogr/serial-flow-plot/pkg/output/mqtt"
	"github.com/ericogr/serial-flow-plot/pkg/render"
	"github.com/ericogr/serial-flow-plot/pkg/render/terminal"
	"github.com/ericogr/serial-flow-plot/pkg/render/window"
	"github.com/ericogr/serial-flow-plot/pkg/source"
)

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

// run opens the source before anything else so a missing device ends the
// process before the first tick.
func run(cfg config.Config) error {
	src, err := source.Open(cfg)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	outs, err := initOutputs(cfg)
	if err != nil {
		_ = src.Close()
		return err
	}
	m := monitor.New(src, cfg, outs...)
	defer func() {
		if err := m.Close(); err != nil {
			log.Printf("close: %v", err)
		}
	}()

	log.Printf("plotting %s source, capacity=%d window=%gs tick=%v", cfg.SourceType, cfg.Capacity, cfg.WindowSeconds, cfg.TickInterval())

	switch cfg.Renderer {
	case config.RendererTerminal:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runTerminal(ctx, m, terminal.NewStdout(cfg.Chart), cfg.TickInterval())
	default:
		return window.Run(m, render.NewChart(cfg.Chart), cfg.Chart.Title, tickRate(cfg))
	}
}

// tickRate converts the tick interval into updates per second.
func tickRate(cfg config.Config) int {
	if cfg.TickMs <= 0 {
		return 1
	}
	tps := int(math.Round(1000.0 / float64(cfg.TickMs)))
	if tps < 1 {
		tps = 1
	}
	return tps
}

func initOutputs(cfg config.Config) ([]output.Output, error) {
	outs := make([]output.Output, 0, len(cfg.Outputs))
	for _, oc := range cfg.Outputs {
		switch oc.Type {
		case config.OutputConsole:
			outs = append(outs, console.NewConsole())
		case config.OutputMQTT:
			mc := config.MQTTConfig{}
			if oc.MQTT != nil {
				mc = *oc.MQTT
			}
			o, err := mqtt.NewMQTT(mc)
			if err != nil {
				closeOutputs(outs)
				return nil, err
			}
			outs = append(outs, o)
		default:
			closeOutputs(outs)
			return nil, fmt.Errorf("unknown output type %q", oc.Type)
		}
	}
	return outs, nil
}

func closeOutputs(outs []output.Output) {
	for _, o := range outs {
		_ = o.Close()
	}
}

type drawer interface {
	Draw(monitor.View) error
}

// runTerminal ticks at interval until ctx is done, drawing a frame whenever
// the buffer changed.
func runTerminal(ctx context.Context, m *monitor.Monitor, d drawer, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	if err := d.Draw(m.View()); err != nil {
		return err
	}
	drawn := m.Version()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Tick()
			if m.Version() == drawn {
				continue
			}
			if err := d.Draw(m.View()); err != nil {
				return fmt.Errorf("draw: %w", err)
			}
			drawn = m.Version()
		}
	}
}
