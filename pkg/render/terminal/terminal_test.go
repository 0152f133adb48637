package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/ericogr/serial-flow-plot/pkg/monitor"
	"github.com/ericogr/serial-flow-plot/pkg/sample"
)

func TestSparkline(t *testing.T) {
	view := monitor.View{XMin: 0, XMax: 10, YMin: 0, YMax: 28, Samples: []sample.Sample{
		{Elapsed: 0, Value: 0},
		{Elapsed: 5, Value: 14},
		{Elapsed: 10, Value: 40},
	}}
	got := Sparkline(view, 5)
	if want := "▁ ▅ █"; got != want {
		t.Fatalf("Sparkline = %q; want %q", got, want)
	}
}

func TestSparklineLatestWinsWithinColumn(t *testing.T) {
	view := monitor.View{XMin: 0, XMax: 10, YMin: 0, YMax: 7, Samples: []sample.Sample{
		{Elapsed: 1, Value: 7},
		{Elapsed: 1.5, Value: 0},
	}}
	if got := Sparkline(view, 2); got != "▁ " {
		t.Fatalf("Sparkline = %q", got)
	}
}

func TestSparklineDegenerate(t *testing.T) {
	if got := Sparkline(monitor.View{XMin: 1, XMax: 1, YMax: 1}, 3); got != "   " {
		t.Fatalf("Sparkline = %q", got)
	}
	if got := Sparkline(monitor.View{}, 0); got != "" {
		t.Fatalf("Sparkline = %q", got)
	}
}

func TestDraw(t *testing.T) {
	var buf bytes.Buffer
	term := New(&buf, config.DefaultConfig().Chart, 10)
	view := monitor.View{XMin: 0, XMax: 10, YMin: 0, YMax: 30}
	if err := term.Draw(view); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if want := "Flow Rate Monitor  (no data)\n          \nTime (s) 0.0 .. 10.0\n"; buf.String() != want {
		t.Fatalf("empty frame:\n got: %q\nwant: %q", buf.String(), want)
	}

	buf.Reset()
	view.Samples = []sample.Sample{{Elapsed: 9.99, Value: 30}}
	if err := term.Draw(view); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.Contains(lines[0], "last 30.00") {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "         █" {
		t.Fatalf("sparkline = %q", lines[1])
	}
	if strings.Contains(buf.String(), clearScreen) {
		t.Fatalf("plain writer should not get ANSI codes")
	}
}

func TestDrawHugeValueStillReportsStats(t *testing.T) {
	var buf bytes.Buffer
	term := New(&buf, config.DefaultConfig().Chart, 10)
	view := monitor.View{XMin: 0, XMax: 10, YMin: 0, YMax: 30, Samples: []sample.Sample{
		{Elapsed: 1, Value: 12.5},
		{Elapsed: 2, Value: 1.7e308},
	}}
	if err := term.Draw(view); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if strings.Contains(header, "no data") || !strings.Contains(header, "min 12.50") {
		t.Fatalf("header = %q", header)
	}
}
