package console

import (
	"fmt"
	"io"
	"os"

	"github.com/ericogr/serial-flow-plot/pkg/output"
	"github.com/ericogr/serial-flow-plot/pkg/sample"
)

type ConsoleOutput struct {
	w io.Writer
}

func NewConsole() output.Output { return &ConsoleOutput{w: os.Stdout} }

func (c *ConsoleOutput) Publish(samples []sample.Sample) error {
	for _, s := range samples {
		if _, err := fmt.Fprintf(c.w, "elapsed=%.3f value=%.6f\n", s.Elapsed, s.Value); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
