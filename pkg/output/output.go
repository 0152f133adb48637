package output

import "github.com/ericogr/serial-flow-plot/pkg/sample"

// Output receives every sample appended to the plot buffer.
type Output interface {
	Publish([]sample.Sample) error
	Close() error
}

// helper constructors are in subpackages
