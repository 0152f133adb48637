package source

import (
	"fmt"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/tarm/serial"
)

type SerialSource struct {
	port  *serial.Port
	lines *LineReader
}

// OpenSerial opens the device once with a fixed baud rate and read timeout.
func OpenSerial(cfg config.SerialConfig) (*SerialSource, error) {
	timeout := cfg.ReadTimeout()
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.Device, err)
	}
	return &SerialSource{port: port, lines: NewLineReader(port, timeout)}, nil
}

func (s *SerialSource) ReadLine() (string, error) {
	return s.lines.ReadLine()
}

func (s *SerialSource) Close() error {
	if s.port != nil {
		return s.port.Close()
	}
	return nil
}
