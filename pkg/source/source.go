package source

import (
	"errors"
	"fmt"

	"github.com/ericogr/serial-flow-plot/pkg/config"
)

var (
	// ErrNoData means nothing arrived within the read timeout.
	ErrNoData = errors.New("no data")
	// ErrMalformed means a line arrived but was not valid UTF-8.
	ErrMalformed = errors.New("malformed line")
	// ErrLineTooLong means the pending bytes exceeded MaxLineLength without a newline.
	ErrLineTooLong = errors.New("line too long")
)

// Source yields one trimmed text line per call. Every error is recoverable
// for the caller's current tick; ErrNoData is the ordinary quiet case.
type Source interface {
	ReadLine() (string, error)
	Close() error
}

// Open returns the source selected by cfg.SourceType.
func Open(cfg config.Config) (Source, error) {
	switch cfg.SourceType {
	case config.SourceSerial:
		s, err := OpenSerial(cfg.Serial)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.SourceADS1115:
		s, err := NewADS1115(cfg.I2C)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.SourceSimulation:
		return NewSimulation(cfg, nil), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.SourceType)
	}
}
