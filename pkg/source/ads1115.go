package source

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	pointerConv   = 0x00
	pointerConfig = 0x01
)

// ADS1115Source reads one single-ended ADS1115 channel and reports the
// calibrated value as a decimal line.
type ADS1115Source struct {
	dev        *i2c.Dev
	bus        i2c.BusCloser
	channel    int
	sampleRate int
	scale      float64
	offset     float64
	pgaFS      float64
}

func NewADS1115(cfg config.I2CConfig) (*ADS1115Source, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c: %w", err)
	}
	dev := &i2c.Dev{Addr: uint16(cfg.Address), Bus: bus}
	return &ADS1115Source{
		dev:        dev,
		bus:        bus,
		channel:    cfg.Channel,
		sampleRate: cfg.SampleRate,
		scale:      cfg.CalibrationScale,
		offset:     cfg.CalibrationOffset,
		pgaFS:      4.096,
	}, nil
}

func (s *ADS1115Source) ReadLine() (string, error) {
	msb, lsb, err := s.configForChannel(s.channel, s.sampleRate)
	if err != nil {
		return "", err
	}
	if err := s.dev.Tx([]byte{pointerConfig, msb, lsb}, nil); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	// wait for the single-shot conversion
	delayMs := int(1000.0/float64(s.sampleRate)) + 2
	time.Sleep(time.Duration(delayMs) * time.Millisecond)
	readBuf := make([]byte, 2)
	if err := s.dev.Tx([]byte{pointerConv}, readBuf); err != nil {
		return "", fmt.Errorf("read conv: %w", err)
	}
	raw := int16(readBuf[0])<<8 | int16(readBuf[1])
	return formatValue(s.convert(raw)), nil
}

func (s *ADS1115Source) convert(raw int16) float64 {
	return float64(raw)*s.pgaFS/32768.0*s.scale + s.offset
}

// formatValue renders v in the same decimal form a serial device sends.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *ADS1115Source) Close() error {
	if s.bus != nil {
		return s.bus.Close()
	}
	return nil
}

func (s *ADS1115Source) configForChannel(channel, sampleRate int) (byte, byte, error) {
	var mux byte
	switch channel {
	case 0:
		mux = 0x4
	case 1:
		mux = 0x5
	case 2:
		mux = 0x6
	case 3:
		mux = 0x7
	default:
		return 0, 0, fmt.Errorf("invalid channel %d", channel)
	}
	// PGA: ±4.096V -> bits 001
	pga := byte(0x1)
	var dr byte
	switch sampleRate {
	case 8:
		dr = 0x0
	case 16:
		dr = 0x1
	case 32:
		dr = 0x2
	case 64:
		dr = 0x3
	case 128:
		dr = 0x4
	case 250:
		dr = 0x5
	case 475:
		dr = 0x6
	case 860:
		dr = 0x7
	default:
		dr = 0x4
	}
	var reg uint16 = 0x8000 // OS = 1 (start single conversion)
	reg |= uint16(mux) << 12
	reg |= uint16(pga) << 9
	reg |= 1 << 8 // single-shot mode
	reg |= uint16(dr) << 5
	// comparator disabled (bits 1:0 = 11)
	reg |= 0x3
	return byte(reg >> 8), byte(reg & 0xFF), nil
}
