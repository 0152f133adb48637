package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceSerial     = "serial"
	SourceADS1115    = "ads1115"
	SourceSimulation = "simulation"

	RendererWindow   = "window"
	RendererTerminal = "terminal"

	OutputConsole = "console"
	OutputMQTT    = "mqtt"
)

type SerialConfig struct {
	Device        string `json:"device" yaml:"device"`
	Baud          int    `json:"baud" yaml:"baud"`
	ReadTimeoutMs int    `json:"read_timeout_ms" yaml:"read_timeout_ms"`
}

// I2CConfig describes an ADS1115 channel read through periph.
type I2CConfig struct {
	Bus               string  `json:"bus" yaml:"bus"`
	Address           int     `json:"address" yaml:"address"`
	Channel           int     `json:"channel" yaml:"channel"`
	SampleRate        int     `json:"sample_rate" yaml:"sample_rate"`
	CalibrationScale  float64 `json:"calibration_scale" yaml:"calibration_scale"`
	CalibrationOffset float64 `json:"calibration_offset" yaml:"calibration_offset"`
}

type ChartConfig struct {
	Title       string `json:"title" yaml:"title"`
	SeriesLabel string `json:"series_label" yaml:"series_label"`
	XLabel      string `json:"x_label" yaml:"x_label"`
	YLabel      string `json:"y_label" yaml:"y_label"`
	Width       int    `json:"width" yaml:"width"`
	Height      int    `json:"height" yaml:"height"`
}

type MQTTConfig struct {
	Server   string `json:"server" yaml:"server"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	ClientID string `json:"client_id" yaml:"client_id"`
	Topic    string `json:"topic" yaml:"topic"`
	// Home Assistant discovery; published retained when set
	DiscoveryTopic    string `json:"discovery_topic" yaml:"discovery_topic"`
	DiscoveryName     string `json:"discovery_name" yaml:"discovery_name"`
	DiscoveryUniqueID string `json:"discovery_unique_id" yaml:"discovery_unique_id"`
}

type OutputConfig struct {
	Type string      `json:"type" yaml:"type"`
	MQTT *MQTTConfig `json:"mqtt,omitempty" yaml:"mqtt,omitempty"`
}

type Config struct {
	SourceType    string         `json:"source_type" yaml:"source_type"`
	Serial        SerialConfig   `json:"serial" yaml:"serial"`
	I2C           I2CConfig      `json:"i2c" yaml:"i2c"`
	Capacity      int            `json:"capacity" yaml:"capacity"`
	WindowSeconds float64        `json:"window_seconds" yaml:"window_seconds"`
	YMin          float64        `json:"y_min" yaml:"y_min"`
	YMax          float64        `json:"y_max" yaml:"y_max"`
	TickMs        int            `json:"tick_ms" yaml:"tick_ms"`
	Renderer      string         `json:"renderer" yaml:"renderer"`
	Chart         ChartConfig    `json:"chart" yaml:"chart"`
	Outputs       []OutputConfig `json:"outputs" yaml:"outputs"`
	Debug         bool           `json:"debug" yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		SourceType: SourceSerial,
		Serial: SerialConfig{
			Device:        "/dev/cu.usbserial-210",
			Baud:          115200,
			ReadTimeoutMs: 100,
		},
		I2C: I2CConfig{
			Bus:              "2",
			Address:          0x48,
			SampleRate:       128,
			CalibrationScale: 1.0,
		},
		Capacity:      100,
		WindowSeconds: 10,
		YMin:          0,
		YMax:          30,
		TickMs:        10,
		Renderer:      RendererWindow,
		Chart: ChartConfig{
			Title:       "Flow Rate Monitor",
			SeriesLabel: "Flow Rate (L/min)",
			XLabel:      "Time (s)",
			YLabel:      "Flow Rate (L/min)",
			Width:       800,
			Height:      480,
		},
	}
}

// ReadTimeout is the per-read serial timeout fixed at open time.
func (c SerialConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// LoadFromFlags loads configuration from the process arguments.
func LoadFromFlags() (Config, error) {
	return Load(os.Args[1:])
}

// Load builds a configuration from an optional JSON or YAML file and flags.
// Flags override values present in the file.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("serial-flow-plot", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "Path to JSON or YAML config file")
	flagSource := fs.String("source", "", "source type: serial|ads1115|simulation")
	flagDevice := fs.String("device", "", "Serial device path")
	flagBaud := fs.Int("baud", -1, "Serial baud rate")
	flagReadTimeout := fs.Int("read-timeout-ms", -1, "Serial read timeout in ms")
	flagI2CBus := fs.String("i2c-bus", "", "I2C bus (e.g., '2' -> /dev/i2c-2)")
	flagI2CAddStr := fs.String("i2c-address", "", "I2C address (decimal or 0x hex)")
	flagI2CChannel := fs.Int("i2c-channel", -1, "ADS1115 channel 0..3")
	flagCalibration := fs.Float64("calibration", math.NaN(), "Calibration scale factor (multiplier)")
	flagCalOffset := fs.Float64("calibration-offset", math.NaN(), "Calibration offset")
	flagCapacity := fs.Int("capacity", -1, "Number of samples retained")
	flagWindow := fs.Float64("window", math.NaN(), "Visible time window in seconds")
	flagYMin := fs.Float64("y-min", math.NaN(), "Fixed y-axis minimum")
	flagYMax := fs.Float64("y-max", math.NaN(), "Fixed y-axis maximum")
	flagTick := fs.Int("tick-ms", -1, "Redraw interval in ms")
	flagRenderer := fs.String("renderer", "", "renderer: window|terminal")
	flagOutputs := fs.String("outputs", "", "Comma-separated outputs (console,mqtt)")
	flagMQTTServer := fs.String("mqtt-server", "", "MQTT server (tcp://host:port)")
	flagMQTTUser := fs.String("mqtt-user", "", "MQTT username")
	flagMQTTPass := fs.String("mqtt-pass", "", "MQTT password")
	flagClientID := fs.String("mqtt-client-id", "", "MQTT client id")
	flagTopic := fs.String("mqtt-topic", "", "MQTT topic")
	flagDiscovery := fs.String("mqtt-discovery-topic", "", "Home Assistant discovery topic")
	flagDebug := fs.Bool("debug", false, "Log rejected lines")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()

	if *cfgPath != "" {
		if err := loadFile(*cfgPath, &cfg); err != nil {
			return cfg, err
		}
	}

	if *flagSource != "" {
		cfg.SourceType = *flagSource
	}
	if *flagDevice != "" {
		cfg.Serial.Device = *flagDevice
	}
	if *flagBaud != -1 {
		cfg.Serial.Baud = *flagBaud
	}
	if *flagReadTimeout != -1 {
		cfg.Serial.ReadTimeoutMs = *flagReadTimeout
	}
	if *flagI2CBus != "" {
		cfg.I2C.Bus = *flagI2CBus
	}
	if *flagI2CAddStr != "" {
		v, err := parseIntOrHex(*flagI2CAddStr)
		if err != nil {
			return cfg, fmt.Errorf("i2c-address: %w", err)
		}
		cfg.I2C.Address = v
	}
	if *flagI2CChannel != -1 {
		cfg.I2C.Channel = *flagI2CChannel
	}
	if !math.IsNaN(*flagCalibration) {
		cfg.I2C.CalibrationScale = *flagCalibration
	}
	if !math.IsNaN(*flagCalOffset) {
		cfg.I2C.CalibrationOffset = *flagCalOffset
	}
	if *flagCapacity != -1 {
		cfg.Capacity = *flagCapacity
	}
	if !math.IsNaN(*flagWindow) {
		cfg.WindowSeconds = *flagWindow
	}
	if !math.IsNaN(*flagYMin) {
		cfg.YMin = *flagYMin
	}
	if !math.IsNaN(*flagYMax) {
		cfg.YMax = *flagYMax
	}
	if *flagTick != -1 {
		cfg.TickMs = *flagTick
	}
	if *flagRenderer != "" {
		cfg.Renderer = *flagRenderer
	}
	if *flagOutputs != "" {
		parts := parseCSV(*flagOutputs)
		outs := make([]OutputConfig, 0, len(parts))
		for _, p := range parts {
			outs = append(outs, OutputConfig{Type: strings.ToLower(p)})
		}
		cfg.Outputs = outs
	}
	// mqtt flags apply to every mqtt output; one is created if none exist
	if *flagMQTTServer != "" || *flagMQTTUser != "" || *flagMQTTPass != "" || *flagClientID != "" || *flagTopic != "" || *flagDiscovery != "" {
		applied := false
		for i := range cfg.Outputs {
			if cfg.Outputs[i].Type != OutputMQTT {
				continue
			}
			if cfg.Outputs[i].MQTT == nil {
				cfg.Outputs[i].MQTT = &MQTTConfig{}
			}
			applyMQTTFlags(cfg.Outputs[i].MQTT, *flagMQTTServer, *flagMQTTUser, *flagMQTTPass, *flagClientID, *flagTopic, *flagDiscovery)
			applied = true
		}
		if !applied {
			out := OutputConfig{Type: OutputMQTT, MQTT: &MQTTConfig{}}
			applyMQTTFlags(out.MQTT, *flagMQTTServer, *flagMQTTUser, *flagMQTTPass, *flagClientID, *flagTopic, *flagDiscovery)
			cfg.Outputs = append(cfg.Outputs, out)
		}
	}
	if *flagDebug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot drive the plot loop.
func (c Config) Validate() error {
	switch c.SourceType {
	case SourceSerial:
		if c.Serial.Device == "" {
			return errors.New("serial device must be set")
		}
		if c.Serial.Baud <= 0 {
			return errors.New("baud must be > 0")
		}
		if c.Serial.ReadTimeoutMs <= 0 {
			return errors.New("read-timeout-ms must be > 0")
		}
	case SourceADS1115:
		if c.I2C.Channel < 0 || c.I2C.Channel > 3 {
			return fmt.Errorf("invalid i2c channel %d", c.I2C.Channel)
		}
		if c.I2C.SampleRate <= 0 {
			return errors.New("i2c sample_rate must be > 0")
		}
	case SourceSimulation:
	default:
		return fmt.Errorf("unknown source type %q", c.SourceType)
	}
	if c.Capacity <= 0 {
		return errors.New("capacity must be > 0")
	}
	if !(c.WindowSeconds > 0) {
		return errors.New("window must be > 0")
	}
	if !(c.YMax > c.YMin) {
		return fmt.Errorf("y-max (%g) must be greater than y-min (%g)", c.YMax, c.YMin)
	}
	if c.TickMs <= 0 {
		return errors.New("tick-ms must be > 0")
	}
	switch c.Renderer {
	case RendererWindow, RendererTerminal:
	default:
		return fmt.Errorf("unknown renderer %q", c.Renderer)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return errors.New("chart width and height must be > 0")
	}
	for _, o := range c.Outputs {
		switch o.Type {
		case OutputConsole, OutputMQTT:
		default:
			return fmt.Errorf("unknown output type %q", o.Type)
		}
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := json.Unmarshal(b, cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	return nil
}

func applyMQTTFlags(m *MQTTConfig, server, user, pass, clientID, topic, discovery string) {
	if server != "" {
		m.Server = server
	}
	if user != "" {
		m.Username = user
	}
	if pass != "" {
		m.Password = pass
	}
	if clientID != "" {
		m.ClientID = clientID
	}
	if topic != "" {
		m.Topic = topic
	}
	if discovery != "" {
		m.DiscoveryTopic = discovery
	}
}

func parseIntOrHex(s string) (int, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseInt(s[2:], 16, 0)
		return int(v), err
	}
	return strconv.Atoi(s)
}

func parseCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
