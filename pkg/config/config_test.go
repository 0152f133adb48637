package config

import (
	"reflect"
	"testing"
	"time"
)

func TestParseIntOrHex(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"72", 72, true},
		{"0x48", 0x48, true},
		{"0X4a", 0x4a, true},
		{"bad", 0, false},
	}
	for _, tt := range tests {
		got, err := parseIntOrHex(tt.in)
		if (err == nil) != tt.ok {
			t.Fatalf("parseIntOrHex(%q) ok=%v err=%v", tt.in, tt.ok, err)
		}
		if tt.ok && got != tt.want {
			t.Fatalf("parseIntOrHex(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseCSV(t *testing.T) {
	got := parseCSV(" console, ,mqtt ")
	want := []string{"console", "mqtt"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseCSV = %v; want %v", got, want)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("defaults changed by Load: %+v", cfg)
	}
	if cfg.Serial.Baud != 115200 || cfg.Capacity != 100 || cfg.WindowSeconds != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.YMin != 0 || cfg.YMax != 30 {
		t.Fatalf("y range: [%g, %g]", cfg.YMin, cfg.YMax)
	}
	if cfg.Serial.ReadTimeout() != 100*time.Millisecond || cfg.TickInterval() != 10*time.Millisecond {
		t.Fatalf("durations: %v %v", cfg.Serial.ReadTimeout(), cfg.TickInterval())
	}
}

func TestLoadFlagsOverride(t *testing.T) {
	cfg, err := Load([]string{
		"-source", "simulation",
		"-device", "/dev/ttyUSB0",
		"-baud", "9600",
		"-capacity", "3",
		"-window", "5",
		"-y-max", "50",
		"-renderer", "terminal",
		"-outputs", "Console",
		"-mqtt-server", "tcp://broker:1883",
		"-mqtt-topic", "flow",
		"-mqtt-discovery-topic", "homeassistant/sensor/flow/config",
		"-i2c-address", "0x49",
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SourceType != SourceSimulation || cfg.Serial.Device != "/dev/ttyUSB0" || cfg.Serial.Baud != 9600 {
		t.Fatalf("source flags not applied: %+v", cfg)
	}
	if cfg.Capacity != 3 || cfg.WindowSeconds != 5 || cfg.YMax != 50 || cfg.Renderer != RendererTerminal {
		t.Fatalf("plot flags not applied: %+v", cfg)
	}
	if cfg.I2C.Address != 0x49 {
		t.Fatalf("i2c address: got %d", cfg.I2C.Address)
	}
	if len(cfg.Outputs) != 2 || cfg.Outputs[0].Type != OutputConsole || cfg.Outputs[1].Type != OutputMQTT {
		t.Fatalf("outputs: %+v", cfg.Outputs)
	}
	if m := cfg.Outputs[1].MQTT; m == nil || m.Server != "tcp://broker:1883" || m.Topic != "flow" || m.DiscoveryTopic != "homeassistant/sensor/flow/config" {
		t.Fatalf("mqtt output: %+v", cfg.Outputs[1].MQTT)
	}
}

func TestLoadRejectsBadFlag(t *testing.T) {
	if _, err := Load([]string{"-i2c-address", "zz"}); err == nil {
		t.Fatalf("expected error for bad i2c address")
	}
	if _, err := Load([]string{"-capacity", "0"}); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"unknown source", func(c *Config) { c.SourceType = "usb" }, false},
		{"empty device", func(c *Config) { c.Serial.Device = "" }, false},
		{"zero baud", func(c *Config) { c.Serial.Baud = 0 }, false},
		{"zero timeout", func(c *Config) { c.Serial.ReadTimeoutMs = 0 }, false},
		{"bad i2c channel", func(c *Config) { c.SourceType = SourceADS1115; c.I2C.Channel = 4 }, false},
		{"ads1115", func(c *Config) { c.SourceType = SourceADS1115; c.I2C.Channel = 3 }, true},
		{"simulation ignores serial", func(c *Config) { c.SourceType = SourceSimulation; c.Serial.Device = "" }, true},
		{"negative window", func(c *Config) { c.WindowSeconds = -1 }, false},
		{"inverted y range", func(c *Config) { c.YMin = 30; c.YMax = 0 }, false},
		{"zero tick", func(c *Config) { c.TickMs = 0 }, false},
		{"unknown renderer", func(c *Config) { c.Renderer = "svg" }, false},
		{"zero chart width", func(c *Config) { c.Chart.Width = 0 }, false},
		{"unknown output", func(c *Config) { c.Outputs = []OutputConfig{{Type: "file"}} }, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.modify(&cfg)
		err := cfg.Validate()
		if (err == nil) != tt.ok {
			t.Fatalf("%s: ok=%v err=%v", tt.name, tt.ok, err)
		}
	}
}
