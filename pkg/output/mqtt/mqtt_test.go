package mqtt

import (
	"reflect"
	"testing"

	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/ericogr/serial-flow-plot/pkg/sample"
)

func TestWithDefaults(t *testing.T) {
	got := withDefaults(config.MQTTConfig{})
	if got.Server != DefaultServer || got.ClientID != DefaultClientID || got.Topic != DefaultTopic {
		t.Fatalf("defaults not applied: %+v", got)
	}
	got = withDefaults(config.MQTTConfig{Server: "tcp://broker:1883", Topic: "lab/flow"})
	if got.Server != "tcp://broker:1883" || got.Topic != "lab/flow" {
		t.Fatalf("explicit values overwritten: %+v", got)
	}
}

func TestPayload(t *testing.T) {
	b, err := payload(sample.Sample{Elapsed: 1.5, Value: 12.5})
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if want := `{"elapsed":1.5,"value":12.5}`; string(b) != want {
		t.Fatalf("payload = %s; want %s", b, want)
	}
}

func TestDiscoveryPayload(t *testing.T) {
	cfg := withDefaults(config.MQTTConfig{DiscoveryTopic: "homeassistant/sensor/flow/config"})
	got := discoveryPayload(cfg)
	want := map[string]interface{}{
		keyName:                "Flow Rate serial-flow-plot",
		keyStateTopic:          DefaultTopic,
		keyUnitOfMeasurement:   "L/min",
		keyDeviceClass:         "volume_flow_rate",
		keyStateClass:          "measurement",
		keyValueTemplate:       "{{ value_json.value }}",
		keyJSONAttributesTopic: DefaultTopic,
		keyUniqueID:            "serial-flow-plot",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("discovery payload = %v; want %v", got, want)
	}

	cfg.DiscoveryName = "Bench flow"
	cfg.DiscoveryUniqueID = "bench_flow_1"
	got = discoveryPayload(cfg)
	if got[keyName] != "Bench flow" || got[keyUniqueID] != "bench_flow_1" {
		t.Fatalf("explicit discovery fields ignored: %v", got)
	}
}
