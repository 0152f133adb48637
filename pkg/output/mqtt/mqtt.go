package mqtt

import (
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ericogr/serial-flow-plot/pkg/config"
	"github.com/ericogr/serial-flow-plot/pkg/output"
	"github.com/ericogr/serial-flow-plot/pkg/sample"
)

const (
	DefaultServer   = "tcp://localhost:1883"
	DefaultClientID = "serial-flow-plot"
	DefaultTopic    = "flow/rate"
	// discovery payload keys/values
	keyName                = "name"
	keyStateTopic          = "state_topic"
	keyUnitOfMeasurement   = "unit_of_measurement"
	keyDeviceClass         = "device_class"
	keyStateClass          = "state_class"
	keyValueTemplate       = "value_template"
	keyJSONAttributesTopic = "json_attributes_topic"
	keyUniqueID            = "unique_id"
	unitLitersPerMinute    = "L/min"
	deviceClassFlow        = "volume_flow_rate"
	stateClassMeasurement  = "measurement"
	valueTemplateFlow      = "{{ value_json.value }}"
)

type MQTTOutput struct {
	client mqtt.Client
	topic  string
}

// withDefaults fills unset connection fields.
func withDefaults(cfg config.MQTTConfig) config.MQTTConfig {
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}
	return cfg
}

func NewMQTT(cfg config.MQTTConfig) (output.Output, error) {
	cfg = withDefaults(cfg)
	opts := mqtt.NewClientOptions().AddBroker(cfg.Server).SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	m := &MQTTOutput{client: client, topic: cfg.Topic}

	if cfg.DiscoveryTopic != "" {
		payload := discoveryPayload(cfg)
		if err := publishJSON(client, cfg.DiscoveryTopic, true, payload); err != nil {
			log.Printf("mqtt discovery publish error: %v", err)
		}
	}
	return m, nil
}

// discoveryPayload describes the flow series as one Home Assistant sensor.
func discoveryPayload(cfg config.MQTTConfig) map[string]interface{} {
	name := cfg.DiscoveryName
	if name == "" {
		name = fmt.Sprintf("Flow Rate %s", cfg.ClientID)
	}
	uid := cfg.DiscoveryUniqueID
	if uid == "" {
		uid = cfg.ClientID
	}
	payload := map[string]interface{}{
		keyName:                name,
		keyStateTopic:          cfg.Topic,
		keyUnitOfMeasurement:   unitLitersPerMinute,
		keyDeviceClass:         deviceClassFlow,
		keyStateClass:          stateClassMeasurement,
		keyValueTemplate:       valueTemplateFlow,
		keyJSONAttributesTopic: cfg.Topic,
	}
	if uid != "" {
		payload[keyUniqueID] = uid
	}
	return payload
}

func publishJSON(client mqtt.Client, topic string, retained bool, payload map[string]interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	token := client.Publish(topic, 0, retained, b)
	token.Wait()
	return token.Error()
}

func payload(s sample.Sample) ([]byte, error) {
	return json.Marshal(s)
}

func (m *MQTTOutput) Publish(samples []sample.Sample) error {
	for _, s := range samples {
		b, err := payload(s)
		if err != nil {
			return err
		}
		token := m.client.Publish(m.topic, 0, false, b)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
	}
	return nil
}

func (m *MQTTOutput) Close() error {
	if m.client != nil {
		m.client.Disconnect(250)
	}
	return nil
}
