package service

import (
	"context"
	"encoding/json"
	"time"

	"smart_temperature/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	mqttQoS            = 1 // at-least-once; duplicate inserts are acceptable for append-only samples
	mqttConnectTimeout = 10 * time.Second
	mqttDisconnectMs   = 250
)

// IngestService feeds sensor readings published over MQTT into the
// temperature service. It is disabled unless mqtt.enabled is set.
type IngestService struct {
	temps Temperature
	cfg   MQTTConfig
	log   *logger.Logger
}

func NewIngestService(temps Temperature, cfg MQTTConfig, log *logger.Logger) *IngestService {
	return &IngestService{temps: temps, cfg: cfg, log: log}
}

// Run connects, subscribes and blocks until ctx is canceled. Connection and
// subscription failures are logged and abort the runner; the HTTP API keeps
// serving either way.
func (s *IngestService) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		return
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.cfg.Broker)
	// unique suffix so parallel instances don't evict each other's session
	opts.SetClientID(s.cfg.ClientID + "-" + uuid.NewString()[:8])
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		s.log.Infow("mqtt_connected", "broker", s.cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.log.Warnw("mqtt_connection_lost", "err", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) || token.Error() != nil {
		s.log.Errorw("mqtt_connect_failed", "broker", s.cfg.Broker, "err", token.Error())
		return
	}
	defer client.Disconnect(mqttDisconnectMs)

	sub := client.Subscribe(s.cfg.Topic, mqttQoS, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(ctx, msg.Topic(), msg.Payload())
	})
	if !sub.WaitTimeout(mqttConnectTimeout) || sub.Error() != nil {
		s.log.Errorw("mqtt_subscribe_failed", "topic", s.cfg.Topic, "err", sub.Error())
		return
	}
	s.log.Infow("mqtt_subscribed", "topic", s.cfg.Topic)

	<-ctx.Done()
}

// handleMessage stores one published reading. Malformed or invalid payloads
// are logged and dropped; the subscription stays up.
func (s *IngestService) handleMessage(ctx context.Context, topic string, payload []byte) {
	var in ReadingInput
	if err := json.Unmarshal(payload, &in); err != nil {
		s.log.Warnw("mqtt_payload_malformed", "topic", topic, "err", err)
		return
	}

	if _, err := s.temps.CreateReading(ctx, in); err != nil {
		s.log.Warnw("mqtt_reading_rejected", "topic", topic, "err", err)
		return
	}
	s.log.Debugw("mqtt_reading_stored", "topic", topic)
}
