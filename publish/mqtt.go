package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/icodeforyou/spotprice-go/config"
	"github.com/icodeforyou/spotprice-go/report"
)

type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes price reports as retained messages, one topic per zone.
type MQTT struct {
	client      mqtt.Client
	publisher   tokenPublisher
	logger      *slog.Logger
	topicPrefix string
}

func NewMQTT(cnfg config.AppConfigMqtt) *MQTT {
	logger := slog.Default().With("module", "mqtt")
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cnfg.Broker)
	opts.SetClientID(cnfg.ClientId)
	opts.SetUsername(cnfg.Username)
	opts.SetPassword(cnfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected", slog.String("broker", cnfg.Broker))
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", slog.Any("error", err))
	}

	mqtt.CRITICAL = newMqttLogger(logger, slog.LevelError)
	mqtt.ERROR = newMqttLogger(logger, slog.LevelError)
	mqtt.WARN = newMqttLogger(logger, slog.LevelWarn)

	client := mqtt.NewClient(opts)
	return &MQTT{
		client:      client,
		publisher:   client,
		logger:      logger,
		topicPrefix: strings.TrimSuffix(cnfg.TopicPrefix, "/"),
	}
}

func (m *MQTT) Connect() error {
	m.logger.Debug("connecting MQTT client")
	token := m.client.Connect()
	if !token.WaitTimeout(10*time.Second) {
		return fmt.Errorf("timeout when connecting to MQTT broker")
	}
	if token.Error() != nil {
		return fmt.Errorf("connecting to MQTT broker: %w", token.Error())
	}
	return nil
}

func (m *MQTT) Disconnect() {
	m.client.Disconnect(250)
}

func (m *MQTT) Topic(r report.Report) string {
	return fmt.Sprintf("%s/%s/advice", m.topicPrefix, strings.ToLower(r.Zone.String()))
}

// Publish sends the report as retained JSON so that late subscribers get
// the latest advice.
func (m *MQTT) Publish(ctx context.Context, r report.Report) error {
	payload, err := json.Marshal(report.ToJSON(r))
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	topic := m.Topic(r)
	token := m.publisher.Publish(topic, 1, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return fmt.Errorf("publishing to %s: %w", topic, ctx.Err())
	}
	if token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	m.logger.Debug("report published", slog.String("topic", topic), slog.Int("bytes", len(payload)))
	return nil
}
