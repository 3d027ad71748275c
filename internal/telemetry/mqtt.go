package telemetry

import (
	"context"
	"time"

	"github.com/Felixhuangsiling/front-pfee/internal/metrics"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttQuiesce        = 250 // milliseconds
)

var (
	ErrMQTTConnect   = errors.New("error connecting to mqtt broker")
	ErrMQTTSubscribe = errors.New("error subscribing to device topic")
)

// MQTTOptions configures the broker connection.
type MQTTOptions struct {
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	QoS      byte   `mapstructure:"qos"`
}

// MQTTSource receives device status messages from the broker the devices publish to,
// bypassing the backend stream endpoint.
type MQTTSource struct {
	client pahomqtt.Client
	qos    byte
	logger *logrus.Logger
}

// NewMQTTSource connects to the broker.
func NewMQTTSource(opts *MQTTOptions, logger *logrus.Logger) (*MQTTSource, error) {
	clientOpts := pahomqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(mqttConnectTimeout).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			metrics.StreamReconnectCounter.With(prometheus.Labels{"source": SourceMQTT}).Inc()
			logger.WithError(err).Warn("mqtt connection lost")
		})

	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
		clientOpts.SetPassword(opts.Password)
	}

	c := pahomqtt.NewClient(clientOpts)

	token := c.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		return nil, errors.Wrap(ErrMQTTConnect, "timeout")
	}

	if err := token.Error(); err != nil {
		return nil, errors.Wrap(ErrMQTTConnect, err.Error())
	}

	return &MQTTSource{client: c, qos: opts.QoS, logger: logger}, nil
}

// Subscribe forwards the STATUS8 payloads published for deviceTopic to handler
// until ctx is canceled.
func (m *MQTTSource) Subscribe(ctx context.Context, deviceTopic string, handler Handler) error {
	topic := model.StatusTopic(deviceTopic)

	token := m.client.Subscribe(topic, m.qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		metrics.StreamMessagesCounter.With(prometheus.Labels{"source": SourceMQTT}).Inc()
		handler(string(msg.Payload()))
	})

	if !token.WaitTimeout(mqttConnectTimeout) {
		return errors.Wrap(ErrMQTTSubscribe, "timeout on "+topic)
	}

	if err := token.Error(); err != nil {
		return errors.Wrap(ErrMQTTSubscribe, err.Error())
	}

	m.logger.WithField("topic", topic).Debug("subscribed to device topic")

	<-ctx.Done()

	m.client.Unsubscribe(topic).WaitTimeout(mqttConnectTimeout)

	return nil
}

// Close disconnects from the broker.
func (m *MQTTSource) Close() {
	m.client.Disconnect(mqttQuiesce)
}
