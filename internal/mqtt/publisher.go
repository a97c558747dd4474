package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/i474232898/dwd-pollen/internal/config"
	"github.com/i474232898/dwd-pollen/internal/pollen"
)

const (
	publishQoS     = byte(1)
	publishTimeout = 5 * time.Second
)

// Publisher pushes rendered pollen entities to an MQTT broker as retained
// messages, one topic per sensor.
type Publisher struct {
	client paho.Client
	prefix string
	logger *slog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPublisher configures a paho client for the broker in cfg. It does not
// connect; call Connect.
func NewPublisher(cfg *config.AppConfig, logger *slog.Logger) *Publisher {
	return newPublisher(paho.NewClient(clientOptions(cfg, logger)), cfg.MQTTTopicPrefix, logger)
}

// clientOptions retries the first connection as well as reconnecting after a
// lost one, so a broker that comes up late is still picked up.
func clientOptions(cfg *config.AppConfig, logger *slog.Logger) *paho.ClientOptions {
	opts := paho.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ paho.Client) {
		logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn("mqtt connection lost", "error", err)
	})
	return opts
}

func newPublisher(client paho.Client, prefix string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		prefix: prefix,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Topic returns the state topic for an entity: <prefix>/<partregion>/<category>/state.
func Topic(prefix string, e pollen.Entity) string {
	return prefix + "/" + strconv.Itoa(e.PartregionID) + "/" + string(e.Category) + "/state"
}

// Connect waits for the broker connection until ctx is done. When ctx ends
// first the attempt is left running and paho keeps retrying in the
// background; only Disconnect stops it.
func (p *Publisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return fmt.Errorf("publisher stopped")
	default:
	}

	if p.client.IsConnected() {
		return nil
	}

	token := p.client.Connect()

	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("mqtt connect: %w", ctx.Err())
		case <-p.stopCh:
			return fmt.Errorf("publisher stopped")
		default:
		}
	}
}

// Publish sends e as retained JSON to its state topic.
func (p *Publisher) Publish(ctx context.Context, e pollen.Entity) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}

	topic := Topic(p.prefix, e)
	token := p.client.Publish(topic, publishQoS, true, payload)

	timeout := publishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	p.logger.Debug("published entity", "topic", topic, "size", len(payload))
	return nil
}

// Disconnect closes the broker connection. Safe to call multiple times.
func (p *Publisher) Disconnect() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	if p.client != nil {
		p.client.Disconnect(250)
	}
	p.logger.Info("mqtt publisher disconnected")
}
