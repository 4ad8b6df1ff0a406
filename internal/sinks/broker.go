package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"skywatch/internal/config"
	"skywatch/internal/logger"
	"skywatch/internal/models"
)

const (
	// brokerQueueCapacity bounds the alerts held while the broker is
	// unreachable. On overflow the oldest unsent alert is dropped.
	brokerQueueCapacity = 128

	// publishTimeout is how long a single publish waits for its ack
	publishTimeout = 10 * time.Second

	// reconnectInterval is the fixed backoff between connection attempts
	reconnectInterval = 5 * time.Second
)

// BrokerPayload is the JSON body published for each alert
type BrokerPayload struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

// BrokerPublisher publishes alerts to an MQTT broker. The paho client runs
// its connection handling on its own loop, so a broker hiccup never stalls
// alert intake; the bounded queue absorbs the gap.
type BrokerPublisher struct {
	client mqtt.Client
	cfg    *config.Config
	log    *logger.Logger
}

// NewBrokerPublisher creates a publisher and starts the broker connection.
// Connect retries run in the background with a fixed interval.
func NewBrokerPublisher(cfg *config.Config) (*BrokerPublisher, error) {
	log := logger.GetGlobalLogger().WithComponent("broker")

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID(cfg.MQTTClientID).
		SetKeepAlive(30 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(reconnectInterval).
		SetMaxReconnectInterval(reconnectInterval)

	opts.OnConnect = func(mqtt.Client) {
		log.Infof("Connected to MQTT broker %s", cfg.MQTTBrokerURL)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Error("MQTT connection lost", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	// With ConnectRetry set the token resolves once the first attempt is
	// dispatched; failures are retried by the client's own loop.
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to start MQTT connection: %w", token.Error())
	}

	return &BrokerPublisher{
		client: client,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Close disconnects from the broker
func (b *BrokerPublisher) Close() {
	b.client.Disconnect(250)
}

// Publish sends one alert to {prefix}/{type} at the configured QoS
func (b *BrokerPublisher) Publish(alert models.Alert) error {
	topic := fmt.Sprintf("%s/%s", b.cfg.MQTTTopicPrefix, alert.Type)

	payload, err := json.Marshal(BrokerPayload{
		ID:        alert.ID,
		Type:      string(alert.Type),
		Severity:  alert.Severity.String(),
		Message:   alert.Message,
		CreatedAt: alert.CreatedAt.Format(time.RFC3339),
		ExpiresAt: alert.ExpiresAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	qos := byte(b.cfg.MQTTQoS)
	if qos > 2 {
		qos = 1
	}

	token := b.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish of alert %s timed out", alert.ID)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to publish alert %s: %w", alert.ID, token.Error())
	}
	return nil
}

// runBrokerIntake absorbs alerts into the bounded pending queue while the
// publish loop is blocked on a slow or unavailable broker. On overflow the
// oldest unsent alert is evicted to make room for the newest. Closes pending
// on exit.
func runBrokerIntake(ctx context.Context, alerts <-chan models.Alert, pending chan models.Alert, log *logger.Logger) {
	defer close(pending)
	for {
		select {
		case <-ctx.Done():
			return
		case alert, ok := <-alerts:
			if !ok {
				return
			}
			select {
			case pending <- alert:
			default:
				// Queue full: evict the oldest, then enqueue
				select {
				case dropped := <-pending:
					log.Warnf("Broker queue full, dropped oldest alert %s", dropped.ID)
				default:
				}
				select {
				case pending <- alert:
				default:
				}
			}
		}
	}
}

// RunBroker consumes the broker queue for the process lifetime. Intake and
// publishing run on separate loops joined by a bounded queue; when the queue
// overflows the oldest unsent alert is dropped, not the newest.
func RunBroker(ctx context.Context, alerts <-chan models.Alert, cfg *config.Config) {
	log := logger.GetGlobalLogger().WithComponent("broker")

	if !cfg.MQTTEnabled {
		log.Info("MQTT publishing disabled")
		return
	}

	publisher, err := NewBrokerPublisher(cfg)
	if err != nil {
		log.Error("Failed to initialize MQTT client", err)
		return
	}
	defer publisher.Close()

	log.Info("MQTT publisher started")

	pending := make(chan models.Alert, brokerQueueCapacity)
	go runBrokerIntake(ctx, alerts, pending, log)

	// Publish loop
	for alert := range pending {
		if err := publisher.Publish(alert); err != nil {
			log.Error("Failed to publish alert to MQTT", err)
		} else {
			log.Debugf("Published alert to MQTT: %s", alert.ID)
		}
	}
}
