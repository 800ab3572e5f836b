package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"job-board/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

type Config struct {
	Broker               string
	ClientID             string
	Username             string
	Password             string
	CleanSession         bool
	KeepAlive            int
	ConnectTimeout       int
	AutoReconnect        bool
	MaxReconnectInterval time.Duration
}

// DefaultConfig fills the connection tuning knobs for a broker address.
func DefaultConfig(broker, clientID, username, password string) *Config {
	return &Config{
		Broker:               broker,
		ClientID:             clientID,
		Username:             username,
		Password:             password,
		CleanSession:         true,
		KeepAlive:            30,
		ConnectTimeout:       10,
		AutoReconnect:        true,
		MaxReconnectInterval: time.Minute,
	}
}

// Client remembers its subscriptions and renews them after every (re)connect,
// since a clean-session broker forgets them when the connection drops.
type Client struct {
	client mqtt.Client
	config *Config

	mu   sync.Mutex
	subs map[string]subscription
}

type MessageHandler func(topic string, payload []byte)

type subscription struct {
	qos     byte
	handler MessageHandler
}

func NewClient(config *Config) *Client {
	c := &Client{
		config: config,
		subs:   make(map[string]subscription),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.SetCleanSession(config.CleanSession)
	opts.SetKeepAlive(time.Duration(config.KeepAlive) * time.Second)
	opts.SetConnectTimeout(time.Duration(config.ConnectTimeout) * time.Second)
	opts.SetAutoReconnect(config.AutoReconnect)
	opts.SetMaxReconnectInterval(config.MaxReconnectInterval)

	opts.SetOnConnectHandler(c.onConnect)

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost",
			zap.Error(err),
			zap.String("event", "mqtt_connection_lost"),
		)
	})

	opts.SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		logger.Info("Reconnecting to MQTT broker", zap.String("broker", config.Broker))
	})

	c.client = mqtt.NewClient(opts)
	return c
}

func (c *Client) onConnect(client mqtt.Client) {
	logger.Info("MQTT client connected",
		zap.String("broker", c.config.Broker),
		zap.String("event", "mqtt_connected"),
	)

	c.mu.Lock()
	subs := make(map[string]subscription, len(c.subs))
	for topic, sub := range c.subs {
		subs[topic] = sub
	}
	c.mu.Unlock()

	for topic, sub := range subs {
		token := client.Subscribe(topic, sub.qos, callback(sub.handler))
		go func(topic string) {
			if token.Wait() && token.Error() != nil {
				logger.Error("Failed to renew MQTT subscription",
					zap.String("topic", topic),
					zap.Error(token.Error()),
					zap.String("event", "mqtt_resubscribe_failed"),
				)
			}
		}(topic)
	}
}

func callback(handler MessageHandler) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	}
}

// Connect establishes a connection to the MQTT broker
func (c *Client) Connect(ctx context.Context) error {
	logger.Info("Connecting to MQTT broker", zap.String("broker", c.config.Broker))

	if err := wait(ctx, c.client.Connect()); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	return nil
}

// Subscribe subscribes to a topic with handler. The subscription is renewed
// on every reconnect until Unsubscribe.
func (c *Client) Subscribe(ctx context.Context, topic string, qos byte, handler MessageHandler) error {
	c.mu.Lock()
	c.subs[topic] = subscription{qos: qos, handler: handler}
	c.mu.Unlock()

	if err := wait(ctx, c.client.Subscribe(topic, qos, callback(handler))); err != nil {
		c.forget(topic)
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	logger.Info("Subscribed to MQTT topic", zap.String("topic", topic), zap.Uint8("qos", qos))
	return nil
}

// Publish publishes a message to a topic
func (c *Client) Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error {
	return wait(ctx, c.client.Publish(topic, qos, retained, payload))
}

// Unsubscribe unsubscribes from a topic
func (c *Client) Unsubscribe(ctx context.Context, topics ...string) error {
	c.forget(topics...)
	return wait(ctx, c.client.Unsubscribe(topics...))
}

func (c *Client) forget(topics ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, topic := range topics {
		delete(c.subs, topic)
	}
}

// Disconnect disconnects from MQTT broker
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
	logger.Info("Disconnected from MQTT broker", zap.String("event", "mqtt_disconnected"))
}

// IsConnected returns connection status
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
