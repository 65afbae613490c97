package mq

import (
	"context"
	"errors"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	headerID        = "x-message-id"
	headerTimestamp = "x-message-ts"
)

// KafkaConfig defines configuration for the Kafka producer.
type KafkaConfig struct {
	Brokers  []string `yaml:"brokers"`
	ClientID string   `yaml:"clientID"`

	RequiredAcks kafka.RequiredAcks `yaml:"-"`
	BatchSize    int                `yaml:"batchSize"`
	BatchTimeout time.Duration      `yaml:"batchTimeout"`

	DialTimeout  time.Duration `yaml:"dialTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// ApplyDefaults fills zero values.
func (c *KafkaConfig) ApplyDefaults() {
	if c.ClientID == "" {
		c.ClientID = "qaboard"
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = 50 * time.Millisecond
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = kafka.RequireOne
	}
}

var _ Producer = (*KafkaProducer)(nil)

// KafkaProducer implements Producer using a kafka-go writer.
type KafkaProducer struct {
	config KafkaConfig
	writer *kafka.Writer
	dialer *kafka.Dialer

	mu     sync.Mutex
	closed bool
}

// NewKafkaProducer creates a Kafka-backed producer. No connection is made until the first write.
func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("brokers are required")
	}
	cfg.ApplyDefaults()

	dialer := &kafka.Dialer{
		ClientID:  cfg.ClientID,
		Timeout:   cfg.DialTimeout,
		DualStack: true,
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: cfg.RequiredAcks,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				return dialer.DialContext(ctx, network, address)
			},
			ClientID: cfg.ClientID,
		},
	}

	return &KafkaProducer{
		config: cfg,
		writer: writer,
		dialer: dialer,
	}, nil
}

// Publish publishes a message to a topic.
func (k *KafkaProducer) Publish(ctx context.Context, topic string, message *Message) error {
	if message == nil {
		return errors.New("message is nil")
	}
	if topic == "" {
		return errors.New("topic is required")
	}
	if k.isClosed() {
		return errors.New("producer is closed")
	}
	return k.writer.WriteMessages(ctx, toKafkaMessage(topic, message))
}

// Ping verifies the first broker is reachable.
func (k *KafkaProducer) Ping(ctx context.Context) error {
	conn, err := k.dialer.DialContext(ctx, "tcp", k.config.Brokers[0])
	if err != nil {
		return err
	}
	return conn.Close()
}

// Close flushes the writer.
func (k *KafkaProducer) Close() error {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return nil
	}
	k.closed = true
	k.mu.Unlock()
	return k.writer.Close()
}

func (k *KafkaProducer) isClosed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.closed
}

func toKafkaMessage(topic string, message *Message) kafka.Message {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	keys := make([]string, 0, len(message.Headers))
	for k := range message.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	headers := make([]kafka.Header, 0, len(keys)+2)
	for _, k := range keys {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(message.Headers[k])})
	}
	if message.ID != "" {
		headers = append(headers, kafka.Header{Key: headerID, Value: []byte(message.ID)})
	}
	headers = append(headers, kafka.Header{Key: headerTimestamp, Value: []byte(message.Timestamp.Format(time.RFC3339Nano))})

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(message.ID),
		Value:   message.Body,
		Headers: headers,
		Time:    message.Timestamp,
	}
}
