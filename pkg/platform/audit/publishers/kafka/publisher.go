// Package kafka ships audit events to a Kafka (or Redpanda) topic. The broker
// is a write-only sink: reads stay on the store-backed mirror, so a broker
// outage never blocks lifecycle reads.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	id "geostake/pkg/domain"
	audit "geostake/pkg/platform/audit"
	"geostake/pkg/platform/sentinel"
)

const (
	defaultTopic       = "geostake.audit"
	defaultProduceWait = 5 * time.Second
	defaultPartitions  = 3
	defaultReplication = 1
)

// Store produces audit events to a Kafka topic. It satisfies audit.Store for
// writes; ListByIdentity is not served from the broker.
type Store struct {
	client *kgo.Client
	topic  string
}

type Option func(*Store)

// WithTopic overrides the default audit topic.
func WithTopic(topic string) Option {
	return func(s *Store) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// New connects to the brokers and ensures the audit topic exists.
func New(ctx context.Context, brokers []string, opts ...Option) (*Store, error) {
	s := &Store{topic: defaultTopic}
	for _, opt := range opts {
		opt(s)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(s.topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect audit brokers: %w", err)
	}
	s.client = client

	if err := s.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTopic(ctx context.Context) error {
	adm := kadm.NewClient(s.client)
	resp, err := adm.CreateTopic(ctx, defaultPartitions, defaultReplication, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	// An already-existing topic is fine; anything else is not.
	if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create audit topic: %w", resp.Err)
	}
	return nil
}

// Append publishes the event, keyed by identity so per-caller ordering holds
// within a partition.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, defaultProduceWait)
	defer cancel()

	record := &kgo.Record{
		Key:   []byte(event.Identity.String()),
		Value: payload,
		Topic: s.topic,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// ListByIdentity is not served by the broker sink.
func (s *Store) ListByIdentity(_ context.Context, _ id.Identity) ([]audit.Event, error) {
	return nil, sentinel.ErrUnavailable
}

// Close flushes outstanding produces and releases the client.
func (s *Store) Close() {
	s.client.Close()
}
