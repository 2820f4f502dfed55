package analytics

import (
	"log/slog"
	"sync"

	"github.com/deepagents/control/shared/config"
	"github.com/posthog/posthog-go"
)

type Event struct {
	DistinctId string
	Event      string
	Properties map[string]any
}

type Client interface {
	Enqueue(event Event)
	Close() error
}

type PostHogClient struct {
	client posthog.Client
	logger *slog.Logger
}

var _ Client = (*PostHogClient)(nil)

func NewPostHogClient(cfg config.AnalyticsConfig, logger *slog.Logger) (*PostHogClient, error) {
	client, err := posthog.NewWithConfig(cfg.PostHogAPIKey, posthog.Config{
		Endpoint: cfg.PostHogEndpoint,
	})
	if err != nil {
		return nil, err
	}
	return &PostHogClient{client: client, logger: logger}, nil
}

func (c *PostHogClient) Enqueue(event Event) {
	properties := posthog.NewProperties()
	for k, v := range event.Properties {
		properties.Set(k, v)
	}

	err := c.client.Enqueue(posthog.Capture{
		DistinctId: event.DistinctId,
		Event:      event.Event,
		Properties: properties,
	})
	if err != nil {
		c.logger.Warn("failed to enqueue analytics event", "event", event.Event, "error", err)
	}
}

func (c *PostHogClient) Close() error {
	return c.client.Close()
}

// New returns a PostHog client when an API key is configured and a no-op
// client otherwise.
func New(cfg config.AnalyticsConfig, logger *slog.Logger) (Client, error) {
	if cfg.PostHogAPIKey == "" {
		return NoopClient{}, nil
	}
	return NewPostHogClient(cfg, logger)
}

type NoopClient struct{}

func (NoopClient) Enqueue(Event) {}

func (NoopClient) Close() error { return nil }

// InMemoryClient keeps every event. Tests use it to assert emitted events.
type InMemoryClient struct {
	mu     sync.Mutex
	events []Event
}

func NewInMemoryClient() *InMemoryClient {
	return &InMemoryClient{}
}

func (c *InMemoryClient) Enqueue(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *InMemoryClient) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func (c *InMemoryClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

func (c *InMemoryClient) Close() error { return nil }
