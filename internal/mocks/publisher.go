package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"venture-chat/internal/observability"
)

// PublisherMock stands in for the AMQP publisher. Besides the usual
// expectations it keeps every domain envelope it was handed, per routing key.
type PublisherMock struct {
	mock.Mock

	mu        sync.Mutex
	envelopes map[string][]observability.EventEnvelope
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	if envelope, ok := event.(observability.EventEnvelope); ok {
		m.mu.Lock()
		if m.envelopes == nil {
			m.envelopes = map[string][]observability.EventEnvelope{}
		}
		m.envelopes[routingKey] = append(m.envelopes[routingKey], envelope)
		m.mu.Unlock()
	}
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

// Envelopes returns the domain events published under routingKey, oldest first.
func (m *PublisherMock) Envelopes(routingKey string) []observability.EventEnvelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]observability.EventEnvelope(nil), m.envelopes[routingKey]...)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
