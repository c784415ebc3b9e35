package messaging_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shortling/shortling/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	published  map[string][]*message.Message
	publishErr error
	closed     bool
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: make(map[string][]*message.Message)}
}

func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.published[topic] = append(m.published[topic], messages...)

	return nil
}

func (m *mockPublisher) Close() error {
	m.closed = true

	return nil
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes event as json", func(t *testing.T) {
		pub := newMockPublisher()
		publish := messaging.NewPublishFunc[testEvent](pub, "test.topic")

		err := publish(&testEvent{ID: "123", Name: "test"})

		require.NoError(t, err)
		require.Len(t, pub.published["test.topic"], 1)

		var got testEvent

		require.NoError(t, json.Unmarshal(pub.published["test.topic"][0].Payload, &got))
		assert.Equal(t, "123", got.ID)
		assert.Equal(t, "test", got.Name)
	})

	t.Run("propagates publish errors", func(t *testing.T) {
		pub := newMockPublisher()
		pub.publishErr = errors.New("publish error")

		publish := messaging.NewPublishFunc[testEvent](pub, "test.topic")

		assert.Error(t, publish(&testEvent{ID: "123"}))
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("shutdown closes the publisher", func(t *testing.T) {
		pub := newMockPublisher()
		group := messaging.NewPublisherGroup(pub)

		assert.Same(t, pub, group.Publisher())
		require.NoError(t, group.Shutdown())
		assert.True(t, pub.closed)
	})
}
