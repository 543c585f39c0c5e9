package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, config)

	producer := &Producer{
		producer: mock,
		logger:   zap.NewNop(),
		source:   "/identity-service",
		topic:    "identity.events",
	}
	return producer, mock
}

func TestProducer_PublishWrapsPayloadInCloudEvent(t *testing.T) {
	producer, mock := newMockProducer(t)

	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event CloudEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		assert.Equal(t, "1.0", event.SpecVersion)
		assert.Equal(t, string(UserRegisteredV1), event.Type)
		assert.Equal(t, "/identity-service", event.Source)
		assert.Equal(t, "user-42", event.Subject)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Time.IsZero())
		assert.Equal(t, "application/json", event.DataContentType)
		return nil
	})

	err := producer.Publish(context.Background(), UserRegisteredV1, "user-42", UserEventPayload{
		UserID:   "user-42",
		Username: "harry",
		Email:    "harry@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, mock.Close())
}

func TestProducer_PublishSurfacesBrokerErrors(t *testing.T) {
	producer, mock := newMockProducer(t)

	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.Publish(context.Background(), UserLoginV1, "user-42", nil)
	assert.Error(t, err)
	require.NoError(t, mock.Close())
}
