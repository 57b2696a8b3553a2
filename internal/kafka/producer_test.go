package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wedding-planner/internal/logger"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestPublishWritesEnvelope(t *testing.T) {
	w := new(mockWriter)
	p := &Producer{writer: w, prefix: "wedding", log: logger.Nop()}

	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(0).([]kafka.Message)
	}).Return(nil)

	err := p.Publish(context.Background(), TopicVendorRating, "vendor-1", map[string]string{"rating": "4.5"})
	require.NoError(t, err)
	require.Len(t, sent, 1)

	assert.Equal(t, "wedding.vendor.rating_updated", sent[0].Topic)
	assert.Equal(t, "vendor-1", string(sent[0].Key))

	var evt struct {
		Type string            `json:"type"`
		Key  string            `json:"key"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(sent[0].Value, &evt))
	assert.Equal(t, TopicVendorRating, evt.Type)
	assert.Equal(t, "4.5", evt.Data["rating"])
	w.AssertExpectations(t)
}

func TestPublishPropagatesWriterError(t *testing.T) {
	w := new(mockWriter)
	p := &Producer{writer: w, log: logger.Nop()}
	w.On("WriteMessages", mock.Anything).Return(errors.New("broker down"))

	err := p.Publish(context.Background(), TopicBookingCreated, "b1", nil)
	assert.ErrorContains(t, err, "broker down")
}

func TestTopicName(t *testing.T) {
	assert.Equal(t, "booking.created", TopicName("", TopicBookingCreated))
	assert.Equal(t, "prod.booking.created", TopicName("prod", TopicBookingCreated))
}

func TestLogPublisherNeverFails(t *testing.T) {
	p := &LogPublisher{Logger: logger.Nop()}
	assert.NoError(t, p.Publish(context.Background(), TopicRSVPUpdated, "g1", nil))
}
