// AngelaMos | 2026
// activity_test.go

package activity

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ummah-social/internal/config"
)

func TestMessage(t *testing.T) {
	e := NewEvent(LikeToggled, "u1", "p1", map[string]any{"liked": true})

	msg, err := message(e)
	require.NoError(t, err)

	assert.Equal(t, []byte("p1"), msg.Key)
	assert.Equal(t, e.OccurredAt, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, []byte(LikeToggled), msg.Headers[0].Value)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, LikeToggled, decoded["type"])
	assert.Equal(t, "u1", decoded["actor_id"])
	assert.Equal(t, map[string]any{"liked": true}, decoded["payload"])
}

func TestMessage_UnencodablePayload(t *testing.T) {
	_, err := message(NewEvent(PostShared, "u1", "p1", make(chan int)))
	assert.Error(t, err)
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(config.KafkaConfig{Topic: "social-activity"})
	assert.ErrorIs(t, err, ErrNoBrokers)

	p, err := NewKafkaPublisher(config.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "social-activity",
	})
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestNewKafkaPublisher_FlushesWithoutBatchWait(t *testing.T) {
	p, err := NewKafkaPublisher(config.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "social-activity",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	assert.Positive(t, p.writer.BatchTimeout)
	assert.LessOrEqual(t, p.writer.BatchTimeout, 50*time.Millisecond)
	assert.Equal(t, kafka.RequireAll, p.writer.RequiredAcks)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()

	require.NoError(t, r.Publish(ctx, NewEvent(PostCreated, "u1", "p1", nil)))
	require.NoError(t, r.Publish(ctx, NewEvent(PostDeleted, "u1", "p1", nil)))

	assert.Equal(t, []string{PostCreated, PostDeleted}, r.Types())
	assert.Len(t, r.Events(), 2)

	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(ctx, Event{}))
}
