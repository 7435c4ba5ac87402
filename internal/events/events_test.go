package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_Publish(t *testing.T) {
	t.Parallel()
	w := &captureWriter{}
	p := &Producer{writer: w}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), Event{
		Type:         TaskListCreated,
		UserID:       42,
		TaskListUUID: "0b7f2d2e-3c39-4d0e-9e55-4d7b6f7c1a11",
		At:           at,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, TaskListCreated, got["type"])
	assert.Equal(t, float64(42), got["user_id"])
	assert.NotContains(t, got, "task_uuid")

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishStampsTime(t *testing.T) {
	t.Parallel()
	w := &captureWriter{}
	p := &Producer{writer: w}

	require.NoError(t, p.Publish(context.Background(), Event{Type: TaskDeleted, UserID: 1}))

	var ev Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.False(t, ev.At.IsZero())
}

func TestProducer_PublishError(t *testing.T) {
	t.Parallel()
	boom := errors.New("leader not available")
	p := &Producer{writer: &captureWriter{err: boom}}

	err := p.Publish(context.Background(), Event{Type: TaskCreated, UserID: 1})
	assert.ErrorIs(t, err, boom)
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	var p Publisher = Discard{}
	assert.NoError(t, p.Publish(context.Background(), Event{Type: TaskCreated}))
	assert.NoError(t, p.Close())
}

func TestNewProducer_FlushesSingleMessages(t *testing.T) {
	t.Parallel()
	p := NewProducer([]string{"localhost:9092"}, "task_events")

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "task_events", w.Topic)
	assert.Equal(t, 1, w.BatchSize)
	assert.Positive(t, w.BatchTimeout)
	assert.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)

	require.NoError(t, p.Close())
}
