package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) PublishEvent(context.Context, string, string, any) error {
	f.calls++
	return errors.New("broker down")
}

func (f *failingPublisher) Close() error { return nil }

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil)
	require.Error(t, err)

	p, err := NewProducer([]string{"localhost:9092"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	Publish(context.Background(), &r, TopicCart, "7", map[string]any{"type": "cart_cleared", "userID": 7})

	got := r.Events()
	require.Len(t, got, 1)
	assert.Equal(t, TopicCart, got[0].Topic)
	assert.Equal(t, "7", got[0].Key)
	assert.Equal(t, "cart_cleared", got[0].Event["type"])
	assert.EqualValues(t, 7, got[0].Event["userID"])
}

func TestPublish_SwallowsErrors(t *testing.T) {
	f := &failingPublisher{}
	Publish(context.Background(), f, TopicProduct, "1", map[string]any{"type": "product_created"})
	assert.Equal(t, 1, f.calls)

	require.NoError(t, Nop{}.PublishEvent(context.Background(), TopicCart, "", nil))
}
