package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/flicknet/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/flicknet/internal/core/services"
)

func newActivityMsg(t *testing.T, envelope eventbroker.ActivityEnvelope) *nats.Msg {
	t.Helper()
	data, err := json.Marshal(envelope)
	require.NoError(t, err)
	return &nats.Msg{Subject: eventbroker.SubjectActivity, Data: data, Header: nats.Header{}}
}

func TestHandleActivity_AppendsToFeed(t *testing.T) {
	dir := repository.NewMemoryDirectory()
	dir.AddUser(7)
	feedSvc := services.NewFeedService(repository.NewMemoryFeedRepo(), nil, dir)
	handler := NewActivityHandler(feedSvc)

	handler.HandleActivity(newActivityMsg(t, eventbroker.ActivityEnvelope{
		EventUID:   "uid-1",
		UserID:     7,
		EventType:  "LIKE",
		Operation:  "ADD",
		EntityID:   10,
		OccurredAt: time.Now().UTC(),
	}))

	feed, err := feedSvc.GetFeed(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, int64(7), feed[0].UserID)
	assert.Equal(t, int64(10), feed[0].EntityID)
}

func TestHandleActivity_OrderPreserved(t *testing.T) {
	dir := repository.NewMemoryDirectory()
	dir.AddUser(7)
	feedSvc := services.NewFeedService(repository.NewMemoryFeedRepo(), nil, dir)
	handler := NewActivityHandler(feedSvc)

	for _, entityID := range []int64{1, 2, 3} {
		handler.HandleActivity(newActivityMsg(t, eventbroker.ActivityEnvelope{
			EventUID:  "uid",
			UserID:    7,
			EventType: "FRIEND",
			Operation: "ADD",
			EntityID:  entityID,
		}))
	}

	feed, err := feedSvc.GetFeed(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	for i, event := range feed {
		assert.Equal(t, int64(i+1), event.EntityID)
	}
}

func TestHandleActivity_MalformedPayloadIgnored(t *testing.T) {
	dir := repository.NewMemoryDirectory()
	dir.AddUser(7)
	feedSvc := services.NewFeedService(repository.NewMemoryFeedRepo(), nil, dir)
	handler := NewActivityHandler(feedSvc)

	handler.HandleActivity(&nats.Msg{Subject: eventbroker.SubjectActivity, Data: []byte("{broken"), Header: nats.Header{}})

	feed, err := feedSvc.GetFeed(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
