package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishByTopic(t *testing.T) {
	hub := NewHub()

	wpA, cleanupA := hub.Subscribe("wp-a")
	defer cleanupA()
	wpB, cleanupB := hub.Subscribe("wp-b")
	defer cleanupB()
	all, cleanupAll := hub.Subscribe("")
	defer cleanupAll()

	hub.Publish([]string{"wp-a"}, Event{Event: "attendance.updated", Data: "x"})

	require.Len(t, wpA, 1)
	ev := <-wpA
	assert.Equal(t, "wp-a", ev.Topic)
	assert.Equal(t, "attendance.updated", ev.Event)

	assert.Len(t, wpB, 0)
	require.Len(t, all, 1)
	assert.Equal(t, AllTopics, (<-all).Topic)
}

func TestHub_PublishDeliversOncePerSubscriber(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("wp-a")
	defer cleanup()

	hub.Publish([]string{"wp-a", "wp-a"}, Event{Event: "leave.created"})

	assert.Len(t, ch, 1)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()

	_, cleanup := hub.Subscribe("wp-a")
	assert.Equal(t, 1, hub.SubscriberCount("wp-a"))
	assert.Equal(t, 1, hub.TotalSubscribers())

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("wp-a"))
	assert.Equal(t, 0, hub.TotalSubscribers())
}

func TestHub_FullChannelDoesNotBlock(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe("wp-a")
	defer cleanup()

	for i := 0; i < cap(ch)+5; i++ {
		hub.Publish([]string{"wp-a"}, Event{Event: "attendance.updated"})
	}

	assert.Len(t, ch, cap(ch))
}
