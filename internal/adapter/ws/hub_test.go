package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
)

func testClient() *Client {
	return &Client{send: make(chan []byte, sendBuffer)}
}

func receivedFrame(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case data := <-c.send:
		var frame Frame
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	default:
		t.Fatal("expected a frame, send queue is empty")
		return Frame{}
	}
}

func TestHubBroadcastReachesOnlySubscribers(t *testing.T) {
	hub := NewHub(logger.New("test"))
	subscriber := testClient()
	bystander := testClient()

	hub.Subscribe(subscriber, TopicMenu)
	hub.Subscribe(bystander, UserTopic("orders", "user-1"))

	hub.Broadcast(TopicMenu, map[string]string{"changed": "menu"})

	frame := receivedFrame(t, subscriber)
	assert.Equal(t, TopicMenu, frame.Topic)
	assert.Empty(t, bystander.send)
}

func TestHubFirstSubscriberFiresActiveHook(t *testing.T) {
	hub := NewHub(logger.New("test"))
	var activated []string
	hub.OnTopicActive = func(topic string) { activated = append(activated, topic) }

	topic := UserTopic("tracking", "user-1")
	hub.Subscribe(testClient(), topic)
	hub.Subscribe(testClient(), topic)

	assert.Equal(t, []string{topic}, activated, "only the first subscriber activates the topic")
}

func TestHubUnsubscribeFiresEmptyHook(t *testing.T) {
	hub := NewHub(logger.New("test"))
	var emptied []string
	hub.OnTopicEmpty = func(topic string) { emptied = append(emptied, topic) }

	first := testClient()
	second := testClient()
	topic := UserTopic("tracking", "user-1")
	hub.Subscribe(first, topic)
	hub.Subscribe(second, topic)

	hub.Unsubscribe(first, topic)
	assert.Empty(t, emptied, "topic still has a subscriber")

	hub.Unsubscribe(second, topic)
	assert.Equal(t, []string{topic}, emptied)
}

func TestHubDetachClearsEveryTopic(t *testing.T) {
	hub := NewHub(logger.New("test"))
	var emptied []string
	hub.OnTopicEmpty = func(topic string) { emptied = append(emptied, topic) }

	client := testClient()
	hub.Subscribe(client, TopicMenu)
	hub.Subscribe(client, UserTopic("tracking", "user-1"))

	hub.Detach(client)

	assert.Len(t, emptied, 2)
	hub.Broadcast(TopicMenu, map[string]string{"changed": "menu"})
	assert.Empty(t, client.send)
}

func TestHubSlowClientDropsFrames(t *testing.T) {
	hub := NewHub(logger.New("test"))
	client := &Client{send: make(chan []byte, 1)}
	hub.Subscribe(client, TopicMenu)

	hub.Broadcast(TopicMenu, map[string]string{"n": "1"})
	hub.Broadcast(TopicMenu, map[string]string{"n": "2"})

	frame := receivedFrame(t, client)
	assert.Equal(t, TopicMenu, frame.Topic)
	assert.Empty(t, client.send, "second frame dropped instead of blocking")
}
