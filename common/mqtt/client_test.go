package mqtt

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/common/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type doneToken struct {
	err error
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *doneToken) Error() error { return t.err }

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string   { return m.topic }
func (m *fakeMessage) Payload() []byte { return m.payload }

// fakeBroker stands in for the paho client and keeps broker-side subscriptions
type fakeBroker struct {
	mqtt.Client

	mu         sync.Mutex
	subs       map[string]mqtt.MessageHandler
	qos        map[string]byte
	published  map[string][]byte
	connected  bool
	publishErr error
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		subs:      map[string]mqtt.MessageHandler{},
		qos:       map[string]byte{},
		published: map[string][]byte{},
		connected: true,
	}
}

func (f *fakeBroker) Subscribe(topic string, qos byte, cb mqtt.MessageHandler) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[topic] = cb
	f.qos[topic] = qos
	return &doneToken{}
}

func (f *fakeBroker) Unsubscribe(topics ...string) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range topics {
		delete(f.subs, t)
	}
	return &doneToken{}
}

func (f *fakeBroker) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	if f.publishErr != nil {
		return &doneToken{err: f.publishErr}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[topic] = payload.([]byte)
	return &doneToken{}
}

func (f *fakeBroker) IsConnected() bool { return f.connected }

// dropSession mimics a clean-session reconnect: the broker forgets everything
func (f *fakeBroker) dropSession() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = map[string]mqtt.MessageHandler{}
}

func (f *fakeBroker) deliver(t *testing.T, topic string, payload []byte) {
	f.mu.Lock()
	cb, ok := f.subs[topic]
	f.mu.Unlock()
	require.True(t, ok, "no subscription for %s", topic)
	cb(f, &fakeMessage{topic: topic, payload: payload})
}

func newTestClient(broker *fakeBroker) *Client {
	return &Client{
		client: broker,
		config: &config.MQTTConfig{Broker: "tcp://localhost:1883", ClientID: "test"},
		logger: zap.NewNop(),
		subs:   make(map[string]subscription),
	}
}

func TestClient_ResubscribesOnReconnect(t *testing.T) {
	broker := newFakeBroker()
	c := newTestClient(broker)

	var got []string
	require.NoError(t, c.Subscribe("factory/events", 1, func(topic string, payload []byte) error {
		got = append(got, string(payload))
		return nil
	}))
	broker.deliver(t, "factory/events", []byte("first"))

	broker.dropSession()
	c.onConnect(broker)

	assert.Equal(t, byte(1), broker.qos["factory/events"])
	broker.deliver(t, "factory/events", []byte("second"))
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestClient_UnsubscribeIsNotReplayed(t *testing.T) {
	broker := newFakeBroker()
	c := newTestClient(broker)

	require.NoError(t, c.Subscribe("factory/events", 0, func(string, []byte) error { return nil }))
	require.NoError(t, c.Unsubscribe("factory/events"))

	c.onConnect(broker)
	assert.Empty(t, broker.subs)
}

func TestClient_HandlerErrorDoesNotPanic(t *testing.T) {
	broker := newFakeBroker()
	c := newTestClient(broker)

	require.NoError(t, c.Subscribe("factory/events", 0, func(string, []byte) error {
		return errors.New("database unavailable")
	}))
	assert.NotPanics(t, func() { broker.deliver(t, "factory/events", []byte("{}")) })
}

func TestClient_PublishAndState(t *testing.T) {
	broker := newFakeBroker()
	c := newTestClient(broker)

	require.NoError(t, c.Publish("factory/events", 1, false, []byte(`{"worker_id":"W1"}`)))
	assert.Equal(t, `{"worker_id":"W1"}`, string(broker.published["factory/events"]))
	assert.True(t, c.IsConnected())

	broker.publishErr = errors.New("not connected")
	broker.connected = false
	err := c.Publish("factory/events", 1, false, []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "factory/events")
	assert.False(t, c.IsConnected())
}
