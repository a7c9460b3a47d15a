package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"gotest.tools/v3/assert"
)

type mockCart struct {
	m      sync.Mutex
	clears int
	syncs  int
}

func (m *mockCart) Clear() {
	m.m.Lock()
	defer m.m.Unlock()
	m.clears++
}

func (m *mockCart) SyncFromServer(context.Context) {
	m.m.Lock()
	defer m.m.Unlock()
	m.syncs++
}

func (m *mockCart) counts() (int, int) {
	m.m.Lock()
	defer m.m.Unlock()
	return m.clears, m.syncs
}

type mockSession struct {
	userID string
}

func (m *mockSession) CurrentUserID() string { return m.userID }

func TestHandleMessage_CurrentUser(t *testing.T) {
	cart := &mockCart{}
	p := &Poller{cart: cart, session: &mockSession{userID: "123"}}

	p.handleMessage(context.Background(), []byte(`{"checkout_id":"ch1","user_id":"123"}`))

	clears, syncs := cart.counts()
	assert.Equal(t, 1, clears)
	assert.Equal(t, 1, syncs)
}

func TestHandleMessage_OtherUser(t *testing.T) {
	cart := &mockCart{}
	p := &Poller{cart: cart, session: &mockSession{userID: "123"}}

	p.handleMessage(context.Background(), []byte(`{"user_id":"456"}`))

	clears, syncs := cart.counts()
	assert.Equal(t, 0, clears)
	assert.Equal(t, 0, syncs)
}

func TestHandleMessage_AnonymousProcess(t *testing.T) {
	cart := &mockCart{}
	p := &Poller{cart: cart, session: &mockSession{userID: ""}}

	p.handleMessage(context.Background(), []byte(`{"user_id":""}`))

	clears, _ := cart.counts()
	assert.Equal(t, 0, clears, "empty user_id never matches, even when anonymous")
}

func TestHandleMessage_MalformedPayloads(t *testing.T) {
	cart := &mockCart{}
	p := &Poller{cart: cart, session: &mockSession{userID: "123"}}

	p.handleMessage(context.Background(), []byte(`not json`))
	p.handleMessage(context.Background(), []byte(`{"user_id":42}`))
	p.handleMessage(context.Background(), []byte(`{}`))

	clears, _ := cart.counts()
	assert.Equal(t, 0, clears)
}

func setupKafka(t *testing.T) (string, func()) {
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	}

	return brokers[0], cleanup
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	topicConfigs := []kafkaGo.TopicConfig{{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}}

	err = controllerConn.CreateTopics(topicConfigs...)
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestPoller_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	brokers, cleanupKafka := setupKafka(t)
	defer cleanupKafka()
	createTopic(t, brokers, "checkout-outbox")

	cart := &mockCart{}
	poller := NewPoller(cart, &mockSession{userID: "123"}, brokers)
	defer poller.Close()

	go poller.Run(ctx)

	w := &kafkaGo.Writer{
		Addr:                   kafkaGo.TCP(brokers),
		Topic:                  "checkout-outbox",
		Balancer:               &kafkaGo.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	defer w.Close()

	payload, err := json.Marshal(map[string]interface{}{
		"checkout_id":  "chId",
		"user_id":      "123",
		"completed_at": time.Now(),
	})
	require.NoError(t, err)

	err = w.WriteMessages(ctx, kafkaGo.Message{Value: payload})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		clears, syncs := cart.counts()
		return clears == 1 && syncs == 1
	}, 30*time.Second, 100*time.Millisecond, "checkout event did not reach the poller")
}
