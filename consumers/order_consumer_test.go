package consumers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/models"
)

type fakeAcknowledger struct {
	acks    int
	nacks   int
	requeue bool
}

func (f *fakeAcknowledger) Ack(uint64, bool) error { f.acks++; return nil }

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(uint64, bool) error { return nil }

// notificationStub counts deliveries to the notification service and keeps
// the last email request.
func notificationStub(t *testing.T) (*clients.NotificationClient, *int, *models.EmailRequest) {
	t.Helper()
	calls := 0
	var last models.EmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/notify/email", r.URL.Path)
		calls++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"sent","data":null}`))
	}))
	t.Cleanup(server.Close)
	return clients.NewNotificationClient(server.URL, time.Second), &calls, &last
}

func deliver(body []byte) (amqp.Delivery, *fakeAcknowledger) {
	ack := &fakeAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, Body: body}, ack
}

func TestMalformedEventIsDeadLettered(t *testing.T) {
	notifier, calls, _ := notificationStub(t)
	msg, ack := deliver([]byte(`{this is not json`))

	processOrderMessage(msg, notifier)

	assert.Equal(t, 1, ack.nacks)
	assert.False(t, ack.requeue, "malformed messages must not be requeued")
	assert.Zero(t, ack.acks)
	assert.Zero(t, *calls)
}

func TestUnknownEventTypeIsAckedWithoutEmail(t *testing.T) {
	notifier, calls, _ := notificationStub(t)
	body, err := json.Marshal(models.OrderEvent{OrderID: 1, Type: "refunded", Email: "c@example.com"})
	require.NoError(t, err)
	msg, ack := deliver(body)

	processOrderMessage(msg, notifier)

	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, ack.nacks)
	assert.Zero(t, *calls)
}

func TestOrderCreatedEventSendsConfirmationEmail(t *testing.T) {
	notifier, calls, last := notificationStub(t)
	body, err := json.Marshal(models.OrderEvent{
		OrderID: 501, UserID: 10, Email: "shopper@example.com",
		Type: "created", Status: "PENDING", Total: 59.98, Occurred: time.Now(),
	})
	require.NoError(t, err)
	msg, ack := deliver(body)

	processOrderMessage(msg, notifier)

	assert.Equal(t, 1, *calls)
	assert.Equal(t, "shopper@example.com", last.To)
	assert.Contains(t, last.Subject, "501")
	assert.Equal(t, 1, ack.acks)
}

func TestStatusUpdateEventSendsEmail(t *testing.T) {
	notifier, calls, last := notificationStub(t)
	body, err := json.Marshal(models.OrderEvent{
		OrderID: 501, UserID: 10, Email: "shopper@example.com",
		Type: "status_updated", Status: "SHIPPED", Total: 59.98, Occurred: time.Now(),
	})
	require.NoError(t, err)
	msg, ack := deliver(body)

	processOrderMessage(msg, notifier)

	assert.Equal(t, 1, *calls, "a status update with a customer email must reach the notification service")
	assert.Equal(t, "shopper@example.com", last.To)
	assert.Contains(t, last.Body, "SHIPPED")
	assert.Equal(t, 1, ack.acks)
}

func TestEventWithoutEmailIsAckedSilently(t *testing.T) {
	notifier, calls, _ := notificationStub(t)
	body, err := json.Marshal(models.OrderEvent{OrderID: 501, Type: "status_updated", Status: "SHIPPED"})
	require.NoError(t, err)
	msg, ack := deliver(body)

	processOrderMessage(msg, notifier)

	assert.Zero(t, *calls)
	assert.Equal(t, 1, ack.acks)
}
