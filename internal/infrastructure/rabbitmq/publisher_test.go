package rabbitmq_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/resto-ledger/internal/application/ledger"
	"github.com/jhoicas/resto-ledger/internal/domain/entity"
	"github.com/jhoicas/resto-ledger/internal/infrastructure/rabbitmq"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	exchanges  []string
	publishErr error

	// declareErrs se consume en orden; nil o agotado significa éxito.
	declareErrs  []error
	declareCalls int
	closed       int
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, _, _, _, _ bool, _ amqp.Table) error {
	c.declareCalls++
	if len(c.declareErrs) > 0 {
		err := c.declareErrs[0]
		c.declareErrs = c.declareErrs[1:]
		if err != nil {
			return err
		}
	}
	c.declared = append(c.declared, name+":"+kind)
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, _ string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.exchanges = append(c.exchanges, exchange)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error { c.closed++; return nil }

type fakeConn struct{ ch *fakeChannel }

func (f *fakeConn) Channel() (rabbitmq.Channel, error) { return f.ch, nil }
func (f *fakeConn) Close() error                       { return nil }

func TestStatusPublisher_PublicaJSONEnFanout(t *testing.T) {
	ch := &fakeChannel{}
	pub := rabbitmq.NewStatusPublisher(&fakeConn{ch: ch}, "order_status_fanout")
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	msg := ledger.StatusChangedMessage{
		RestaurantID: "r1",
		OrderID:      "o1",
		OldStatus:    entity.OrderStatusNew,
		NewStatus:    entity.OrderStatusConfirmed,
		ActorID:      "u1",
		ChangedAt:    at,
	}
	require.NoError(t, pub.PublishStatusChange(context.Background(), msg))
	require.NoError(t, pub.PublishStatusChange(context.Background(), msg))

	assert.Equal(t, []string{"order_status_fanout:fanout"}, ch.declared, "el exchange se declara una sola vez")
	require.Len(t, ch.published, 2)
	assert.Equal(t, "order_status_fanout", ch.exchanges[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, "o1:confirmed", ch.published[0].MessageId)
	assert.Equal(t, 2, ch.closed)

	var got map[string]any
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &got))
	assert.Equal(t, "new", got["old_status"])
	assert.Equal(t, "confirmed", got["new_status"])
	assert.Equal(t, "o1", got["order_id"])
}

func TestStatusPublisher_PropagaErrorDePublicacion(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("broker caído")}
	pub := rabbitmq.NewStatusPublisher(&fakeConn{ch: ch}, "x")

	err := pub.PublishStatusChange(context.Background(), ledger.StatusChangedMessage{OrderID: "o1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker caído")
}

func TestStatusPublisher_ReintentaDeclaracionTrasFallo(t *testing.T) {
	ch := &fakeChannel{declareErrs: []error{errors.New("canal cerrado")}}
	pub := rabbitmq.NewStatusPublisher(&fakeConn{ch: ch}, "order_status_fanout")
	msg := ledger.StatusChangedMessage{OrderID: "o1", NewStatus: entity.OrderStatusConfirmed}

	err := pub.PublishStatusChange(context.Background(), msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canal cerrado")
	assert.Empty(t, ch.published)

	require.NoError(t, pub.PublishStatusChange(context.Background(), msg))
	require.NoError(t, pub.PublishStatusChange(context.Background(), msg))

	assert.Equal(t, 2, ch.declareCalls, "tras el primer éxito no se vuelve a declarar")
	assert.Equal(t, []string{"order_status_fanout:fanout"}, ch.declared)
	assert.Len(t, ch.published, 2)
}
