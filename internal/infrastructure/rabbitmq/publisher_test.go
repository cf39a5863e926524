package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ferramentas-api/internal/application/inventory"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestPublish_MensajePersistente(t *testing.T) {
	ch := new(MockChannel)
	p := &Publisher{ch: ch, exchange: "ferramentas.eventos"}
	event := inventory.MovementEvent{
		Type:         inventory.EventMovementRecorded,
		MovementID:   9,
		ProductID:    3,
		MovementType: "saida",
		Quantity:     2,
		NewQuantity:  4,
		MinQuantity:  5,
		BelowMinimum: true,
		OccurredAt:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	var sent amqp.Publishing
	ch.On("Publish", "ferramentas.eventos", inventory.EventMovementRecorded, false, false, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(4).(amqp.Publishing) }).
		Return(nil).Once()

	require.NoError(t, p.Publish(context.Background(), event))
	ch.AssertExpectations(t)

	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	assert.Equal(t, inventory.EventMovementRecorded, sent.Type)
	_, err := uuid.Parse(sent.MessageId)
	assert.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(sent.Body, &body))
	assert.Equal(t, "movimentacao.registrada", body["evento"])
	assert.Equal(t, float64(4), body["quantidade_atual"])
	assert.Equal(t, true, body["abaixo_do_minimo"])
}

func TestPublish_Errores(t *testing.T) {
	ch := new(MockChannel)
	p := &Publisher{ch: ch, exchange: "x"}

	ch.On("Publish", "x", inventory.EventBelowMinimum, false, false, mock.Anything).
		Return(errors.New("channel/connection is not open")).Once()
	err := p.Publish(context.Background(), inventory.MovementEvent{Type: inventory.EventBelowMinimum})
	assert.ErrorContains(t, err, "rabbitmq: publicar estoque.abaixo_do_minimo")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Publish(ctx, inventory.MovementEvent{Type: inventory.EventMovementRecorded}), context.Canceled)

	ch.On("Close").Return(nil).Once()
	require.NoError(t, p.Close())
	assert.ErrorContains(t, p.Publish(context.Background(), inventory.MovementEvent{}), "canal cerrado")
	ch.AssertExpectations(t)
}
