package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synful23/wrestling-simulator-sub000/internal/config"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/roster"
)

func sampleEvent() roster.ProfitApplied {
	return roster.ProfitApplied{
		CompanyID:   "company-1",
		ShowID:      "show-1",
		Profit:      decimal.RequireFromString("-125000.50"),
		CompletedAt: time.Date(2026, 2, 14, 22, 0, 0, 0, time.UTC),
	}
}

func TestProfitPublisher_Message(t *testing.T) {
	p := NewProfitPublisher(config.AMQPConfig{URL: "amqp://localhost", ProfitQueue: "company.profit_applied"})

	msg, err := p.message(sampleEvent())

	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.NotEmpty(t, msg.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "company-1", body["company_id"])
	assert.Equal(t, "show-1", body["show_id"])
	// 金額は精度を保つため文字列で送る
	assert.Equal(t, "-125000.5", body["profit"])
}

func TestProfitPublisher_DialError(t *testing.T) {
	p := NewProfitPublisher(config.AMQPConfig{URL: "amqp://unreachable", ProfitQueue: "q"})
	dialErr := errors.New("connection refused")
	p.dial = func(string) (*amqp.Connection, error) { return nil, dialErr }

	err := p.ApplyProfit(context.Background(), sampleEvent())

	assert.ErrorIs(t, err, dialErr)
}

func TestProfitPublisher_Broker(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL が未設定のためスキップ")
	}
	queue := "test.profit_applied"
	p := NewProfitPublisher(config.AMQPConfig{URL: url, ProfitQueue: queue})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.ApplyProfit(ctx, sampleEvent()))

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()
	defer ch.QueueDelete(queue, false, false, false)

	d, ok, err := ch.Get(queue, true)
	require.NoError(t, err)
	require.True(t, ok)

	var got roster.ProfitApplied
	require.NoError(t, json.Unmarshal(d.Body, &got))
	assert.Equal(t, "show-1", got.ShowID)
	assert.True(t, got.Profit.Equal(decimal.RequireFromString("-125000.50")))
}
