// Package rabbitmq は団体管理側へのドメインイベント送信を RabbitMQ で行う
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/synful23/wrestling-simulator-sub000/internal/config"
	"github.com/synful23/wrestling-simulator-sub000/internal/domain/roster"
	"github.com/synful23/wrestling-simulator-sub000/internal/pkg/logger"
)

// ProfitPublisher は大会の収支を団体の資金に反映するよう通知する
// 送信のたびに接続し、キューは durable で宣言する
type ProfitPublisher struct {
	url   string
	queue string
	dial  func(url string) (*amqp.Connection, error)
}

// NewProfitPublisher はProfitPublisherを作成する
func NewProfitPublisher(cfg config.AMQPConfig) *ProfitPublisher {
	return &ProfitPublisher{
		url:   cfg.URL,
		queue: cfg.ProfitQueue,
		dial:  amqp.Dial,
	}
}

// ApplyProfit は ProfitApplied イベントを永続メッセージとして送信する
func (p *ProfitPublisher) ApplyProfit(ctx context.Context, event roster.ProfitApplied) error {
	msg, err := p.message(event)
	if err != nil {
		return err
	}

	conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("RabbitMQ接続に失敗: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("チャネル作成に失敗: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("キュー宣言に失敗: %w", err)
	}

	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		msg,
	); err != nil {
		return fmt.Errorf("メッセージ送信に失敗: %w", err)
	}

	logger.Debug("収支通知を送信しました",
		zap.String("queue", p.queue),
		zap.String("show_id", event.ShowID),
		zap.String("message_id", msg.MessageId),
	)
	return nil
}

func (p *ProfitPublisher) message(event roster.ProfitApplied) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("イベントのエンコードに失敗: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Type:         "company.profit_applied",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}, nil
}

var _ roster.ProfitNotifier = (*ProfitPublisher)(nil)
