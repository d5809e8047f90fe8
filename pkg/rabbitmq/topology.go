package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"video-stream/config"
)

const (
	queueName  = "processing_queue"
	routingKey = "processing.request"
)

func exchangeName(cfg *config.RabbitMQ) string {
	if cfg.ExchangeName != "" {
		return cfg.ExchangeName
	}
	return "processing_exchange"
}

func exchangeKind(cfg *config.RabbitMQ) string {
	if cfg.Kind != "" {
		return cfg.Kind
	}
	return amqp.ExchangeDirect
}

func declareExchange(ch *amqp.Channel, cfg *config.RabbitMQ) error {
	return ch.ExchangeDeclare(exchangeName(cfg), exchangeKind(cfg), true, false, false, false, nil)
}
