package infra

import (
	"fmt"
	"log"

	"github.com/bqtran/filevault/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQClient struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
}

func InitRabbitMQClient(cfg *config.EnvConfig) *RabbitMQClient {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQ.Username,
		cfg.RabbitMQ.Password,
		cfg.RabbitMQ.Host,
		cfg.RabbitMQ.Port,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		log.Fatalf("RabbitMQ connection failed: %v", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		log.Fatalf("RabbitMQ channel creation failed: %v", err)
	}

	log.Println("Connected to RabbitMQ:", cfg.RabbitMQ.Host+":"+cfg.RabbitMQ.Port)

	return &RabbitMQClient{
		Conn:    conn,
		Channel: channel,
	}
}

func (r *RabbitMQClient) Close() {
	if r.Channel != nil {
		_ = r.Channel.Close()
	}
	if r.Conn != nil {
		_ = r.Conn.Close()
	}
}
