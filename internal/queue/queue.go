package queue

import (
	"fmt"
	"time"

	"github.com/matchrings/backend/internal/util"
	"github.com/matchrings/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// BuildEventQueue receives a message for every successfully published
// graph generation.
const BuildEventQueue = "graph_events"

func Init() *amqp091.Connection {
	user := util.GetEnv("RABBITMQ_USER")
	pass := util.GetEnv("RABBITMQ_PASSWORD")
	host := util.GetEnv("RABBITMQ_HOST")
	port := util.GetEnv("RABBITMQ_PORT")

	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		user,
		pass,
		host,
		port,
	)

	conn, err := amqp091.Dial(connURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

func Setup(ch *amqp091.Channel) error {
	_, err := ch.QueueDeclare(
		BuildEventQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", BuildEventQueue, err)
	}
	return nil
}

// PublishBuildEvent publishes a build notification to the graph
// events queue.
func PublishBuildEvent(ch *amqp091.Channel, data []byte) error {
	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	err := ch.Publish(
		"",
		BuildEventQueue,
		false,
		false,
		publishing,
	)
	if err != nil {
		return err
	}

	return nil
}
