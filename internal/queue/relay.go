package queue

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"

	"github.com/abkawan/banking-core/internal/events"
)

const (
	// queue for bus events
	EventQueue = "bank-events"
)

// envelope is the wire shape of a relayed event.
type envelope struct {
	Kind    events.Kind `json:"kind"`
	Payload interface{} `json:"payload"`
}

// Relay forwards bus events to RabbitMQ as persistent JSON messages.
// It subscribes like any other handler; publishing happens on the
// poster's stack.
type Relay struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func NewRelay(uri string) (*Relay, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		EventQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	return &Relay{
		conn:    conn,
		channel: ch,
		queue:   q,
	}, nil
}

func (r *Relay) Close() error {
	if err := r.channel.Close(); err != nil {
		return err
	}
	return r.conn.Close()
}

// Handle publishes the event. Broker trouble is logged, never
// propagated: the relay must not fail the triggering operation.
func (r *Relay) Handle(e events.Event) {
	body, err := json.Marshal(envelope{Kind: e.EventKind(), Payload: e})
	if err != nil {
		log.Printf("failed to marshal event: %v", err)
		return
	}

	err = r.channel.Publish(
		"",         // exchange
		EventQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // make message persistent
		})
	if err != nil {
		log.Printf("failed to publish a message: %v", err)
	}
}

// Attach subscribes the relay to every event kind the core posts.
func (r *Relay) Attach(bus *events.Bus) {
	bus.Subscribe(events.KindTransaction, r)
	bus.Subscribe(events.KindSplitOutcome, r)
}
