package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/apache/pulsar-client-go/pulsar"
)

// Event names published by the todo API.
const (
	Created    = "Created"
	Completed  = "Completed"
	Deleted    = "Deleted"
	Reassigned = "Reassigned"
)

// Event is the broker payload for a todo mutation. Data carries the mutated
// todo (or an id map for deletions).
type Event struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Data   any    `json:"data"`
}

type PublisherOptions struct {
	URL   string
	Topic string
	Name  string
}

// Publisher sends mutation events to the broker.
type Publisher struct {
	Client   pulsar.Client
	producer pulsar.Producer
}

func NewPublisher(options PublisherOptions) (*Publisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: options.URL,
	})
	if err != nil {
		return nil, err
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: options.Topic,
		Name:  options.Name,
	})
	if err != nil {
		return nil, err
	}

	return &Publisher{
		Client:   client,
		producer: producer,
	}, nil
}

func (p *Publisher) Send(event *Event) error {
	if p.producer == nil {
		return errors.New("producer not initialized")
	}

	payload, err := json.Marshal(&event)
	if err != nil {
		return err
	}

	_, err = p.producer.Send(context.Background(), &pulsar.ProducerMessage{
		Payload: payload,
	})

	return err
}

func (p *Publisher) Close() {
	p.Client.Close()

	if p.producer != nil {
		p.producer.Close()
	}
}
