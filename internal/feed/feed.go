package feed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"

	"github.com/timada-org/taskhub/internal/events"
	"github.com/timada-org/taskhub/pkg/todo"
)

// Handler receives the decoded todo for one mutation event. Deletion events
// carry only the id; the rest of the todo is zero.
type Handler func(userID int64, item todo.Todo)

type FeedOptions struct {
	URL          string
	Topic        string
	Subscription string
}

// Feed consumes mutation events from the broker and dispatches them by
// event name to registered handlers.
type Feed struct {
	mux      sync.RWMutex
	client   pulsar.Client
	consumer pulsar.Consumer
	handlers map[string][]Handler
}

func New(options FeedOptions) (*Feed, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: options.URL,
	})
	if err != nil {
		return nil, err
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            options.Topic,
		SubscriptionName: options.Subscription,
		Type:             pulsar.Exclusive,
	})
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Feed{
		client:   client,
		consumer: consumer,
		handlers: make(map[string][]Handler),
	}, nil
}

// On registers a handler for one event name (events.Created etc.).
func (f *Feed) On(name string, handler Handler) {
	f.mux.Lock()
	defer f.mux.Unlock()

	f.handlers[name] = append(f.handlers[name], handler)
}

// Start consumes until the context is cancelled.
func (f *Feed) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := f.consumer.Receive(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				log.Error().Err(err).Msg("feed receive failed")
				continue
			}

			f.handleMessage(msg.Payload())
			f.consumer.Ack(msg)
		}
	}()
}

func (f *Feed) handleMessage(payload []byte) {
	var event events.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Error().Err(err).Msg("feed: undecodable event")
		return
	}

	item, err := decodeTodo(event.Data)
	if err != nil {
		log.Error().Err(err).Str("event", event.Name).Msg("feed: undecodable payload")
		return
	}

	f.mux.RLock()
	handlers := append([]Handler(nil), f.handlers[event.Name]...)
	f.mux.RUnlock()

	for _, handler := range handlers {
		handler(event.UserID, item)
	}
}

// decodeTodo maps the loosely typed event payload onto a Todo. JSON numbers
// arrive as float64 and dates as RFC 3339 strings, hence the weak typing and
// the time hook.
func decodeTodo(data any) (todo.Todo, error) {
	var item todo.Todo

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		WeaklyTypedInput: true,
		Result:           &item,
	})
	if err != nil {
		return item, err
	}

	return item, decoder.Decode(data)
}

func (f *Feed) Close() {
	f.consumer.Close()
	f.client.Close()
}
