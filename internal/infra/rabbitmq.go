// README: RabbitMQ connection management and topic publisher.
package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// RabbitPublisher publishes JSON messages to a single topic exchange.
// It owns the connection and transparently re-dials when the broker
// drops it; publishes issued while disconnected fail fast.
type RabbitPublisher struct {
	url      string
	exchange string

	mu   sync.RWMutex
	conn *amqp091.Connection
	ch   *amqp091.Channel
}

// ConnectRabbitMQ dials the broker, declares the topic exchange, and
// starts the reconnect monitor. The broker may come up after us, so the
// initial dial is retried.
func ConnectRabbitMQ(url, exchange string) (*RabbitPublisher, error) {
	p := &RabbitPublisher{url: url, exchange: exchange}

	var err error
	for i := 0; i < 10; i++ {
		if err = p.dial(); err == nil {
			go p.monitor()
			return p, nil
		}
		log.Printf("[amqp] broker not ready, retrying... (%d/10)", i+1)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("connect to rabbitmq: %w", err)
}

func (p *RabbitPublisher) dial() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(p.exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return err
	}

	p.mu.Lock()
	p.conn = conn
	p.ch = ch
	p.mu.Unlock()
	return nil
}

func (p *RabbitPublisher) monitor() {
	for {
		p.mu.RLock()
		conn := p.conn
		p.mu.RUnlock()

		errCh := conn.NotifyClose(make(chan *amqp091.Error, 1))
		amqpErr := <-errCh
		if amqpErr == nil {
			// clean shutdown
			return
		}
		log.Printf("[amqp] connection lost: %v, reconnecting...", amqpErr)

		backoff := 5 * time.Second
		for {
			time.Sleep(backoff)
			if err := p.dial(); err == nil {
				log.Println("[amqp] reconnected")
				break
			} else {
				log.Printf("[amqp] reconnect failed: %v", err)
			}
			if backoff *= 2; backoff > time.Minute {
				backoff = time.Minute
			}
		}
	}
}

// Publish marshals payload as JSON and sends it with the given routing
// key. Delivery is unacknowledged; callers treat failures as advisory.
func (p *RabbitPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	p.mu.RLock()
	ch := p.ch
	p.mu.RUnlock()

	err = ch.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
