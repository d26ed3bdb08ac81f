package rabbitmq

import (
	"context"
	"encoding/json"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/features"
	"github.com/baechuer/craft-marketplace/services/recs-service/internal/metrics"
)

const (
	routingKeyActivity = "activity.logged"
	routingKeyImage    = "product.image.uploaded"
)

// ActivityPayload is the activity.logged message published by the web BFF
// and the other marketplace services.
type ActivityPayload struct {
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	ProductID    string    `json:"product_id,omitempty"`
	Query        string    `json:"query,omitempty"`
	StallID      string    `json:"stall_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ImageUploadedPayload is the product.image.uploaded message from the media
// service: a product got a (new) primary image.
type ImageUploadedPayload struct {
	ProductID string `json:"product_id"`
	ObjectKey string `json:"object_key"`
}

// DomainEventEnvelope is the platform-wide message wrapper.
type DomainEventEnvelope struct {
	MessageID  string          `json:"message_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ActivityStore persists ingested activity events.
type ActivityStore interface {
	Insert(ctx context.Context, e *domain.ActivityEvent) error
}

// FeatureUpdater persists extracted image features on the product row.
type FeatureUpdater interface {
	UpdateImageFeatures(ctx context.Context, productID string, c domain.RGB, ahash string) error
}

// ObjectFetcher reads a product image from object storage.
type ObjectFetcher interface {
	GetObject(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

type Config struct {
	URL           string
	Exchange      string
	ActivityQueue string
	ImageQueue    string
}

// Consumer ingests activity events and runs image feature extraction.
type Consumer struct {
	cfg      Config
	store    ActivityStore
	products FeatureUpdater
	objects  ObjectFetcher
	log      zerolog.Logger
}

func NewConsumer(cfg Config, store ActivityStore, products FeatureUpdater, objects ObjectFetcher, log zerolog.Logger) *Consumer {
	return &Consumer{cfg: cfg, store: store, products: products, objects: objects, log: log}
}

// Start runs until ctx is canceled, reconnecting on broker failures.
func (c *Consumer) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.connectAndConsume(ctx); err != nil {
				c.log.Warn().Err(err).Msg("rabbit consumer error, retrying in 5s")
				select {
				case <-ctx.Done():
					return
				case <-time.After(5 * time.Second):
				}
			}
		}
	}
}

func (c *Consumer) connectAndConsume(ctx context.Context) error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(c.cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	type binding struct {
		queue, key string
		handle     func(context.Context, amqp.Delivery)
	}
	bindings := []binding{
		{c.cfg.ActivityQueue, routingKeyActivity, c.handleActivity},
		{c.cfg.ImageQueue, routingKeyImage, c.handleImage},
	}

	deliveries := make([]<-chan amqp.Delivery, 0, len(bindings))
	for _, b := range bindings {
		q, err := ch.QueueDeclare(b.queue, true, false, false, false, nil)
		if err != nil {
			return err
		}
		if err := ch.QueueBind(q.Name, b.key, c.cfg.Exchange, false, nil); err != nil {
			return err
		}
		msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
		if err != nil {
			return err
		}
		deliveries = append(deliveries, msgs)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries[0]:
			if !ok {
				return amqp.ErrClosed
			}
			bindings[0].handle(ctx, d)
		case d, ok := <-deliveries[1]:
			if !ok {
				return amqp.ErrClosed
			}
			bindings[1].handle(ctx, d)
		}
	}
}

// handleActivity inserts one tracked event. Malformed messages are dropped
// (acked) so they never wedge the queue; storage failures requeue once.
func (c *Consumer) handleActivity(ctx context.Context, d amqp.Delivery) {
	var env DomainEventEnvelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		c.log.Warn().Err(err).Msg("activity message: bad envelope")
		metrics.RecordActivityConsumed("malformed")
		_ = d.Ack(false)
		return
	}
	var p ActivityPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		c.log.Warn().Err(err).Str("message_id", env.MessageID).Msg("activity message: bad payload")
		metrics.RecordActivityConsumed("malformed")
		_ = d.Ack(false)
		return
	}

	occurred := p.OccurredAt
	if occurred.IsZero() {
		occurred = env.OccurredAt
	}
	e, err := domain.NewActivityEvent(p.UserID, domain.ActivityType(p.ActivityType), p.ProductID, p.Query, p.StallID, occurred)
	if err != nil {
		c.log.Warn().Err(err).Str("message_id", env.MessageID).Msg("activity message: invalid event")
		metrics.RecordActivityConsumed("malformed")
		_ = d.Ack(false)
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.store.Insert(opCtx, e); err != nil {
		c.log.Error().Err(err).Str("message_id", env.MessageID).Msg("activity insert failed")
		metrics.RecordActivityConsumed("error")
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	metrics.RecordActivityConsumed("ok")
	_ = d.Ack(false)
}

// handleImage fetches the uploaded image and persists avg color + aHash.
func (c *Consumer) handleImage(ctx context.Context, d amqp.Delivery) {
	var env DomainEventEnvelope
	var p ImageUploadedPayload
	if err := json.Unmarshal(d.Body, &env); err != nil || json.Unmarshal(env.Payload, &p) != nil ||
		p.ProductID == "" || p.ObjectKey == "" {
		c.log.Warn().Str("message_id", env.MessageID).Msg("image message: malformed")
		metrics.RecordFeatureExtraction("decode_error")
		_ = d.Ack(false)
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	body, err := c.objects.GetObject(opCtx, p.ObjectKey)
	if err != nil {
		c.log.Error().Err(err).Str("object_key", p.ObjectKey).Msg("image fetch failed")
		metrics.RecordFeatureExtraction("fetch_error")
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		c.log.Error().Err(err).Str("object_key", p.ObjectKey).Msg("image read failed")
		metrics.RecordFeatureExtraction("fetch_error")
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	img, err := features.Decode(data)
	if err != nil {
		// Not retryable: the object will not become decodable. The product
		// simply keeps no image features, which the scorer tolerates.
		c.log.Warn().Err(err).Str("product_id", p.ProductID).Msg("image decode failed, skipping features")
		metrics.RecordFeatureExtraction("decode_error")
		_ = d.Ack(false)
		return
	}

	color, ahash := features.Extract(img)
	if err := c.products.UpdateImageFeatures(opCtx, p.ProductID, color, ahash); err != nil {
		c.log.Error().Err(err).Str("product_id", p.ProductID).Msg("feature update failed")
		metrics.RecordFeatureExtraction("db_error")
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	c.log.Info().Str("product_id", p.ProductID).Str("ahash", ahash).Msg("image features extracted")
	metrics.RecordFeatureExtraction("ok")
	_ = d.Ack(false)
}
