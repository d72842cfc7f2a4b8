package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

const (
	StreamStorefront = "STOREFRONT_EVENTS"

	SubjectListingViewed = "storefront.listing.viewed"
)

// ListingViewed is emitted after a category or brand listing is served
type ListingViewed struct {
	EventID     string                 `json:"eventId"`
	EventType   string                 `json:"eventType"`
	TenantID    string                 `json:"tenantId"`
	CategoryID  string                 `json:"categoryId,omitempty"`
	BrandID     string                 `json:"brandId,omitempty"`
	ResultCount int                    `json:"resultCount"`
	Selection   models.FilterSelection `json:"selection,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// streamPublisher is the part of jetstream.JetStream the publisher needs
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher publishes storefront events to NATS JetStream.
// A nil *Publisher is valid and publishes nothing.
type Publisher struct {
	nc     *nats.Conn
	js     streamPublisher
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the storefront stream exists
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	log := logger.WithField("component", "storefront-events")

	nc, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("[NATS] Reconnected to %s", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("[NATS] Disconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("[NATS] Connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamStorefront,
		Subjects:  []string{"storefront.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    24 * time.Hour * 7,
		Storage:   jetstream.FileStorage,
		Replicas:  1,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to ensure storefront stream (may already exist)")
	}

	return &Publisher{nc: nc, js: js, logger: log}, nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p != nil && p.nc != nil {
		p.nc.Close()
	}
}

// PublishListingViewed publishes a storefront.listing.viewed event
func (p *Publisher) PublishListingViewed(ctx context.Context, event ListingViewed) error {
	if p == nil || p.js == nil {
		return nil
	}

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	event.EventType = SubjectListingViewed
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, SubjectListingViewed, data, jetstream.WithMsgID(event.EventID)); err != nil {
		p.logger.WithError(err).WithField("tenant_id", event.TenantID).Warn("Failed to publish listing event")
		return fmt.Errorf("failed to publish %s: %w", SubjectListingViewed, err)
	}
	return nil
}
