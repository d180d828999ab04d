package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrInvalidEventType = errors.New("invalid_event_type")

// Outbox writes events into the domain_events table inside the caller's
// transaction and forwards them to in-process subscribers once the row is
// inserted. The dedupe key makes repeated publication of the same logical
// event a no-op, so a retried settlement cannot emit twice.
type Outbox struct {
	genID *snowflake.Node
	hub   *Hub
}

func NewOutbox(genID *snowflake.Node, hub *Hub) *Outbox {
	return &Outbox{genID: genID, hub: hub}
}

// PublishTx inserts the event within tx. Callers must only invoke it from
// inside a transaction that also commits the state the event describes.
func (o *Outbox) PublishTx(ctx context.Context, tx *gorm.DB, event Event) error {
	eventType := strings.TrimSpace(event.Type)
	if eventType == "" {
		return ErrInvalidEventType
	}

	var dedupe *string
	if key := strings.TrimSpace(event.DedupeKey); key != "" {
		dedupe = &key
	}

	result := tx.WithContext(ctx).Exec(
		`INSERT INTO domain_events (id, event_type, payload, dedupe_key, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (dedupe_key) DO NOTHING`,
		o.genID.Generate(),
		eventType,
		datatypes.JSONMap(event.Payload),
		dedupe,
		time.Now().UTC(),
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return nil
	}

	if o.hub != nil {
		o.hub.Publish(event)
	}
	return nil
}
