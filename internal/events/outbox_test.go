package events

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newOutboxFixture(t *testing.T, name string) (*gorm.DB, *Outbox, *Hub) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DomainEvent{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	hub := NewHub()
	return db, NewOutbox(node, hub), hub
}

func eventRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(1) FROM domain_events`).Scan(&count).Error)
	return count
}

func TestPublishTx_RequiresEventType(t *testing.T) {
	db, outbox, _ := newOutboxFixture(t, "outbox_type")

	err := db.Transaction(func(tx *gorm.DB) error {
		return outbox.PublishTx(context.Background(), tx, Event{Type: "  "})
	})
	assert.ErrorIs(t, err, ErrInvalidEventType)
}

func TestPublishTx_DedupeKeySuppressesDuplicates(t *testing.T) {
	db, outbox, hub := newOutboxFixture(t, "outbox_dedupe")
	sub := hub.Subscribe()
	defer sub.Close()

	event := Event{
		Type:      EventPayoutTriggered,
		Payload:   map[string]any{"policy_id": "1", "amount_cents": int64(2000)},
		DedupeKey: "payout:1",
	}

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return outbox.PublishTx(context.Background(), tx, event)
		}))
	}

	assert.Equal(t, int64(1), eventRows(t, db))

	// The hub saw the event exactly once as well.
	received := 0
	for done := false; !done; {
		select {
		case <-sub.Events():
			received++
		default:
			done = true
		}
	}
	assert.Equal(t, 1, received)
}

func TestPublishTx_NoDedupeKeyAlwaysInserts(t *testing.T) {
	db, outbox, _ := newOutboxFixture(t, "outbox_nodedupe")

	event := Event{
		Type:    EventFlightStatusUpdated,
		Payload: map[string]any{"policy_id": "1", "flight_status": "delayed"},
	}

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return outbox.PublishTx(context.Background(), tx, event)
		}))
	}

	assert.Equal(t, int64(2), eventRows(t, db))
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	// Overfill the subscriber buffer; Publish must never block.
	for i := 0; i < DefaultSubscriberBuffer+5; i++ {
		hub.Publish(Event{Type: EventPolicyCreated})
	}

	received := 0
	for done := false; !done; {
		select {
		case <-sub.Events():
			received++
		default:
			done = true
		}
	}
	assert.Equal(t, DefaultSubscriberBuffer, received)
}

func TestHub_ClosedSubscriptionStopsReceiving(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	sub.Close()
	sub.Close() // closing twice is safe

	hub.Publish(Event{Type: EventPolicyCreated})

	_, open := <-sub.Events()
	assert.False(t, open)
}
