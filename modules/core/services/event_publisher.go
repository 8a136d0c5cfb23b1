package services

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"github.com/grupovertice/intranet/modules/core/domain/events"
	"github.com/grupovertice/intranet/pkg/composables"
	"github.com/grupovertice/intranet/pkg/outbox"
)

// OutboxTable holds every entity event awaiting fanout.
var OutboxTable = pgx.Identifier{"outbox_events"}

// EventPublisher serializes entity events into the outbox using the
// transaction already open in the context, so the event commits or rolls
// back together with the change it announces.
type EventPublisher struct {
	publisher outbox.Publisher
}

func NewEventPublisher(publisher outbox.Publisher) *EventPublisher {
	return &EventPublisher{publisher: publisher}
}

func (p *EventPublisher) Publish(ctx context.Context, topic string, ev events.EntityEvent) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.publisher.Enqueue(ctx, tx, OutboxTable, outbox.Message{
		TenantID: ev.TenantID,
		Topic:    topic,
		EventID:  ev.EventID,
		Payload:  payload,
	})
	return err
}
