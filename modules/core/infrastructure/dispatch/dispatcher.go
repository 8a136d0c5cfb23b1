package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/grupovertice/intranet/modules/core/domain/events"
	"github.com/grupovertice/intranet/modules/core/services"
	"github.com/grupovertice/intranet/pkg/outbox"
)

// Dispatcher routes relay-claimed outbox messages to the notification fanout.
// Returning an error makes the relay retry the message with backoff, so only
// resolution failures propagate; partial delivery failures are final.
type Dispatcher struct {
	fanout *services.FanoutService
	logger *logrus.Logger
}

func NewDispatcher(fanout *services.FanoutService, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		fanout: fanout,
		logger: logger,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg outbox.DispatchedMessage) error {
	switch msg.Meta.Topic {
	case events.TopicTicketEvent,
		events.TopicIncidentEvent,
		events.TopicAccountEvent,
		events.TopicCertificateEvent,
		events.TopicSweepSummary:
	default:
		return fmt.Errorf("unsupported topic %q", msg.Meta.Topic)
	}

	var ev events.EntityEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("decode entity event: %w", err)
	}

	report, err := d.fanout.Deliver(ctx, ev)
	if err != nil {
		return err
	}
	entry := d.logger.WithFields(logrus.Fields{
		"event_id":   ev.EventID,
		"topic":      msg.Meta.Topic,
		"recipients": report.Recipients,
		"delivered":  report.Delivered,
	})
	if len(report.Failures) > 0 {
		entry.WithField("failed", len(report.Failures)).Warn("fanout completed with failures")
	} else {
		entry.Debug("fanout completed")
	}
	return nil
}
