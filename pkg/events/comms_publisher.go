package events

import (
	"context"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/employee-service/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use defaults.
type CommsPublisherOpts struct {
	// GlobalChangeSubject overrides the global change event subject (e.g. from EMPLOYEE_EVENT_SUBJECT).
	GlobalChangeSubject string
}

// CommsPublisher publishes employee change events to COMMS subjects.
type CommsPublisher struct {
	nc                  *comms.Conn
	globalChangeSubject string
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use defaults.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	globalSubject := commsutil.SubjectChangeEvent
	if opts != nil && opts.GlobalChangeSubject != "" {
		globalSubject = opts.GlobalChangeSubject
	}
	return &CommsPublisher{nc: nc, globalChangeSubject: globalSubject}
}

// PublishChanged publishes an EmployeeChangedEvent to both the granular
// and global change event subjects.
func (p *CommsPublisher) PublishChanged(ctx context.Context, event *EmployeeChangedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subjects := []string{
		commsutil.BuildChangeSubject(event.Action, event.EmployeeID),
		p.globalChangeSubject,
	}
	for _, subject := range subjects {
		msg, err := commsutil.NewJSONMsg(subject, event)
		if err != nil {
			return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
		}
		if err := p.nc.PublishMsg(msg); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, subject, err))
			return err
		}
	}

	slog.Debug(fmt.Sprintf("%s - Published %s event for employee %d", commsPublisherLogPrefix, event.Action, event.EmployeeID))
	return nil
}
