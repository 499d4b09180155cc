// Package events defines event types and publisher interfaces for employee change events.
package events

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionPatched = "patched"
)

// EmployeeChangedEvent is emitted after an employee write has been committed.
type EmployeeChangedEvent struct {
	EventID       string   `json:"eventId"`
	Action        string   `json:"action"`
	EmployeeID    int      `json:"employeeId"`
	ChangedFields []string `json:"changedFields"`
	Timestamp     string   `json:"timestamp"`
}

// NewEmployeeChangedEvent builds an event with a fresh ULID and the current time.
func NewEmployeeChangedEvent(action string, employeeID int, changedFields []string) *EmployeeChangedEvent {
	if changedFields == nil {
		changedFields = []string{}
	}
	return &EmployeeChangedEvent{
		EventID:       ulid.Make().String(),
		Action:        action,
		EmployeeID:    employeeID,
		ChangedFields: changedFields,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}
