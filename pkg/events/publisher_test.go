package events

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestNoOpPublisher(t *testing.T) {
	pub := &NoOpPublisher{}
	err := pub.PublishChanged(context.Background(), NewEmployeeChangedEvent(ActionCreated, 1, nil))
	if err != nil {
		t.Errorf("events:publisher_test - expected no error, got %v", err)
	}
}

func TestCallbackPublisher(t *testing.T) {
	var captured *EmployeeChangedEvent

	pub := NewCallbackPublisher(func(_ context.Context, event *EmployeeChangedEvent) error {
		captured = event
		return nil
	})

	err := pub.PublishChanged(context.Background(), NewEmployeeChangedEvent(ActionPatched, 5, []string{"firstName"}))
	if err != nil {
		t.Errorf("events:publisher_test - expected no error, got %v", err)
	}

	if captured == nil {
		t.Fatal("events:publisher_test - expected callback to be called")
	}
	if captured.EmployeeID != 5 {
		t.Errorf("events:publisher_test - expected employee 5, got %d", captured.EmployeeID)
	}
	if captured.Action != ActionPatched {
		t.Errorf("events:publisher_test - expected action patched, got %s", captured.Action)
	}
}

func TestRecordingPublisher(t *testing.T) {
	pub := &RecordingPublisher{}
	_ = pub.PublishChanged(context.Background(), NewEmployeeChangedEvent(ActionCreated, 1, nil))
	_ = pub.PublishChanged(context.Background(), NewEmployeeChangedEvent(ActionUpdated, 1, nil))

	got := pub.Events()
	if len(got) != 2 {
		t.Fatalf("events:publisher_test - expected 2 events, got %d", len(got))
	}
	if got[1].Action != ActionUpdated {
		t.Errorf("events:publisher_test - expected updated, got %s", got[1].Action)
	}
}

func TestNewEmployeeChangedEvent(t *testing.T) {
	event := NewEmployeeChangedEvent(ActionCreated, 9, nil)

	if _, err := ulid.Parse(event.EventID); err != nil {
		t.Errorf("events:publisher_test - EventID %q is not a ULID: %v", event.EventID, err)
	}
	if event.ChangedFields == nil {
		t.Error("events:publisher_test - ChangedFields should encode as an empty list")
	}
	if event.Timestamp == "" {
		t.Error("events:publisher_test - expected timestamp")
	}
	if other := NewEmployeeChangedEvent(ActionCreated, 9, nil); other.EventID == event.EventID {
		t.Error("events:publisher_test - expected unique event ids")
	}
}
