package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"

	"github.com/morezero/employee-service/pkg/commsutil"
)

// startTestServer starts an in-process NATS server for testing.
func startTestServer(t *testing.T, port int) (*comms.Conn, func()) {
	t.Helper()

	opts := &commsserver.Options{
		Host:   "127.0.0.1",
		Port:   port,
		NoLog:  true,
		NoSigs: true,
	}

	ns, err := commsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("events:comms_publisher_integration_test - failed to create server: %v", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("events:comms_publisher_integration_test - server failed to start")
	}

	nc, err := comms.Connect(ns.ClientURL(), comms.Timeout(5*time.Second))
	if err != nil {
		ns.Shutdown()
		t.Fatalf("events:comms_publisher_integration_test - failed to connect: %v", err)
	}

	cleanup := func() {
		nc.Close()
		ns.Shutdown()
		ns.WaitForShutdown()
	}

	return nc, cleanup
}

func subscribeEvents(t *testing.T, nc *comms.Conn, subject string) (chan *comms.Msg, func()) {
	t.Helper()
	received := make(chan *comms.Msg, 4)
	sub, err := nc.Subscribe(subject, func(msg *comms.Msg) {
		received <- msg
	})
	if err != nil {
		t.Fatalf("events:comms_publisher_integration_test - failed to subscribe to %s: %v", subject, err)
	}
	return received, func() { _ = sub.Unsubscribe() }
}

func waitEvent(t *testing.T, ch chan *comms.Msg, what string) *EmployeeChangedEvent {
	t.Helper()
	select {
	case msg := <-ch:
		if got := msg.Header.Get(commsutil.HeaderContentType); got != commsutil.ContentTypeJSON {
			t.Errorf("events:comms_publisher_integration_test - content type = %q", got)
		}
		var event EmployeeChangedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			t.Fatalf("events:comms_publisher_integration_test - failed to unmarshal: %v", err)
		}
		return &event
	case <-time.After(5 * time.Second):
		t.Fatalf("events:comms_publisher_integration_test - timeout waiting for %s event", what)
	}
	return nil
}

func TestCommsPublisher_PublishChanged_BothSubjects(t *testing.T) {
	nc, cleanup := startTestServer(t, 14230)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)

	granular, unsub1 := subscribeEvents(t, nc, "employees.changed.patched.42")
	defer unsub1()
	global, unsub2 := subscribeEvents(t, nc, "employees.changed")
	defer unsub2()

	event := NewEmployeeChangedEvent(ActionPatched, 42, []string{"firstName", "hireDate"})
	if err := publisher.PublishChanged(context.Background(), event); err != nil {
		t.Fatalf("events:comms_publisher_integration_test - PublishChanged failed: %v", err)
	}
	nc.Flush()

	got := waitEvent(t, granular, "granular")
	if got.EmployeeID != 42 {
		t.Errorf("events:comms_publisher_integration_test - EmployeeID = %d, want 42", got.EmployeeID)
	}
	if len(got.ChangedFields) != 2 {
		t.Errorf("events:comms_publisher_integration_test - ChangedFields len = %d, want 2", len(got.ChangedFields))
	}

	got = waitEvent(t, global, "global")
	if got.EventID != event.EventID {
		t.Errorf("events:comms_publisher_integration_test - EventID = %q, want %q", got.EventID, event.EventID)
	}
}

func TestCommsPublisher_CustomGlobalSubject(t *testing.T) {
	nc, cleanup := startTestServer(t, 14231)
	defer cleanup()

	customSubject := "custom.employees.changed"
	publisher := NewCommsPublisher(nc, &CommsPublisherOpts{GlobalChangeSubject: customSubject})

	received, unsub := subscribeEvents(t, nc, customSubject)
	defer unsub()

	if err := publisher.PublishChanged(context.Background(), NewEmployeeChangedEvent(ActionCreated, 3, nil)); err != nil {
		t.Fatalf("events:comms_publisher_integration_test - PublishChanged failed: %v", err)
	}
	nc.Flush()

	got := waitEvent(t, received, "custom subject")
	if got.Action != ActionCreated {
		t.Errorf("events:comms_publisher_integration_test - Action = %q, want %q", got.Action, ActionCreated)
	}
}

func TestCommsPublisher_CancelledContext(t *testing.T) {
	nc, cleanup := startTestServer(t, 14232)
	defer cleanup()

	publisher := NewCommsPublisher(nc, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := publisher.PublishChanged(ctx, NewEmployeeChangedEvent(ActionCreated, 1, nil)); err == nil {
		t.Error("events:comms_publisher_integration_test - expected error for cancelled context")
	}
}

func TestNewCommsPublisher_DefaultSubject(t *testing.T) {
	for _, opts := range []*CommsPublisherOpts{nil, {GlobalChangeSubject: ""}} {
		publisher := NewCommsPublisher(nil, opts)
		if publisher.globalChangeSubject != commsutil.SubjectChangeEvent {
			t.Errorf("events:comms_publisher_integration_test - globalChangeSubject = %q, want %q",
				publisher.globalChangeSubject, commsutil.SubjectChangeEvent)
		}
	}
}
