package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	commsserver "github.com/nats-io/nats-server/v2/server"
	comms "github.com/nats-io/nats.go"

	"github.com/morezero/employee-service/internal/config"
	"github.com/morezero/employee-service/pkg/commsutil"
	"github.com/morezero/employee-service/pkg/events"
)

func startNATS(t *testing.T, port int) string {
	t.Helper()
	ns, err := commsserver.NewServer(&commsserver.Options{Host: "127.0.0.1", Port: port, NoLog: true, NoSigs: true})
	if err != nil {
		t.Fatalf("%s - nats server: %v", serverTestPrefix, err)
	}
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatalf("%s - nats server not ready", serverTestPrefix)
	}
	t.Cleanup(ns.Shutdown)
	return ns.ClientURL()
}

func memoryConfig(natsURL string) *config.Config {
	return &config.Config{
		COMMSURL:           natsURL,
		COMMSName:          "employee-service-test",
		NATSEnabled:        natsURL != "",
		RequestTimeout:     5 * time.Second,
		Storage:            config.StorageMemory,
		SeedFile:           "../../seeds/employees.yaml",
		HTTPAddr:           "127.0.0.1:0",
		HealthCheckTimeout: time.Second,
		APIVersion:         "1.0.0",
	}
}

func TestStart_MemoryWithoutNATS(t *testing.T) {
	s, err := Start(context.Background(), memoryConfig(""))
	if err != nil {
		t.Fatalf("%s - start: %v", serverTestPrefix, err)
	}
	defer s.Shutdown()

	resp, err := http.Get("http://" + s.Addr() + "/api/employees")
	if err != nil {
		t.Fatalf("%s - get employees: %v", serverTestPrefix, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var list []map[string]interface{}
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("%s - decode: %v (%s)", serverTestPrefix, err, body)
	}
	if len(list) != 3 {
		t.Errorf("%s - seeded %d employees, want 3", serverTestPrefix, len(list))
	}
}

func TestStart_RejectsBadAPIVersion(t *testing.T) {
	cfg := memoryConfig("")
	cfg.APIVersion = "latest"
	if _, err := Start(context.Background(), cfg); err == nil {
		t.Fatalf("%s - expected error for bad API version", serverTestPrefix)
	}
}

func TestStart_MissingSeedFile(t *testing.T) {
	cfg := memoryConfig("")
	cfg.SeedFile = "does-not-exist.yaml"
	if _, err := Start(context.Background(), cfg); err == nil {
		t.Fatalf("%s - expected error for missing seed file", serverTestPrefix)
	}
}

func TestStart_ServesRPCOverNATS(t *testing.T) {
	url := startNATS(t, 14250)
	s, err := Start(context.Background(), memoryConfig(url))
	if err != nil {
		t.Fatalf("%s - start: %v", serverTestPrefix, err)
	}
	defer s.Shutdown()

	nc, err := commsutil.Connect(url, "rpc-test-client", commsutil.ConnectOptions{Timeout: time.Second})
	if err != nil {
		t.Fatalf("%s - client connect: %v", serverTestPrefix, err)
	}
	defer nc.Close()

	changes := make(chan *comms.Msg, 4)
	sub, err := nc.ChanSubscribe(commsutil.SubjectChangeEvent, changes)
	if err != nil {
		t.Fatalf("%s - subscribe events: %v", serverTestPrefix, err)
	}
	defer sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		t.Fatalf("%s - flush: %v", serverTestPrefix, err)
	}

	msg, err := nc.Request(commsutil.SubjectEmployeeRPC, []byte(`{"method":"employee.getAll","id":"n-1"}`), 5*time.Second)
	if err != nil {
		t.Fatalf("%s - rpc request: %v", serverTestPrefix, err)
	}
	if ct := msg.Header.Get(commsutil.HeaderContentType); ct != commsutil.ContentTypeJSON {
		t.Errorf("%s - content type = %q", serverTestPrefix, ct)
	}
	var env envelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		t.Fatalf("%s - decode: %v", serverTestPrefix, err)
	}
	var result []map[string]interface{}
	if !env.Success || json.Unmarshal(env.Result, &result) != nil || len(result) != 3 {
		t.Fatalf("%s - getAll reply %s", serverTestPrefix, msg.Data)
	}
	if env.ID == nil || *env.ID != "n-1" {
		t.Errorf("%s - id not echoed: %s", serverTestPrefix, msg.Data)
	}

	msg, err = nc.Request(commsutil.SubjectEmployeeRPC,
		[]byte(`{"method":"employee.patch","params":{"id":2,"lastName":"Mathison"},"id":"n-2"}`), 5*time.Second)
	if err != nil {
		t.Fatalf("%s - patch request: %v", serverTestPrefix, err)
	}
	if err := json.Unmarshal(msg.Data, &env); err != nil || !env.Success {
		t.Fatalf("%s - patch reply %s", serverTestPrefix, msg.Data)
	}

	select {
	case m := <-changes:
		var ev events.EmployeeChangedEvent
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			t.Fatalf("%s - decode event: %v", serverTestPrefix, err)
		}
		if ev.Action != events.ActionPatched || ev.EmployeeID != 2 {
			t.Errorf("%s - event = %+v", serverTestPrefix, ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("%s - no change event received", serverTestPrefix)
	}

	msg, err = nc.Request(commsutil.SubjectEmployeeRPC, []byte(`{"method":`), 5*time.Second)
	if err != nil {
		t.Fatalf("%s - malformed request: %v", serverTestPrefix, err)
	}
	if err := json.Unmarshal(msg.Data, &env); err != nil || env.Success || env.Error.Code != "INVALID_PARAMS" {
		t.Errorf("%s - malformed reply %s", serverTestPrefix, msg.Data)
	}
}
