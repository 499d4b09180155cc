package commsutil

import (
	"testing"
)

func TestEncodePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    string
		wantErr bool
	}{
		{name: "map", input: map[string]string{"method": "employee.getAll"}, want: `{"method":"employee.getAll"}`},
		{name: "struct", input: struct{ ID int }{ID: 3}, want: `{"ID":3}`},
		{name: "nil", input: nil, want: "null"},
		{name: "channel is not serializable", input: make(chan int), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodePayload(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("commsutil:codec_test - expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("commsutil:codec_test - unexpected error: %v", err)
			}
			if got := string(data); got != tt.want {
				t.Errorf("commsutil:codec_test - EncodePayload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewJSONMsg(t *testing.T) {
	msg, err := NewJSONMsg("employees.changed", map[string]int{"employeeId": 4})
	if err != nil {
		t.Fatalf("commsutil:codec_test - unexpected error: %v", err)
	}
	if msg.Subject != "employees.changed" {
		t.Errorf("commsutil:codec_test - Subject = %q", msg.Subject)
	}
	if got := msg.Header.Get(HeaderContentType); got != ContentTypeJSON {
		t.Errorf("commsutil:codec_test - Content-Type = %q, want %q", got, ContentTypeJSON)
	}
	if string(msg.Data) != `{"employeeId":4}` {
		t.Errorf("commsutil:codec_test - Data = %s", msg.Data)
	}

	if _, err := NewJSONMsg("x", make(chan int)); err == nil {
		t.Error("commsutil:codec_test - expected encode error")
	}
}
