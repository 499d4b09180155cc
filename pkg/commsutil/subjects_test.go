package commsutil

import "testing"

func TestBuildChangeSubject(t *testing.T) {
	tests := []struct {
		name   string
		action string
		id     int
		want   string
	}{
		{"created", "created", 1, "employees.changed.created.1"},
		{"mixed case action", "Patched", 42, "employees.changed.patched.42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildChangeSubject(tt.action, tt.id)
			if got != tt.want {
				t.Errorf("BuildChangeSubject(%q, %d) = %q, want %q", tt.action, tt.id, got, tt.want)
			}
		})
	}
}
