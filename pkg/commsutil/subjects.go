package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	SubjectEmployeeRPC = "svc.employees.rpc.v1"
	SubjectChangeEvent = "employees.changed"
)

// BuildChangeSubject builds the granular change subject for one employee
// action, e.g. employees.changed.patched.42.
func BuildChangeSubject(action string, employeeID int) string {
	return fmt.Sprintf("%s.%s.%d", SubjectChangeEvent, strings.ToLower(action), employeeID)
}
