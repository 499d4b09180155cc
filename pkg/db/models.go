package db

import (
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/morezero/employee-service/pkg/employee"
)

// employeeColumns is the select list matched by scanEmployee.
const employeeColumns = `id, first_name, last_name, gender, birth_date, hire_date`

// employeeRow is a row of the employees table.
type employeeRow struct {
	ID        int
	FirstName string
	LastName  string
	Gender    string
	BirthDate time.Time
	HireDate  time.Time
}

func (r employeeRow) toEmployee() employee.Employee {
	return employee.Employee{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		BirthDate: r.BirthDate.UTC(),
		HireDate:  r.HireDate.UTC(),
	}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var r employeeRow
	if err := row.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Gender, &r.BirthDate, &r.HireDate); err != nil {
		return employee.Employee{}, err
	}
	return r.toEmployee(), nil
}
