package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/morezero/employee-service/pkg/employee"
)

const repoLogPrefix = "db:repository"

// EmployeeRepository stores employees in Postgres. It implements employee.Store.
type EmployeeRepository struct {
	pool *pgxpool.Pool
}

var _ employee.Store = (*EmployeeRepository)(nil)

// NewEmployeeRepository creates a repository on pool.
func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

// GetAll returns every employee ordered by id.
func (r *EmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s - list employees: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	out := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("%s - scan employee: %w", repoLogPrefix, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s - list employees: %w", repoLogPrefix, err)
	}
	return out, nil
}

// GetByID returns nil without error when no row matches.
func (r *EmployeeRepository) GetByID(ctx context.Context, id int) (*employee.Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s - get employee %d: %w", repoLogPrefix, id, err)
	}
	return &e, nil
}

// Add inserts e and sets its id.
func (r *EmployeeRepository) Add(ctx context.Context, e *employee.Employee) error {
	slog.Debug(fmt.Sprintf("%s - Add %s %s", repoLogPrefix, e.FirstName, e.LastName))

	err := r.pool.QueryRow(ctx,
		`INSERT INTO employees (first_name, last_name, gender, birth_date, hire_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		e.FirstName, e.LastName, e.Gender, dateOnly(e.BirthDate), dateOnly(e.HireDate)).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("%s - insert employee: %w", repoLogPrefix, err)
	}
	return nil
}

// Update replaces every mutable column of e.ID.
func (r *EmployeeRepository) Update(ctx context.Context, e *employee.Employee) (bool, error) {
	slog.Debug(fmt.Sprintf("%s - Update id=%d", repoLogPrefix, e.ID))

	tag, err := r.pool.Exec(ctx,
		`UPDATE employees
		 SET first_name = $2, last_name = $3, gender = $4, birth_date = $5, hire_date = $6
		 WHERE id = $1`,
		e.ID, e.FirstName, e.LastName, e.Gender, dateOnly(e.BirthDate), dateOnly(e.HireDate))
	if err != nil {
		return false, fmt.Errorf("%s - update employee %d: %w", repoLogPrefix, e.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// PatchFields overwrites the present fields of id inside one transaction.
// The row is locked before the update so concurrent patches serialize.
func (r *EmployeeRepository) PatchFields(ctx context.Context, id int, fields employee.PatchFields) (bool, error) {
	set, args := patchAssignments(fields)
	if len(args) == 0 {
		return false, fmt.Errorf("%s - patch of employee %d has no fields", repoLogPrefix, id)
	}
	slog.Debug(fmt.Sprintf("%s - PatchFields id=%d fields=%v", repoLogPrefix, id, fields.Present()))

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("%s - begin patch: %w", repoLogPrefix, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int
	err = tx.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s - lock employee %d: %w", repoLogPrefix, id, err)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE employees SET %s WHERE id = $%d`, set, len(args))
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return false, fmt.Errorf("%s - patch employee %d: %w", repoLogPrefix, id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("%s - commit patch of employee %d: %w", repoLogPrefix, id, err)
	}
	return true, nil
}

// patchAssignments builds the SET clause for the present fields. Null
// strings store "", null dates store the zero date, matching PatchFields.Apply.
func patchAssignments(f employee.PatchFields) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	add := func(column string, v interface{}) {
		args = append(args, v)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if f.FirstName.IsPresent() {
		add("first_name", f.FirstName.OrElse(""))
	}
	if f.LastName.IsPresent() {
		add("last_name", f.LastName.OrElse(""))
	}
	if f.Gender.IsPresent() {
		add("gender", f.Gender.OrElse(""))
	}
	if f.BirthDate.IsPresent() {
		add("birth_date", dateOnly(f.BirthDate.OrElse(time.Time{})))
	}
	if f.HireDate.IsPresent() {
		add("hire_date", dateOnly(f.HireDate.OrElse(time.Time{})))
	}
	return strings.Join(clauses, ", "), args
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
