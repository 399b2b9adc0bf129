package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dineflow-pos/api/internal/model"
)

// EmployeeWithCredentials carries the password hash for login checks;
// it never leaves the auth handler.
type EmployeeWithCredentials struct {
	model.Employee
	PasswordHash string
}

const employeeColumns = `
e.id, e.employee_id, e.full_name, e.profile, e.phone, e.email, e.gender,
e.birth_date, e.address, e.date_hired, e.role_id, r.name, e.username,
e.created_at, e.updated_at`

func scanEmployee(row pgx.Row, e *model.Employee, extra ...any) error {
	dest := []any{
		&e.ID, &e.EmployeeID, &e.FullName, &e.Profile, &e.Phone, &e.Email, &e.Gender,
		&e.BirthDate, &e.Address, &e.DateHired, &e.RoleID, &e.RoleName, &e.Username,
		&e.CreatedAt, &e.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (q *Queries) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	sql := `SELECT ` + employeeColumns + `
FROM employees e
JOIN roles r ON r.id = e.role_id
ORDER BY e.full_name`

	rows, err := q.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []model.Employee{}
	for rows.Next() {
		var e model.Employee
		if err := scanEmployee(rows, &e); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (q *Queries) GetEmployeeByUsername(ctx context.Context, username string) (EmployeeWithCredentials, error) {
	sql := `SELECT ` + employeeColumns + `, e.password_hash
FROM employees e
JOIN roles r ON r.id = e.role_id
WHERE e.username = $1`

	var e EmployeeWithCredentials
	err := scanEmployee(q.db.QueryRow(ctx, sql, username), &e.Employee, &e.PasswordHash)
	return e, err
}

type CreateEmployeeParams struct {
	EmployeeID   string
	FullName     string
	Profile      string
	Phone        string
	Email        string
	Gender       string
	BirthDate    string
	Address      string
	DateHired    string
	RoleID       int64
	Username     string
	PasswordHash string
}

const createEmployeeSQL = `
INSERT INTO employees
  (employee_id, full_name, profile, phone, email, gender, birth_date, address,
   date_hired, role_id, username, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id`

func (q *Queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (model.Employee, error) {
	var id int64
	err := q.db.QueryRow(ctx, createEmployeeSQL,
		arg.EmployeeID, arg.FullName, arg.Profile, arg.Phone, arg.Email, arg.Gender,
		arg.BirthDate, arg.Address, arg.DateHired, arg.RoleID, arg.Username, arg.PasswordHash,
	).Scan(&id)
	if err != nil {
		return model.Employee{}, err
	}
	return q.GetEmployee(ctx, id)
}

func (q *Queries) GetEmployee(ctx context.Context, id int64) (model.Employee, error) {
	sql := `SELECT ` + employeeColumns + `
FROM employees e
JOIN roles r ON r.id = e.role_id
WHERE e.id = $1`

	var e model.Employee
	err := scanEmployee(q.db.QueryRow(ctx, sql, id), &e)
	return e, err
}

type UpdateEmployeeParams struct {
	ID           int64
	EmployeeID   string
	FullName     string
	Profile      string
	Phone        string
	Email        string
	Gender       string
	BirthDate    string
	Address      string
	DateHired    string
	RoleID       int64
	Username     string
	PasswordHash string // empty keeps the current password
}

const updateEmployeeSQL = `
UPDATE employees
SET employee_id = $2, full_name = $3, profile = $4, phone = $5, email = $6,
    gender = $7, birth_date = $8, address = $9, date_hired = $10, role_id = $11,
    username = $12,
    password_hash = CASE WHEN $13 = '' THEN password_hash ELSE $13 END,
    updated_at = now()
WHERE id = $1
RETURNING id`

func (q *Queries) UpdateEmployee(ctx context.Context, arg UpdateEmployeeParams) (model.Employee, error) {
	var id int64
	err := q.db.QueryRow(ctx, updateEmployeeSQL,
		arg.ID, arg.EmployeeID, arg.FullName, arg.Profile, arg.Phone, arg.Email,
		arg.Gender, arg.BirthDate, arg.Address, arg.DateHired, arg.RoleID,
		arg.Username, arg.PasswordHash,
	).Scan(&id)
	if err != nil {
		return model.Employee{}, err
	}
	return q.GetEmployee(ctx, id)
}

const deleteEmployeeSQL = `DELETE FROM employees WHERE id = $1`

func (q *Queries) DeleteEmployee(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteEmployeeSQL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const listRolesSQL = `SELECT id, name FROM roles ORDER BY id`

func (q *Queries) ListRoles(ctx context.Context) ([]model.Role, error) {
	rows, err := q.db.Query(ctx, listRolesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []model.Role{}
	for rows.Next() {
		var r model.Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}
