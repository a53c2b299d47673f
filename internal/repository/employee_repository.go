package repository

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EmployeeRepository reads employee records maintained by the directory
// service. The ticket engine only ever reads them.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Employee, error)
	GetByUsername(ctx context.Context, username string) (*domain.Employee, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type employeeRepository struct {
	db Querier
}

func NewEmployeeRepository(db Querier) EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeSelect = `
        SELECT e.id, e.first_name, e.last_name, e.full_name, e.employee_num, e.username,
               e.password_hash, e.created_at, e.department_id, e.company_id, e.local_id,
               d.name, co.name, lo.name
        FROM employees e
        JOIN departments d ON d.id = e.department_id
        JOIN companies co ON co.id = e.company_id
        JOIN locals lo ON lo.id = e.local_id`

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	employee, err := r.scanOne(ctx, employeeSelect+" WHERE e.id = $1", id)
	if err != nil {
		return nil, err
	}
	return r.enrich(ctx, employee)
}

func (r *employeeRepository) GetByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	employee, err := r.scanOne(ctx, employeeSelect+" WHERE e.username = $1", username)
	if err != nil {
		return nil, err
	}
	return r.enrich(ctx, employee)
}

func (r *employeeRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Employee, error) {
	employees := map[int64]*domain.Employee{}
	if len(ids) == 0 {
		return employees, nil
	}
	rows, err := r.db.Query(ctx, employeeSelect+" WHERE e.id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees[employee.ID] = employee
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, employee := range employees {
		if _, err := r.enrich(ctx, employee); err != nil {
			return nil, err
		}
	}
	return employees, nil
}

func (r *employeeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id=$1)`, id).Scan(&exists)
	return exists, err
}

func (r *employeeRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	return scanEmployee(r.db.QueryRow(ctx, query, arg))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var (
		employee       domain.Employee
		departmentName string
		companyName    string
		localName      string
	)
	err := row.Scan(
		&employee.ID, &employee.FirstName, &employee.LastName, &employee.FullName,
		&employee.EmployeeNum, &employee.Username, &employee.PasswordHash, &employee.CreatedAt,
		&employee.DepartmentID, &employee.CompanyID, &employee.LocalID,
		&departmentName, &companyName, &localName,
	)
	if err != nil {
		return nil, err
	}
	employee.Department = &domain.Lookup{ID: employee.DepartmentID, Name: departmentName}
	employee.Company = &domain.Company{ID: employee.CompanyID, Name: companyName}
	employee.Local = &domain.Lookup{ID: employee.LocalID, Name: localName}
	return &employee, nil
}

func (r *employeeRepository) enrich(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	contacts, err := r.listContacts(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	employee.Contacts = contacts

	permissions, err := r.listPermissions(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	employee.Permissions = permissions
	return employee, nil
}

func (r *employeeRepository) listContacts(ctx context.Context, employeeID int64) ([]domain.EmployeeContact, error) {
	const query = `
        SELECT c.id, ct.name, c.value, c.main, c.public
        FROM employee_contacts c
        JOIN employee_contact_types ct ON ct.id = c.type_id
        WHERE c.employee_id = $1
        ORDER BY c.id`
	rows, err := r.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []domain.EmployeeContact{}
	for rows.Next() {
		var c domain.EmployeeContact
		if err := rows.Scan(&c.ID, &c.Type, &c.Value, &c.Main, &c.Public); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *employeeRepository) listPermissions(ctx context.Context, employeeID int64) ([]string, error) {
	const query = `
        SELECT p.name
        FROM employee_permissions ep
        JOIN permissions p ON p.id = ep.permission_id
        WHERE ep.employee_id = $1
        ORDER BY p.name`
	rows, err := r.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	permissions := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		permissions = append(permissions, name)
	}
	return permissions, rows.Err()
}
