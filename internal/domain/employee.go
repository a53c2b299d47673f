package domain

import "time"

// Employee is a referenced-by-id collaborator; the ticket engine never
// mutates employees except for the CC edge on tickets.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	FullName     string
	EmployeeNum  *string
	Username     *string
	PasswordHash *string
	CreatedAt    time.Time

	DepartmentID int64
	CompanyID    int64
	LocalID      int64

	Department *Lookup
	Company    *Company
	Local      *Lookup
	Contacts   []EmployeeContact

	Permissions []string
}

// MainEmail returns the employee's primary email contact, if any.
func (e *Employee) MainEmail() string {
	for _, c := range e.Contacts {
		if c.Type == ContactTypeEmail && c.Main {
			return c.Value
		}
	}
	for _, c := range e.Contacts {
		if c.Type == ContactTypeEmail {
			return c.Value
		}
	}
	return ""
}

// Contact type labels stored in employee_contact_types.
const (
	ContactTypeEmail = "email"
	ContactTypePhone = "phone"
)

// EmployeeContact is a single contact entry (email, phone) for an employee.
type EmployeeContact struct {
	ID     int64
	Type   string
	Value  string
	Main   bool
	Public bool
}

// Company groups employees and owns tickets.
type Company struct {
	ID   int64
	Name string
}
