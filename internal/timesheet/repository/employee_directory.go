package repository

import (
	"context"
	"database/sql"

	"github.com/opsdesk/opsdesk-backend/pkg/database"
)

// DirectoryEmployee is the locally cached directory record for an employee,
// kept in sync from identity-service events. Ids and names are opaque here.
type DirectoryEmployee struct {
	EmployeeID string  `db:"employee_id" json:"employee_id"`
	Name       string  `db:"name" json:"name"`
	Email      *string `db:"email" json:"email,omitempty"`
}

// EmployeeDirectoryRepository handles the employee directory cache
type EmployeeDirectoryRepository struct {
	db *database.DB
}

// NewEmployeeDirectoryRepository creates a new employee directory repository
func NewEmployeeDirectoryRepository(db *database.DB) *EmployeeDirectoryRepository {
	return &EmployeeDirectoryRepository{db: db}
}

// Set creates or updates a directory record
func (r *EmployeeDirectoryRepository) Set(ctx context.Context, emp *DirectoryEmployee) error {
	query := `
		INSERT INTO employee_directory (employee_id, name, email, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (employee_id)
		DO UPDATE SET name = $2, email = $3, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, emp.EmployeeID, emp.Name, emp.Email)
	return err
}

// Get gets a directory record by employee ID, or nil if unknown
func (r *EmployeeDirectoryRepository) Get(ctx context.Context, employeeID string) (*DirectoryEmployee, error) {
	var emp DirectoryEmployee
	query := `SELECT employee_id, name, email FROM employee_directory WHERE employee_id = $1`

	err := r.db.GetContext(ctx, &emp, query, employeeID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &emp, nil
}

// Delete removes a directory record
func (r *EmployeeDirectoryRepository) Delete(ctx context.Context, employeeID string) error {
	query := `DELETE FROM employee_directory WHERE employee_id = $1`
	_, err := r.db.ExecContext(ctx, query, employeeID)
	return err
}
