package store

import "github.com/doodlesbykumbi/credstore/pkg/model"

// ProjectPatch carries partial updates. Nil fields are left untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// ProjectsStore abstracts project persistence
type ProjectsStore interface {
	// CreateProject inserts a project. Returns ErrConflict when the name is
	// taken within the customer.
	CreateProject(project *model.Project) error

	// GetProject retrieves a project by id. Returns ErrNotFound if absent.
	GetProject(id int64) (*model.Project, error)

	// GetProjectByName retrieves a project by name within a customer.
	GetProjectByName(customerID int64, name string) (*model.Project, error)

	// ListProjects returns projects ordered by name, optionally narrowed to
	// one customer.
	ListProjects(customerID *int64, skip, limit int) ([]model.Project, error)

	// CountProjects returns the number of projects, optionally narrowed to
	// one customer.
	CountProjects(customerID *int64) (int64, error)

	// UpdateProject applies a partial update.
	UpdateProject(id int64, patch ProjectPatch) (*model.Project, error)

	// DeleteProject removes a project row.
	DeleteProject(id int64) error
}
