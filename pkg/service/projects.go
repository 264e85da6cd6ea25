package service

import (
	"context"

	"github.com/doodlesbykumbi/credstore/pkg/audit"
	"github.com/doodlesbykumbi/credstore/pkg/identity"
	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Projects manages project records under customers.
type Projects struct {
	projects    store.ProjectsStore
	customers   store.CustomersStore
	recorder    *audit.Recorder
	pageSizeMax int
}

// NewProjects creates a new Projects service
func NewProjects(projects store.ProjectsStore, customers store.CustomersStore, recorder *audit.Recorder, pageSizeMax int) *Projects {
	return &Projects{projects: projects, customers: customers, recorder: recorder, pageSizeMax: pageSizeMax}
}

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	CustomerID  int64
	Name        string
	Description string
}

// ProjectPage is a paginated list result.
type ProjectPage struct {
	Items []model.Project `json:"items"`
	Total int64           `json:"total"`
	Skip  int             `json:"skip"`
	Limit int             `json:"limit"`
}

func (s *Projects) Create(ctx context.Context, who identity.Identity, input CreateProjectInput) (*model.Project, error) {
	if input.Name == "" {
		return nil, invalidf("name is required")
	}
	if _, err := s.customers.GetCustomer(input.CustomerID); err != nil {
		return nil, err
	}
	project := &model.Project{
		CustomerID:  input.CustomerID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.projects.CreateProject(project); err != nil {
		return nil, err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "create_project",
		ResourceType: audit.ResourceProject,
		ResourceID:   &project.ID,
		CustomerID:   &project.CustomerID,
		ProjectID:    &project.ID,
		Details:      "name: " + project.Name,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return project, nil
}

func (s *Projects) Get(ctx context.Context, id int64) (*model.Project, error) {
	return s.projects.GetProject(id)
}

func (s *Projects) List(ctx context.Context, customerID *int64, skip, limit int) (*ProjectPage, error) {
	skip, limit = normalizePage(skip, limit, s.pageSizeMax)
	items, err := s.projects.ListProjects(customerID, skip, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.projects.CountProjects(customerID)
	if err != nil {
		return nil, err
	}
	return &ProjectPage{Items: items, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *Projects) Update(ctx context.Context, who identity.Identity, id int64, patch store.ProjectPatch) (*model.Project, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, invalidf("name cannot be empty")
	}
	project, err := s.projects.UpdateProject(id, patch)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "update_project",
		ResourceType: audit.ResourceProject,
		ResourceID:   &project.ID,
		CustomerID:   &project.CustomerID,
		ProjectID:    &project.ID,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return project, nil
}

func (s *Projects) Delete(ctx context.Context, who identity.Identity, id int64) error {
	project, err := s.projects.GetProject(id)
	if err != nil {
		return err
	}
	if err := s.projects.DeleteProject(id); err != nil {
		return err
	}
	s.recorder.Record(audit.Entry{
		UserID:       who.UserID,
		Action:       "delete_project",
		ResourceType: audit.ResourceProject,
		ResourceID:   &project.ID,
		CustomerID:   &project.CustomerID,
		ProjectID:    &project.ID,
		IPAddress:    who.RemoteIP,
		UserAgent:    who.UserAgent,
	})
	return nil
}
