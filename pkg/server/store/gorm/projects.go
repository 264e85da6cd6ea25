package gorm

import (
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/credstore/pkg/model"
	"github.com/doodlesbykumbi/credstore/pkg/server/store"
)

// Ensure ProjectsStore implements store.ProjectsStore
var _ store.ProjectsStore = (*ProjectsStore)(nil)

// ProjectsStore implements store.ProjectsStore using GORM
type ProjectsStore struct {
	db *gorm.DB
}

// NewProjectsStore creates a new ProjectsStore
func NewProjectsStore(db *gorm.DB) *ProjectsStore {
	return &ProjectsStore{db: db}
}

func (s *ProjectsStore) CreateProject(project *model.Project) error {
	return translateError(s.db.Create(project).Error)
}

func (s *ProjectsStore) GetProject(id int64) (*model.Project, error) {
	var project model.Project
	if err := s.db.First(&project, id).Error; err != nil {
		return nil, wrapNotFound(err, "project", id)
	}
	return &project, nil
}

func (s *ProjectsStore) GetProjectByName(customerID int64, name string) (*model.Project, error) {
	var project model.Project
	err := s.db.Where("customer_id = ? AND name = ?", customerID, name).First(&project).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &project, nil
}

func (s *ProjectsStore) ListProjects(customerID *int64, skip, limit int) ([]model.Project, error) {
	projects := make([]model.Project, 0)
	query := s.db.Order("name").Offset(skip).Limit(limit)
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	err := query.Find(&projects).Error
	return projects, err
}

func (s *ProjectsStore) CountProjects(customerID *int64) (int64, error) {
	var count int64
	query := s.db.Model(&model.Project{})
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (s *ProjectsStore) UpdateProject(id int64, patch store.ProjectPatch) (*model.Project, error) {
	project, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if len(updates) > 0 {
		if err := s.db.Model(project).Updates(updates).Error; err != nil {
			return nil, translateError(err)
		}
	}
	return project, nil
}

func (s *ProjectsStore) DeleteProject(id int64) error {
	result := s.db.Delete(&model.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
