package service

import (
	"context"
	"errors"

	"studentapi/internal/model"
	"studentapi/internal/repository"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrNotFound     = repository.ErrNotFound
	ErrDuplicateKey = repository.ErrDuplicateKey
)

// CreateResult is returned after a student is inserted.
type CreateResult struct {
	StudentID string `json:"student_id"`
}

// UpdateResult reports how many documents a partial update changed.
type UpdateResult struct {
	StudentID     string `json:"student_id"`
	ModifiedCount int64  `json:"modified_count"`
}

// DeleteResult reports how many documents a delete removed.
type DeleteResult struct {
	StudentID    string `json:"student_id"`
	DeletedCount int64  `json:"deleted_count"`
}

// StudentService defines the use cases for handling students.
type StudentService interface {
	// List returns all students. Sorting applies only when both sortBy and order are set;
	// order "desc" sorts descending and anything else ascending.
	List(ctx context.Context, sortBy, order string) ([]model.Student, error)

	// Get returns a single student by id.
	Get(ctx context.Context, id string) (*model.Student, error)

	// Create stores a new student using the supplied id.
	Create(ctx context.Context, req model.CreateStudentRequest) (*CreateResult, error)

	// Update writes only the fields present in req.
	Update(ctx context.Context, id string, req model.UpdateStudentRequest) (*UpdateResult, error)

	// Delete removes a student by id.
	Delete(ctx context.Context, id string) (*DeleteResult, error)
}

// studentService is a concrete implementation of StudentService.
type studentService struct {
	repo repository.StudentRepository
}

// NewStudentService constructs a new StudentService.
func NewStudentService(repo repository.StudentRepository) StudentService {
	return &studentService{repo: repo}
}

func (s *studentService) List(ctx context.Context, sortBy, order string) ([]model.Student, error) {
	var q repository.ListQuery
	if sortBy != "" && order != "" {
		q = repository.ListQuery{Field: sortBy, Direction: sortDirection(order)}
	}
	return s.repo.List(ctx, q)
}

func (s *studentService) Get(ctx context.Context, id string) (*model.Student, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, id)
}

func (s *studentService) Create(ctx context.Context, req model.CreateStudentRequest) (*CreateResult, error) {
	if req.ID == "" {
		return nil, ErrIDRequired
	}
	id, err := s.repo.Create(ctx, req.Student())
	if err != nil {
		return nil, err
	}
	return &CreateResult{StudentID: id}, nil
}

func (s *studentService) Update(ctx context.Context, id string, req model.UpdateStudentRequest) (*UpdateResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	n, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{StudentID: id, ModifiedCount: n}, nil
}

func (s *studentService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteResult{StudentID: id, DeletedCount: n}, nil
}

func sortDirection(order string) repository.SortDirection {
	if order == "desc" {
		return repository.SortDescending
	}
	return repository.SortAscending
}
