package repository

import (
	"context"
	"errors"

	"studentapi/internal/model"
)

var (
	// ErrNotFound means no student matched the given id.
	ErrNotFound = errors.New("student not found")
	// ErrDuplicateKey means a student with the same id already exists.
	ErrDuplicateKey = errors.New("student id already exists")
	// ErrStorage wraps every other failure reported by the store.
	ErrStorage = errors.New("storage operation failed")
)

// SortDirection orders a list by a single field.
type SortDirection int

const (
	SortAscending  SortDirection = 1
	SortDescending SortDirection = -1
)

// ListQuery holds the optional single-field sort for List.
// The sort is applied only when Field is set.
type ListQuery struct {
	Field     string
	Direction SortDirection
}

// StudentRepository defines data access for students over a single collection.
// Persistence only, no business logic.
type StudentRepository interface {
	// List returns every student, sorted when q.Field is set. An empty collection yields an empty slice.
	List(ctx context.Context, q ListQuery) ([]model.Student, error)

	// FindByID returns a student by id or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Student, error)

	// Create inserts a new student and returns its id. A taken id yields ErrDuplicateKey.
	Create(ctx context.Context, s model.Student) (string, error)

	// Update sets only the supplied fields and returns how many documents changed (0 or 1).
	Update(ctx context.Context, id string, fields model.UpdateStudentRequest) (int64, error)

	// Delete removes a student and returns how many documents were deleted (0 or 1).
	Delete(ctx context.Context, id string) (int64, error)
}
