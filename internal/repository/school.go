package repository

import (
	"context"

	"schoolapi/internal/model"
)

// SchoolRepository is the persistence gateway for schools. Each method runs as one
// transaction on its own connection and never recovers errors locally.
type SchoolRepository interface {
	// List returns every school in store order. An empty store yields an empty slice.
	List(ctx context.Context) ([]model.School, error)

	// FindByID returns the school with the given id, or an error matching ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.School, error)

	// Create inserts the school and returns it as stored, with its assigned id.
	Create(ctx context.Context, in model.CreateSchool) (*model.School, error)

	// Delete removes the school with the given id and returns how many rows went away.
	// A missing id is not an error; it yields 0.
	Delete(ctx context.Context, id int64) (int64, error)
}
