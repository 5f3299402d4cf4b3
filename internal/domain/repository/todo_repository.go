// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTodoNotFound is a domain-specific error returned when a todo is not found.
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository defines the standard operations for todo persistence.
type TodoRepository interface {
	// FindByID retrieves a single todo by its unique ID, regardless of owner.
	// Ownership checks belong to the application layer.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Todo, error)

	// ListByOwner returns all todos owned by the given user,
	// ordered by creation time ascending.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Todo, error)

	// Create persists a new todo entity to the storage.
	Create(ctx context.Context, todo *entity.Todo) error

	// Update modifies an existing todo entity in the storage.
	Update(ctx context.Context, todo *entity.Todo) error

	// Delete removes a todo by its ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
