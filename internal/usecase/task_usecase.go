// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// CreateTodoInput defines the data required to create a new todo.
type CreateTodoInput struct {
	Title string `json:"title" validate:"required"`
}

// UpdateTodoInput defines a partial update of an existing todo.
// Nil fields are left unchanged.
type UpdateTodoInput struct {
	ID    uuid.UUID `json:"id" validate:"required"`
	Title *string   `json:"title"`
	Done  *bool     `json:"done"`
}

// --- Output DTOs ---

// TodoView is the outward-facing projection of a todo.
type TodoView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewTodoView maps a domain todo to its response projection.
func NewTodoView(todo *entity.Todo) *TodoView {
	if todo == nil {
		return nil
	}

	return &TodoView{
		ID:        todo.ID,
		Title:     todo.Title,
		Done:      todo.Done,
		CreatedAt: todo.CreatedAt,
	}
}

// TodoOutput returns a single affected todo.
type TodoOutput struct {
	Todo *TodoView `json:"todo"`
}

// TodoListOutput returns the caller's todos, ordered by creation time ascending.
type TodoListOutput struct {
	Todos []*TodoView `json:"todos"`
}

// NewTodoListOutput maps a slice of domain todos to the list projection.
func NewTodoListOutput(todos []*entity.Todo) *TodoListOutput {
	views := make([]*TodoView, 0, len(todos))
	for _, todo := range todos {
		views = append(views, NewTodoView(todo))
	}

	return &TodoListOutput{Todos: views}
}

// TaskUsecase defines the interface for todo operations. Every operation is
// scoped to the calling user; mutations verify ownership before touching a record.
type TaskUsecase interface {
	// Create persists a new todo owned by ownerID and returns it.
	Create(ctx context.Context, ownerID uuid.UUID, input *CreateTodoInput) (*TodoOutput, error)

	// List returns all todos owned by ownerID, oldest first.
	List(ctx context.Context, ownerID uuid.UUID) (*TodoListOutput, error)

	// Update applies the non-nil fields of input to the todo. Fails when the
	// todo does not exist or is owned by someone else.
	Update(ctx context.Context, ownerID uuid.UUID, input *UpdateTodoInput) (*TodoOutput, error)

	// Delete removes the todo and returns the owner's remaining list.
	// Same ownership rules as Update.
	Delete(ctx context.Context, ownerID uuid.UUID, todoID uuid.UUID) (*TodoListOutput, error)
}
