// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Todo is a single task item owned by exactly one user.
// Visibility and mutation are restricted to the owner.
type Todo struct {
	ID        uuid.UUID // The unique ID for this todo record.
	OwnerID   uuid.UUID // Links this todo to the User that created it. Immutable.
	Title     string    // The task text. Required; no uniqueness constraint.
	Done      bool      // Completion flag, toggled freely by the owner.
	CreatedAt time.Time // Timestamp of when this todo was created.
	UpdatedAt time.Time // Timestamp of the last modification to this todo.
}

// OwnedBy reports whether the given user is the owner of this todo.
// Every mutation path must pass this check before touching the record.
func (t *Todo) OwnedBy(userID uuid.UUID) bool {
	return t.OwnerID == userID
}
