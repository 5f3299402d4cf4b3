// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core entity in the system, representing a single registered account.
type User struct {
	ID               uuid.UUID // The Global Unique Identifier (GUID) for the user, assigned by the database.
	Email            string    // The user's login identifier. Unique across all users, stored exactly as entered.
	PasswordDigest   string    // The bcrypt hash of the user's password. Never exposed outside the persistence and identity layers.
	DisplayName      string    // The user's display name. Required at sign-up.
	Role             Role      // The membership tier. Defaults to RoleCommon; changed only by the promotion operation.
	ProfileImagePath string    // Path of the stored profile image in the file store. Empty when the user never uploaded one.
	JoinedAt         time.Time // Timestamp of when this account was created. Immutable.
	UpdatedAt        time.Time // Timestamp of the last modification to this user's data.
}

// CanBePromoted reports whether the promotion operation is allowed for this
// user. Only common-tier members can be promoted; promoting a premium or
// admin account is an invalid state transition.
func (u *User) CanBePromoted() bool {
	return u.Role == RoleCommon
}
