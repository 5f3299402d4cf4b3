// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"io"
	"time"

	"taskhub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ProfileImageInput carries an optional profile image attached to a registration.
type ProfileImageInput struct {
	Filename string
	Content  io.Reader
}

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	DisplayName  string `json:"displayName" validate:"required"`
	ProfileImage *ProfileImageInput `json:"-"`
}

// LoginInput defines the data required for a user to sign in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// UserView is the safe, outward-facing projection of a user.
// It deliberately has no field for the password digest.
type UserView struct {
	ID               uuid.UUID   `json:"id"`
	Email            string      `json:"email"`
	DisplayName      string      `json:"displayName"`
	Role             entity.Role `json:"role"`
	ProfileImagePath string      `json:"profileImagePath,omitempty"`
	JoinedAt         time.Time   `json:"joinedAt"`
}

// NewUserView maps a domain user to its response projection.
func NewUserView(user *entity.User) *UserView {
	if user == nil {
		return nil
	}

	return &UserView{
		ID:               user.ID,
		Email:            user.Email,
		DisplayName:      user.DisplayName,
		Role:             user.Role,
		ProfileImagePath: user.ProfileImagePath,
		JoinedAt:         user.JoinedAt,
	}
}

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *UserView `json:"user"`
}

// LoginOutput returns the signed-in user and a fresh access token.
// ExpiresIn is the token lifetime in seconds, so clients can schedule
// re-authentication without decoding the token.
type LoginOutput struct {
	User      *UserView `json:"user"`
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
}

// PromoteOutput returns the promoted user together with a token that
// carries the new role. Tokens issued before the promotion keep the old
// role claim until they expire.
type PromoteOutput struct {
	User      *UserView `json:"user"`
	Token     string    `json:"token"`
	ExpiresIn int64     `json:"expiresIn"`
}

// ProfileImageOutput carries raw image bytes and the content type derived
// from the stored file's extension.
type ProfileImageOutput struct {
	Data        []byte
	ContentType string
}

// IdentityUsecase defines the interface for the user identity and
// authorization lifecycle. This is the contract that the delivery layer
// (e.g., API handlers) will depend on.
type IdentityUsecase interface {
	// ExistsByEmail reports whether the email is already registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Register creates a new common-tier account, hashing the password and
	// storing the optional profile image. A duplicate email fails the whole
	// operation, leaving neither a row nor a stored file behind.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies credentials and issues an access token. Unknown email
	// and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// Promote upgrades a common-tier user to premium and issues a fresh
	// token carrying the new role. Fails for any other starting tier.
	Promote(ctx context.Context, userID uuid.UUID) (*PromoteOutput, error)

	// LoadProfileImage returns the caller's stored profile image bytes and
	// content type.
	LoadProfileImage(ctx context.Context, userID uuid.UUID) (*ProfileImageOutput, error)
}
