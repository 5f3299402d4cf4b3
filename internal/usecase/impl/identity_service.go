// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// identityService implements the IdentityUsecase interface.
type identityService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	fileStore    service.FileStore
	logger       *slog.Logger
}

// IdentityServiceParams holds dependencies for identityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	FileStore    service.FileStore
	Logger       *slog.Logger
}

// NewIdentityService is the constructor for identityService. It receives all dependencies as interfaces.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	return &identityService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		fileStore:    params.FileStore,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ExistsByEmail reports whether the email is already registered.
func (srv *identityService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, domainerrors.ErrValidationFailed.WrapMessage("email is required")
	}

	exists, err := srv.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, errors.Wrap(err, "failed to check email existence")
	}

	return exists, nil
}

// Register orchestrates the complete registration process: optional image
// upload, duplicate check and user insert. The duplicate check and the
// insert run back to back inside one transaction; everything else happens
// before or after it.
func (srv *identityService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	// Validation runs before anything reads input; a nil input must not
	// reach the logging or hashing below.
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	// Store the image before opening the transaction so no unrelated work
	// sits between the duplicate check and the insert. The stored file is
	// removed again if registration fails for any reason.
	imagePath := ""
	if input.ProfileImage != nil {
		imagePath, err = srv.fileStore.Save(ctx, input.ProfileImage.Filename, input.ProfileImage.Content)
		if err != nil {
			srv.log(ctx).Error("Failed to store profile image", slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to store profile image")
		}
	}

	newUser := &entity.User{
		Email:            input.Email,
		PasswordDigest:   hashedPassword,
		DisplayName:      input.DisplayName,
		Role:             entity.RoleCommon,
		ProfileImagePath: imagePath,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		exists, err := userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return errors.Wrap(err, "failed to check for duplicate email")
		}
		if exists {
			return domainerrors.ErrDuplicateEmail.WrapMessage("registration failed")
		}

		return userRepo.Create(ctx, newUser)
	})

	if err != nil {
		srv.cleanupStoredImage(ctx, imagePath)
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return &usecase.RegisterOutput{User: usecase.NewUserView(newUser)}, nil
}

// Login verifies credentials and issues a fresh access token.
func (srv *identityService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input == nil || strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("email and password are required")
	}

	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		// Unknown email and wrong password must look the same to the caller,
		// so the email enumeration path is closed.
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordDigest) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.tokenService.GenerateToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		User:      usecase.NewUserView(user),
		Token:     token,
		ExpiresIn: int64(srv.tokenService.GetAccessTokenDuration().Seconds()),
	}, nil
}

// Promote upgrades a common-tier user to premium. The role check and the
// update run in one transaction; the fresh token is issued afterwards.
func (srv *identityService) Promote(ctx context.Context, userID uuid.UUID) (*usecase.PromoteOutput, error) {
	srv.log(ctx).Info("Starting promotion", slog.Any("userID", userID))

	var promotedUser *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("promotion failed")
			}

			return errors.Wrap(err, "failed to find user by id")
		}

		if !user.CanBePromoted() {
			return domainerrors.ErrAlreadyPromoted.WrapMessage("promotion failed")
		}

		user.Role = entity.RolePremium
		if err := userRepo.Update(ctx, user); err != nil {
			return errors.WithStack(err)
		}
		promotedUser = user

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute promotion transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute promotion transaction")
	}

	// Tokens issued before this point keep the COMMON role claim until they
	// expire; only the freshly issued token carries PREMIUM.
	token, err := srv.tokenService.GenerateToken(promotedUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token after promotion")
	}

	srv.log(ctx).Debug("Promotion completed", slog.Any("userID", promotedUser.ID))

	return &usecase.PromoteOutput{
		User:      usecase.NewUserView(promotedUser),
		Token:     token,
		ExpiresIn: int64(srv.tokenService.GetAccessTokenDuration().Seconds()),
	}, nil
}

// LoadProfileImage returns the stored profile image bytes and the content
// type derived from the stored path's extension.
func (srv *identityService) LoadProfileImage(ctx context.Context, userID uuid.UUID) (*usecase.ProfileImageOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("failed to load profile image")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	if user.ProfileImagePath == "" {
		return nil, domainerrors.ErrProfileImageNotFound.WrapMessage("no profile image registered")
	}

	contentType, ok := imageContentType(user.ProfileImagePath)
	if !ok {
		return nil, domainerrors.ErrUnsupportedImageType.WrapMessage("stored file has an unsupported extension")
	}

	data, err := srv.fileStore.Load(ctx, user.ProfileImagePath)
	if err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			return nil, domainerrors.ErrProfileImageNotFound.WrapMessage("stored file is missing")
		}

		return nil, errors.Wrap(err, "failed to load profile image")
	}

	return &usecase.ProfileImageOutput{
		Data:        data,
		ContentType: contentType,
	}, nil
}

// cleanupStoredImage removes an image stored for a registration that did not
// go through. A failed cleanup is logged, never surfaced: the caller's error
// is the registration failure itself.
func (srv *identityService) cleanupStoredImage(ctx context.Context, imagePath string) {
	if imagePath == "" {
		return
	}

	if err := srv.fileStore.Delete(ctx, imagePath); err != nil {
		srv.log(ctx).Warn("Failed to clean up profile image after failed registration",
			slog.String("path", imagePath), slog.Any("error", err))
	}
}

func validateRegisterInput(input *usecase.RegisterInput) error {
	if input == nil {
		return domainerrors.ErrValidationFailed.WrapMessage("registration input is required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("email is required")
	}
	if input.Password == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("password is required")
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("display name is required")
	}

	return nil
}

// imageContentType maps a stored file extension to its HTTP content type.
// Only the three image formats the frontend uploads are recognized.
func imageContentType(path string) (string, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", true
	case ".png":
		return "image/png", true
	case ".gif":
		return "image/gif", true
	default:
		return "", false
	}
}
