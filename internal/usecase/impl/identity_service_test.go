package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/service"
	"taskhub/internal/infra/auth"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type identityFixture struct {
	svc      usecase.IdentityUsecase
	userRepo *memUserRepo
	store    *memFileStore
	hasher   service.PasswordHasher
	tokenSvc service.TokenService
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"
	cfg.Auth = &config.AuthConfig{
		BcryptCost:     bcrypt.MinCost,
		AccessTokenTTL: time.Hour,
	}

	hasher := auth.NewBcryptHasher(cfg)
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	userRepo := newMemUserRepo()
	store := newMemFileStore()
	txManager := &memTxManager{userRepo: userRepo, todoRepo: newMemTodoRepo()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewIdentityService(IdentityServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenSvc,
		FileStore:    store,
		Logger:       logger,
	})

	return &identityFixture{
		svc:      svc,
		userRepo: userRepo,
		store:    store,
		hasher:   hasher,
		tokenSvc: tokenSvc,
	}
}

func registerInput(email string) *usecase.RegisterInput {
	return &usecase.RegisterInput{
		Email:       email,
		Password:    "s3cret-pass",
		DisplayName: "Alice",
	}
}

func TestRegisterCreatesCommonUser(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	out, err := fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)
	require.NotNil(t, out.User)

	assert.Equal(t, "alice@example.com", out.User.Email)
	assert.Equal(t, entity.RoleCommon, out.User.Role)
	assert.NotZero(t, out.User.ID)
	assert.Equal(t, 1, fixture.userRepo.count())
}

func TestRegisterStoresDigestNotPlaintext(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	_, err := fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)

	stored, err := fixture.userRepo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", stored.PasswordDigest)
	assert.NotContains(t, stored.PasswordDigest, "s3cret-pass")
	assert.True(t, fixture.hasher.Check("s3cret-pass", stored.PasswordDigest))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	_, err := fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)

	_, err = fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
	assert.Equal(t, 1, fixture.userRepo.count())
}

func TestRegisterCleansUpImageOnDuplicate(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	_, err := fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)

	input := registerInput("alice@example.com")
	input.ProfileImage = &usecase.ProfileImageInput{
		Filename: "avatar.png",
		Content:  strings.NewReader("png-bytes"),
	}

	_, err = fixture.svc.Register(ctx, input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))

	// The image stored before the failed insert must be gone again.
	assert.Equal(t, 0, fixture.store.stored())
	assert.Len(t, fixture.store.deleted, 1)
}

func TestRegisterValidatesInput(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input *usecase.RegisterInput
	}{
		{"missing email", &usecase.RegisterInput{Password: "pw", DisplayName: "Alice"}},
		{"missing password", &usecase.RegisterInput{Email: "a@b.com", DisplayName: "Alice"}},
		{"missing display name", &usecase.RegisterInput{Email: "a@b.com", Password: "pw"}},
		{"nil input", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.svc.Register(ctx, tc.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
	assert.Equal(t, 0, fixture.userRepo.count())
}

func TestExistsByEmail(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	exists, err := fixture.svc.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)

	exists, err = fixture.svc.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLoginValidatesInput(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input *usecase.LoginInput
	}{
		{"nil input", nil},
		{"missing email", &usecase.LoginInput{Password: "pw"}},
		{"missing password", &usecase.LoginInput{Email: "a@b.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.svc.Login(ctx, tc.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
		})
	}
}

func TestLoginIssuesTokenForRegisteredUser(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	registered, err := fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)

	out, err := fixture.svc.Login(ctx, &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	claims, err := fixture.tokenSvc.ValidateToken(out.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, entity.RoleCommon, claims.Role)

	// The response advertises the configured token lifetime in seconds.
	assert.Equal(t, int64(time.Hour.Seconds()), out.ExpiresIn)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	_, err := fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)

	// Wrong password and unknown email come back as the same error.
	_, err = fixture.svc.Login(ctx, &usecase.LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-pass",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = fixture.svc.Login(ctx, &usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestPromoteUpgradesCommonUserOnce(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	registered, err := fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)

	out, err := fixture.svc.Promote(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RolePremium, out.User.Role)

	// The fresh token carries the new role.
	claims, err := fixture.tokenSvc.ValidateToken(out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RolePremium, claims.Role)
	assert.Equal(t, int64(time.Hour.Seconds()), out.ExpiresIn)

	// A premium user cannot be promoted again.
	_, err = fixture.svc.Promote(ctx, registered.User.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAlreadyPromoted))
}

func TestPromoteUnknownUser(t *testing.T) {
	fixture := newIdentityFixture(t)

	_, err := fixture.svc.Promote(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestLoadProfileImage(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	input := registerInput("alice@example.com")
	input.ProfileImage = &usecase.ProfileImageInput{
		Filename: "avatar.png",
		Content:  strings.NewReader("png-bytes"),
	}
	registered, err := fixture.svc.Register(ctx, input)
	require.NoError(t, err)

	out, err := fixture.svc.LoadProfileImage(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, []byte("png-bytes"), out.Data)
}

func TestLoadProfileImageWithoutImage(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	registered, err := fixture.svc.Register(ctx, registerInput("alice@example.com"))
	require.NoError(t, err)

	_, err = fixture.svc.LoadProfileImage(ctx, registered.User.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrProfileImageNotFound))
}

func TestLoadProfileImageUnsupportedExtension(t *testing.T) {
	fixture := newIdentityFixture(t)
	ctx := context.Background()

	input := registerInput("alice@example.com")
	input.ProfileImage = &usecase.ProfileImageInput{
		Filename: "avatar.bmp",
		Content:  strings.NewReader("bmp-bytes"),
	}
	registered, err := fixture.svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = fixture.svc.LoadProfileImage(ctx, registered.User.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrUnsupportedImageType))
}

func TestImageContentType(t *testing.T) {
	cases := []struct {
		path string
		want string
		ok   bool
	}{
		{"a.jpg", "image/jpeg", true},
		{"a.JPEG", "image/jpeg", true},
		{"a.png", "image/png", true},
		{"a.gif", "image/gif", true},
		{"a.bmp", "", false},
		{"noext", "", false},
	}

	for _, tc := range cases {
		got, ok := imageContentType(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}
}
