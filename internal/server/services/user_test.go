package services

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mvalens/leadkeeper/internal/common"
	"github.com/mvalens/leadkeeper/internal/dbx"
	"github.com/mvalens/leadkeeper/internal/server/models"
	"github.com/mvalens/leadkeeper/internal/server/repositories/refreshtokens"
	"github.com/mvalens/leadkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byEmail   map[string]*models.User
	createErr error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return nil, common.ErrAlreadyExists
	}
	u := *user
	u.ID = "user-" + user.Email
	f.byEmail[user.Email] = &u
	return &u, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeRefreshRepo struct {
	tokens map[string]*models.RefreshToken
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	f.tokens[token] = &models.RefreshToken{
		UserID: userID, Token: token, Expires: time.Now().Add(validity),
	}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

func newUserServiceFixture() (*UserService, *fakeUserRepo, *fakeRefreshRepo) {
	userRepo := &fakeUserRepo{byEmail: map[string]*models.User{}}
	refreshRepo := &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
	svc := &UserService{
		users:                        func(dbx.DBTX) users.Repository { return userRepo },
		refreshTokens:                func(dbx.DBTX) refreshtokens.Repository { return refreshRepo },
		jwtSecret:                    []byte("test-secret"),
		accessTokenValidityDuration:  15 * time.Minute,
		refreshTokenValidityDuration: 24 * time.Hour,
	}
	return svc, userRepo, refreshRepo
}

func TestRegister(t *testing.T) {
	svc, userRepo, refreshRepo := newUserServiceFixture()

	pair, err := svc.Register(context.Background(), "Ana@X.com", "password1", "Ana Gomez")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// Email is normalized and the password stored as a bcrypt hash.
	stored, ok := userRepo.byEmail["ana@x.com"]
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte("password1")))
	assert.Len(t, refreshRepo.tokens, 1)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	_, err := svc.Register(context.Background(), "not-an-email", "password1", "")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Register(context.Background(), "a@x.com", "short", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserServiceFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "password2", "")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newUserServiceFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	userID, err := svc.UserIDFromToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-a@x.com", userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newUserServiceFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "password1", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	_, err := svc.Login(context.Background(), "ghost@x.com", "password1")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRefreshToken_Unknown(t *testing.T) {
	svc, _, _ := newUserServiceFixture()

	_, err := svc.RefreshToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRefreshToken_Expired(t *testing.T) {
	svc, _, refreshRepo := newUserServiceFixture()

	refreshRepo.tokens["stale"] = &models.RefreshToken{
		UserID: "u1", Token: "stale", Expires: time.Now().Add(-time.Hour),
	}

	_, err := svc.RefreshToken(context.Background(), "stale")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}
