package user

import (
	"context"
	"testing"
	"time"

	"github.com/apolloncare/cs618-project/domain"
	"github.com/apolloncare/cs618-project/entities"
	"github.com/apolloncare/cs618-project/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	byUsername map[string]*entities.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byUsername: make(map[string]*entities.User)}
}

func (f *fakeUserRepository) CreateUser(_ context.Context, user *entities.User) error {
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(_ context.Context, id string) (*entities.User, error) {
	for _, u := range f.byUsername {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByUsername(_ context.Context, username string) (*entities.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) GetUserByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range f.byUsername {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(_ context.Context, user *entities.User) error {
	f.byUsername[user.Username] = user
	return nil
}

func newTestService() (UserService, *fakeUserRepository, jwt.JWTService) {
	repo := newFakeUserRepository()
	jwtService := jwt.NewJWTService()
	return NewUserService(repo, jwtService), repo, jwtService
}

func TestRegister(t *testing.T) {
	svc, repo, _ := newTestService()

	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "alice", res.Username)

	stored := repo.byUsername["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse", stored.Password, "password is stored hashed")
	assert.False(t, stored.IsVerified)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestService()

	req := domain.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "correct horse"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	req.Email = "other@example.com"
	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice2", Email: "alice@example.com", Password: "correct horse",
	})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, jwtService := newTestService()

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	t.Run("valid credentials yield a usable token", func(t *testing.T) {
		res, err := svc.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "correct horse"})
		require.NoError(t, err)
		require.NotEmpty(t, res.Token)

		userID, username, err := jwtService.GetUserIDByToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.ID, userID)
		assert.Equal(t, "alice", username)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), domain.LoginRequest{Username: "nobody", Password: "whatever"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestMe(t *testing.T) {
	svc, _, _ := newTestService()

	res, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	profile, err := svc.Me(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "alice@example.com", profile.Email)
}

func TestVerifyEmail(t *testing.T) {
	svc, repo, jwtService := newTestService()

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	token, err := jwtService.GenerateTokenOneTime(map[string]any{"email": "alice@example.com"}, time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(context.Background(), token))
	assert.True(t, repo.byUsername["alice"].IsVerified)

	t.Run("garbage token", func(t *testing.T) {
		err := svc.VerifyEmail(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestResetPassword(t *testing.T) {
	svc, _, jwtService := newTestService()

	_, err := svc.Register(context.Background(), domain.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	token, err := jwtService.GenerateTokenOneTime(map[string]any{"email": "alice@example.com"}, time.Minute*30)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Token:       token,
		NewPassword: "battery staple",
	}))

	_, err = svc.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "correct horse"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), domain.LoginRequest{Username: "alice", Password: "battery staple"})
	assert.NoError(t, err)
}
