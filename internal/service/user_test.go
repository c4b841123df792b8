package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bianca-8/reload-rage/internal/model"
)

// mockUserRepository fakes the repository so these tests never touch a real
// store. Each test overrides just the functions it cares about.
type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)

	createCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) IncrementViewCount(ctx context.Context, userID int64) error {
	return nil
}

func (m *mockUserRepository) TopByViewCount(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return nil, nil
}

func (m *mockUserRepository) SumViewCounts(ctx context.Context) (int64, error) {
	return 0, nil
}

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			return nil
		},
	}
	svc := NewUserService(mockRepo)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Password: "secret1",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, int64(0), user.ViewCount)

	// Password must be stored as a valid bcrypt hash, never plain text
	assert.NotEqual(t, "secret1", user.PasswordHashed)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte("secret1")))

	require.Len(t, mockRepo.createCalls, 1)
}

func TestUserService_Register_ShortPassword(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Password: "short",
	})

	require.ErrorIs(t, err, model.ErrValidation)
	assert.Nil(t, user)
	assert.Empty(t, mockRepo.createCalls, "no row may be created on validation failure")
}

func TestUserService_Register_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"missing username", model.RegisterRequest{Password: "secret1"}},
		{"missing password", model.RegisterRequest{Username: "alice"}},
		{"whitespace username", model.RegisterRequest{Username: "   ", Password: "secret1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{}
			svc := NewUserService(mockRepo)

			_, err := svc.Register(context.Background(), &tc.req)

			require.ErrorIs(t, err, model.ErrValidation)
			assert.Empty(t, mockRepo.createCalls)
		})
	}
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Password: "whatever-password",
	})

	require.ErrorIs(t, err, model.ErrUsernameExists)
	assert.Empty(t, mockRepo.createCalls)
}

func TestUserService_Register_DuplicateRace(t *testing.T) {
	// The pre-check passes but the insert hits the unique constraint.
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			return model.ErrUsernameExists
		},
	}
	svc := NewUserService(mockRepo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Password: "secret1",
	})

	require.ErrorIs(t, err, model.ErrUsernameExists)
}

func TestUserService_Login_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockRepo := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 7, Username: username, PasswordHashed: string(hash)}, nil
		},
	}
	svc := NewUserService(mockRepo)

	user, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "alice",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockRepo := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 7, Username: username, PasswordHashed: string(hash)}, nil
		},
	}
	svc := NewUserService(mockRepo)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Username: "alice",
		Password: "wrong-password",
	})

	require.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.Empty(t, mockRepo.createCalls, "failed login must not mutate anything")
}

func TestUserService_Login_UnknownUser(t *testing.T) {
	mockRepo := &mockUserRepository{}
	svc := NewUserService(mockRepo)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "nobody",
		Password: "secret1",
	})

	// Same error as a wrong password so responses never reveal which failed
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestUserService_Login_StoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	mockRepo := &mockUserRepository{
		getByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, storeErr
		},
	}
	svc := NewUserService(mockRepo)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Username: "alice",
		Password: "secret1",
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidCredentials, "infrastructure failure is not a credential failure")
}
