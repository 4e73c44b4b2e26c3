package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	testUsername     = "testuser"
	testPassword     = "testpass"
	testPasswordHash = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i" // testpass
	testCredentials  = Credentials{
		Username: testUsername,
		Password: testPassword,
	}
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

type fakeUsersRepo struct {
	addUser           func(ctx context.Context, user User) (*User, error)
	getUserByUsername func(ctx context.Context, username string) (*User, error)
	getUser           func(ctx context.Context, id int) (*User, error)
	updateProfile     func(ctx context.Context, userID int, patch ProfilePatch) error
}

func (f *fakeUsersRepo) AddUser(ctx context.Context, user User) (*User, error) {
	if f.addUser == nil {
		return nil, errors.New("unexpected AddUser call")
	}
	return f.addUser(ctx, user)
}

func (f *fakeUsersRepo) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if f.getUserByUsername == nil {
		return nil, errors.New("unexpected GetUserByUsername call")
	}
	return f.getUserByUsername(ctx, username)
}

func (f *fakeUsersRepo) GetUser(ctx context.Context, id int) (*User, error) {
	if f.getUser == nil {
		return nil, errors.New("unexpected GetUser call")
	}
	return f.getUser(ctx, id)
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, userID int, patch ProfilePatch) error {
	if f.updateProfile == nil {
		return errors.New("unexpected UpdateProfile call")
	}
	return f.updateProfile(ctx, userID, patch)
}

func testToken() string { return "test_token" }

func TestService_Login(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	repo := &fakeUsersRepo{
		getUserByUsername: func(ctx context.Context, username string) (*User, error) {
			if username != testUsername {
				return nil, ErrUserNotFound
			}
			return &User{
				ID:           1,
				Username:     testUsername,
				PasswordHash: testPasswordHash,
				IsActive:     true,
			}, nil
		},
	}

	service := NewService(repo, rdb, time.Hour)
	require.NotNil(t, service)
	assert.Equal(t, time.Hour, service.sessionTTL)

	service.RandStringFunc = func(s int) (string, error) {
		return testToken(), nil
	}

	sessionKey := sessionKeyPrefix + testToken()
	mock.ExpectSet(sessionKey, 1, time.Hour).SetVal("OK")

	user, token, err := service.Login(context.Background(), testCredentials)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, testToken(), token)
	assert.Equal(t, 1, user.ID)

	// wrong password
	user, token, err = service.Login(context.Background(), Credentials{
		Username: testUsername,
		Password: "invalid_pass",
	})
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Nil(t, user)
	assert.Empty(t, token)

	// unknown user looks the same as a wrong password
	user, token, err = service.Login(context.Background(), Credentials{
		Username: "who_dis",
		Password: testPassword,
	})
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Nil(t, user)
	assert.Empty(t, token)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Register(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	repo := &fakeUsersRepo{
		addUser: func(ctx context.Context, user User) (*User, error) {
			assert.Equal(t, "newbie", user.Username)
			assert.Equal(t, "newbie@gymform.io", user.Email)
			assert.NotEmpty(t, user.PasswordHash)
			assert.NotEqual(t, "some-password", user.PasswordHash)
			assert.Equal(t, "beginner", user.FitnessLevel)
			user.ID = 5
			user.IsActive = true
			return &user, nil
		},
	}

	service := NewService(repo, rdb, time.Hour)
	service.RandStringFunc = func(s int) (string, error) {
		return testToken(), nil
	}

	mock.ExpectSet(sessionKeyPrefix+testToken(), 5, time.Hour).SetVal("OK")

	user, token, err := service.Register(context.Background(), User{
		Username: "newbie",
		Email:    "newbie@gymform.io",
	}, "some-password")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, 5, user.ID)
	assert.Equal(t, testToken(), token)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Register_UserExists(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer rdb.Close()

	repo := &fakeUsersRepo{
		addUser: func(ctx context.Context, user User) (*User, error) {
			return nil, ErrUserExists
		},
	}

	service := NewService(repo, rdb, time.Hour)

	user, token, err := service.Register(context.Background(), User{
		Username: "taken",
		Email:    "taken@gymform.io",
	}, "some-password")
	assert.ErrorIs(t, err, ErrUserExists)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestService_Logout(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	service := NewService(&fakeUsersRepo{}, rdb, time.Hour)

	mock.ExpectDel(sessionKeyPrefix + "known_token").SetVal(1)
	require.NoError(t, service.Logout(context.Background(), "known_token"))

	mock.ExpectDel(sessionKeyPrefix + "unknown_token").SetVal(0)
	assert.ErrorIs(t, service.Logout(context.Background(), "unknown_token"), ErrNotLoggedIn)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_TokenUserID(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer rdb.Close()

	service := NewService(&fakeUsersRepo{}, rdb, time.Hour)

	mock.ExpectGet(sessionKeyPrefix + "valid_token").SetVal("42")
	userID, err := service.TokenUserID(context.Background(), "valid_token")
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	mock.ExpectGet(sessionKeyPrefix + "expired_token").RedisNil()
	userID, err = service.TokenUserID(context.Background(), "expired_token")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Zero(t, userID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_UpdateProfile_EmptyPatchIsNoop(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer rdb.Close()

	repo := &fakeUsersRepo{} // any repo call would error out
	service := NewService(repo, rdb, time.Hour)

	require.NoError(t, service.UpdateProfile(context.Background(), 1, ProfilePatch{}))

	firstName := "Mia"
	called := false
	repo.updateProfile = func(ctx context.Context, userID int, patch ProfilePatch) error {
		called = true
		assert.Equal(t, 1, userID)
		require.NotNil(t, patch.FirstName)
		assert.Equal(t, firstName, *patch.FirstName)
		return nil
	}
	require.NoError(t, service.UpdateProfile(context.Background(), 1, ProfilePatch{FirstName: &firstName}))
	assert.True(t, called)
}
