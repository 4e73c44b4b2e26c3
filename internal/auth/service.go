package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gymform/backend/pkg"
	log "github.com/sirupsen/logrus"
)

const (
	sessionKeyPrefix = "gymform-session||"
	sessionTokenLen  = 35
)

type usersRepo interface {
	AddUser(ctx context.Context, user User) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUser(ctx context.Context, id int) (*User, error)
	UpdateProfile(ctx context.Context, userID int, patch ProfilePatch) error
}

// Service owns registration, login and the redis-backed session store.
// Session tokens expire through the redis TTL, no sweeping needed.
type Service struct {
	repo        usersRepo
	redisClient *redis.Client
	sessionTTL  time.Duration

	// RandStringFunc is swappable in tests
	RandStringFunc func(n int) (string, error)
}

func NewService(repo usersRepo, redisClient *redis.Client, sessionTTL time.Duration) *Service {
	return &Service{
		repo:           repo,
		redisClient:    redisClient,
		sessionTTL:     sessionTTL,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// Register creates the user and logs them in right away.
func (s *Service) Register(ctx context.Context, user User, password string) (*User, string, error) {
	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = passwordHash
	if user.FitnessLevel == "" {
		user.FitnessLevel = "beginner"
	}

	added, err := s.repo.AddUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.newSession(ctx, added.ID)
	if err != nil {
		return nil, "", err
	}

	log.Debugf("new user registered: %s [id %d]", added.Username, added.ID)

	return added, token, nil
}

// Login checks the credentials and opens a new session. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, credentials Credentials) (*User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, credentials.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrWrongCredentials
		}
		return nil, "", err
	}

	if !pkg.CheckPasswordHash(credentials.Password, user.PasswordHash) {
		return nil, "", ErrWrongCredentials
	}

	token, err := s.newSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *Service) newSession(ctx context.Context, userID int) (string, error) {
	token, err := s.RandStringFunc(sessionTokenLen)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	if err := s.redisClient.Set(ctx, sessionKeyPrefix+token, userID, s.sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Logout removes the session. Logging out with an unknown token
// yields ErrNotLoggedIn.
func (s *Service) Logout(ctx context.Context, token string) error {
	removed, err := s.redisClient.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	if removed == 0 {
		return ErrNotLoggedIn
	}
	return nil
}

// TokenUserID resolves a session token to the user id it belongs to.
func (s *Service) TokenUserID(ctx context.Context, token string) (int, error) {
	val, err := s.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotLoggedIn
		}
		return 0, fmt.Errorf("get session: %w", err)
	}
	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value [%s]: %w", val, err)
	}
	return userID, nil
}

// CurrentUser loads the user behind a session token.
func (s *Service) CurrentUser(ctx context.Context, token string) (*User, error) {
	userID, err := s.TokenUserID(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, userID)
}

// UpdateProfile applies a partial profile update for the user.
func (s *Service) UpdateProfile(ctx context.Context, userID int, patch ProfilePatch) error {
	if patch.Empty() {
		return nil
	}
	return s.repo.UpdateProfile(ctx, userID, patch)
}
