package auth

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrNotLoggedIn      = errors.New("not logged in")
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    *string   `json:"firstName,omitempty"`
	LastName     *string   `json:"lastName,omitempty"`
	Height       *float64  `json:"height,omitempty"`
	Weight       *float64  `json:"weight,omitempty"`
	FitnessLevel string    `json:"fitnessLevel"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfilePatch carries a partial profile update. Nil fields are
// left untouched.
type ProfilePatch struct {
	FirstName    *string  `json:"firstName"`
	LastName     *string  `json:"lastName"`
	Height       *float64 `json:"height"`
	Weight       *float64 `json:"weight"`
	FitnessLevel *string  `json:"fitnessLevel"`
}

func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil &&
		p.Height == nil && p.Weight == nil && p.FitnessLevel == nil
}
