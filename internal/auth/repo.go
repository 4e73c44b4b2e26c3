package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gymform/backend/internal/telemetry/tracing"
	"github.com/gymform/backend/pkg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// AddUser stores a new user and returns it with id and created_at set.
func (r *Repo) AddUser(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.addUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, first_name, last_name, height, weight, fitness_level)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, is_active, created_at`,
		user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Height, user.Weight, user.FitnessLevel,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &user, nil
}

// GetUserByUsername returns an active user by username.
func (r *Repo) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUser(ctx, `username = $1`, username)
}

// GetUser returns an active user by id.
func (r *Repo) GetUser(ctx context.Context, id int) (*User, error) {
	return r.getUser(ctx, `id = $1`, id)
}

func (r *Repo) getUser(ctx context.Context, where string, arg any) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.getUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var user User
	err = r.db.QueryRow(ctx,
		`SELECT id, username, email, password_hash, first_name, last_name, height, weight, fitness_level, is_active, created_at
		FROM users
		WHERE `+where+` AND is_active`,
		arg,
	).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Height, &user.Weight,
		&user.FitnessLevel, &user.IsActive, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateProfile applies a partial profile update, leaving nil fields as
// they are.
func (r *Repo) UpdateProfile(ctx context.Context, userID int, patch ProfilePatch) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.auth.updateProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx,
		`UPDATE users SET
			first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			height = COALESCE($3, height),
			weight = COALESCE($4, weight),
			fitness_level = COALESCE($5, fitness_level)
		WHERE id = $6 AND is_active`,
		patch.FirstName, patch.LastName, patch.Height, patch.Weight, patch.FitnessLevel,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
