// Package repo contains all database access logic for the Gas Tracker API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping. The one exception
// is AddPoint, which computes the haversine increment inside its transaction
// because the read-compute-write sequence must be a single unit of isolation.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lvaldes/gastracker/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows
// integration tests to pass a transaction that is rolled back after each
// test, giving free per-test isolation without any manual cleanup.
// Begin is included because point insertion runs in its own transaction;
// on pgx.Tx it opens a savepoint, so the test pattern still works.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// uniqueViolation is the Postgres error code raised when an insert collides
// with a unique index (duplicate email, second active trip).
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-index violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// UserRepo defines the persistence operations for Users.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows services to be unit-tested with a mock.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record.
	// Returns domain.ErrConflict if the email is already registered.
	Create(ctx context.Context, email, passwordHash string) (domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns domain.ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// GetByID retrieves a user by primary key.
	// Returns domain.ErrNotFound if no such user exists.
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// GetOrCreate returns the user with the given email, inserting it first
	// if necessary. Used by the console front end for its default user.
	GetOrCreate(ctx context.Context, email, passwordHash string) (domain.User, error)
}

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, email, password_hash, created_at`

func (r *pgUserRepo) Create(ctx context.Context, email, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (email, password_hash)
		VALUES (@email, @password_hash)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{"email": email, "password_hash": passwordHash}

	u, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", domain.ErrConflict)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = @email`

	u, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	u, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return u, nil
}

func (r *pgUserRepo) GetOrCreate(ctx context.Context, email, passwordHash string) (domain.User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetOrCreate: %w", err)
	}

	u, err = r.Create(ctx, email, passwordHash)
	if err != nil {
		// Lost a race with a concurrent insert; the row exists now.
		if errors.Is(err, domain.ErrConflict) {
			return r.GetByEmail(ctx, email)
		}
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetOrCreate: %w", err)
	}
	return u, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var u domain.User
	err := s.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}
