package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"safe-harbor/internal/domain"
)

var (
	// ErrDuplicateEmail señala una violación del índice único de email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateLicense señala una violación del índice único de licencia.
	ErrDuplicateLicense = errors.New("license number already registered")
)

// translateUnique convierte violaciones de unicidad de Postgres en
// errores del dominio según el índice afectado.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key", "counsellor_profiles_email_key":
		return ErrDuplicateEmail
	case "counsellor_profiles_license_key":
		return ErrDuplicateLicense
	}
	return err
}

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, email, password_hash, fullname, phone_number, dob, gender,
	preferred_language, timezone, role, created_at
`

const insertUserQuery = `
	INSERT INTO users (
		id, email, password_hash, fullname, phone_number, dob, gender,
		preferred_language, timezone, role, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func userInsertArgs(u domain.User) []any {
	return []any{
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Fullname,
		u.PhoneNumber,
		u.DOB,
		u.Gender,
		u.PreferredLanguage,
		u.Timezone,
		u.Role,
		u.CreatedAt,
	}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Fullname,
		&u.PhoneNumber,
		&u.DOB,
		&u.Gender,
		&u.PreferredLanguage,
		&u.Timezone,
		&u.Role,
		&u.CreatedAt,
	)
	return u, err
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(ctx, insertUserQuery, userInsertArgs(user)...)
	return translateUnique(err)
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2 WHERE lower(email) = lower($1)`
	tag, err := r.pool.Exec(ctx, query, email, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
