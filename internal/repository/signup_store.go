package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"safe-harbor/internal/domain"
)

// SignupStore crea el par User + CounsellorProfile como una sola frontera
// transaccional: o quedan los dos registros o ninguno.
type SignupStore interface {
	CreateUserAndProfile(ctx context.Context, user domain.User, profile domain.CounsellorProfile) error
}

// PgSignupStore implementa SignupStore con una transacción pgx.
type PgSignupStore struct {
	pool *pgxpool.Pool
}

func NewPgSignupStore(pool *pgxpool.Pool) *PgSignupStore {
	return &PgSignupStore{pool: pool}
}

func (s *PgSignupStore) CreateUserAndProfile(ctx context.Context, user domain.User, profile domain.CounsellorProfile) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertUserQuery, userInsertArgs(user)...); err != nil {
		return translateUnique(err)
	}
	if _, err := tx.Exec(ctx, insertCounsellorQuery, counsellorInsertArgs(profile)...); err != nil {
		return translateUnique(err)
	}
	return tx.Commit(ctx)
}
