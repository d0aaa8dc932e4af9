package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(user.ID), strings.ToLower(user.Email), user.Name,
		user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (User, error) {
	return s.findOne(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM users WHERE email = $1`, strings.ToLower(email))
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (User, error) {
	return s.findOne(ctx, `
		SELECT id, email, name, password_hash, role, created_at
		FROM users WHERE id = $1`, uuid.UUID(userID))
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (User, error) {
	var (
		rawID uuid.UUID
		user  User
	)
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&rawID, &user.Email, &user.Name, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, sentinel.ErrNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	user.ID = id.UserID(rawID)
	return user, nil
}
