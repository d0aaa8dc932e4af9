package face

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

// PostgresStore persists face templates in the face_identities table. The
// embedding is stored as JSON text so the schema survives model dimension
// changes without a migration.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Save(ctx context.Context, identity Identity) error {
	encoded, err := EncodeEmbedding(identity.Embedding)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO face_identities (user_id, embedding, enrolled_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET embedding = EXCLUDED.embedding, updated_at = EXCLUDED.updated_at`,
		uuid.UUID(identity.UserID), encoded, identity.EnrolledAt, identity.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save face identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUser(ctx context.Context, userID id.UserID) (Identity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, embedding, enrolled_at, updated_at
		FROM face_identities WHERE user_id = $1`, uuid.UUID(userID))
	identity, err := s.scan(ctx, row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, sentinel.ErrNotFound
		}
		return Identity{}, fmt.Errorf("find face identity: %w", err)
	}
	return identity, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Identity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, embedding, enrolled_at, updated_at
		FROM face_identities`)
	if err != nil {
		return nil, fmt.Errorf("list face identities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var identities []Identity
	for rows.Next() {
		identity, err := s.scan(ctx, rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan face identity: %w", err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list face identities: %w", err)
	}
	return identities, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM face_identities WHERE user_id = $1`, uuid.UUID(userID))
	if err != nil {
		return fmt.Errorf("delete face identity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete face identity: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) scan(ctx context.Context, scan func(dest ...any) error) (Identity, error) {
	var (
		userID   uuid.UUID
		raw      string
		identity Identity
	)
	if err := scan(&userID, &raw, &identity.EnrolledAt, &identity.UpdatedAt); err != nil {
		return Identity{}, err
	}
	identity.UserID = id.UserID(userID)

	embedding, err := DecodeEmbedding(raw)
	if err != nil {
		// A corrupt template must not take listing down; the matcher skips
		// empty embeddings and logs the affected user.
		s.logger.WarnContext(ctx, "stored face template is corrupt",
			"user_id", identity.UserID.String(), "error", err)
		return identity, nil
	}
	identity.Embedding = embedding
	return identity, nil
}
