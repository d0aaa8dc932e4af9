//go:build integration

package face

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
	"presensi/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgresStore(s.pg.DB, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) seedUser(ctx context.Context) id.UserID {
	userID := id.NewUserID()
	_, err := s.pg.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, created_at)
		VALUES ($1, $2, 'Test User', 'x', 'employee', NOW())`,
		userID.String(), userID.String()+"@example.com")
	s.Require().NoError(err)
	return userID
}

func (s *PostgresStoreSuite) TestSaveIsUpsert() {
	ctx := context.Background()
	userID := s.seedUser(ctx)
	enrolled := time.Now().UTC().Truncate(time.Microsecond)

	first := Identity{UserID: userID, Embedding: []float32{1, 0, 0}, EnrolledAt: enrolled, UpdatedAt: enrolled}
	s.Require().NoError(s.store.Save(ctx, first))

	updated := enrolled.Add(time.Hour)
	second := Identity{UserID: userID, Embedding: []float32{0, 1, 0}, EnrolledAt: enrolled, UpdatedAt: updated}
	s.Require().NoError(s.store.Save(ctx, second))

	got, err := s.store.FindByUser(ctx, userID)
	s.Require().NoError(err)
	s.Equal([]float32{0, 1, 0}, got.Embedding)
	s.True(got.EnrolledAt.Equal(enrolled))
	s.True(got.UpdatedAt.Equal(updated))

	all, err := s.store.ListAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	userID := s.seedUser(ctx)
	now := time.Now()
	s.Require().NoError(s.store.Save(ctx, Identity{UserID: userID, Embedding: []float32{1}, EnrolledAt: now, UpdatedAt: now}))

	s.Require().NoError(s.store.Delete(ctx, userID))
	_, err := s.store.FindByUser(ctx, userID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(ctx, userID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestCorruptEmbeddingTolerated() {
	ctx := context.Background()
	userID := s.seedUser(ctx)
	_, err := s.pg.DB.ExecContext(ctx, `
		INSERT INTO face_identities (user_id, embedding, enrolled_at, updated_at)
		VALUES ($1, 'not json', NOW(), NOW())`, userID.String())
	s.Require().NoError(err)

	got, err := s.store.FindByUser(ctx, userID)
	s.Require().NoError(err)
	s.Empty(got.Embedding)
}
