package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "presensi/pkg/domain"
	"presensi/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// PostgresStore persists attendance records with a unique index on
// (user_id, date). A concurrent duplicate insert loses the race at the
// index and is surfaced as sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, record Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_records (
			id, user_id, date, shift_id,
			check_in_time, check_in_latitude, check_in_longitude,
			check_in_verified, check_in_similarity,
			check_out_time, check_out_latitude, check_out_longitude,
			check_out_verified, check_out_similarity,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		uuid.UUID(record.ID), uuid.UUID(record.UserID), record.Date, uuid.UUID(record.ShiftID),
		record.CheckInTime, record.CheckInLatitude, record.CheckInLongitude,
		record.CheckInVerified, record.CheckInSimilarity,
		record.CheckOutTime, record.CheckOutLatitude, record.CheckOutLongitude,
		record.CheckOutVerified, record.CheckOutSimilarity,
		string(record.Status))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create attendance record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, record Record) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE attendance_records
		SET check_out_time = $3, check_out_latitude = $4, check_out_longitude = $5,
		    check_out_verified = $6, check_out_similarity = $7
		WHERE user_id = $1 AND date = $2`,
		uuid.UUID(record.UserID), record.Date,
		record.CheckOutTime, record.CheckOutLatitude, record.CheckOutLongitude,
		record.CheckOutVerified, record.CheckOutSimilarity)
	if err != nil {
		return fmt.Errorf("update attendance record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update attendance record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindByUserAndDate(ctx context.Context, userID id.UserID, date string) (Record, error) {
	record, err := scanRecord(s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, shift_id,
		       check_in_time, check_in_latitude, check_in_longitude,
		       check_in_verified, check_in_similarity,
		       check_out_time, check_out_latitude, check_out_longitude,
		       check_out_verified, check_out_similarity,
		       status
		FROM attendance_records WHERE user_id = $1 AND date = $2`,
		uuid.UUID(userID), date).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("find attendance record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 31
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, shift_id,
		       check_in_time, check_in_latitude, check_in_longitude,
		       check_in_verified, check_in_similarity,
		       check_out_time, check_out_latitude, check_out_longitude,
		       check_out_verified, check_out_similarity,
		       status
		FROM attendance_records WHERE user_id = $1
		ORDER BY date DESC LIMIT $2`,
		uuid.UUID(userID), limit)
	if err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var (
		rawID, rawUser, rawShift uuid.UUID
		status                   string
		record                   Record
	)
	if err := scan(&rawID, &rawUser, &record.Date, &rawShift,
		&record.CheckInTime, &record.CheckInLatitude, &record.CheckInLongitude,
		&record.CheckInVerified, &record.CheckInSimilarity,
		&record.CheckOutTime, &record.CheckOutLatitude, &record.CheckOutLongitude,
		&record.CheckOutVerified, &record.CheckOutSimilarity,
		&status); err != nil {
		return Record{}, err
	}
	record.ID = id.RecordID(rawID)
	record.UserID = id.UserID(rawUser)
	record.ShiftID = id.ShiftID(rawShift)
	record.Status = Status(status)
	return record, nil
}
