package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"qiyas/internal/adapter/sqlrecord"
	"qiyas/internal/domain"
)

const historyOrder = " ORDER BY day DESC, created_at DESC, id ASC"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.Record, error) {
	var (
		r                domain.Record
		day              string
		created, updated int64
	)
	if err := row.Scan(sqlrecord.Targets(&r, &day, &created, &updated)...); err != nil {
		return domain.Record{}, err
	}
	d, err := domain.ParseDay(day)
	if err != nil {
		return domain.Record{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	r.Date = d
	r.CreatedAt, r.UpdatedAt = fromMillis(created), fromMillis(updated)
	return r, nil
}

// InsertRecord inserts a new measurement record.
func (s *Store) InsertRecord(ctx context.Context, r domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q := "INSERT INTO measurements (" + sqlrecord.SelectList() + ") VALUES (" +
		sqlrecord.Placeholders(1, len(sqlrecord.Columns()), false) + ")"
	_, err := s.sqlDB.ExecContext(ctx, q, sqlrecord.Args(r, toMillis(r.CreatedAt), toMillis(r.UpdatedAt))...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("record %s already exists", r.ID)
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// UpdateRecord overwrites every column of an existing record.
func (s *Store) UpdateRecord(ctx context.Context, r domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	args := sqlrecord.Args(r, toMillis(r.CreatedAt), toMillis(r.UpdatedAt))
	args = append(args[1:], r.ID)
	res, err := s.sqlDB.ExecContext(ctx,
		"UPDATE measurements SET "+sqlrecord.Assignments(1, false)+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return expectOne(res)
}

// GetRecord returns a record by id, or nil if it does not exist.
func (s *Store) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+sqlrecord.SelectList()+" FROM measurements WHERE id = ?", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return &r, nil
}

// ListRecords returns records in history order. limit <= 0 returns all.
func (s *Store) ListRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := "SELECT " + sqlrecord.SelectList() + " FROM measurements" + historyOrder
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.sqlDB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindQuickLog returns the newest quick-log record of day, or nil.
func (s *Store) FindQuickLog(ctx context.Context, day time.Time) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row := s.sqlDB.QueryRowContext(ctx,
		"SELECT "+sqlrecord.SelectList()+" FROM measurements WHERE quick_log = 1 AND day = ?"+historyOrder+" LIMIT 1",
		domain.FormatDay(day))
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find quick log: %w", err)
	}
	return &r, nil
}

// UpsertQuickLog inserts r or, when its day already has a quick-log, updates
// that record's weight in the same statement.
func (s *Store) UpsertQuickLog(ctx context.Context, r domain.Record) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	q := "INSERT INTO measurements (" + sqlrecord.SelectList() + ") VALUES (" +
		sqlrecord.Placeholders(1, len(sqlrecord.Columns()), false) + ")" +
		" ON CONFLICT (day) WHERE quick_log = 1 DO UPDATE SET weight = excluded.weight, updated_at = excluded.updated_at" +
		" RETURNING " + sqlrecord.SelectList()
	row := s.sqlDB.QueryRowContext(ctx, q, sqlrecord.Args(r, toMillis(r.CreatedAt), toMillis(r.UpdatedAt))...)
	stored, err := scanRecord(row)
	if err != nil {
		return domain.Record{}, fmt.Errorf("upsert quick log: %w", err)
	}
	return stored, nil
}

// DeleteRecord removes a record by id.
func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, "DELETE FROM measurements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return expectOne(res)
}

// DeleteAllRecords removes every record.
func (s *Store) DeleteAllRecords(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	res, err := s.sqlDB.ExecContext(ctx, "DELETE FROM measurements")
	if err != nil {
		return 0, fmt.Errorf("delete records: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CountRecords returns the number of records.
func (s *Store) CountRecords(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	err := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM measurements").Scan(&n)
	return n, err
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
