package postgres

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

var (
	_ domain.RecordRepository  = (*DB)(nil)
	_ domain.ProfileRepository = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.Record, error) {
	var (
		r                domain.Record
		day              string
		created, updated time.Time
	)
	if err := row.Scan(sqlrecord.Targets(&r, &day, &created, &updated)...); err != nil {
		return domain.Record{}, err
	}
	d, err := domain.ParseDay(day)
	if err != nil {
		return domain.Record{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	r.Date = d
	r.CreatedAt, r.UpdatedAt = created.UTC(), updated.UTC()
	return r, nil
}

// InsertRecord inserts a new measurement record.
func (d *DB) InsertRecord(ctx context.Context, r domain.Record) error {
	cols := sqlrecord.Columns()
	q := "INSERT INTO measurements(" + sqlrecord.SelectList() + ") VALUES(" +
		sqlrecord.Placeholders(1, len(cols), true) + ");"
	_, err := d.sql.ExecContext(ctx, q, sqlrecord.Args(r, r.CreatedAt.UTC(), r.UpdatedAt.UTC())...)
	if isUniqueViolation(err) {
		return fmt.Errorf("record %s already exists", r.ID)
	}
	return err
}

// UpdateRecord overwrites every column of an existing record.
func (d *DB) UpdateRecord(ctx context.Context, r domain.Record) error {
	args := sqlrecord.Args(r, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
	// id goes last so the assignments can be numbered from $1.
	args = append(args[1:], r.ID)
	q := "UPDATE measurements SET " + sqlrecord.Assignments(1, true) +
		fmt.Sprintf(" WHERE id = $%d;", len(args))
	res, err := d.sql.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// GetRecord returns a record by id, or nil if it does not exist.
func (d *DB) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+sqlrecord.SelectList()+" FROM measurements WHERE id = $1;", id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRecords returns records in history order. limit <= 0 returns all.
func (d *DB) ListRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	q := "SELECT " + sqlrecord.SelectList() + " FROM measurements" + historyOrder
	var args []any
	if limit > 0 {
		q += " LIMIT $1"
		args = append(args, limit)
	}
	rows, err := d.sql.QueryContext(ctx, q+";", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindQuickLog returns the newest quick-log record of day, or nil.
func (d *DB) FindQuickLog(ctx context.Context, day time.Time) (*domain.Record, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+sqlrecord.SelectList()+" FROM measurements WHERE quick_log AND day = $1"+historyOrder+" LIMIT 1;",
		domain.FormatDay(day))
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpsertQuickLog inserts r or, when its day already has a quick-log, updates
// that record's weight. The partial unique index on day makes this atomic.
func (d *DB) UpsertQuickLog(ctx context.Context, r domain.Record) (domain.Record, error) {
	cols := sqlrecord.Columns()
	q := "INSERT INTO measurements(" + sqlrecord.SelectList() + ") VALUES(" +
		sqlrecord.Placeholders(1, len(cols), true) + ")" +
		" ON CONFLICT (day) WHERE quick_log DO UPDATE SET weight = EXCLUDED.weight, updated_at = EXCLUDED.updated_at" +
		" RETURNING " + sqlrecord.SelectList() + ";"
	row := d.sql.QueryRowContext(ctx, q, sqlrecord.Args(r, r.CreatedAt.UTC(), r.UpdatedAt.UTC())...)
	stored, err := scanRecord(row)
	if err != nil {
		return domain.Record{}, fmt.Errorf("upsert quick log: %w", err)
	}
	return stored, nil
}

// DeleteRecord removes a record by id.
func (d *DB) DeleteRecord(ctx context.Context, id string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM measurements WHERE id = $1;", id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// DeleteAllRecords removes every record.
func (d *DB) DeleteAllRecords(ctx context.Context) (int, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM measurements;")
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CountRecords returns the number of records.
func (d *DB) CountRecords(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM measurements;").Scan(&n)
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
