package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"qiyas/internal/domain"
)

// GetProfile returns the singleton profile, or nil before the first save.
func (s *Store) GetProfile(ctx context.Context) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		p       domain.Profile
		age     sql.NullInt64
		updated int64
	)
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT name, age, height_cm, sex, updated_at FROM profile WHERE id = 1",
	).Scan(&p.Name, &age, &p.HeightCm, &p.Sex, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	p.UpdatedAt = fromMillis(updated)
	return &p, nil
}

// SaveProfile upserts the singleton profile.
func (s *Store) SaveProfile(ctx context.Context, p domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var age, height any
	if p.Age != nil {
		age = *p.Age
	}
	if p.HeightCm != nil {
		height = *p.HeightCm
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO profile (id, name, age, height_cm, sex, updated_at) VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET name = excluded.name, age = excluded.age,
		   height_cm = excluded.height_cm, sex = excluded.sex, updated_at = excluded.updated_at`,
		p.Name, age, height, string(p.Sex), toMillis(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
