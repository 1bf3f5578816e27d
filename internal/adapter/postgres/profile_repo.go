package postgres

import (
	"context"
	"database/sql"
	"errors"

	"qiyas/internal/domain"
)

// GetProfile returns the singleton profile, or nil before the first save.
func (d *DB) GetProfile(ctx context.Context) (*domain.Profile, error) {
	var (
		p   domain.Profile
		age sql.NullInt64
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT name, age, height_cm, sex, updated_at FROM profile WHERE id = 1;",
	).Scan(&p.Name, &age, &p.HeightCm, &p.Sex, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if age.Valid {
		a := int(age.Int64)
		p.Age = &a
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// SaveProfile upserts the singleton profile.
func (d *DB) SaveProfile(ctx context.Context, p domain.Profile) error {
	var age, height any
	if p.Age != nil {
		age = *p.Age
	}
	if p.HeightCm != nil {
		height = *p.HeightCm
	}
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO profile(id, name, age, height_cm, sex, updated_at) VALUES(1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, age = EXCLUDED.age,
			height_cm = EXCLUDED.height_cm, sex = EXCLUDED.sex, updated_at = EXCLUDED.updated_at;`,
		p.Name, age, height, string(p.Sex), p.UpdatedAt.UTC(),
	)
	return err
}
