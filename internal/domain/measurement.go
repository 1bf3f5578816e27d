package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Unit is the linear unit a record's circumferences were entered in.
type Unit string

// Supported linear units.
const (
	UnitCm Unit = "cm"
	UnitIn Unit = "in"
)

// ParseUnit validates s as a linear unit.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.ToLower(strings.TrimSpace(s))); u {
	case UnitCm, UnitIn:
		return u, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// Sex selects the body-fat formula variant.
type Sex string

// Supported sexes.
const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex validates s as a Sex.
func ParseSex(s string) (Sex, error) {
	switch x := Sex(strings.ToLower(strings.TrimSpace(s))); x {
	case SexMale, SexFemale:
		return x, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSex, s)
	}
}

// Profile is the single user profile of an installation.
type Profile struct {
	Name      string
	Age       *int
	HeightCm  *float64
	Sex       Sex
	UpdatedAt time.Time
}

// Record is one measurement entry. Nil numeric fields were not measured.
// Weight is always kilograms; every other numeric field is in Unit.
type Record struct {
	ID   string
	Date time.Time // calendar day, see DayOf
	Unit Unit

	Weight *float64

	Waist    *float64
	Hips     *float64
	Neck     *float64
	Chest    *float64
	Shoulder *float64

	LeftArm      *float64
	RightArm     *float64
	LeftForearm  *float64
	RightForearm *float64

	LeftThigh  *float64
	RightThigh *float64
	LeftKnee   *float64
	RightKnee  *float64

	Notes string

	// QuickLog marks the weight-only daily entry that later quick-logs for
	// the same day update in place.
	QuickLog bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of r so callers can hand out snapshots.
func (r Record) Clone() Record {
	out := r
	for _, f := range Fields() {
		if v, ok := f.Value(r); ok {
			f.Set(&out, &v)
		}
	}
	return out
}

// RecordRepository is the port for measurement persistence.
// List returns records ordered by date descending, then created_at descending,
// then id; limit <= 0 means no limit.
//
// UpsertQuickLog stores r as the quick-log of r.Date, or, when that day
// already has one, sets its weight and updated_at from r. It is atomic with
// respect to concurrent calls for the same day and returns the stored record.
type RecordRepository interface {
	InsertRecord(ctx context.Context, r Record) error
	UpdateRecord(ctx context.Context, r Record) error
	GetRecord(ctx context.Context, id string) (*Record, error)
	ListRecords(ctx context.Context, limit int) ([]Record, error)
	FindQuickLog(ctx context.Context, day time.Time) (*Record, error)
	UpsertQuickLog(ctx context.Context, r Record) (Record, error)
	DeleteRecord(ctx context.Context, id string) error
	DeleteAllRecords(ctx context.Context) (int, error)
	CountRecords(ctx context.Context) (int, error)
}

// ProfileRepository is the port for the singleton profile.
// GetProfile returns nil, nil until a profile is saved.
type ProfileRepository interface {
	GetProfile(ctx context.Context) (*Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
}

// LessRecord reports whether a sorts before b in history order.
func LessRecord(a, b Record) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
