package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"qiyas/internal/domain"

	"github.com/google/uuid"
)

// RecordInput is the editable content of a measurement record. Values holds
// only the fields that were measured; weight is kilograms, every other field
// is in Unit.
type RecordInput struct {
	Date   time.Time                `validate:"required"`
	Unit   domain.Unit              `validate:"oneof=cm in"`
	Values map[domain.Field]float64 `validate:"dive,gte=0,lte=1000"`
	Notes  string                   `validate:"max=2000"`
}

// RecordService encapsulates measurement logging use cases.
type RecordService struct {
	repo        domain.RecordRepository
	defaultUnit domain.Unit
	now         func() time.Time
	newID       func() string
}

// NewRecordService creates a RecordService backed by the given repository.
// defaultUnit is stamped on quick-log records, which carry no circumferences.
func NewRecordService(repo domain.RecordRepository, defaultUnit domain.Unit) *RecordService {
	if defaultUnit == "" {
		defaultUnit = domain.UnitCm
	}
	return &RecordService{
		repo:        repo,
		defaultUnit: defaultUnit,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Create validates and stores a full measurement record.
func (s *RecordService) Create(ctx context.Context, in RecordInput) (*domain.Record, error) {
	if err := validateRecord(in); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r := domain.Record{
		ID:        s.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyInput(&r, in)
	if err := s.repo.InsertRecord(ctx, r); err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	slog.DebugContext(ctx, "record created", "id", r.ID, "date", domain.FormatDay(r.Date))
	return &r, nil
}

// QuickLogWeight records today's weight. A second quick-log on the same day
// replaces the weight of the first instead of adding another record.
func (s *RecordService) QuickLogWeight(ctx context.Context, day time.Time, weightKg float64) (*domain.Record, error) {
	if weightKg <= 0 {
		return nil, fmt.Errorf("%w: weight must be > 0", domain.ErrValidation)
	}
	day = domain.DayOf(day)
	now := s.now().UTC()

	r := domain.Record{
		ID:        s.newID(),
		Date:      day,
		Unit:      s.defaultUnit,
		Weight:    &weightKg,
		QuickLog:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.repo.UpsertQuickLog(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("save quick log: %w", err)
	}
	if stored.ID == r.ID {
		slog.DebugContext(ctx, "quick log created", "id", stored.ID, "date", domain.FormatDay(day))
	} else {
		slog.DebugContext(ctx, "quick log updated", "id", stored.ID, "date", domain.FormatDay(day))
	}
	return &stored, nil
}

// TodayWeight returns the quick-log record of day, or nil if none exists.
func (s *RecordService) TodayWeight(ctx context.Context, day time.Time) (*domain.Record, error) {
	return s.repo.FindQuickLog(ctx, domain.DayOf(day))
}

// Update replaces the content of an existing record. The id and creation
// time never change.
func (s *RecordService) Update(ctx context.Context, id string, in RecordInput) (*domain.Record, error) {
	if err := validateRecord(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}

	r := domain.Record{
		ID:        existing.ID,
		QuickLog:  existing.QuickLog,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: s.now().UTC(),
	}
	applyInput(&r, in)
	// An edited quick-log that gained circumferences or moved to another day
	// is a full record now; only one quick-log may exist per day.
	if r.QuickLog && (hasCircumference(r) || !r.Date.Equal(existing.Date)) {
		r.QuickLog = false
	}
	if err := s.repo.UpdateRecord(ctx, r); err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	slog.DebugContext(ctx, "record updated", "id", r.ID)
	return &r, nil
}

// Get returns one record, or nil if it does not exist.
func (s *RecordService) Get(ctx context.Context, id string) (*domain.Record, error) {
	return s.repo.GetRecord(ctx, id)
}

// List returns up to limit records, newest first. limit <= 0 lists all.
func (s *RecordService) List(ctx context.Context, limit int) ([]domain.Record, error) {
	return s.repo.ListRecords(ctx, limit)
}

// Delete removes a record by id.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "record deleted", "id", id)
	return nil
}

// DeleteAll removes every record and reports how many were deleted.
func (s *RecordService) DeleteAll(ctx context.Context) (int, error) {
	n, err := s.repo.DeleteAllRecords(ctx)
	if err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "all records deleted", "count", n)
	return n, nil
}

// Count returns the number of stored records.
func (s *RecordService) Count(ctx context.Context) (int, error) {
	return s.repo.CountRecords(ctx)
}

func validateRecord(in RecordInput) error {
	if err := checkInput(in); err != nil {
		return err
	}
	for f := range in.Values {
		if f.Ptr(&domain.Record{}) == nil {
			return fmt.Errorf("%w: %q", domain.ErrInvalidField, f)
		}
	}
	if len(strings.TrimSpace(in.Notes)) == 0 && len(in.Values) == 0 {
		return fmt.Errorf("%w: a record needs at least one measurement or a note", domain.ErrValidation)
	}
	return nil
}

func applyInput(r *domain.Record, in RecordInput) {
	r.Date = domain.DayOf(in.Date)
	r.Unit = in.Unit
	r.Notes = strings.TrimSpace(in.Notes)
	for f, v := range in.Values {
		f.Set(r, &v)
	}
}

func hasCircumference(r domain.Record) bool {
	for _, f := range domain.Fields() {
		if _, ok := f.Value(r); ok && f.Linear() {
			return true
		}
	}
	return false
}
