package app

import (
	"context"
	"fmt"
	"time"

	"qiyas/internal/domain"
)

// SummaryOptions carries the configured defaults of the summary views.
type SummaryOptions struct {
	Formula      domain.BodyFatFormula
	WindowDays   int
	HistoryLimit int
}

// SummaryService derives metrics and trends from the stored records.
type SummaryService struct {
	records  domain.RecordRepository
	profiles domain.ProfileRepository
	opts     SummaryOptions
}

// NewSummaryService creates a SummaryService over the given repositories.
func NewSummaryService(records domain.RecordRepository, profiles domain.ProfileRepository, opts SummaryOptions) *SummaryService {
	if opts.Formula == "" {
		opts.Formula = domain.FormulaNavyLog
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = 7
	}
	if opts.HistoryLimit < 0 {
		opts.HistoryLimit = 0
	}
	return &SummaryService{records: records, profiles: profiles, opts: opts}
}

// Metric is one derived metric ready for display.
type Metric struct {
	Value   *float64
	Status  domain.Status
	Display string
	// Hint names the inputs still needed when Status is missing_input.
	Hint string
}

// Today is the current BMI and body-fat picture. BMI and BodyFat are
// computed from Record alone; Snapshot only reports the newest value of each
// field for display.
type Today struct {
	Date     *time.Time
	Formula  domain.BodyFatFormula
	BMI      Metric
	BodyFat  Metric
	Record   *domain.Record
	Snapshot domain.Record
	Profile  *domain.Profile
}

// Today computes BMI and body fat from the newest record, so every input of a
// metric was measured together. A field that record lacks leaves the metric
// unavailable even when an older record has it. An empty formula selects the
// configured one.
func (s *SummaryService) Today(ctx context.Context, formula domain.BodyFatFormula) (*Today, error) {
	if formula == "" {
		formula = s.opts.Formula
	}
	profile, err := s.profiles.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	records, err := s.records.ListRecords(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	out := &Today{Formula: formula, Snapshot: domain.LatestSnapshot(records), Profile: profile}
	var latest domain.Record
	if len(records) > 0 {
		latest = records[0].Clone()
		out.Record = &latest
		d := latest.Date
		out.Date = &d
	}

	bmi := domain.BMI(profile, latest)
	out.BMI = metricOf(bmi, domain.FormatBMI(bmi), domain.BMIHint())

	sex := domain.SexMale
	if profile != nil {
		sex = profile.Sex
	}
	bf := domain.BodyFat(profile, latest, formula)
	out.BodyFat = metricOf(bf, domain.FormatBodyFat(bf), domain.BodyFatHint(sex))
	return out, nil
}

func metricOf(r domain.Result, display, hint string) Metric {
	m := Metric{Status: r.Status, Display: display}
	if r.Available() {
		v := r.Value
		m.Value = &v
	}
	if r.Status == domain.StatusMissingInput {
		m.Hint = hint
	}
	return m
}

// Card is the latest reading of one field and its change over the window.
type Card struct {
	Field        domain.Field
	Title        string
	Latest       *domain.Reading
	Display      string
	Delta        *float64
	DeltaDisplay string
}

// Results builds one card per tracked field, in display order. windowDays
// <= 0 selects the configured window.
func (s *SummaryService) Results(ctx context.Context, windowDays int) ([]Card, int, error) {
	if windowDays <= 0 {
		windowDays = s.opts.WindowDays
	}
	records, err := s.records.ListRecords(ctx, 0)
	if err != nil {
		return nil, windowDays, fmt.Errorf("list records: %w", err)
	}

	cards := make([]Card, 0, len(domain.Fields()))
	for _, f := range domain.Fields() {
		c := Card{Field: f, Title: f.Title(), Display: domain.Unavailable}
		if rd, ok := domain.LatestValue(records, f); ok {
			c.Latest = &rd
			c.Display = domain.FormatReading(rd.Value) + " " + rd.Unit
		}
		if d, ok := domain.DeltaOverWindow(records, f, windowDays); ok {
			v := d.Value
			c.Delta = &v
			c.DeltaDisplay = domain.FormatDelta(v)
		}
		cards = append(cards, c)
	}
	return cards, windowDays, nil
}

// History returns up to limit readings of f, newest first. limit < 0
// selects the configured limit and 0 returns every reading. A non-empty
// unit converts readings: "kg"/"lb" for weight, "cm"/"in" for circumferences.
func (s *SummaryService) History(ctx context.Context, f domain.Field, limit int, unit string) ([]domain.Reading, error) {
	if err := checkHistoryUnit(f, unit); err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = s.opts.HistoryLimit
	}
	records, err := s.records.ListRecords(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	series := domain.Series(records, f, limit)
	if unit == "" {
		return series, nil
	}
	for i, rd := range series {
		if f.Linear() {
			series[i].Value = domain.ConvertLength(rd.Value, domain.Unit(rd.Unit), domain.Unit(unit))
		} else {
			series[i].Value = domain.ConvertWeight(rd.Value, rd.Unit, unit)
		}
		series[i].Unit = unit
	}
	return series, nil
}

func checkHistoryUnit(f domain.Field, unit string) error {
	if unit == "" {
		return nil
	}
	if f.Linear() {
		_, err := domain.ParseUnit(unit)
		return err
	}
	if unit != "kg" && unit != "lb" {
		return fmt.Errorf("%w: unit must be \"kg\" or \"lb\"", domain.ErrValidation)
	}
	return nil
}

// Stats is a small overview of the stored data.
type Stats struct {
	Records    int
	QuickLogs  int
	FirstDate  *time.Time
	LatestDate *time.Time
}

// Stats reports how many records exist and the range of days they cover.
func (s *SummaryService) Stats(ctx context.Context) (*Stats, error) {
	records, err := s.records.ListRecords(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	st := &Stats{Records: len(records)}
	for _, r := range records {
		if r.QuickLog {
			st.QuickLogs++
		}
	}
	if len(records) > 0 {
		latest, first := records[0].Date, records[len(records)-1].Date
		st.LatestDate, st.FirstDate = &latest, &first
	}
	return st, nil
}
