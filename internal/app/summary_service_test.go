package app_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"qiyas/internal/app"
	"qiyas/internal/domain"
)

func day(n int) time.Time { return march3.AddDate(0, 0, -n) }

func listOf(records ...domain.Record) *mockRecordRepo {
	return &mockRecordRepo{
		listFn: func(_ context.Context, limit int) ([]domain.Record, error) {
			if limit > 0 && limit < len(records) {
				return records[:limit], nil
			}
			return records, nil
		},
	}
}

func profileOf(p *domain.Profile) *mockProfileRepo {
	return &mockProfileRepo{getFn: func(context.Context) (*domain.Profile, error) { return p, nil }}
}

func TestToday_UsesNewestRecord(t *testing.T) {
	records := listOf(
		domain.Record{ID: "w", Date: day(0), Unit: domain.UnitCm, Weight: ptr(80), Neck: ptr(38), Waist: ptr(85)},
		domain.Record{ID: "old", Date: day(5), Unit: domain.UnitCm, Weight: ptr(90), Neck: ptr(40), Waist: ptr(100)},
	)
	profile := &domain.Profile{HeightCm: ptr(180), Sex: domain.SexMale}
	svc := app.NewSummaryService(records, profileOf(profile), app.SummaryOptions{})

	got, err := svc.Today(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Formula != domain.FormulaNavyLog {
		t.Errorf("formula = %q; want default", got.Formula)
	}
	if got.BMI.Display != "24.7" || got.BMI.Status != domain.StatusOK {
		t.Errorf("BMI = %+v", got.BMI)
	}
	if got.BodyFat.Display != "16.2%" || got.BodyFat.Value == nil {
		t.Errorf("body fat = %+v", got.BodyFat)
	}
	if got.Date == nil || !got.Date.Equal(day(0)) || got.Record == nil || got.Record.ID != "w" {
		t.Errorf("date = %v, record = %+v", got.Date, got.Record)
	}
}

func TestToday_DoesNotMixRecords(t *testing.T) {
	records := listOf(
		domain.Record{ID: "q", Date: day(0), Unit: domain.UnitCm, Weight: ptr(80), QuickLog: true},
		domain.Record{ID: "w", Date: day(30), Unit: domain.UnitCm, Weight: ptr(82), Neck: ptr(38), Waist: ptr(85)},
	)
	profile := &domain.Profile{HeightCm: ptr(180), Sex: domain.SexMale}
	svc := app.NewSummaryService(records, profileOf(profile), app.SummaryOptions{})

	got, err := svc.Today(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BMI.Display != "24.7" {
		t.Errorf("BMI = %+v; want computed from the quick log", got.BMI)
	}
	if got.BodyFat.Status != domain.StatusMissingInput || got.BodyFat.Display != domain.Unavailable {
		t.Errorf("body fat = %+v; want unavailable, the newest record has no neck or waist", got.BodyFat)
	}
	if got.Snapshot.Waist == nil || *got.Snapshot.Waist != 85 {
		t.Errorf("snapshot waist = %v; want the last measured 85", got.Snapshot.Waist)
	}
}

func TestToday_InchRecord(t *testing.T) {
	records := listOf(domain.Record{
		Date: day(0), Unit: domain.UnitIn, Weight: ptr(80), Neck: ptr(38 / 2.54), Waist: ptr(85 / 2.54),
	})
	profile := &domain.Profile{HeightCm: ptr(180), Sex: domain.SexMale}
	svc := app.NewSummaryService(records, profileOf(profile), app.SummaryOptions{})

	got, err := svc.Today(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BodyFat.Display != "16.2%" {
		t.Errorf("body fat = %+v", got.BodyFat)
	}
}

func TestToday_MissingInputsCarryHints(t *testing.T) {
	profile := &domain.Profile{Sex: domain.SexFemale}
	records := listOf(domain.Record{Date: day(0), Unit: domain.UnitCm, Neck: ptr(32), Waist: ptr(75)})
	svc := app.NewSummaryService(records, profileOf(profile), app.SummaryOptions{})

	got, err := svc.Today(context.Background(), domain.FormulaNavyDensity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BMI.Status != domain.StatusMissingInput || got.BMI.Hint == "" || got.BMI.Value != nil {
		t.Errorf("BMI = %+v", got.BMI)
	}
	if got.BodyFat.Hint != domain.BodyFatHint(domain.SexFemale) || got.BodyFat.Display != domain.Unavailable {
		t.Errorf("body fat = %+v", got.BodyFat)
	}
}

func TestToday_InvalidHeightHasNoHint(t *testing.T) {
	profile := &domain.Profile{HeightCm: ptr(0), Sex: domain.SexMale}
	records := listOf(domain.Record{Date: day(0), Weight: ptr(80)})
	svc := app.NewSummaryService(records, profileOf(profile), app.SummaryOptions{})

	got, err := svc.Today(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BMI.Status != domain.StatusInvalidDomain || got.BMI.Hint != "" || got.BMI.Display != domain.Unavailable {
		t.Errorf("BMI = %+v", got.BMI)
	}
}

func TestToday_NoData(t *testing.T) {
	svc := app.NewSummaryService(&mockRecordRepo{}, &mockProfileRepo{}, app.SummaryOptions{})
	got, err := svc.Today(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != nil || got.Profile != nil || got.Record != nil || got.BMI.Value != nil {
		t.Errorf("unexpected summary: %+v", got)
	}
}

func TestResults_Cards(t *testing.T) {
	records := listOf(
		domain.Record{Date: day(0), Unit: domain.UnitCm, Weight: ptr(90)},
		domain.Record{Date: day(10), Unit: domain.UnitCm, Weight: ptr(92), Waist: ptr(88)},
	)
	svc := app.NewSummaryService(records, &mockProfileRepo{}, app.SummaryOptions{WindowDays: 7})

	cards, window, err := svc.Results(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window != 7 {
		t.Errorf("window = %d; want configured 7", window)
	}
	if len(cards) != len(domain.Fields()) {
		t.Fatalf("got %d cards", len(cards))
	}

	weight := cards[0]
	if weight.Field != domain.FieldWeight || weight.Display != "90.0 kg" || weight.DeltaDisplay != "−2.0" {
		t.Errorf("weight card = %+v", weight)
	}

	waist := cards[1]
	if waist.Display != "88.0 cm" || waist.Delta != nil || waist.DeltaDisplay != "" {
		t.Errorf("waist card = %+v", waist)
	}

	chest := cards[4]
	if chest.Field != domain.FieldChest || chest.Latest != nil || chest.Display != domain.Unavailable {
		t.Errorf("chest card = %+v", chest)
	}
}

func TestHistory_LimitAndConversion(t *testing.T) {
	records := listOf(
		domain.Record{ID: "1", Date: day(0), Unit: domain.UnitIn, Waist: ptr(33), Weight: ptr(100)},
		domain.Record{ID: "2", Date: day(3), Unit: domain.UnitCm, Waist: ptr(86), Weight: ptr(101)},
		domain.Record{ID: "3", Date: day(6), Unit: domain.UnitCm, Waist: ptr(87)},
	)
	svc := app.NewSummaryService(records, &mockProfileRepo{}, app.SummaryOptions{HistoryLimit: 2})

	got, err := svc.History(context.Background(), domain.FieldWaist, -1, "cm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d readings; want configured limit 2", len(got))
	}
	if math.Abs(got[0].Value-33*2.54) > 1e-9 || got[0].Unit != "cm" || got[1].Value != 86 {
		t.Errorf("unexpected readings: %+v", got)
	}

	all, err := svc.History(context.Background(), domain.FieldWaist, 0, "")
	if err != nil || len(all) != 3 || all[0].Unit != "in" {
		t.Errorf("History(all) = %+v, %v", all, err)
	}

	lb, err := svc.History(context.Background(), domain.FieldWeight, 0, "lb")
	if err != nil || len(lb) != 2 || math.Abs(lb[0].Value-220.46226218) > 1e-6 {
		t.Errorf("History(lb) = %+v, %v", lb, err)
	}

	if _, err := svc.History(context.Background(), domain.FieldWeight, 0, "cm"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for weight in cm, got %v", err)
	}
	if _, err := svc.History(context.Background(), domain.FieldNeck, 0, "lb"); !errors.Is(err, domain.ErrInvalidUnit) {
		t.Errorf("expected ErrInvalidUnit for neck in lb, got %v", err)
	}
}

func TestStats(t *testing.T) {
	records := listOf(
		domain.Record{Date: day(0), QuickLog: true, Weight: ptr(80)},
		domain.Record{Date: day(4), Weight: ptr(81)},
		domain.Record{Date: day(9), Weight: ptr(82)},
	)
	svc := app.NewSummaryService(records, &mockProfileRepo{}, app.SummaryOptions{})
	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Records != 3 || st.QuickLogs != 1 {
		t.Errorf("stats = %+v", st)
	}
	if !st.LatestDate.Equal(day(0)) || !st.FirstDate.Equal(day(9)) {
		t.Errorf("range = %v..%v", st.FirstDate, st.LatestDate)
	}
}

func TestSummary_RepoError(t *testing.T) {
	repo := &mockRecordRepo{
		listFn: func(context.Context, int) ([]domain.Record, error) { return nil, errors.New("db down") },
	}
	svc := app.NewSummaryService(repo, &mockProfileRepo{}, app.SummaryOptions{})
	if _, err := svc.Today(context.Background(), ""); err == nil {
		t.Error("Today: expected error")
	}
	if _, _, err := svc.Results(context.Background(), 7); err == nil {
		t.Error("Results: expected error")
	}
	if _, err := svc.Stats(context.Background()); err == nil {
		t.Error("Stats: expected error")
	}
}
