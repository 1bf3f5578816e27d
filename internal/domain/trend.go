package domain

import (
	"fmt"
	"math"
	"time"
)

// Reading is one measured value of a field, with the day and unit it was
// recorded in.
type Reading struct {
	RecordID string
	Date     time.Time
	Value    float64
	Unit     string
}

// Delta is the change of a field between the latest reading and an older
// comparison reading.
type Delta struct {
	Value  float64
	Latest Reading
	Older  Reading
}

// The functions below expect records ordered newest first (see LessRecord)
// and never reorder them; on equal dates the first record wins.

// LatestValue returns the newest reading of f.
func LatestValue(records []Record, f Field) (Reading, bool) {
	for _, r := range records {
		if v, ok := f.Value(r); ok {
			return readingOf(r, f, v), true
		}
	}
	return Reading{}, false
}

// DeltaOverWindow compares the newest reading of f with the first reading
// dated at least windowDays calendar days before it. It reports false when
// either reading is missing. Linear values are compared in the unit of the
// newest reading.
func DeltaOverWindow(records []Record, f Field, windowDays int) (Delta, bool) {
	latest, ok := LatestValue(records, f)
	if !ok {
		return Delta{}, false
	}
	cutoff := latest.Date.AddDate(0, 0, -windowDays)
	for _, r := range records {
		if r.Date.After(cutoff) {
			continue
		}
		if v, ok := f.Value(r); ok {
			older := readingOf(r, f, v)
			ov := older.Value
			if f.Linear() {
				ov = ConvertLength(ov, Unit(older.Unit), Unit(latest.Unit))
			}
			return Delta{Value: latest.Value - ov, Latest: latest, Older: older}, true
		}
	}
	return Delta{}, false
}

// Series returns up to limit readings of f, newest first. limit <= 0 returns
// all of them.
func Series(records []Record, f Field, limit int) []Reading {
	out := make([]Reading, 0)
	for _, r := range records {
		if limit > 0 && len(out) == limit {
			break
		}
		if v, ok := f.Value(r); ok {
			out = append(out, readingOf(r, f, v))
		}
	}
	return out
}

// LatestSnapshot folds the newest reading of every field into one record in
// centimetres, converting each value from the unit of the record it came
// from. The snapshot is dated with the newest record.
func LatestSnapshot(records []Record) Record {
	snap := Record{Unit: UnitCm}
	if len(records) > 0 {
		snap.Date = records[0].Date
	}
	for _, f := range fields {
		rd, ok := LatestValue(records, f)
		if !ok {
			continue
		}
		v := rd.Value
		if f.Linear() {
			v = lengthCm(v, Unit(rd.Unit))
		}
		f.Set(&snap, &v)
	}
	return snap
}

// FormatReading renders a measured value with one decimal.
func FormatReading(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatDelta renders a delta with one decimal and an explicit sign. Values
// that round to zero render as "0.0".
func FormatDelta(d float64) string {
	r := math.Round(d*10) / 10
	switch {
	case r > 0:
		return fmt.Sprintf("+%.1f", r)
	case r < 0:
		return fmt.Sprintf("−%.1f", -r)
	default:
		return "0.0"
	}
}

func readingOf(r Record, f Field, v float64) Reading {
	return Reading{RecordID: r.ID, Date: r.Date, Value: v, Unit: f.DisplayUnit(r)}
}
