package sqlrecord

import (
	"testing"
	"time"

	"qiyas/internal/domain"
)

func TestColumnsLineUpWithArgsAndTargets(t *testing.T) {
	cols := Columns()
	if len(cols) != 3+len(domain.Fields())+4 {
		t.Fatalf("unexpected column count %d", len(cols))
	}
	for _, f := range domain.Fields() {
		if Column(f) == "" {
			t.Errorf("field %s has no column", f)
		}
	}

	w := 70.5
	r := domain.Record{ID: "x", Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Unit: domain.UnitIn, Weight: &w}
	args := Args(r, int64(1), int64(2))
	if len(args) != len(cols) {
		t.Fatalf("Args has %d values for %d columns", len(args), len(cols))
	}
	if args[1] != "2025-01-02" || args[2] != "in" || args[3] != 70.5 || args[4] != nil {
		t.Errorf("unexpected args: %v", args[:5])
	}

	var day string
	if got := Targets(&domain.Record{}, &day, new(int64), new(int64)); len(got) != len(cols) {
		t.Errorf("Targets has %d destinations for %d columns", len(got), len(cols))
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(1, 3, true); got != "$1, $2, $3" {
		t.Errorf("numbered = %q", got)
	}
	if got := Placeholders(1, 2, false); got != "?, ?" {
		t.Errorf("anonymous = %q", got)
	}
	if got := Assignments(2, true); got[:10] != "day = $2, " {
		t.Errorf("assignments = %q", got)
	}
}
