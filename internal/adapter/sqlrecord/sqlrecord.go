// Package sqlrecord maps measurement records to the columns of the
// measurements table shared by the SQL adapters.
package sqlrecord

import (
	"strconv"
	"strings"

	"qiyas/internal/domain"
)

var fieldColumns = map[domain.Field]string{
	domain.FieldWeight:       "weight",
	domain.FieldWaist:        "waist",
	domain.FieldHips:         "hips",
	domain.FieldNeck:         "neck",
	domain.FieldChest:        "chest",
	domain.FieldShoulder:     "shoulder",
	domain.FieldLeftArm:      "left_arm",
	domain.FieldRightArm:     "right_arm",
	domain.FieldLeftForearm:  "left_forearm",
	domain.FieldRightForearm: "right_forearm",
	domain.FieldLeftThigh:    "left_thigh",
	domain.FieldRightThigh:   "right_thigh",
	domain.FieldLeftKnee:     "left_knee",
	domain.FieldRightKnee:    "right_knee",
}

// Column returns the column that stores f.
func Column(f domain.Field) string { return fieldColumns[f] }

// Columns lists the measurements columns in the order Targets and Args use.
func Columns() []string {
	cols := []string{"id", "day", "unit"}
	for _, f := range domain.Fields() {
		cols = append(cols, Column(f))
	}
	return append(cols, "notes", "quick_log", "created_at", "updated_at")
}

// SelectList is Columns joined for a SELECT clause.
func SelectList() string { return strings.Join(Columns(), ", ") }

// Targets returns Scan destinations for one row of Columns. The day column
// lands in day as YYYY-MM-DD text; timestamps land in created and updated in
// whatever form the driver produces.
func Targets(r *domain.Record, day *string, created, updated any) []any {
	out := []any{&r.ID, day, &r.Unit}
	for _, f := range domain.Fields() {
		out = append(out, f.Ptr(r))
	}
	return append(out, &r.Notes, &r.QuickLog, created, updated)
}

// Args returns the values of r in Columns order.
func Args(r domain.Record, created, updated any) []any {
	out := []any{r.ID, domain.FormatDay(r.Date), string(r.Unit)}
	for _, f := range domain.Fields() {
		if v, ok := f.Value(r); ok {
			out = append(out, v)
		} else {
			out = append(out, nil)
		}
	}
	return append(out, r.Notes, r.QuickLog, created, updated)
}

// Placeholders renders n bind markers starting at from, either numbered
// ($1, $2, ...) or anonymous (?).
func Placeholders(from, n int, numbered bool) string {
	parts := make([]string, n)
	for i := range parts {
		if numbered {
			parts[i] = "$" + strconv.Itoa(from+i)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// Assignments renders "col = marker" pairs for every column but id, for an
// UPDATE statement. Markers start at from.
func Assignments(from int, numbered bool) string {
	cols := Columns()[1:]
	parts := make([]string, len(cols))
	for i, c := range cols {
		marker := "?"
		if numbered {
			marker = "$" + strconv.Itoa(from+i)
		}
		parts[i] = c + " = " + marker
	}
	return strings.Join(parts, ", ")
}
