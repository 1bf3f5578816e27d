package domain

import (
	"fmt"
	"strings"
)

// Field names one tracked measurement of a Record.
type Field string

// Tracked fields, in display order.
const (
	FieldWeight       Field = "weight"
	FieldWaist        Field = "waist"
	FieldHips         Field = "hips"
	FieldNeck         Field = "neck"
	FieldChest        Field = "chest"
	FieldShoulder     Field = "shoulder"
	FieldLeftArm      Field = "leftArm"
	FieldRightArm     Field = "rightArm"
	FieldLeftForearm  Field = "leftForearm"
	FieldRightForearm Field = "rightForearm"
	FieldLeftThigh    Field = "leftThigh"
	FieldRightThigh   Field = "rightThigh"
	FieldLeftKnee     Field = "leftKnee"
	FieldRightKnee    Field = "rightKnee"
)

var fields = []Field{
	FieldWeight,
	FieldWaist,
	FieldHips,
	FieldNeck,
	FieldChest,
	FieldShoulder,
	FieldLeftArm,
	FieldRightArm,
	FieldLeftForearm,
	FieldRightForearm,
	FieldLeftThigh,
	FieldRightThigh,
	FieldLeftKnee,
	FieldRightKnee,
}

var fieldTitles = map[Field]string{
	FieldWeight:       "Weight",
	FieldWaist:        "Waist",
	FieldHips:         "Hips",
	FieldNeck:         "Neck",
	FieldChest:        "Chest",
	FieldShoulder:     "Shoulder",
	FieldLeftArm:      "Left arm",
	FieldRightArm:     "Right arm",
	FieldLeftForearm:  "Left forearm",
	FieldRightForearm: "Right forearm",
	FieldLeftThigh:    "Left thigh",
	FieldRightThigh:   "Right thigh",
	FieldLeftKnee:     "Left knee",
	FieldRightKnee:    "Right knee",
}

// Fields returns every tracked field in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// ParseField resolves a field by name, case-insensitively.
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	for _, f := range fields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidField, s)
}

// Title is the human label of the field.
func (f Field) Title() string { return fieldTitles[f] }

// Linear reports whether the field is a circumference in the record's unit.
func (f Field) Linear() bool { return f != FieldWeight }

// DisplayUnit is the unit label a value of f on r is shown with.
func (f Field) DisplayUnit(r Record) string {
	if !f.Linear() {
		return "kg"
	}
	return string(r.Unit)
}

// Value returns the field's value on r and whether it was measured.
func (f Field) Value(r Record) (float64, bool) {
	p := f.slot(&r)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// Set stores v (nil clears) into the field on r.
func (f Field) Set(r *Record, v *float64) {
	if p := f.slot(r); p != nil {
		*p = v
	}
}

// Ptr exposes the field's storage on r, for scanning database columns.
func (f Field) Ptr(r *Record) **float64 { return f.slot(r) }

func (f Field) slot(r *Record) **float64 {
	switch f {
	case FieldWeight:
		return &r.Weight
	case FieldWaist:
		return &r.Waist
	case FieldHips:
		return &r.Hips
	case FieldNeck:
		return &r.Neck
	case FieldChest:
		return &r.Chest
	case FieldShoulder:
		return &r.Shoulder
	case FieldLeftArm:
		return &r.LeftArm
	case FieldRightArm:
		return &r.RightArm
	case FieldLeftForearm:
		return &r.LeftForearm
	case FieldRightForearm:
		return &r.RightForearm
	case FieldLeftThigh:
		return &r.LeftThigh
	case FieldRightThigh:
		return &r.RightThigh
	case FieldLeftKnee:
		return &r.LeftKnee
	case FieldRightKnee:
		return &r.RightKnee
	}
	return nil
}
