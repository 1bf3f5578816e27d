package domain

import (
	"fmt"
	"math"
	"strings"
)

// Unavailable is the placeholder rendered for a metric that cannot be computed.
const Unavailable = "—"

// Status tells whether a derived metric could be computed, and if not, why.
type Status string

// Result statuses.
const (
	StatusOK            Status = "ok"
	StatusMissingInput  Status = "missing_input"
	StatusInvalidDomain Status = "invalid_domain"
)

// Result is the tri-state outcome of a metric computation. Value is only
// meaningful when Status is StatusOK.
type Result struct {
	Value  float64
	Status Status
}

// Available reports whether the result carries a value.
func (r Result) Available() bool { return r.Status == StatusOK }

func okResult(v float64) Result {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{Status: StatusInvalidDomain}
	}
	return Result{Value: v, Status: StatusOK}
}

func missing() Result { return Result{Status: StatusMissingInput} }
func invalid() Result { return Result{Status: StatusInvalidDomain} }

// FormatBMI renders a BMI result with one decimal.
func FormatBMI(r Result) string {
	if !r.Available() {
		return Unavailable
	}
	return fmt.Sprintf("%.1f", r.Value)
}

// FormatBodyFat renders a body-fat result with one decimal and a percent sign.
func FormatBodyFat(r Result) string {
	if !r.Available() {
		return Unavailable
	}
	return fmt.Sprintf("%.1f%%", r.Value)
}

// BMI computes weight(kg) / height(m)^2 from the profile height and the
// record weight. A zero weight yields 0; only a non-positive height or a
// negative weight is outside the domain.
func BMI(p *Profile, r Record) Result {
	if p == nil || p.HeightCm == nil || r.Weight == nil {
		return missing()
	}
	h, w := *p.HeightCm, *r.Weight
	if h <= 0 || w < 0 {
		return invalid()
	}
	m := h / 100
	return okResult(w / (m * m))
}

// BodyFatFormula selects how body fat is estimated from circumferences.
type BodyFatFormula string

// Supported formulas. FormulaNavyLog is the default.
const (
	// FormulaNavyLog is the U.S. Navy circumference formula on inches.
	FormulaNavyLog BodyFatFormula = "navy-log"
	// FormulaNavyDensity estimates body density from centimetres and converts
	// it with the Siri equation.
	FormulaNavyDensity BodyFatFormula = "navy-density"
)

// ParseFormula validates s as a formula name. An empty string selects the
// default.
func ParseFormula(s string) (BodyFatFormula, error) {
	switch f := BodyFatFormula(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormulaNavyLog, nil
	case FormulaNavyLog, FormulaNavyDensity:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormula, s)
	}
}

// NavyBodyFat computes body fat with the canonical circumference-log formula.
func NavyBodyFat(p *Profile, r Record) Result {
	return BodyFat(p, r, FormulaNavyLog)
}

// BodyFat computes body-fat percentage using the given formula. Missing
// inputs yield StatusMissingInput; a non-positive height or log argument
// yields StatusInvalidDomain. Negative estimates are clamped to 0.
func BodyFat(p *Profile, r Record, formula BodyFatFormula) Result {
	c, res, ok := circumferencesOf(p, r)
	if !ok {
		return res
	}
	switch formula {
	case FormulaNavyDensity:
		return navyDensity(c)
	default:
		return navyLog(c.inches())
	}
}

type circumferences struct {
	female bool

	height, neck, waist, hips float64
}

func (c circumferences) inches() circumferences {
	return circumferences{
		female: c.female,
		height: ToInches(c.height),
		neck:   ToInches(c.neck),
		waist:  ToInches(c.waist),
		hips:   ToInches(c.hips),
	}
}

// logArg is the circumference term fed to log10.
func (c circumferences) logArg() float64 {
	if c.female {
		return c.waist + c.hips - c.neck
	}
	return c.waist - c.neck
}

func circumferencesOf(p *Profile, r Record) (circumferences, Result, bool) {
	if p == nil || p.HeightCm == nil || r.Neck == nil || r.Waist == nil {
		return circumferences{}, missing(), false
	}
	female := p.Sex == SexFemale
	if female && r.Hips == nil {
		return circumferences{}, missing(), false
	}
	if *p.HeightCm <= 0 {
		return circumferences{}, invalid(), false
	}
	c := circumferences{
		female: female,
		height: *p.HeightCm,
		neck:   lengthCm(*r.Neck, r.Unit),
		waist:  lengthCm(*r.Waist, r.Unit),
	}
	if female {
		c.hips = lengthCm(*r.Hips, r.Unit)
	}
	if c.logArg() <= 0 {
		return circumferences{}, invalid(), false
	}
	return c, Result{}, true
}

// lengthCm reads a record value in its own unit; anything not entered in
// inches is taken as centimetres.
func lengthCm(v float64, u Unit) float64 {
	if u == UnitIn {
		return ToCm(v)
	}
	return v
}

func navyLog(c circumferences) Result {
	var bf float64
	if c.female {
		bf = 163.205*math.Log10(c.logArg()) - 97.684*math.Log10(c.height) - 78.387
	} else {
		bf = 86.010*math.Log10(c.logArg()) - 70.041*math.Log10(c.height) + 36.76
	}
	return okResult(math.Max(0, bf))
}

func navyDensity(c circumferences) Result {
	var density float64
	if c.female {
		density = 1.29579 - 0.35004*math.Log10(c.logArg()) + 0.22100*math.Log10(c.height)
	} else {
		density = 1.0324 - 0.19077*math.Log10(c.logArg()) + 0.15456*math.Log10(c.height)
	}
	if density <= 0 {
		return invalid()
	}
	return okResult(math.Max(0, 495/density-450))
}

// BMIHint describes the inputs BMI needs.
func BMIHint() string { return "Need: weight + height" }

// BodyFatHint describes the inputs the body-fat estimate needs for sex.
func BodyFatHint(sex Sex) string {
	if sex == SexFemale {
		return "Need: height + neck + waist + hips"
	}
	return "Need: height + neck + waist"
}
