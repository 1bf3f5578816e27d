package adapthttp

import (
	"time"

	"qiyas/internal/app"
	"qiyas/internal/domain"
)

type recordJSON struct {
	ID        string                   `json:"id"`
	Date      string                   `json:"date"`
	Unit      domain.Unit              `json:"unit"`
	Values    map[domain.Field]float64 `json:"values"`
	Notes     string                   `json:"notes,omitempty"`
	QuickLog  bool                     `json:"quickLog"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func toRecordJSON(r domain.Record) recordJSON {
	return recordJSON{
		ID:        r.ID,
		Date:      domain.FormatDay(r.Date),
		Unit:      r.Unit,
		Values:    valuesOf(r),
		Notes:     r.Notes,
		QuickLog:  r.QuickLog,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toRecordsJSON(rs []domain.Record) []recordJSON {
	out := make([]recordJSON, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRecordJSON(r))
	}
	return out
}

func valuesOf(r domain.Record) map[domain.Field]float64 {
	m := make(map[domain.Field]float64)
	for _, f := range domain.Fields() {
		if v, ok := f.Value(r); ok {
			m[f] = v
		}
	}
	return m
}

// recordRequest is the body of record create and edit calls. Date defaults
// to today and Unit to the server's default unit.
type recordRequest struct {
	Date   string             `json:"date"`
	Unit   string             `json:"unit"`
	Values map[string]float64 `json:"values"`
	Notes  string             `json:"notes"`
}

func (s *Server) recordInput(req recordRequest) (app.RecordInput, error) {
	in := app.RecordInput{Notes: req.Notes, Unit: s.defaultUnit, Date: s.today()}
	if req.Date != "" {
		d, err := domain.ParseDay(req.Date)
		if err != nil {
			return in, err
		}
		in.Date = d
	}
	if req.Unit != "" {
		u, err := domain.ParseUnit(req.Unit)
		if err != nil {
			return in, err
		}
		in.Unit = u
	}
	in.Values = make(map[domain.Field]float64, len(req.Values))
	for k, v := range req.Values {
		f, err := domain.ParseField(k)
		if err != nil {
			return in, err
		}
		in.Values[f] = v
	}
	return in, nil
}

type profileJSON struct {
	Name      string     `json:"name"`
	Age       *int       `json:"age"`
	HeightCm  *float64   `json:"heightCm"`
	Sex       domain.Sex `json:"sex"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toProfileJSON(p *domain.Profile) *profileJSON {
	if p == nil {
		return nil
	}
	return &profileJSON{
		Name:      p.Name,
		Age:       p.Age,
		HeightCm:  p.HeightCm,
		Sex:       p.Sex,
		UpdatedAt: p.UpdatedAt,
	}
}

type readingJSON struct {
	RecordID string  `json:"recordId"`
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
}

func toReadingJSON(rd domain.Reading) readingJSON {
	return readingJSON{
		RecordID: rd.RecordID,
		Date:     domain.FormatDay(rd.Date),
		Value:    rd.Value,
		Unit:     rd.Unit,
	}
}

type metricJSON struct {
	Value   *float64      `json:"value"`
	Status  domain.Status `json:"status"`
	Display string        `json:"display"`
	Hint    string        `json:"hint,omitempty"`
}

func toMetricJSON(m app.Metric) metricJSON {
	return metricJSON{Value: m.Value, Status: m.Status, Display: m.Display, Hint: m.Hint}
}

type cardJSON struct {
	Field        domain.Field `json:"field"`
	Title        string       `json:"title"`
	Latest       *readingJSON `json:"latest"`
	Display      string       `json:"display"`
	Delta        *float64     `json:"delta"`
	DeltaDisplay string       `json:"deltaDisplay,omitempty"`
}

func toCardJSON(c app.Card) cardJSON {
	out := cardJSON{
		Field:        c.Field,
		Title:        c.Title,
		Display:      c.Display,
		Delta:        c.Delta,
		DeltaDisplay: c.DeltaDisplay,
	}
	if c.Latest != nil {
		rd := toReadingJSON(*c.Latest)
		out.Latest = &rd
	}
	return out
}

func dayPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDay(*t)
	return &s
}
