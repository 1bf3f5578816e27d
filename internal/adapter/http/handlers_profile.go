package adapthttp

import (
	"net/http"

	"qiyas/internal/app"
	"qiyas/internal/domain"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": toProfileJSON(p)})
}

// handlePutProfile saves the profile. Height may be given in inches with
// heightUnit "in"; it is stored in centimetres.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string   `json:"name"`
		Age        *int     `json:"age"`
		Height     *float64 `json:"height"`
		HeightUnit string   `json:"heightUnit"`
		Sex        string   `json:"sex"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sex, err := domain.ParseSex(req.Sex)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	in := app.ProfileInput{Name: req.Name, Age: req.Age, Sex: sex}
	if req.Height != nil {
		unit := domain.UnitCm
		if req.HeightUnit != "" {
			if unit, err = domain.ParseUnit(req.HeightUnit); err != nil {
				writeServiceError(w, r, err)
				return
			}
		}
		cm := domain.ConvertLength(*req.Height, unit, domain.UnitCm)
		in.HeightCm = &cm
	}

	p, err := s.profiles.Save(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": toProfileJSON(p)})
}
