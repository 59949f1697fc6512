package model

import (
	"encoding/json"

	"gorm.io/datatypes"

	"sekolahku_backend/internals/helpers/errs"
)

/* ========================================================
   Grading config (JSONB di exam_groups)
======================================================== */

type GradingComponent struct {
	Name      string  `json:"name"`
	MaxMarks  float64 `json:"max_marks"`
	Weightage float64 `json:"weightage"`
}

// GradeBoundary: baris tabel batas nilai, diurut menurun berdasarkan
// MinPercentage saat evaluasi.
type GradeBoundary struct {
	MinPercentage float64 `json:"min_percentage"`
	Letter        string  `json:"letter"`
	Points        float64 `json:"points"`
	Description   string  `json:"description"`
}

type GradingConfig struct {
	TotalMarks      float64            `json:"total_marks"`
	PassingMarks    float64            `json:"passing_marks"`
	Components      []GradingComponent `json:"components"`
	GradeBoundaries []GradeBoundary    `json:"grade_boundaries,omitempty"`
}

// DefaultGradeBoundaries dipakai kalau config tidak membawa tabel sendiri.
func DefaultGradeBoundaries() []GradeBoundary {
	return []GradeBoundary{
		{MinPercentage: 90, Letter: "A+", Points: 10, Description: "Outstanding"},
		{MinPercentage: 80, Letter: "A", Points: 9, Description: "Excellent"},
		{MinPercentage: 70, Letter: "B+", Points: 8, Description: "Very Good"},
		{MinPercentage: 60, Letter: "B", Points: 7, Description: "Good"},
		{MinPercentage: 50, Letter: "C", Points: 6, Description: "Average"},
		{MinPercentage: 40, Letter: "D", Points: 5, Description: "Below Average"},
		{MinPercentage: 0, Letter: "F", Points: 0, Description: "Fail"},
	}
}

func (g *GradingConfig) Validate() error {
	if g.TotalMarks <= 0 {
		return errs.Validation("total_marks harus > 0")
	}
	if g.PassingMarks < 0 || g.PassingMarks > g.TotalMarks {
		return errs.Validation("passing_marks di luar rentang total_marks")
	}
	if len(g.Components) == 0 {
		return errs.Validation("grading config butuh minimal satu komponen")
	}
	seen := make(map[string]bool, len(g.Components))
	for _, c := range g.Components {
		if c.Name == "" {
			return errs.Validation("nama komponen kosong")
		}
		if seen[c.Name] {
			return errs.Newf(errs.KindValidation, "komponen %q duplikat", c.Name)
		}
		seen[c.Name] = true
		if c.MaxMarks <= 0 {
			return errs.Newf(errs.KindValidation, "max_marks komponen %q harus > 0", c.Name)
		}
	}
	return nil
}

func (g GradingConfig) ToJSON() (datatypes.JSON, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func GradingConfigFromJSON(raw datatypes.JSON) (GradingConfig, error) {
	var g GradingConfig
	if len(raw) == 0 {
		return g, errs.Validation("grading config kosong")
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return g, errs.Wrap(errs.KindValidation, "grading config tidak bisa dibaca", err)
	}
	return g, nil
}
