package service

import (
	"context"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/school/exams/marks_entries/model"
)

// ClassStatistics adalah ringkasan read-side satu exam. Cache, bukan
// sumber kebenaran: benar-tidaknya didefinisikan relatif ke ledger.
type ClassStatistics struct {
	TotalStudents     int            `json:"total_students"`
	AverageMarks      float64        `json:"average_marks"`
	AveragePercentage float64        `json:"average_percentage"`
	Highest           float64        `json:"highest"`
	Lowest            float64        `json:"lowest"`
	PassCount         int            `json:"pass_count"`
	FailCount         int            `json:"fail_count"`
	AbsentCount       int            `json:"absent_count"`
	PassPercentage    float64        `json:"pass_percentage"`
	GradeDistribution map[string]int `json:"grade_distribution"`
}

// ComputeClassStatistics merangkum slice entry. Nil kalau belum ada data
// nilai sama sekali — "belum ada data" ≠ "nilai nol". Absen masuk total
// tapi dikecualikan dari rata-rata.
func ComputeClassStatistics(entries []model.MarksEntryModel) *ClassStatistics {
	entered := 0
	for i := range entries {
		if entries[i].MarksEntryIsEntered || entries[i].MarksEntryResultStatus == model.ResultAbsent {
			entered++
		}
	}
	if entered == 0 {
		return nil
	}

	stats := &ClassStatistics{
		TotalStudents:     len(entries),
		GradeDistribution: map[string]int{},
	}

	var sumMarks, sumPct float64
	counted := 0
	first := true

	for i := range entries {
		e := &entries[i]
		switch e.MarksEntryResultStatus {
		case model.ResultAbsent:
			stats.AbsentCount++
			continue
		case model.ResultPass:
			stats.PassCount++
		case model.ResultFail:
			stats.FailCount++
		case model.ResultPending:
			continue
		}

		sumMarks += e.MarksEntryTotalObtained
		sumPct += e.MarksEntryPercentage
		counted++

		if first || e.MarksEntryTotalObtained > stats.Highest {
			stats.Highest = e.MarksEntryTotalObtained
		}
		if first || e.MarksEntryTotalObtained < stats.Lowest {
			stats.Lowest = e.MarksEntryTotalObtained
		}
		first = false

		if e.MarksEntryGradeLetter != "" {
			stats.GradeDistribution[e.MarksEntryGradeLetter]++
		}
	}

	if counted > 0 {
		stats.AverageMarks = round2(sumMarks / float64(counted))
		stats.AveragePercentage = round2(sumPct / float64(counted))
		stats.PassPercentage = round2(float64(stats.PassCount) / float64(counted) * 100)
	}
	return stats
}

// GetStatistics membaca statistik exam, cache dulu baru scan ledger.
func (s *MarksEntryService) GetStatistics(ctx context.Context, examID uuid.UUID) (*ClassStatistics, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, examID); ok {
			return cached, nil
		}
	}

	entries, err := s.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	stats := ComputeClassStatistics(entries)

	if s.Cache != nil && stats != nil {
		s.Cache.Set(ctx, examID, stats)
	}
	return stats, nil
}
