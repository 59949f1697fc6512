package service

import (
	"math"
	"sort"

	groupmodel "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	model "sekolahku_backend/internals/features/school/exams/marks_entries/model"
)

// Grade adalah hasil evaluasi tabel batas nilai.
type Grade struct {
	Letter      string
	Points      float64
	Description string
}

// EvaluateGrade memetakan persentase ke tepat satu grade: tabel diurut
// menurun lalu diambil batas pertama yang terlewati. Deterministik dan
// total untuk seluruh [0,100] selama tabel punya baris min 0.
func EvaluateGrade(boundaries []groupmodel.GradeBoundary, percentage float64) Grade {
	if len(boundaries) == 0 {
		boundaries = groupmodel.DefaultGradeBoundaries()
	}
	sorted := make([]groupmodel.GradeBoundary, len(boundaries))
	copy(sorted, boundaries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinPercentage > sorted[j].MinPercentage })

	for _, b := range sorted {
		if percentage >= b.MinPercentage {
			return Grade{Letter: b.Letter, Points: b.Points, Description: b.Description}
		}
	}
	last := sorted[len(sorted)-1]
	return Grade{Letter: last.Letter, Points: last.Points, Description: last.Description}
}

// Derive menghitung ulang seluruh field turunan dari komponen +
// kehadiran. Dipanggil di SETIAP batas mutasi; tidak ada getter lazy
// yang bisa desync dari state tersimpan.
func Derive(entry *model.MarksEntryModel, cfg groupmodel.GradingConfig) error {
	components, err := entry.Components()
	if err != nil {
		return err
	}

	var max, obtained float64
	for _, c := range components {
		max += c.MaxMarks
		obtained += c.Obtained
	}

	entry.MarksEntryTotalMax = round2(max)
	entry.MarksEntryTotalObtained = round2(obtained)
	if max > 0 {
		entry.MarksEntryPercentage = round2(obtained / max * 100)
	} else {
		entry.MarksEntryPercentage = 0
	}

	grade := EvaluateGrade(cfg.GradeBoundaries, entry.MarksEntryPercentage)
	entry.MarksEntryGradeLetter = grade.Letter
	entry.MarksEntryGradePoints = grade.Points
	entry.MarksEntryGradeDescription = grade.Description

	entry.MarksEntryPassingMarks = cfg.PassingMarks

	// absen menimpa hasil turunan nilai, bukan dihitung dari nol
	if entry.MarksEntryAttendanceStatus == model.AttendanceAbsent {
		entry.MarksEntryResultStatus = model.ResultAbsent
		entry.MarksEntryIsPassed = false
		return nil
	}

	if !entry.MarksEntryIsEntered {
		entry.MarksEntryResultStatus = model.ResultPending
		entry.MarksEntryIsPassed = false
		return nil
	}

	if entry.MarksEntryTotalObtained >= cfg.PassingMarks {
		entry.MarksEntryResultStatus = model.ResultPass
		entry.MarksEntryIsPassed = true
	} else {
		entry.MarksEntryResultStatus = model.ResultFail
		entry.MarksEntryIsPassed = false
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
