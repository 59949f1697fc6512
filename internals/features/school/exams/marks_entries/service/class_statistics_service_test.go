package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "sekolahku_backend/internals/features/school/exams/marks_entries/model"
)

func entryWith(result model.ResultStatus, obtained, pct float64, letter string) model.MarksEntryModel {
	return model.MarksEntryModel{
		MarksEntryIsEntered:     result == model.ResultPass || result == model.ResultFail,
		MarksEntryResultStatus:  result,
		MarksEntryTotalObtained: obtained,
		MarksEntryPercentage:    pct,
		MarksEntryGradeLetter:   letter,
	}
}

func TestComputeClassStatisticsNilWhenNoData(t *testing.T) {
	assert.Nil(t, ComputeClassStatistics(nil))

	pendingOnly := []model.MarksEntryModel{
		entryWith(model.ResultPending, 0, 0, ""),
		entryWith(model.ResultPending, 0, 0, ""),
	}
	assert.Nil(t, ComputeClassStatistics(pendingOnly), "belum ada data ≠ statistik nol")
}

func TestComputeClassStatistics(t *testing.T) {
	entries := []model.MarksEntryModel{
		entryWith(model.ResultPass, 70, 70, "B+"),
		entryWith(model.ResultPass, 90, 90, "A+"),
		entryWith(model.ResultFail, 20, 20, "F"),
		entryWith(model.ResultAbsent, 0, 0, ""),
		entryWith(model.ResultPending, 0, 0, ""),
	}

	stats := ComputeClassStatistics(entries)
	require.NotNil(t, stats)

	assert.Equal(t, 5, stats.TotalStudents)
	assert.Equal(t, 2, stats.PassCount)
	assert.Equal(t, 1, stats.FailCount)
	assert.Equal(t, 1, stats.AbsentCount)

	// absen & pending tidak masuk rata-rata
	assert.Equal(t, 60.0, stats.AverageMarks)
	assert.Equal(t, 60.0, stats.AveragePercentage)
	assert.Equal(t, 90.0, stats.Highest)
	assert.Equal(t, 20.0, stats.Lowest)
	assert.Equal(t, 66.67, stats.PassPercentage)

	assert.Equal(t, map[string]int{"B+": 1, "A+": 1, "F": 1}, stats.GradeDistribution)
}

func TestComputeClassStatisticsAllAbsent(t *testing.T) {
	entries := []model.MarksEntryModel{
		entryWith(model.ResultAbsent, 0, 0, ""),
		entryWith(model.ResultAbsent, 0, 0, ""),
	}

	stats := ComputeClassStatistics(entries)
	require.NotNil(t, stats, "absen adalah data, bukan ketiadaan data")

	assert.Equal(t, 2, stats.AbsentCount)
	assert.Zero(t, stats.PassCount)
	assert.Zero(t, stats.AverageMarks)
	assert.Zero(t, stats.PassPercentage)
}
