package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	groupmodel "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	model "sekolahku_backend/internals/features/school/exams/marks_entries/model"
)

func testConfig() groupmodel.GradingConfig {
	return groupmodel.GradingConfig{
		TotalMarks:   100,
		PassingMarks: 35,
		Components: []groupmodel.GradingComponent{
			{Name: "Theory", MaxMarks: 70, Weightage: 70},
			{Name: "Practical", MaxMarks: 30, Weightage: 30},
		},
		GradeBoundaries: groupmodel.DefaultGradeBoundaries(),
	}
}

func freshEntry(t *testing.T, cfg groupmodel.GradingConfig) *model.MarksEntryModel {
	t.Helper()
	entry := &model.MarksEntryModel{
		MarksEntryAttendanceStatus: model.AttendancePresent,
		MarksEntryResultStatus:     model.ResultPending,
	}
	require.NoError(t, entry.SetComponents(ZeroedComponents(cfg)))
	return entry
}

func TestEvaluateGradeDefaultTable(t *testing.T) {
	boundaries := groupmodel.DefaultGradeBoundaries()

	tests := []struct {
		pct    float64
		letter string
		points float64
	}{
		{100, "A+", 10},
		{90, "A+", 10},
		{89.99, "A", 9},
		{70, "B+", 8},
		{69.99, "B", 7},
		{50, "C", 6},
		{40, "D", 5},
		{39.99, "F", 0},
		{0, "F", 0},
	}
	for _, tt := range tests {
		g := EvaluateGrade(boundaries, tt.pct)
		assert.Equal(t, tt.letter, g.Letter, "pct %v", tt.pct)
		assert.Equal(t, tt.points, g.Points, "pct %v", tt.pct)
	}
}

func TestEvaluateGradeIgnoresTableOrder(t *testing.T) {
	shuffled := []groupmodel.GradeBoundary{
		{MinPercentage: 0, Letter: "F"},
		{MinPercentage: 80, Letter: "A", Points: 9},
		{MinPercentage: 40, Letter: "D", Points: 5},
	}
	g := EvaluateGrade(shuffled, 85)
	assert.Equal(t, "A", g.Letter)
}

func TestDeriveTotalsGradeAndResult(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)

	comps, err := entry.Components()
	require.NoError(t, err)
	comps[0].Obtained = 49 // Theory
	comps[1].Obtained = 21 // Practical
	require.NoError(t, entry.SetComponents(comps))
	entry.MarksEntryIsEntered = true

	require.NoError(t, Derive(entry, cfg))

	assert.Equal(t, 100.0, entry.MarksEntryTotalMax)
	assert.Equal(t, 70.0, entry.MarksEntryTotalObtained)
	assert.Equal(t, 70.0, entry.MarksEntryPercentage)
	assert.Equal(t, "B+", entry.MarksEntryGradeLetter)
	assert.Equal(t, model.ResultPass, entry.MarksEntryResultStatus)
	assert.True(t, entry.MarksEntryIsPassed)
	assert.Equal(t, 35.0, entry.MarksEntryPassingMarks)
}

func TestDerivePendingWhenNotEntered(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)

	require.NoError(t, Derive(entry, cfg))

	assert.Equal(t, model.ResultPending, entry.MarksEntryResultStatus)
	assert.False(t, entry.MarksEntryIsPassed)
}

func TestDeriveAbsentOverridesMarks(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)

	comps, err := entry.Components()
	require.NoError(t, err)
	comps[0].Obtained = 70
	comps[1].Obtained = 30
	require.NoError(t, entry.SetComponents(comps))
	entry.MarksEntryIsEntered = true
	entry.MarksEntryAttendanceStatus = model.AttendanceAbsent

	require.NoError(t, Derive(entry, cfg))

	// nilai turunan tetap dihitung, status hasil ditimpa absent
	assert.Equal(t, 100.0, entry.MarksEntryTotalObtained)
	assert.Equal(t, model.ResultAbsent, entry.MarksEntryResultStatus)
	assert.False(t, entry.MarksEntryIsPassed)
}

func TestDeriveFailBelowPassingMarks(t *testing.T) {
	cfg := testConfig()
	entry := freshEntry(t, cfg)

	comps, err := entry.Components()
	require.NoError(t, err)
	comps[0].Obtained = 20
	comps[1].Obtained = 10
	require.NoError(t, entry.SetComponents(comps))
	entry.MarksEntryIsEntered = true

	require.NoError(t, Derive(entry, cfg))

	assert.Equal(t, 30.0, entry.MarksEntryTotalObtained)
	assert.Equal(t, model.ResultFail, entry.MarksEntryResultStatus)
	assert.False(t, entry.MarksEntryIsPassed)
}

func TestDeriveRoundsToTwoDecimals(t *testing.T) {
	cfg := groupmodel.GradingConfig{
		TotalMarks:   30,
		PassingMarks: 10,
		Components: []groupmodel.GradingComponent{
			{Name: "Quiz", MaxMarks: 30, Weightage: 100},
		},
		GradeBoundaries: groupmodel.DefaultGradeBoundaries(),
	}
	entry := freshEntry(t, cfg)

	comps, err := entry.Components()
	require.NoError(t, err)
	comps[0].Obtained = 10
	require.NoError(t, entry.SetComponents(comps))
	entry.MarksEntryIsEntered = true

	require.NoError(t, Derive(entry, cfg))

	// 10/30 = 33.333...% → 33.33
	assert.Equal(t, 33.33, entry.MarksEntryPercentage)
}
