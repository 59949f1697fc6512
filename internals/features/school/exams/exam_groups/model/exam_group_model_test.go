package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from ExamGroupStatus
		to   ExamGroupStatus
		want bool
	}{
		{"draft ke finalized", GroupStatusDraft, GroupStatusFinalized, true},
		{"finalized ke active", GroupStatusFinalized, GroupStatusActive, true},
		{"active ke completed", GroupStatusActive, GroupStatusCompleted, true},
		{"tidak boleh loncat", GroupStatusDraft, GroupStatusActive, false},
		{"tidak boleh mundur", GroupStatusActive, GroupStatusFinalized, false},
		{"status sama bukan transisi", GroupStatusDraft, GroupStatusDraft, false},
		{"cancel dari draft", GroupStatusDraft, GroupStatusCancelled, true},
		{"cancel dari active", GroupStatusActive, GroupStatusCancelled, true},
		{"completed tidak bisa dicancel", GroupStatusCompleted, GroupStatusCancelled, false},
		{"cancelled terminal", GroupStatusCancelled, GroupStatusDraft, false},
		{"cancelled tidak bisa dicancel lagi", GroupStatusCancelled, GroupStatusCancelled, false},
		{"status asing ditolak", ExamGroupStatus("archived"), GroupStatusActive, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransitionMutatesOnlyWhenLegal(t *testing.T) {
	g := &ExamGroupModel{ExamGroupStatus: GroupStatusDraft}

	require.NoError(t, g.Transition(GroupStatusFinalized))
	assert.Equal(t, GroupStatusFinalized, g.ExamGroupStatus)

	err := g.Transition(GroupStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, GroupStatusFinalized, g.ExamGroupStatus, "status tidak boleh berubah saat transisi ilegal")
}

func TestSelectionCriterionValidate(t *testing.T) {
	dept := uuid.New()

	ok := SelectionCriterion{Type: SelectionByDepartment, DepartmentIDs: []uuid.UUID{dept}}
	require.NoError(t, ok.Validate())

	all := SelectionCriterion{Type: SelectionAll}
	require.NoError(t, all.Validate())

	missing := SelectionCriterion{Type: SelectionByBatch}
	require.Error(t, missing.Validate())

	unknown := SelectionCriterion{Type: SelectionType("by_moon_phase")}
	require.Error(t, unknown.Validate())
}

func TestGradingConfigValidate(t *testing.T) {
	base := GradingConfig{
		TotalMarks:   100,
		PassingMarks: 35,
		Components: []GradingComponent{
			{Name: "Theory", MaxMarks: 70, Weightage: 70},
			{Name: "Practical", MaxMarks: 30, Weightage: 30},
		},
	}
	require.NoError(t, base.Validate())

	dup := base
	dup.Components = []GradingComponent{
		{Name: "Theory", MaxMarks: 50},
		{Name: "Theory", MaxMarks: 50},
	}
	require.Error(t, dup.Validate())

	badPassing := base
	badPassing.PassingMarks = 150
	require.Error(t, badPassing.Validate())

	empty := base
	empty.Components = nil
	require.Error(t, empty.Validate())
}

func TestDefaultGradeBoundariesCoverWholeRange(t *testing.T) {
	boundaries := DefaultGradeBoundaries()
	require.NotEmpty(t, boundaries)

	hasZero := false
	for _, b := range boundaries {
		if b.MinPercentage == 0 {
			hasZero = true
		}
	}
	assert.True(t, hasZero, "tabel default harus punya baris min 0 supaya total untuk [0,100]")
}

func TestDefaultResponsibility(t *testing.T) {
	primary := DefaultResponsibility(RolePrimaryExaminer)
	assert.True(t, primary.CanEnterMarks)
	assert.True(t, primary.CanFinalizeMarks)
	assert.False(t, primary.RequiresModeration)

	co := DefaultResponsibility(RoleCoExaminer)
	assert.True(t, co.CanEnterMarks)
	assert.False(t, co.CanFinalizeMarks)

	external := DefaultResponsibility(RoleExternalExaminer)
	assert.True(t, external.RequiresModeration)
	assert.False(t, external.CanFinalizeMarks)
}

func TestRosterEntryAccommodationsAsStringArray(t *testing.T) {
	entry := RosterEntryModel{
		RosterEntryAccommodations: pq.StringArray([]string{"extra-time", "scribe"}),
	}

	raw, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"roster_entry_accommodations":["extra-time","scribe"]`)

	var back RosterEntryModel
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, pq.StringArray{"extra-time", "scribe"}, back.RosterEntryAccommodations)
}

func TestRollNumberFor(t *testing.T) {
	groupID := uuid.MustParse("ab12cd34-0000-0000-0000-000000000000")

	assert.Equal(t, "ab12cd34-001", RollNumberFor(groupID, 1))
	assert.Equal(t, "ab12cd34-042", RollNumberFor(groupID, 42))
	assert.Equal(t, "ab12cd34-1000", RollNumberFor(groupID, 1000))
}
