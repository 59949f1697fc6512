package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dirsvc "sekolahku_backend/internals/features/school/exams/directory/service"
	model "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	"sekolahku_backend/internals/helpers/errs"
)

func ptrF(v float64) *float64 { return &v }

func student(batch *uuid.UUID, active bool, attendance *float64) dirsvc.StudentRecord {
	return dirsvc.StudentRecord{
		ID:            uuid.New(),
		BatchID:       batch,
		IsActive:      active,
		AttendancePct: attendance,
	}
}

func TestResolveByBatchWithExclusionAndFilters(t *testing.T) {
	batch := uuid.New()
	otherBatch := uuid.New()

	inBatch1 := student(&batch, true, ptrF(92))
	inBatch2 := student(&batch, true, ptrF(80))
	lowAttendance := student(&batch, true, ptrF(40))
	inactive := student(&batch, false, ptrF(95))
	outsider := student(&otherBatch, true, ptrF(99))

	dir := dirsvc.NewInMemDirectory(inBatch1, inBatch2, lowAttendance, inactive, outsider)
	r := NewEligibilityResolver(dir)

	ids, err := r.Resolve(context.Background(), model.SelectionCriterion{
		Type:     model.SelectionByBatch,
		BatchIDs: []uuid.UUID{batch},
		Exclude:  []uuid.UUID{inBatch2.ID},
		Filters: model.SelectionFilters{
			OnlyActiveStudents: true,
			MinAttendancePct:   ptrF(75),
		},
	})
	require.NoError(t, err)

	// inBatch2 di-exclude, lowAttendance & inactive kena filter, outsider beda batch
	assert.Equal(t, []uuid.UUID{inBatch1.ID}, ids)
}

func TestResolveExclusionAppliesLast(t *testing.T) {
	s1 := student(nil, true, nil)
	s2 := student(nil, true, nil)

	dir := dirsvc.NewInMemDirectory(s1, s2)
	r := NewEligibilityResolver(dir)

	// exclusion mengalahkan inklusi literal pada selection custom
	ids, err := r.Resolve(context.Background(), model.SelectionCriterion{
		Type:       model.SelectionCustom,
		StudentIDs: []uuid.UUID{s1.ID, s2.ID},
		Exclude:    []uuid.UUID{s1.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s2.ID}, ids)
}

func TestResolveOutputIsSortedAndDeduped(t *testing.T) {
	s1 := student(nil, true, nil)
	s2 := student(nil, true, nil)
	s3 := student(nil, true, nil)

	dir := dirsvc.NewInMemDirectory(s1, s2, s3)
	r := NewEligibilityResolver(dir)

	ids, err := r.Resolve(context.Background(), model.SelectionCriterion{
		Type:       model.SelectionCustom,
		StudentIDs: []uuid.UUID{s3.ID, s1.ID, s2.ID, s1.ID},
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)
	for i := 1; i < len(ids); i++ {
		assert.True(t, ids[i-1].String() < ids[i].String(), "output harus terurut")
	}
}

func TestResolveCustomUnknownStudentFailsValidation(t *testing.T) {
	s1 := student(nil, true, nil)
	dir := dirsvc.NewInMemDirectory(s1)
	r := NewEligibilityResolver(dir)

	_, err := r.Resolve(context.Background(), model.SelectionCriterion{
		Type:       model.SelectionCustom,
		StudentIDs: []uuid.UUID{s1.ID, uuid.New()},
	})
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestResolveNonEmpty(t *testing.T) {
	dir := dirsvc.NewInMemDirectory() // direktori kosong
	r := NewEligibilityResolver(dir)

	_, err := r.ResolveNonEmpty(context.Background(), model.SelectionCriterion{Type: model.SelectionAll})
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}

func TestResolveMissingVariantData(t *testing.T) {
	dir := dirsvc.NewInMemDirectory()
	r := NewEligibilityResolver(dir)

	_, err := r.Resolve(context.Background(), model.SelectionCriterion{Type: model.SelectionByDepartment})
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.KindValidation))
}
