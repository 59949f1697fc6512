package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "sekolahku_backend/internals/features/school/exams/directory/model"
)

// StudentRecord adalah potret satu siswa di direktori pada saat lookup.
// Field-nya persis yang dibutuhkan resolver kelayakan + snapshot roster.
type StudentRecord struct {
	ID              uuid.UUID
	DepartmentID    *uuid.UUID
	SubDepartmentID *uuid.UUID
	BatchID         *uuid.UUID
	IsActive        bool
	AttendancePct   *float64
}

// StudentDirectory adalah kontrak lookup ke direktori siswa.
// Implementasi produksi membaca tabel students; test memakai InMemDirectory.
type StudentDirectory interface {
	Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]StudentRecord, error)
	ListActive(ctx context.Context) ([]StudentRecord, error)
	ListByDepartment(ctx context.Context, ids []uuid.UUID) ([]StudentRecord, error)
	ListBySubDepartment(ctx context.Context, ids []uuid.UUID) ([]StudentRecord, error)
	ListByBatch(ctx context.Context, ids []uuid.UUID) ([]StudentRecord, error)
}

/* ========================================================
   Implementasi GORM
======================================================== */

type GormDirectory struct {
	DB *gorm.DB
}

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

func toRecord(m *model.StudentModel) StudentRecord {
	return StudentRecord{
		ID:              m.StudentID,
		DepartmentID:    m.StudentDepartmentID,
		SubDepartmentID: m.StudentSubDepartmentID,
		BatchID:         m.StudentBatchID,
		IsActive:        m.StudentIsActive,
		AttendancePct:   m.StudentAttendancePct,
	}
}

func (d *GormDirectory) Lookup(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]StudentRecord, error) {
	out := make(map[uuid.UUID]StudentRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.StudentModel
	if err := d.DB.WithContext(ctx).
		Where("student_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].StudentID] = toRecord(&rows[i])
	}
	return out, nil
}

func (d *GormDirectory) ListActive(ctx context.Context) ([]StudentRecord, error) {
	return d.list(ctx, d.DB.WithContext(ctx).Where("student_is_active = TRUE"))
}

func (d *GormDirectory) ListByDepartment(ctx context.Context, ids []uuid.UUID) ([]StudentRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return d.list(ctx, d.DB.WithContext(ctx).Where("student_department_id IN ?", ids))
}

func (d *GormDirectory) ListBySubDepartment(ctx context.Context, ids []uuid.UUID) ([]StudentRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return d.list(ctx, d.DB.WithContext(ctx).Where("student_sub_department_id IN ?", ids))
}

func (d *GormDirectory) ListByBatch(ctx context.Context, ids []uuid.UUID) ([]StudentRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return d.list(ctx, d.DB.WithContext(ctx).Where("student_batch_id IN ?", ids))
}

func (d *GormDirectory) list(ctx context.Context, qry *gorm.DB) ([]StudentRecord, error) {
	var rows []model.StudentModel
	if err := qry.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]StudentRecord, 0, len(rows))
	for i := range rows {
		out = append(out, toRecord(&rows[i]))
	}
	return out, nil
}
