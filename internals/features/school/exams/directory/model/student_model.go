package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentModel merepresentasikan tabel `students`.
// Direktori siswa adalah kolaborator eksternal: subsistem exam hanya
// membaca tabel ini lewat StudentDirectory, tidak pernah menulisnya.
type StudentModel struct {
	StudentID uuid.UUID `json:"student_id" gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey"`

	StudentName string `json:"student_name" gorm:"column:student_name;type:varchar(160);not null"`

	StudentDepartmentID    *uuid.UUID `json:"student_department_id" gorm:"column:student_department_id;type:uuid;index"`
	StudentSubDepartmentID *uuid.UUID `json:"student_sub_department_id" gorm:"column:student_sub_department_id;type:uuid"`
	StudentBatchID         *uuid.UUID `json:"student_batch_id" gorm:"column:student_batch_id;type:uuid;index"`

	StudentIsActive      bool     `json:"student_is_active" gorm:"column:student_is_active;not null;default:true"`
	StudentAttendancePct *float64 `json:"student_attendance_pct" gorm:"column:student_attendance_pct;type:numeric(5,2)"`

	StudentCreatedAt time.Time      `json:"student_created_at" gorm:"column:student_created_at;not null;autoCreateTime"`
	StudentUpdatedAt time.Time      `json:"student_updated_at" gorm:"column:student_updated_at;not null;autoUpdateTime"`
	StudentDeletedAt gorm.DeletedAt `json:"student_deleted_at" gorm:"column:student_deleted_at;index"`
}

func (StudentModel) TableName() string { return "students" }
