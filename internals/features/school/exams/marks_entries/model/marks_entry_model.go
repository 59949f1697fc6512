package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sekolahku_backend/internals/helpers/errs"
)

/* ========================================================
   Enums
======================================================== */

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

func ValidAttendanceStatus(s AttendanceStatus) bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

type ResultStatus string

const (
	ResultPass    ResultStatus = "pass"
	ResultFail    ResultStatus = "fail"
	ResultAbsent  ResultStatus = "absent"
	ResultPending ResultStatus = "pending"
)

/* ========================================================
   Blok JSONB
======================================================== */

// MarksComponent adalah satu komponen nilai di dalam
// marks_entry_components (JSONB).
type MarksComponent struct {
	Name      string     `json:"name"`
	MaxMarks  float64    `json:"max_marks"`
	Obtained  float64    `json:"obtained"`
	Weightage float64    `json:"weightage"`
	EnteredBy *uuid.UUID `json:"entered_by,omitempty"`
	EnteredAt *time.Time `json:"entered_at,omitempty"`
	Remarks   *string    `json:"remarks,omitempty"`
}

// AuditLogEntry adalah satu baris jejak perubahan nilai.
type AuditLogEntry struct {
	Action        string    `json:"action"`
	PerformedBy   uuid.UUID `json:"performed_by"`
	PerformedAt   time.Time `json:"performed_at"`
	PreviousMarks *float64  `json:"previous_marks,omitempty"`
	NewMarks      *float64  `json:"new_marks,omitempty"`
	Details       string    `json:"details,omitempty"`
}

/* ========================================================
   Model
======================================================== */

// MarksEntryModel merepresentasikan tabel `marks_entries`: satu baris
// per (exam, student), dijaga partial unique index uq_marks_exam_student.
// total/grade/result selalu DERIVED — dihitung ulang di setiap mutasi,
// tidak pernah di-set langsung.
type MarksEntryModel struct {
	MarksEntryID uuid.UUID `json:"marks_entry_id" gorm:"column:marks_entry_id;type:uuid;default:gen_random_uuid();primaryKey"`

	MarksEntryExamID        uuid.UUID  `json:"marks_entry_exam_id" gorm:"column:marks_entry_exam_id;type:uuid;not null;index"`
	MarksEntrySubjectID     *uuid.UUID `json:"marks_entry_subject_id" gorm:"column:marks_entry_subject_id;type:uuid"`
	MarksEntryStudentID     uuid.UUID  `json:"marks_entry_student_id" gorm:"column:marks_entry_student_id;type:uuid;not null;index"`
	MarksEntryRosterEntryID *uuid.UUID `json:"marks_entry_roster_entry_id" gorm:"column:marks_entry_roster_entry_id;type:uuid"`

	// kehadiran
	MarksEntryAttendanceStatus   AttendanceStatus `json:"marks_entry_attendance_status" gorm:"column:marks_entry_attendance_status;type:varchar(10);not null;default:present"`
	MarksEntryAttendanceMarkedBy *uuid.UUID       `json:"marks_entry_attendance_marked_by" gorm:"column:marks_entry_attendance_marked_by;type:uuid"`
	MarksEntryAttendanceMarkedAt *time.Time       `json:"marks_entry_attendance_marked_at" gorm:"column:marks_entry_attendance_marked_at"`
	MarksEntryAttendanceRemarks  *string          `json:"marks_entry_attendance_remarks" gorm:"column:marks_entry_attendance_remarks;type:text"`

	MarksEntryComponents datatypes.JSON `json:"marks_entry_components" gorm:"column:marks_entry_components;type:jsonb;not null"`

	// derived
	MarksEntryTotalMax      float64 `json:"marks_entry_total_max" gorm:"column:marks_entry_total_max;type:numeric(6,2);not null;default:0"`
	MarksEntryTotalObtained float64 `json:"marks_entry_total_obtained" gorm:"column:marks_entry_total_obtained;type:numeric(6,2);not null;default:0"`
	MarksEntryPercentage    float64 `json:"marks_entry_percentage" gorm:"column:marks_entry_percentage;type:numeric(5,2);not null;default:0"`

	MarksEntryGradeLetter      string  `json:"marks_entry_grade_letter" gorm:"column:marks_entry_grade_letter;type:varchar(5);not null;default:''"`
	MarksEntryGradePoints      float64 `json:"marks_entry_grade_points" gorm:"column:marks_entry_grade_points;type:numeric(4,2);not null;default:0"`
	MarksEntryGradeDescription string  `json:"marks_entry_grade_description" gorm:"column:marks_entry_grade_description;type:varchar(40);not null;default:''"`

	MarksEntryResultStatus ResultStatus `json:"marks_entry_result_status" gorm:"column:marks_entry_result_status;type:varchar(10);not null;default:pending"`
	MarksEntryIsPassed     bool         `json:"marks_entry_is_passed" gorm:"column:marks_entry_is_passed;not null;default:false"`
	MarksEntryPassingMarks float64      `json:"marks_entry_passing_marks" gorm:"column:marks_entry_passing_marks;type:numeric(6,2);not null;default:0"`

	// workflow
	MarksEntryIsEntered     bool       `json:"marks_entry_is_entered" gorm:"column:marks_entry_is_entered;not null;default:false"`
	MarksEntryIsVerified    bool       `json:"marks_entry_is_verified" gorm:"column:marks_entry_is_verified;not null;default:false"`
	MarksEntryVerifiedBy    *uuid.UUID `json:"marks_entry_verified_by" gorm:"column:marks_entry_verified_by;type:uuid"`
	MarksEntryVerifiedAt    *time.Time `json:"marks_entry_verified_at" gorm:"column:marks_entry_verified_at"`
	MarksEntryIsPublished   bool       `json:"marks_entry_is_published" gorm:"column:marks_entry_is_published;not null;default:false"`
	MarksEntryPublishedBy   *uuid.UUID `json:"marks_entry_published_by" gorm:"column:marks_entry_published_by;type:uuid"`
	MarksEntryPublishedAt   *time.Time `json:"marks_entry_published_at" gorm:"column:marks_entry_published_at"`
	MarksEntryRevisionCount int        `json:"marks_entry_revision_count" gorm:"column:marks_entry_revision_count;not null;default:0"`
	MarksEntryLastRevisedBy *uuid.UUID `json:"marks_entry_last_revised_by" gorm:"column:marks_entry_last_revised_by;type:uuid"`
	MarksEntryLastRevisedAt *time.Time `json:"marks_entry_last_revised_at" gorm:"column:marks_entry_last_revised_at"`

	MarksEntryAuditLog datatypes.JSON `json:"marks_entry_audit_log" gorm:"column:marks_entry_audit_log;type:jsonb;not null"`

	MarksEntryCreatedAt time.Time      `json:"marks_entry_created_at" gorm:"column:marks_entry_created_at;not null;autoCreateTime"`
	MarksEntryUpdatedAt time.Time      `json:"marks_entry_updated_at" gorm:"column:marks_entry_updated_at;not null;autoUpdateTime"`
	MarksEntryDeletedAt gorm.DeletedAt `json:"marks_entry_deleted_at" gorm:"column:marks_entry_deleted_at;index"`
}

func (MarksEntryModel) TableName() string { return "marks_entries" }

/* ========================================================
   Akses blok JSONB
======================================================== */

func (m *MarksEntryModel) Components() ([]MarksComponent, error) {
	var out []MarksComponent
	if len(m.MarksEntryComponents) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(m.MarksEntryComponents, &out); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "komponen nilai tidak bisa dibaca", err)
	}
	return out, nil
}

func (m *MarksEntryModel) SetComponents(components []MarksComponent) error {
	raw, err := json.Marshal(components)
	if err != nil {
		return err
	}
	m.MarksEntryComponents = raw
	return nil
}

func (m *MarksEntryModel) AuditLog() ([]AuditLogEntry, error) {
	var out []AuditLogEntry
	if len(m.MarksEntryAuditLog) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(m.MarksEntryAuditLog, &out); err != nil {
		return nil, errs.Wrap(errs.KindInternal, "audit log tidak bisa dibaca", err)
	}
	return out, nil
}

func (m *MarksEntryModel) AppendAudit(entry AuditLogEntry) error {
	log, err := m.AuditLog()
	if err != nil {
		return err
	}
	log = append(log, entry)
	raw, err := json.Marshal(log)
	if err != nil {
		return err
	}
	m.MarksEntryAuditLog = raw
	return nil
}
