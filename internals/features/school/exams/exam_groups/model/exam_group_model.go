package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sekolahku_backend/internals/helpers/errs"
)

/* ========================================================
   Status group
======================================================== */

type ExamGroupStatus string

const (
	GroupStatusDraft     ExamGroupStatus = "draft"
	GroupStatusFinalized ExamGroupStatus = "finalized"
	GroupStatusActive    ExamGroupStatus = "active"
	GroupStatusCompleted ExamGroupStatus = "completed"
	GroupStatusCancelled ExamGroupStatus = "cancelled"
)

// urutan maju draft→finalized→active→completed; cancelled menyerap
// semua status non-terminal.
var groupStatusRank = map[ExamGroupStatus]int{
	GroupStatusDraft:     0,
	GroupStatusFinalized: 1,
	GroupStatusActive:    2,
	GroupStatusCompleted: 3,
}

// CanTransition mengecek legalitas perpindahan status group.
func CanTransition(from, to ExamGroupStatus) bool {
	if from == to {
		return false
	}
	if to == GroupStatusCancelled {
		return from != GroupStatusCompleted && from != GroupStatusCancelled
	}
	fromRank, okFrom := groupStatusRank[from]
	toRank, okTo := groupStatusRank[to]
	if !okFrom || !okTo {
		return false
	}
	return toRank == fromRank+1
}

/* ========================================================
   Model
======================================================== */

// ExamGroupModel merepresentasikan tabel `exam_groups`.
// Roster & penugasan guru hidup di tabel sendiri (bukan array embedded)
// supaya mutasi per baris tidak menulis ulang seluruh aggregate;
// exam_group_version menjadi guard optimistic-concurrency untuk operasi
// yang menyentuh aggregate.
type ExamGroupModel struct {
	ExamGroupID uuid.UUID `json:"exam_group_id" gorm:"column:exam_group_id;type:uuid;default:gen_random_uuid();primaryKey"`

	ExamGroupExamID    uuid.UUID  `json:"exam_group_exam_id" gorm:"column:exam_group_exam_id;type:uuid;not null;index"`
	ExamGroupSubjectID *uuid.UUID `json:"exam_group_subject_id" gorm:"column:exam_group_subject_id;type:uuid"`

	ExamGroupName        string  `json:"exam_group_name" gorm:"column:exam_group_name;type:varchar(180);not null"`
	ExamGroupDescription *string `json:"exam_group_description" gorm:"column:exam_group_description;type:text"`

	// SelectionCriterion disimpan verbatim untuk audit & re-resolve;
	// membership yang dihasilkannya dimaterialisasi ke roster.
	ExamGroupSelection     datatypes.JSON `json:"exam_group_selection" gorm:"column:exam_group_selection;type:jsonb;not null"`
	ExamGroupGradingConfig datatypes.JSON `json:"exam_group_grading_config" gorm:"column:exam_group_grading_config;type:jsonb;not null"`

	ExamGroupStatus ExamGroupStatus `json:"exam_group_status" gorm:"column:exam_group_status;type:varchar(20);not null;default:draft"`

	// cache; dihitung ulang tiap mutasi, tidak pernah di-set manual
	ExamGroupStatistics datatypes.JSON `json:"exam_group_statistics" gorm:"column:exam_group_statistics;type:jsonb"`

	ExamGroupIsMarksEntryStarted bool `json:"exam_group_is_marks_entry_started" gorm:"column:exam_group_is_marks_entry_started;not null;default:false"`

	// counter roll number per group (deterministik, monotonic)
	ExamGroupRosterSeq int `json:"exam_group_roster_seq" gorm:"column:exam_group_roster_seq;not null;default:0"`

	ExamGroupVersion int `json:"exam_group_version" gorm:"column:exam_group_version;not null;default:1"`

	ExamGroupCreatedBy      uuid.UUID  `json:"exam_group_created_by" gorm:"column:exam_group_created_by;type:uuid;not null"`
	ExamGroupLastModifiedBy *uuid.UUID `json:"exam_group_last_modified_by" gorm:"column:exam_group_last_modified_by;type:uuid"`

	ExamGroupCreatedAt time.Time      `json:"exam_group_created_at" gorm:"column:exam_group_created_at;not null;autoCreateTime"`
	ExamGroupUpdatedAt time.Time      `json:"exam_group_updated_at" gorm:"column:exam_group_updated_at;not null;autoUpdateTime"`
	ExamGroupDeletedAt gorm.DeletedAt `json:"exam_group_deleted_at" gorm:"column:exam_group_deleted_at;index"`
}

func (ExamGroupModel) TableName() string { return "exam_groups" }

// Transition memindahkan status dengan guard forward-only.
func (m *ExamGroupModel) Transition(to ExamGroupStatus) error {
	if !CanTransition(m.ExamGroupStatus, to) {
		return errs.Newf(errs.KindState, "transisi status %s → %s tidak diizinkan", m.ExamGroupStatus, to)
	}
	m.ExamGroupStatus = to
	return nil
}

// GroupStatistics adalah blok cache statistik pada group.
type GroupStatistics struct {
	TotalStudents    int `json:"total_students"`
	ActiveStudents   int `json:"active_students"`
	EligibleStudents int `json:"eligible_students"`
	ActiveTeachers   int `json:"active_teachers"`
}
