package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"sekolahku_backend/internals/helpers/errs"
)

type TeacherRole string

const (
	RolePrimaryExaminer   TeacherRole = "primary-examiner"
	RoleCoExaminer        TeacherRole = "co-examiner"
	RoleModerator         TeacherRole = "moderator"
	RoleExternalExaminer  TeacherRole = "external-examiner"
	RolePracticalExaminer TeacherRole = "practical-examiner"
)

func ValidTeacherRole(r TeacherRole) bool {
	switch r {
	case RolePrimaryExaminer, RoleCoExaminer, RoleModerator, RoleExternalExaminer, RolePracticalExaminer:
		return true
	}
	return false
}

// MarkingResponsibility disimpan sebagai JSONB pada penugasan.
type MarkingResponsibility struct {
	CanEnterMarks      bool       `json:"can_enter_marks"`
	CanModifyMarks     bool       `json:"can_modify_marks"`
	CanFinalizeMarks   bool       `json:"can_finalize_marks"`
	AssignedComponents []string   `json:"assigned_components,omitempty"`
	MarkingPercentage  float64    `json:"marking_percentage"`
	RequiresModeration bool       `json:"requires_moderation"`
	ModeratedBy        *uuid.UUID `json:"moderated_by,omitempty"`
}

// DefaultResponsibility: canFinalizeMarks hanya primary-examiner,
// requiresModeration hanya external-examiner.
func DefaultResponsibility(role TeacherRole) MarkingResponsibility {
	return MarkingResponsibility{
		CanEnterMarks:      true,
		CanModifyMarks:     true,
		CanFinalizeMarks:   role == RolePrimaryExaminer,
		MarkingPercentage:  100,
		RequiresModeration: role == RoleExternalExaminer,
	}
}

func (r MarkingResponsibility) ToJSON() (datatypes.JSON, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func ResponsibilityFromJSON(raw datatypes.JSON) (MarkingResponsibility, error) {
	var r MarkingResponsibility
	if len(raw) == 0 {
		return r, errs.Validation("marking responsibility kosong")
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return r, errs.Wrap(errs.KindValidation, "marking responsibility tidak bisa dibaca", err)
	}
	return r, nil
}

// TeacherAssignmentModel merepresentasikan tabel `exam_group_teachers`.
// Unik (group, teacher, role) untuk baris AKTIF dijaga partial unique
// index uq_teacher_group_role_active (lihat schema.sql).
type TeacherAssignmentModel struct {
	TeacherAssignmentID uuid.UUID `json:"teacher_assignment_id" gorm:"column:teacher_assignment_id;type:uuid;default:gen_random_uuid();primaryKey"`

	TeacherAssignmentGroupID   uuid.UUID   `json:"teacher_assignment_group_id" gorm:"column:teacher_assignment_group_id;type:uuid;not null;index"`
	TeacherAssignmentTeacherID uuid.UUID   `json:"teacher_assignment_teacher_id" gorm:"column:teacher_assignment_teacher_id;type:uuid;not null;index"`
	TeacherAssignmentRole      TeacherRole `json:"teacher_assignment_role" gorm:"column:teacher_assignment_role;type:varchar(30);not null"`

	TeacherAssignmentResponsibility datatypes.JSON `json:"teacher_assignment_responsibility" gorm:"column:teacher_assignment_responsibility;type:jsonb;not null"`

	TeacherAssignmentIsActive bool `json:"teacher_assignment_is_active" gorm:"column:teacher_assignment_is_active;not null;default:true"`

	TeacherAssignmentAssignedBy uuid.UUID `json:"teacher_assignment_assigned_by" gorm:"column:teacher_assignment_assigned_by;type:uuid;not null"`
	TeacherAssignmentAssignedAt time.Time `json:"teacher_assignment_assigned_at" gorm:"column:teacher_assignment_assigned_at;not null;default:now()"`

	TeacherAssignmentDeactivatedBy      *uuid.UUID `json:"teacher_assignment_deactivated_by" gorm:"column:teacher_assignment_deactivated_by;type:uuid"`
	TeacherAssignmentDeactivatedAt      *time.Time `json:"teacher_assignment_deactivated_at" gorm:"column:teacher_assignment_deactivated_at"`
	TeacherAssignmentDeactivationReason *string    `json:"teacher_assignment_deactivation_reason" gorm:"column:teacher_assignment_deactivation_reason;type:text"`

	TeacherAssignmentCreatedAt time.Time `json:"teacher_assignment_created_at" gorm:"column:teacher_assignment_created_at;not null;autoCreateTime"`
	TeacherAssignmentUpdatedAt time.Time `json:"teacher_assignment_updated_at" gorm:"column:teacher_assignment_updated_at;not null;autoUpdateTime"`
}

func (TeacherAssignmentModel) TableName() string { return "exam_group_teachers" }
