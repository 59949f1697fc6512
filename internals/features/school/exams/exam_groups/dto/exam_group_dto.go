package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	model "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	service "sekolahku_backend/internals/features/school/exams/exam_groups/service"
)

/* =========================================================
   Helpers
   ========================================================= */

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

/* =========================================================
   1) REQUESTS
   ========================================================= */

type CreateExamGroupRequest struct {
	ExamGroupExamID    uuid.UUID  `json:"exam_group_exam_id" validate:"required"`
	ExamGroupSubjectID *uuid.UUID `json:"exam_group_subject_id"`

	ExamGroupName        string  `json:"exam_group_name" validate:"required,max=180"`
	ExamGroupDescription *string `json:"exam_group_description" validate:"omitempty,max=2000"`

	ExamGroupSelection     model.SelectionCriterion `json:"exam_group_selection" validate:"required"`
	ExamGroupGradingConfig *model.GradingConfig     `json:"exam_group_grading_config"`
}

func (r CreateExamGroupRequest) ToInput(actor uuid.UUID) service.CreateGroupInput {
	return service.CreateGroupInput{
		ExamID:        r.ExamGroupExamID,
		SubjectID:     r.ExamGroupSubjectID,
		Name:          strings.TrimSpace(r.ExamGroupName),
		Description:   trimPtr(r.ExamGroupDescription),
		Selection:     r.ExamGroupSelection,
		GradingConfig: r.ExamGroupGradingConfig,
		Actor:         actor,
	}
}

type PatchExamGroupRequest struct {
	ExamGroupName        *string `json:"exam_group_name" validate:"omitempty,max=180"`
	ExamGroupDescription *string `json:"exam_group_description" validate:"omitempty,max=2000"`
}

type ResolveEligibleRequest struct {
	Selection model.SelectionCriterion `json:"selection" validate:"required"`
}

type AddStudentRequest struct {
	StudentID       uuid.UUID `json:"student_id" validate:"required"`
	SeatNumber      *string   `json:"seat_number" validate:"omitempty,max=32"`
	IsRetake        bool      `json:"is_retake"`
	Accommodations  []string  `json:"accommodations"`
	ExpectedVersion *int      `json:"expected_version"`
}

type RemoveStudentRequest struct {
	StudentID       uuid.UUID `json:"student_id" validate:"required"`
	NewStatus       *string   `json:"new_status" validate:"omitempty,oneof=inactive transferred exempted"`
	Reason          *string   `json:"reason" validate:"omitempty,max=500"`
	ExpectedVersion *int      `json:"expected_version"`
}

type AssignTeacherRequest struct {
	TeacherID       uuid.UUID                    `json:"teacher_id" validate:"required"`
	Role            string                       `json:"role" validate:"required,oneof=primary-examiner co-examiner moderator external-examiner practical-examiner"`
	Responsibility  *model.MarkingResponsibility `json:"responsibility"`
	ExpectedVersion *int                         `json:"expected_version"`
}

type UnassignTeacherRequest struct {
	TeacherID       uuid.UUID `json:"teacher_id" validate:"required"`
	Role            string    `json:"role" validate:"required,oneof=primary-examiner co-examiner moderator external-examiner practical-examiner"`
	Reason          *string   `json:"reason" validate:"omitempty,max=500"`
	ExpectedVersion *int      `json:"expected_version"`
}

type TransitionRequest struct {
	ExpectedVersion *int `json:"expected_version"`
}

/* =========================================================
   2) RESPONSES
   ========================================================= */

type ExamGroupResponse struct {
	ExamGroupID        uuid.UUID  `json:"exam_group_id"`
	ExamGroupExamID    uuid.UUID  `json:"exam_group_exam_id"`
	ExamGroupSubjectID *uuid.UUID `json:"exam_group_subject_id"`

	ExamGroupName        string  `json:"exam_group_name"`
	ExamGroupDescription *string `json:"exam_group_description"`

	ExamGroupSelection     datatypes.JSON `json:"exam_group_selection"`
	ExamGroupGradingConfig datatypes.JSON `json:"exam_group_grading_config"`

	ExamGroupStatus              model.ExamGroupStatus `json:"exam_group_status"`
	ExamGroupStatistics          datatypes.JSON        `json:"exam_group_statistics"`
	ExamGroupIsMarksEntryStarted bool                  `json:"exam_group_is_marks_entry_started"`
	ExamGroupVersion             int                   `json:"exam_group_version"`

	ExamGroupCreatedBy      uuid.UUID  `json:"exam_group_created_by"`
	ExamGroupLastModifiedBy *uuid.UUID `json:"exam_group_last_modified_by"`
	ExamGroupCreatedAt      time.Time  `json:"exam_group_created_at"`
	ExamGroupUpdatedAt      time.Time  `json:"exam_group_updated_at"`
	ExamGroupDeletedAt      *time.Time `json:"exam_group_deleted_at"`
}

func FromModel(m *model.ExamGroupModel) ExamGroupResponse {
	var deletedAt *time.Time
	if m.ExamGroupDeletedAt.Valid {
		t := m.ExamGroupDeletedAt.Time
		deletedAt = &t
	}
	return ExamGroupResponse{
		ExamGroupID:                  m.ExamGroupID,
		ExamGroupExamID:              m.ExamGroupExamID,
		ExamGroupSubjectID:           m.ExamGroupSubjectID,
		ExamGroupName:                m.ExamGroupName,
		ExamGroupDescription:         m.ExamGroupDescription,
		ExamGroupSelection:           m.ExamGroupSelection,
		ExamGroupGradingConfig:       m.ExamGroupGradingConfig,
		ExamGroupStatus:              m.ExamGroupStatus,
		ExamGroupStatistics:          m.ExamGroupStatistics,
		ExamGroupIsMarksEntryStarted: m.ExamGroupIsMarksEntryStarted,
		ExamGroupVersion:             m.ExamGroupVersion,
		ExamGroupCreatedBy:           m.ExamGroupCreatedBy,
		ExamGroupLastModifiedBy:      m.ExamGroupLastModifiedBy,
		ExamGroupCreatedAt:           m.ExamGroupCreatedAt,
		ExamGroupUpdatedAt:           m.ExamGroupUpdatedAt,
		ExamGroupDeletedAt:           deletedAt,
	}
}

type ExamGroupDetailResponse struct {
	ExamGroupResponse
	Roster   []model.RosterEntryModel       `json:"roster"`
	Teachers []model.TeacherAssignmentModel `json:"teachers"`
}

type ListExamGroupResponse struct {
	Data   []ExamGroupResponse `json:"data"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}
