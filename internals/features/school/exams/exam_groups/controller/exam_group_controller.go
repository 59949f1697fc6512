package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/exams/exam_groups/dto"
	model "sekolahku_backend/internals/features/school/exams/exam_groups/model"
	service "sekolahku_backend/internals/features/school/exams/exam_groups/service"
	helper "sekolahku_backend/internals/helpers"
)

type ExamGroupController struct {
	DB       *gorm.DB
	Service  *service.ExamGroupService
	Validate *validator.Validate
}

func NewExamGroupController(db *gorm.DB, svc *service.ExamGroupService) *ExamGroupController {
	return &ExamGroupController{
		DB:       db,
		Service:  svc,
		Validate: validator.New(),
	}
}

/* =======================================================
   CRUD
======================================================= */

// 🟢 POST /api/a/exam-groups
func (ctl *ExamGroupController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.CreateExamGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	group, err := ctl.Service.CreateGroup(c.Context(), req.ToInput(actor))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Exam group berhasil dibuat", dto.FromModel(group))
}

// 🟢 GET /api/a/exam-groups
func (ctl *ExamGroupController) List(c *fiber.Ctx) error {
	in := service.ListGroupsInput{
		Limit:  helper.ClampLimit(helper.AtoiOr(20, c.Query("limit"))),
		Offset: helper.AtoiOr(0, c.Query("offset")),
	}
	if raw := c.Query("exam_id"); raw != "" {
		examID, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "exam_id tidak valid")
		}
		in.ExamID = &examID
	}
	if raw := c.Query("status"); raw != "" {
		st := model.ExamGroupStatus(raw)
		in.Status = &st
	}

	rows, total, err := ctl.Service.ListGroups(c.Context(), in)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	data := make([]dto.ExamGroupResponse, 0, len(rows))
	for i := range rows {
		data = append(data, dto.FromModel(&rows[i]))
	}
	return helper.Success(c, "Daftar exam group", dto.ListExamGroupResponse{
		Data:   data,
		Total:  total,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
}

// 🟢 GET /api/a/exam-groups/:id
func (ctl *ExamGroupController) GetByID(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}

	group, err := ctl.Service.GetGroup(c.Context(), groupID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	roster, err := ctl.Service.ListRoster(c.Context(), groupID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	teachers, err := ctl.Service.ListTeachers(c.Context(), groupID)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	return helper.Success(c, "Detail exam group", dto.ExamGroupDetailResponse{
		ExamGroupResponse: dto.FromModel(group),
		Roster:            roster,
		Teachers:          teachers,
	})
}

// 🟢 PATCH /api/a/exam-groups/:id
func (ctl *ExamGroupController) Patch(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.PatchExamGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	group, err := ctl.Service.PatchGroup(c.Context(), groupID, req.ExamGroupName, req.ExamGroupDescription, actor, nil)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Exam group berhasil diperbarui", dto.FromModel(group))
}

// 🟢 DELETE /api/a/exam-groups/:id
func (ctl *ExamGroupController) Delete(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	if err := ctl.Service.DeleteGroup(c.Context(), groupID, actor); err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Exam group berhasil dihapus", fiber.Map{"exam_group_id": groupID})
}

// 🟢 GET /api/a/exam-groups/:id/statistics
// Membaca blok statistik cache pada group (dihitung ulang tiap mutasi).
func (ctl *ExamGroupController) GetStatistics(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}

	group, err := ctl.Service.GetGroup(c.Context(), groupID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Statistik exam group", fiber.Map{
		"exam_group_id":         group.ExamGroupID,
		"exam_group_statistics": group.ExamGroupStatistics,
		"exam_group_version":    group.ExamGroupVersion,
	})
}

/* =======================================================
   Eligibility
======================================================= */

// 🟢 POST /api/a/exam-groups/resolve-eligible
// Preview siswa yang lolos kriteria, tanpa menyentuh group manapun.
func (ctl *ExamGroupController) ResolveEligible(c *fiber.Ctx) error {
	var req dto.ResolveEligibleRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}

	ids, err := ctl.Service.Resolver.Resolve(c.Context(), req.Selection)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Siswa eligible", fiber.Map{
		"student_ids": ids,
		"count":       len(ids),
	})
}

// 🟢 GET /api/a/exam-groups/:id/re-resolve
func (ctl *ExamGroupController) PreviewReResolve(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}

	preview, err := ctl.Service.PreviewReResolve(c.Context(), groupID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Preview re-resolve roster", preview)
}

/* =======================================================
   Roster
======================================================= */

// 🟢 POST /api/a/exam-groups/:id/students
func (ctl *ExamGroupController) AddStudent(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.AddStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	group, err := ctl.Service.AddStudent(c.Context(), service.AddStudentInput{
		GroupID:         groupID,
		StudentID:       req.StudentID,
		SeatNumber:      req.SeatNumber,
		IsRetake:        req.IsRetake,
		Accommodations:  req.Accommodations,
		Actor:           actor,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Siswa berhasil ditambahkan", dto.FromModel(group))
}

// 🟢 DELETE /api/a/exam-groups/:id/students
func (ctl *ExamGroupController) RemoveStudent(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.RemoveStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	in := service.RemoveStudentInput{
		GroupID:         groupID,
		StudentID:       req.StudentID,
		Reason:          req.Reason,
		Actor:           actor,
		ExpectedVersion: req.ExpectedVersion,
	}
	if req.NewStatus != nil {
		in.NewStatus = model.RosterEntryStatus(*req.NewStatus)
	}

	group, err := ctl.Service.RemoveStudent(c.Context(), in)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Siswa berhasil dikeluarkan dari roster", dto.FromModel(group))
}

/* =======================================================
   Penugasan guru
======================================================= */

// 🟢 POST /api/a/exam-groups/:id/teachers
func (ctl *ExamGroupController) AssignTeacher(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.AssignTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	group, err := ctl.Service.AssignTeacher(c.Context(), service.AssignTeacherInput{
		GroupID:         groupID,
		TeacherID:       req.TeacherID,
		Role:            model.TeacherRole(req.Role),
		Responsibility:  req.Responsibility,
		Actor:           actor,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Guru berhasil ditugaskan", dto.FromModel(group))
}

// 🟢 DELETE /api/a/exam-groups/:id/teachers
func (ctl *ExamGroupController) UnassignTeacher(c *fiber.Ctx) error {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.UnassignTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	group, err := ctl.Service.UnassignTeacher(c.Context(), service.UnassignTeacherInput{
		GroupID:         groupID,
		TeacherID:       req.TeacherID,
		Role:            model.TeacherRole(req.Role),
		Reason:          req.Reason,
		Actor:           actor,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Penugasan guru berhasil dicabut", dto.FromModel(group))
}

/* =======================================================
   Transisi workflow
======================================================= */

func (ctl *ExamGroupController) parseTransition(c *fiber.Ctx) (uuid.UUID, uuid.UUID, *int, error) {
	groupID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, err
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, err
	}

	// body opsional; kosong berarti tanpa guard versi
	var req dto.TransitionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return uuid.Nil, uuid.Nil, nil, fiber.NewError(fiber.StatusBadRequest, "Payload tidak valid")
		}
	}
	return groupID, actor, req.ExpectedVersion, nil
}

// 🟢 POST /api/a/exam-groups/:id/finalize-students
func (ctl *ExamGroupController) FinalizeStudentList(c *fiber.Ctx) error {
	groupID, actor, ver, err := ctl.parseTransition(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	group, err := ctl.Service.FinalizeStudentList(c.Context(), groupID, actor, ver)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Daftar siswa difinalisasi", dto.FromModel(group))
}

// 🟢 POST /api/a/exam-groups/:id/complete-teacher-assignment
func (ctl *ExamGroupController) CompleteTeacherAssignment(c *fiber.Ctx) error {
	groupID, actor, ver, err := ctl.parseTransition(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	group, err := ctl.Service.CompleteTeacherAssignment(c.Context(), groupID, actor, ver)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Penugasan guru lengkap, group aktif", dto.FromModel(group))
}

// 🟢 POST /api/a/exam-groups/:id/complete-marks-entry
func (ctl *ExamGroupController) CompleteMarksEntry(c *fiber.Ctx) error {
	groupID, actor, ver, err := ctl.parseTransition(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	group, err := ctl.Service.CompleteMarksEntry(c.Context(), groupID, actor, ver)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Entri nilai group dinyatakan selesai", dto.FromModel(group))
}

// 🟢 POST /api/a/exam-groups/:id/cancel
func (ctl *ExamGroupController) Cancel(c *fiber.Ctx) error {
	groupID, actor, ver, err := ctl.parseTransition(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	group, err := ctl.Service.CancelGroup(c.Context(), groupID, actor, ver)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Exam group dibatalkan", dto.FromModel(group))
}
