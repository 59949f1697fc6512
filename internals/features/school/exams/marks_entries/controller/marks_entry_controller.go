package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	groupsvc "sekolahku_backend/internals/features/school/exams/exam_groups/service"
	"sekolahku_backend/internals/features/school/exams/marks_entries/dto"
	service "sekolahku_backend/internals/features/school/exams/marks_entries/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/errs"
)

type MarksEntryController struct {
	DB       *gorm.DB
	Service  *service.MarksEntryService
	Groups   *groupsvc.ExamGroupService
	Validate *validator.Validate
}

func NewMarksEntryController(db *gorm.DB, svc *service.MarksEntryService, groups *groupsvc.ExamGroupService) *MarksEntryController {
	return &MarksEntryController{
		DB:       db,
		Service:  svc,
		Groups:   groups,
		Validate: validator.New(),
	}
}

/* =======================================================
   Guard responsibility guru
======================================================= */

// role teacher hanya boleh menulis kalau responsibility penugasannya di
// group mengizinkan; admin/owner lewat tanpa cek.
func (ctl *MarksEntryController) ensureTeacherCan(
	c *fiber.Ctx,
	examID uuid.UUID,
	can func(ctx *fiber.Ctx, groupID, teacherID uuid.UUID) (bool, error),
) error {
	if helper.GetRoleFromToken(c) != constants.RoleTeacher {
		return nil
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	groupID, err := ctl.Service.GroupIDForExam(c.Context(), examID)
	if err != nil {
		return err
	}
	ok, err := can(c, groupID, teacherID)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Permission("penugasan Anda di group ini tidak mengizinkan menulis nilai")
	}
	return nil
}

func (ctl *MarksEntryController) canEnter(c *fiber.Ctx, groupID, teacherID uuid.UUID) (bool, error) {
	return ctl.Groups.CanTeacherEnterMarks(c.Context(), groupID, teacherID)
}

func (ctl *MarksEntryController) canModify(c *fiber.Ctx, groupID, teacherID uuid.UUID) (bool, error) {
	return ctl.Groups.CanTeacherModifyMarks(c.Context(), groupID, teacherID)
}

/* =======================================================
   Read
======================================================= */

// 🟢 GET /api/a/marks-entries/:id
func (ctl *MarksEntryController) GetByID(c *fiber.Ctx) error {
	entryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}

	entry, err := ctl.Service.GetEntry(c.Context(), entryID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	resp, err := dto.FromModel(entry)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Detail marks entry", resp)
}

// 🟢 GET /api/a/marks-entries/exams/:exam_id
func (ctl *MarksEntryController) ListByExam(c *fiber.Ctx) error {
	examID, err := helper.ParseUUIDParam(c, "exam_id")
	if err != nil {
		return helper.FromAppError(c, err)
	}

	rows, err := ctl.Service.ListByExam(c.Context(), examID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	resp, err := dto.FromModels(rows)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Daftar marks entry", resp)
}

// 🟢 GET /api/a/marks-entries/exams/:exam_id/statistics
func (ctl *MarksEntryController) GetStatistics(c *fiber.Ctx) error {
	examID, err := helper.ParseUUIDParam(c, "exam_id")
	if err != nil {
		return helper.FromAppError(c, err)
	}

	stats, err := ctl.Service.GetStatistics(c.Context(), examID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if stats == nil {
		return helper.Success(c, "Belum ada nilai yang masuk", nil)
	}
	return helper.Success(c, "Statistik kelas", stats)
}

/* =======================================================
   Bulk materialization
======================================================= */

// 🟢 POST /api/a/marks-entries/exams/:exam_id/bulk
func (ctl *MarksEntryController) BulkCreate(c *fiber.Ctx) error {
	examID, err := helper.ParseUUIDParam(c, "exam_id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	res, err := ctl.Service.BulkCreate(c.Context(), examID, actor)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Marks entries berhasil dibuat", res)
}

/* =======================================================
   Mutasi nilai
======================================================= */

// 🟢 PATCH /api/a/marks-entries/:id/marks
func (ctl *MarksEntryController) UpdateMarks(c *fiber.Ctx) error {
	entryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.UpdateMarksRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	entry, err := ctl.Service.GetEntry(c.Context(), entryID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	guard := ctl.canEnter
	if service.NeedsModifyPermission(entry) {
		guard = ctl.canModify
	}
	if err := ctl.ensureTeacherCan(c, entry.MarksEntryExamID, guard); err != nil {
		return helper.FromAppError(c, err)
	}

	updated, err := ctl.Service.UpdateMarks(c.Context(), entry, req.ToPatches(), actor)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	resp, err := dto.FromModel(updated)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Nilai berhasil disimpan", resp)
}

// 🟢 PATCH /api/a/marks-entries/:id/attendance
func (ctl *MarksEntryController) MarkAttendance(c *fiber.Ctx) error {
	entryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	entry, err := ctl.Service.GetEntry(c.Context(), entryID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if err := ctl.ensureTeacherCan(c, entry.MarksEntryExamID, ctl.canEnter); err != nil {
		return helper.FromAppError(c, err)
	}

	updated, err := ctl.Service.MarkAttendance(c.Context(), entry, req.Status, req.Remarks, actor)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	resp, err := dto.FromModel(updated)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Kehadiran berhasil dicatat", resp)
}

/* =======================================================
   Verify & publish
======================================================= */

// 🟢 POST /api/a/marks-entries/:id/verify
func (ctl *MarksEntryController) Verify(c *fiber.Ctx) error {
	entryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	entry, err := ctl.Service.Verify(c.Context(), entryID, actor)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	resp, err := dto.FromModel(entry)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Nilai berhasil diverifikasi", resp)
}

// 🟢 POST /api/a/marks-entries/:id/publish
func (ctl *MarksEntryController) Publish(c *fiber.Ctx) error {
	entryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	entry, err := ctl.Service.Publish(c.Context(), entryID, actor)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	resp, err := dto.FromModel(entry)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Nilai berhasil dipublikasikan", resp)
}

// 🟢 POST /api/a/marks-entries/exams/:exam_id/verify
func (ctl *MarksEntryController) VerifyExam(c *fiber.Ctx) error {
	examID, err := helper.ParseUUIDParam(c, "exam_id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	res, err := ctl.Service.VerifyExam(c.Context(), examID, actor)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Verifikasi batch selesai", res)
}

// 🟢 POST /api/a/marks-entries/exams/:exam_id/publish
func (ctl *MarksEntryController) PublishExam(c *fiber.Ctx) error {
	examID, err := helper.ParseUUIDParam(c, "exam_id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	actor, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	res, err := ctl.Service.PublishExam(c.Context(), examID, actor)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.Success(c, "Publikasi batch selesai", res)
}
