package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	dirsvc "sekolahku_backend/internals/features/school/exams/directory/service"
	groupsvc "sekolahku_backend/internals/features/school/exams/exam_groups/service"
	marksController "sekolahku_backend/internals/features/school/exams/marks_entries/controller"
	service "sekolahku_backend/internals/features/school/exams/marks_entries/service"
	auth "sekolahku_backend/internals/middlewares/auth"
)

// MarksEntryRoutes mendaftarkan endpoint marks entry: entri & revisi
// nilai boleh oleh teacher (responsibility dicek di controller),
// verify/publish hanya admin/owner.
func MarksEntryRoutes(api fiber.Router, db *gorm.DB, rdb *redis.Client) {
	groups := groupsvc.NewExamGroupService(db, groupsvc.NewEligibilityResolver(dirsvc.NewGormDirectory(db)))
	svc := service.NewMarksEntryService(db, service.NewStatsCache(rdb))
	ctl := marksController.NewMarksEntryController(db, svc, groups)

	adminOnly := auth.RequireRoles(
		constants.RoleErrorAdmin("marks entry"),
		constants.AdminAndAbove...,
	)
	teacherUp := auth.RequireRoles(
		constants.RoleErrorTeacher("marks entry"),
		constants.TeacherAndAbove...,
	)

	marks := api.Group("/marks-entries")

	marks.Get("/exams/:exam_id", teacherUp, ctl.ListByExam)
	marks.Get("/exams/:exam_id/statistics", teacherUp, ctl.GetStatistics)
	marks.Get("/:id", teacherUp, ctl.GetByID)

	marks.Post("/exams/:exam_id/bulk", adminOnly, ctl.BulkCreate)

	marks.Patch("/:id/marks", teacherUp, ctl.UpdateMarks)
	marks.Patch("/:id/attendance", teacherUp, ctl.MarkAttendance)

	marks.Post("/:id/verify", adminOnly, ctl.Verify)
	marks.Post("/:id/publish", adminOnly, ctl.Publish)
	marks.Post("/exams/:exam_id/verify", adminOnly, ctl.VerifyExam)
	marks.Post("/exams/:exam_id/publish", adminOnly, ctl.PublishExam)
}
