package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	examGroupController "sekolahku_backend/internals/features/school/exams/exam_groups/controller"
	service "sekolahku_backend/internals/features/school/exams/exam_groups/service"
	dirsvc "sekolahku_backend/internals/features/school/exams/directory/service"
	auth "sekolahku_backend/internals/middlewares/auth"
)

// ExamGroupAdminRoutes mendaftarkan seluruh endpoint exam group di bawah
// prefix admin (/api/a).
func ExamGroupAdminRoutes(api fiber.Router, db *gorm.DB) {
	resolver := service.NewEligibilityResolver(dirsvc.NewGormDirectory(db))
	svc := service.NewExamGroupService(db, resolver)
	ctl := examGroupController.NewExamGroupController(db, svc)

	adminOnly := auth.RequireRoles(
		constants.RoleErrorAdmin("exam group"),
		constants.AdminAndAbove...,
	)
	teacherUp := auth.RequireRoles(
		constants.RoleErrorTeacher("exam group"),
		constants.TeacherAndAbove...,
	)

	groups := api.Group("/exam-groups")

	// read untuk teacher ke atas
	groups.Get("/", teacherUp, ctl.List)
	groups.Get("/:id", teacherUp, ctl.GetByID)
	groups.Get("/:id/re-resolve", teacherUp, ctl.PreviewReResolve)
	groups.Get("/:id/statistics", teacherUp, ctl.GetStatistics)

	// mutasi hanya admin/owner
	groups.Post("/", adminOnly, ctl.Create)
	groups.Patch("/:id", adminOnly, ctl.Patch)
	groups.Delete("/:id", adminOnly, ctl.Delete)

	groups.Post("/resolve-eligible", adminOnly, ctl.ResolveEligible)

	groups.Post("/:id/students", adminOnly, ctl.AddStudent)
	groups.Delete("/:id/students", adminOnly, ctl.RemoveStudent)
	groups.Post("/:id/teachers", adminOnly, ctl.AssignTeacher)
	groups.Delete("/:id/teachers", adminOnly, ctl.UnassignTeacher)

	groups.Post("/:id/finalize-students", adminOnly, ctl.FinalizeStudentList)
	groups.Post("/:id/complete-teacher-assignment", adminOnly, ctl.CompleteTeacherAssignment)
	groups.Post("/:id/complete-marks-entry", adminOnly, ctl.CompleteMarksEntry)
	groups.Post("/:id/cancel", adminOnly, ctl.Cancel)
}
