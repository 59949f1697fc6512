package route

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	examGroupRoute "sekolahku_backend/internals/features/school/exams/exam_groups/route"
	marksEntryRoute "sekolahku_backend/internals/features/school/exams/marks_entries/route"
	auth "sekolahku_backend/internals/middlewares/auth"
)

// SetupRoutes mendaftarkan seluruh route aplikasi. Semua endpoint
// school berada di bawah /api/a dan wajib JWT.
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client) {
	log.Println("[INFO] Setting up routes...")

	api := app.Group("/api/a",
		auth.AuthJWT(auth.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	examGroupRoute.ExamGroupAdminRoutes(api, db)
	marksEntryRoute.MarksEntryRoutes(api, db, rdb)

	log.Println("[INFO] Routes ready.")
}
