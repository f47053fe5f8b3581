package modules

import (
	"campuslearn/controllers"
	"campuslearn/middleware"
	"campuslearn/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers module and enrollment routes (protected)
func Register(g *gin.RouterGroup, db *gorm.DB) {
	g.GET("/modules", controllers.ListModules(db))
	g.GET("/modules/:module_id", controllers.GetModule(db))
	g.GET("/modules/tutor/:tutor_id", controllers.ListTutorModules(db))

	tutorOnly := middleware.RequireRole(db, models.RoleTutor)
	g.POST("/modules", tutorOnly, controllers.CreateModule(db))
	g.PUT("/modules/:module_id", tutorOnly, controllers.UpdateModule(db))
	g.DELETE("/modules/:module_id", tutorOnly, controllers.DeleteModule(db))
	g.POST("/modules/:module_id/materials", tutorOnly, controllers.AddModuleMaterial(db))
	g.GET("/modules/:module_id/enrollments", tutorOnly, controllers.ModuleEnrollments(db))

	g.POST("/modules/:module_id/enroll", controllers.Enroll(db))
	g.GET("/enrollments", controllers.MyEnrollments(db))
	g.PUT("/enrollments/:enrollment_id", controllers.UpdateEnrollmentStatus(db))
	g.GET("/enrollments/student/:student_id", middleware.RequireRole(db, models.RoleAdmin), controllers.StudentEnrollments(db))
}
