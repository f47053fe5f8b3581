package admin

import (
	"campuslearn/controllers"
	"campuslearn/middleware"
	"campuslearn/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers admin routes (protected, admin role only)
func Register(g *gin.RouterGroup, db *gorm.DB) {
	adm := g.Group("/admin")
	adm.Use(middleware.RequireRole(db, models.RoleAdmin))
	adm.GET("/users", controllers.AdminListUsers(db))
	adm.PUT("/users/:user_id/status", controllers.AdminUpdateUserStatus(db))
	adm.DELETE("/users/:user_id", controllers.AdminDeleteUser(db))
	adm.GET("/enrollments", controllers.ListAllEnrollments(db))
	adm.GET("/stats", controllers.AdminStats(db))
}
