package user

import (
	"campuslearn/controllers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers protected profile routes on supplied router group
// expects the group to already have AuthMiddleware applied
func Register(g *gin.RouterGroup, db *gorm.DB) {
	g.GET("/user/profile", controllers.Profile(db))
	g.PUT("/user/profile", controllers.Profile(db))
	g.PUT("/user/schedule", controllers.UpdateSchedule(db))
	g.PUT("/user/progress", controllers.UpdateProgress(db))
}
