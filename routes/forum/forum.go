package forum

import (
	"campuslearn/controllers"
	"campuslearn/middleware"
	"campuslearn/models"
	svc "campuslearn/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterPublic registers the open question list.
func RegisterPublic(r *gin.Engine, db *gorm.DB) {
	r.GET("/forum", controllers.ListQuestions(db))
}

// Register registers forum routes that need an authenticated caller.
func Register(g *gin.RouterGroup, db *gorm.DB, assistant *svc.AssistantService) {
	g.POST("/forum/ask", middleware.RateLimit(), controllers.AskQuestion(db, assistant))
	g.POST("/forum/answer/:question_id", middleware.RequireRole(db, models.RoleTutor), controllers.AnswerQuestion(db))
}
