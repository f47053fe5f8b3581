package chat

import (
	"campuslearn/controllers"
	"campuslearn/middleware"
	svc "campuslearn/pkg/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Register registers chat routes (protected)
func Register(g *gin.RouterGroup, db *gorm.DB, storage *svc.AttachmentStorage) {
	// Basic rate limiting on the send endpoint
	g.POST("/chat/send", middleware.RateLimit(), controllers.SendChatMessage(db, storage))
	g.GET("/chat/:user_id", controllers.ListUserConversations(db))
	g.GET("/chat/:user_id/:peer_id", controllers.GetThread(db))
}
