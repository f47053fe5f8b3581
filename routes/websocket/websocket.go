package websocket

import (
	"campuslearn/controllers"
	"campuslearn/middleware"
	"campuslearn/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Register(r *gin.Engine, db *gorm.DB, hub *ws.Hub) {
	r.GET("/ws/chat", middleware.RateLimit(), controllers.LiveChat(db, hub))
}
