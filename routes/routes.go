package routes

import (
	"net/http"

	"campuslearn/middleware"
	svc "campuslearn/pkg/services"
	"campuslearn/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	adminRoutes "campuslearn/routes/admin"
	authRoutes "campuslearn/routes/auth"
	chatRoutes "campuslearn/routes/chat"
	forumRoutes "campuslearn/routes/forum"
	moduleRoutes "campuslearn/routes/modules"
	uploadsRoutes "campuslearn/routes/uploads"
	userRoutes "campuslearn/routes/user"
	websocketRoutes "campuslearn/routes/websocket"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	hub := ws.NewHub()
	storage := svc.NewAttachmentStorage()
	assistant := svc.NewAssistantService()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "CampusLearn backend running"})
	})

	uploadsRoutes.RegisterStatic(r)
	websocketRoutes.Register(r, db, hub)
	authRoutes.RegisterPublic(r, db)
	forumRoutes.RegisterPublic(r, db)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware())
	authRoutes.RegisterProtected(protected, db)
	userRoutes.Register(protected, db)
	chatRoutes.Register(protected, db, storage)
	forumRoutes.Register(protected, db, assistant)
	moduleRoutes.Register(protected, db)
	uploadsRoutes.Register(protected, storage)
	adminRoutes.Register(protected, db)
}
