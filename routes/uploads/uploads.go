package uploads

import (
	"campuslearn/controllers"
	"campuslearn/pkg/config"
	svc "campuslearn/pkg/services"

	"github.com/gin-gonic/gin"
)

// RegisterStatic serves stored attachments.
func RegisterStatic(r *gin.Engine) {
	r.Static("/uploads", config.UploadDir)
}

// Register registers the protected upload endpoint.
func Register(g *gin.RouterGroup, storage *svc.AttachmentStorage) {
	g.POST("/upload/file", controllers.UploadFile(storage))
}
