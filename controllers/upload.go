package controllers

import (
	"errors"
	"net/http"

	svc "campuslearn/pkg/services"

	"github.com/gin-gonic/gin"
)

// UploadFile handles POST /upload/file. The storage layer enforces the
// attachment allow-list and size ceiling before anything touches disk.
func UploadFile(storage *svc.AttachmentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "No file uploaded"})
			return
		}

		saved, err := storage.SaveAttachment(fh)
		if err != nil {
			if errors.Is(err, svc.ErrAttachmentType) || errors.Is(err, svc.ErrAttachmentTooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to store file"})
			return
		}

		c.JSON(http.StatusOK, saved)
	}
}
