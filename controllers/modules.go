package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"campuslearn/middleware"
	"campuslearn/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func materialJSON(m models.ModuleMaterial) gin.H {
	return gin.H{
		"id":         m.ID,
		"title":      m.Title,
		"fileUrl":    m.FileURL,
		"fileType":   m.FileType,
		"uploadedAt": m.UploadedAt,
	}
}

func moduleJSON(m models.Module) gin.H {
	materials := make([]gin.H, 0, len(m.Materials))
	for _, mat := range m.Materials {
		materials = append(materials, materialJSON(mat))
	}
	return gin.H{
		"id":          m.ID,
		"title":       m.Title,
		"description": m.Description,
		"subject":     m.Subject,
		"tutor":       userSummary(m.Tutor, m.Tutor.ID != 0),
		"isActive":    m.IsActive,
		"materials":   materials,
		"createdAt":   m.CreatedAt,
	}
}

// ListModules handles GET /modules: active modules, optionally filtered by
// ?subject=.
func ListModules(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := db.Preload("Tutor").Preload("Materials").Where("is_active = ?", true)
		if subject := strings.TrimSpace(c.Query("subject")); subject != "" {
			q = q.Where("subject = ?", subject)
		}
		var modules []models.Module
		if err := q.Order("created_at DESC").Find(&modules).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(modules))
		for _, m := range modules {
			out = append(out, moduleJSON(m))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GetModule handles GET /modules/:module_id.
func GetModule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("module_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid module id"})
			return
		}
		var m models.Module
		if err := db.Preload("Tutor").Preload("Materials").First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "Module not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, moduleJSON(m))
	}
}

// ListTutorModules handles GET /modules/tutor/:tutor_id.
func ListTutorModules(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tid, err := strconv.Atoi(c.Param("tutor_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid tutor id"})
			return
		}
		var modules []models.Module
		if err := db.Preload("Tutor").Preload("Materials").
			Where("tutor_id = ?", tid).Order("created_at DESC").Find(&modules).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(modules))
		for _, m := range modules {
			out = append(out, moduleJSON(m))
		}
		c.JSON(http.StatusOK, out)
	}
}

type modulePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	IsActive    *bool  `json:"isActive"`
}

// CreateModule handles POST /modules. Route is guarded by RequireRole(tutor).
func CreateModule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var body modulePayload
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		title := strings.TrimSpace(body.Title)
		subject := strings.TrimSpace(body.Subject)
		if title == "" || subject == "" || strings.TrimSpace(body.Description) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Title, description and subject are required"})
			return
		}

		m := models.Module{
			Title:       title,
			Description: body.Description,
			Subject:     subject,
			TutorID:     uid,
			IsActive:    true,
		}
		if err := db.Create(&m).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to create module"})
			return
		}
		if err := db.Preload("Tutor").First(&m, m.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, moduleJSON(m))
	}
}

// ownedModule loads a module and checks the caller is its tutor.
func ownedModule(c *gin.Context, db *gorm.DB) (*models.Module, bool) {
	id, err := strconv.Atoi(c.Param("module_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid module id"})
		return nil, false
	}
	var m models.Module
	if err := db.Preload("Materials").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Module not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return nil, false
	}
	if m.TutorID != middleware.CurrentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"msg": "You can only manage your own modules"})
		return nil, false
	}
	return &m, true
}

// UpdateModule handles PUT /modules/:module_id.
func UpdateModule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := ownedModule(c, db)
		if !ok {
			return
		}

		var body modulePayload
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		if t := strings.TrimSpace(body.Title); t != "" {
			m.Title = t
		}
		if d := strings.TrimSpace(body.Description); d != "" {
			m.Description = body.Description
		}
		if s := strings.TrimSpace(body.Subject); s != "" {
			m.Subject = s
		}
		if body.IsActive != nil {
			m.IsActive = *body.IsActive
		}
		if err := db.Save(m).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update module"})
			return
		}
		if err := db.Preload("Tutor").Preload("Materials").First(m, m.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, moduleJSON(*m))
	}
}

// DeleteModule handles DELETE /modules/:module_id.
func DeleteModule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := ownedModule(c, db)
		if !ok {
			return
		}
		if err := db.Delete(m).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to delete module"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "Module deleted"})
	}
}

// AddModuleMaterial handles POST /modules/:module_id/materials.
func AddModuleMaterial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := ownedModule(c, db)
		if !ok {
			return
		}

		var body struct {
			Title    string `json:"title"`
			FileURL  string `json:"fileUrl"`
			FileType string `json:"fileType"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		if strings.TrimSpace(body.Title) == "" || strings.TrimSpace(body.FileURL) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Title and fileUrl are required"})
			return
		}

		mat := models.ModuleMaterial{
			ModuleID: m.ID,
			Title:    strings.TrimSpace(body.Title),
			FileURL:  body.FileURL,
			FileType: strings.TrimSpace(body.FileType),
		}
		if err := db.Create(&mat).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to add material"})
			return
		}
		c.JSON(http.StatusCreated, materialJSON(mat))
	}
}
