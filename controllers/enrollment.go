package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"campuslearn/middleware"
	"campuslearn/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func enrollmentJSON(e models.Enrollment) gin.H {
	return gin.H{
		"id":         e.ID,
		"student":    userSummary(e.Student, e.Student.ID != 0),
		"module":     gin.H{"id": e.Module.ID, "title": e.Module.Title, "subject": e.Module.Subject},
		"enrolledAt": e.EnrolledAt,
		"status":     e.Status,
	}
}

// Enroll handles POST /modules/:module_id/enroll for the authenticated student.
func Enroll(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		mid, err := strconv.Atoi(c.Param("module_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid module id"})
			return
		}

		var m models.Module
		if err := db.First(&m, mid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "Module not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		if !m.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Module is not active"})
			return
		}

		var existing models.Enrollment
		if err := db.Where("student_id = ? AND module_id = ?", uid, mid).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"msg": "Already enrolled in this module"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		e := models.Enrollment{StudentID: uid, ModuleID: uint(mid), Status: models.EnrollmentEnrolled}
		if err := db.Create(&e).Error; err != nil {
			// unique index is the backstop against a concurrent duplicate
			c.JSON(http.StatusConflict, gin.H{"msg": "Already enrolled in this module"})
			return
		}
		if err := db.Preload("Student").Preload("Module").First(&e, e.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, enrollmentJSON(e))
	}
}

// MyEnrollments handles GET /enrollments: the caller's enrollments.
func MyEnrollments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		var list []models.Enrollment
		if err := db.Preload("Student").Preload("Module").
			Where("student_id = ?", uid).Order("enrolled_at DESC").Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(list))
		for _, e := range list {
			out = append(out, enrollmentJSON(e))
		}
		c.JSON(http.StatusOK, out)
	}
}

// StudentEnrollments handles GET /enrollments/student/:student_id. Admin view
// of one student's history.
func StudentEnrollments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := strconv.Atoi(c.Param("student_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid student id"})
			return
		}
		var list []models.Enrollment
		if err := db.Preload("Student").Preload("Module").
			Where("student_id = ?", sid).Order("enrolled_at DESC").Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(list))
		for _, e := range list {
			out = append(out, enrollmentJSON(e))
		}
		c.JSON(http.StatusOK, out)
	}
}

// ListAllEnrollments handles GET /admin/enrollments.
func ListAllEnrollments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list []models.Enrollment
		if err := db.Preload("Student").Preload("Module").
			Order("enrolled_at DESC").Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(list))
		for _, e := range list {
			out = append(out, enrollmentJSON(e))
		}
		c.JSON(http.StatusOK, out)
	}
}

// ModuleEnrollments handles GET /modules/:module_id/enrollments for the
// owning tutor.
func ModuleEnrollments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, ok := ownedModule(c, db)
		if !ok {
			return
		}
		var list []models.Enrollment
		if err := db.Preload("Student").Preload("Module").
			Where("module_id = ?", m.ID).Order("enrolled_at DESC").Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(list))
		for _, e := range list {
			out = append(out, enrollmentJSON(e))
		}
		c.JSON(http.StatusOK, out)
	}
}

// UpdateEnrollmentStatus handles PUT /enrollments/:enrollment_id: a student
// marks their own enrollment completed or dropped.
func UpdateEnrollmentStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		eid, err := strconv.Atoi(c.Param("enrollment_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid enrollment id"})
			return
		}

		var body struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		switch body.Status {
		case models.EnrollmentEnrolled, models.EnrollmentCompleted, models.EnrollmentDropped:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid status"})
			return
		}

		var e models.Enrollment
		if err := db.First(&e, eid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "Enrollment not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		if e.StudentID != uid {
			c.JSON(http.StatusForbidden, gin.H{"msg": "You can only update your own enrollments"})
			return
		}

		if err := db.Model(&e).Update("status", body.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update enrollment"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "Enrollment updated", "status": body.Status})
	}
}
