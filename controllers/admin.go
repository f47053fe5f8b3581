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

func adminUserJSON(u models.User) gin.H {
	var lastLogin any
	if u.LastLogin != nil {
		lastLogin = *u.LastLogin
	}
	return gin.H{
		"id":        u.ID,
		"email":     u.Email,
		"username":  u.Username,
		"role":      u.Role,
		"name":      u.DisplayName(),
		"status":    u.Status,
		"createdAt": u.CreatedAt,
		"lastLogin": lastLogin,
	}
}

// AdminListUsers handles GET /admin/users. Password hashes never leave the
// model layer.
func AdminListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(users))
		for _, u := range users {
			out = append(out, adminUserJSON(u))
		}
		c.JSON(http.StatusOK, out)
	}
}

// AdminUpdateUserStatus handles PUT /admin/users/:user_id/status.
func AdminUpdateUserStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
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
		case models.StatusActive, models.StatusSuspended, models.StatusPending:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid status"})
			return
		}

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		if err := db.Model(&user).Update("status", body.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update status"})
			return
		}
		user.Status = body.Status
		c.JSON(http.StatusOK, adminUserJSON(user))
	}
}

// AdminDeleteUser handles DELETE /admin/users/:user_id.
func AdminDeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := strconv.Atoi(c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
			return
		}
		if uint(uid) == middleware.CurrentUserID(c) {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "You cannot delete your own account"})
			return
		}

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to delete user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "User deleted"})
	}
}

// AdminStats handles GET /admin/stats: headline counts for the dashboard.
func AdminStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users, tutors, students, active, modules, enrollments, questions int64
		counts := []struct {
			dst   *int64
			query *gorm.DB
		}{
			{&users, db.Model(&models.User{})},
			{&tutors, db.Model(&models.User{}).Where("role = ?", models.RoleTutor)},
			{&students, db.Model(&models.User{}).Where("role = ?", models.RoleStudent)},
			{&active, db.Model(&models.User{}).Where("status = ?", models.StatusActive)},
			{&modules, db.Model(&models.Module{})},
			{&enrollments, db.Model(&models.Enrollment{})},
			{&questions, db.Model(&models.ForumQuestion{})},
		}
		for _, cnt := range counts {
			if err := cnt.query.Count(cnt.dst).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"totalUsers":       users,
			"totalTutors":      tutors,
			"totalStudents":    students,
			"activeUsers":      active,
			"totalModules":     modules,
			"totalEnrollments": enrollments,
			"totalQuestions":   questions,
		})
	}
}
