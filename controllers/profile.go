package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"campuslearn/middleware"
	"campuslearn/models"
	utils "campuslearn/pkg/utills"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func profileJSON(u models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"role":       u.Role,
		"firstName":  u.FirstName,
		"lastName":   u.LastName,
		"name":       u.DisplayName(),
		"bio":        u.Bio,
		"subjects":   u.Subjects,
		"avatar":     u.AvatarURL,
		"education":  u.Education,
		"experience": u.Experience,
		"schedule":   rawOrNil(u.Schedule),
		"progress":   rawOrNil(u.Progress),
		"status":     u.Status,
	}
}

// rawOrNil re-emits a stored JSON blob without double encoding.
func rawOrNil(s string) any {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func Profile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}

		if c.Request.Method == http.MethodGet {
			c.JSON(http.StatusOK, profileJSON(user))
			return
		}

		// PUT
		var body struct {
			Email      string  `json:"email"`
			Username   string  `json:"username"`
			Password   string  `json:"password"`
			FirstName  *string `json:"firstName"`
			LastName   *string `json:"lastName"`
			Bio        *string `json:"bio"`
			Subjects   *string `json:"subjects"`
			Avatar     *string `json:"avatar"`
			Education  *string `json:"education"`
			Experience *string `json:"experience"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}

		newEmail := strings.TrimSpace(strings.ToLower(body.Email))
		if newEmail == "" {
			newEmail = user.Email
		}
		newUsername := strings.TrimSpace(body.Username)
		if newUsername == "" {
			newUsername = user.Username
		}
		newPassword := body.Password

		// check email uniqueness
		if newEmail != user.Email {
			var t models.User
			if err := db.Where("email = ?", newEmail).First(&t).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"msg": "Email already exists"})
				return
			}
		}
		// check username uniqueness
		if newUsername != user.Username {
			var t models.User
			if err := db.Where("username = ?", newUsername).First(&t).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"msg": "Username already exists"})
				return
			}
		}

		user.Email = newEmail
		user.Username = newUsername
		if body.FirstName != nil {
			user.FirstName = strings.TrimSpace(*body.FirstName)
		}
		if body.LastName != nil {
			user.LastName = strings.TrimSpace(*body.LastName)
		}
		if body.Bio != nil {
			user.Bio = *body.Bio
		}
		if body.Subjects != nil {
			user.Subjects = strings.TrimSpace(*body.Subjects)
		}
		if body.Avatar != nil {
			user.AvatarURL = *body.Avatar
		}
		if body.Education != nil {
			user.Education = *body.Education
		}
		if body.Experience != nil {
			user.Experience = *body.Experience
		}
		if newPassword != "" {
			if !utils.HasLetter(newPassword) || !utils.HasNumber(newPassword) {
				c.JSON(http.StatusBadRequest, gin.H{"msg": "New password must contain at least one letter and one number"})
				return
			}
			if err := user.SetPassword(newPassword); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to set password"})
				return
			}
		}
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update profile"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"msg": "Profile updated successfully", "user": profileJSON(user)})
	}
}

// updateUserBlob replaces one JSON column on the caller's user row.
func updateUserBlob(db *gorm.DB, column, field, doneMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var user models.User
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}

		var body map[string]json.RawMessage
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid request"})
			return
		}
		raw, ok := body[field]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"msg": field + " is required"})
			return
		}

		if err := db.Model(&user).Update(column, string(raw)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to update " + field})
			return
		}
		if err := db.First(&user, uid).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": doneMsg, "user": profileJSON(user)})
	}
}

// UpdateSchedule handles PUT /user/schedule: {schedule: {...}} stored whole.
func UpdateSchedule(db *gorm.DB) gin.HandlerFunc {
	return updateUserBlob(db, "schedule", "schedule", "Schedule updated successfully")
}

// UpdateProgress handles PUT /user/progress: {progress: {...}} stored whole.
func UpdateProgress(db *gorm.DB) gin.HandlerFunc {
	return updateUserBlob(db, "progress", "progress", "Progress updated successfully")
}
