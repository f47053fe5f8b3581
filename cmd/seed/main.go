// Command seed bootstraps a fresh database with an admin account and a few
// demo records so the frontend has something to show. Flags override the
// defaults:
//
//	go run ./cmd/seed -admin-email admin@campuslearn.local -admin-pass admin123
package main

import (
	"flag"
	"log"
	"time"

	"campuslearn/models"
	"campuslearn/pkg/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	adminEmail := flag.String("admin-email", "admin@campuslearn.local", "admin account email")
	adminPass := flag.String("admin-pass", "admin123", "admin account password")
	demo := flag.Bool("demo", true, "also create a demo tutor, student and module")
	flag.Parse()

	var db *gorm.DB
	var err error
	if config.DatabaseDSN != "" {
		db, err = gorm.Open(mysql.Open(config.DatabaseDSN), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open("app.db"), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Module{},
		&models.ModuleMaterial{},
		&models.Enrollment{},
		&models.ForumQuestion{},
	); err != nil {
		log.Fatalf("failed migrate: %v", err)
	}

	admin := ensureUser(db, *adminEmail, "admin", *adminPass, models.RoleAdmin, "Site", "Admin")
	log.Printf("[seed] admin ready: %s (id=%d)", admin.Email, admin.ID)

	if !*demo {
		return
	}

	tutor := ensureUser(db, "tutor@campuslearn.local", "demo-tutor", "tutor123", models.RoleTutor, "Thandi", "Mokoena")
	student := ensureUser(db, "student@campuslearn.local", "demo-student", "student123", models.RoleStudent, "Sipho", "Dlamini")

	var module models.Module
	err = db.Where("title = ? AND tutor_id = ?", "Intro to Data Structures", tutor.ID).First(&module).Error
	if err == gorm.ErrRecordNotFound {
		module = models.Module{
			Title:       "Intro to Data Structures",
			Description: "Arrays, linked lists, trees and when to reach for each.",
			Subject:     "Computer Science",
			TutorID:     tutor.ID,
			IsActive:    true,
		}
		if err = db.Create(&module).Error; err == nil {
			err = db.Create(&models.Enrollment{
				StudentID:  student.ID,
				ModuleID:   module.ID,
				Status:     models.EnrollmentEnrolled,
				EnrolledAt: time.Now(),
			}).Error
		}
	}
	if err != nil {
		log.Fatalf("[seed] demo data: %v", err)
	}
	log.Printf("[seed] demo module ready: %q (id=%d)", module.Title, module.ID)
}

func ensureUser(db *gorm.DB, email, username, password, role, first, last string) models.User {
	var u models.User
	if err := db.Where("email = ?", email).First(&u).Error; err == nil {
		return u
	}
	u = models.User{
		Email:     email,
		Username:  username,
		Role:      role,
		FirstName: first,
		LastName:  last,
		Status:    models.StatusActive,
	}
	if err := u.SetPassword(password); err != nil {
		log.Fatalf("[seed] hash password: %v", err)
	}
	if err := db.Create(&u).Error; err != nil {
		log.Fatalf("[seed] create %s: %v", email, err)
	}
	return u
}
