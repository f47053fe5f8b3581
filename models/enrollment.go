package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentEnrolled  = "enrolled"
	EnrollmentCompleted = "completed"
	EnrollmentDropped   = "dropped"
)

// Enrollment links a student to a module. The composite unique index keeps a
// student from enrolling in the same module twice.
type Enrollment struct {
	gorm.Model
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_student_module"`
	ModuleID   uint      `gorm:"not null;uniqueIndex:idx_student_module"`
	Student    User      `gorm:"foreignKey:StudentID"`
	Module     Module    `gorm:"foreignKey:ModuleID"`
	EnrolledAt time.Time `gorm:"autoCreateTime"`
	Status     string    `gorm:"size:20;not null;default:enrolled"`
}
