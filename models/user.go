package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

const (
	StatusActive    = "Active"
	StatusSuspended = "Suspended"
	StatusPending   = "Pending verification"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	Username     string `gorm:"uniqueIndex;size:80;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:20;not null;default:student"`
	FirstName    string `gorm:"size:80"`
	LastName     string `gorm:"size:80"`
	Bio          string `gorm:"type:text"`
	// comma-separated subject list, e.g. "maths,physics"
	Subjects   string `gorm:"size:500"`
	AvatarURL  string `gorm:"size:500"`
	Education  string `gorm:"type:text"`
	Experience string `gorm:"type:text"`
	// Schedule and Progress are client-owned JSON blobs replaced wholesale
	// by their update endpoints.
	Schedule  string `gorm:"type:text"`
	Progress  string `gorm:"type:text"`
	Status    string `gorm:"size:30;not null;default:'Pending verification'"`
	LastLogin *time.Time
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// DisplayName is what chat and forum responses show for a user.
func (u *User) DisplayName() string {
	if u.FirstName != "" || u.LastName != "" {
		name := u.FirstName
		if u.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.LastName
		}
		return name
	}
	return u.Username
}
