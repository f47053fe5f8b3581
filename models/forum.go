package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AnsweredByAI    = "ai"
	AnsweredByTutor = "tutor"
)

type ForumQuestion struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index"`
	User     User   `gorm:"foreignKey:UserID"`
	Question string `gorm:"type:text;not null"`
	Answer   *string `gorm:"type:text"`
	// AnsweredBy is "ai" or "tutor"; nil while unanswered.
	AnsweredBy *string   `gorm:"size:10"`
	Timestamp  time.Time `gorm:"autoCreateTime;index"`
	IsPublic   bool      `gorm:"default:true"`
}
