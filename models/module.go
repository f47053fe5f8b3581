package models

import (
	"time"

	"gorm.io/gorm"
)

// Module is a course unit published by a tutor.
type Module struct {
	gorm.Model
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text;not null"`
	Subject     string `gorm:"size:120;not null;index"`
	TutorID     uint   `gorm:"not null;index"`
	Tutor       User   `gorm:"foreignKey:TutorID"`
	IsActive    bool   `gorm:"default:true"`
	Materials   []ModuleMaterial `gorm:"constraint:OnDelete:CASCADE"`
}

type ModuleMaterial struct {
	gorm.Model
	ModuleID   uint   `gorm:"index;not null"`
	Title      string `gorm:"size:200;not null"`
	FileURL    string `gorm:"size:500;not null"`
	FileType   string `gorm:"size:30;not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}
