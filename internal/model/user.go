package model

import (
	"time"

	"gorm.io/gorm"
)

// SystemUser is a dashboard operator account. The role gates feature
// visibility; passwords are stored as bcrypt hashes only.
type SystemUser struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Username     string         `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255);not null"`
	Role         string         `json:"role" gorm:"type:varchar(20);not null"`
	LastLogin    string         `json:"last_login" gorm:"type:varchar(19)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName keeps the historical table name.
func (SystemUser) TableName() string { return "users" }
