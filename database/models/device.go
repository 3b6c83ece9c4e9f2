package models

import (
	"time"
)

// Device 一次登录对应的刷新令牌会话
type Device struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	UserID       uint      `gorm:"index;not null"`
	RefreshToken string    `gorm:"uniqueIndex;not null"` // sha256 摘要
	DeviceID     string    `gorm:"uniqueIndex;size:36;not null"`
	Expiry       time.Time `gorm:"not null"`
	CreatedAt    time.Time
}
