package models

import (
	"time"
)

// UserSetting 用户偏好，按 (user_id, key) 唯一
type UserSetting struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	UserID    uint   `gorm:"uniqueIndex:idx_user_setting_key;not null"`
	Key       string `gorm:"uniqueIndex:idx_user_setting_key;size:64;not null"`
	Value     string `gorm:"size:255;not null"`
	UpdatedAt time.Time
}
