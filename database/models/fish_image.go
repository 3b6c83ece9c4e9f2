package models

import (
	"time"
)

// 图片来源
const (
	UploadTypeUpload      = "upload"
	UploadTypeCamera      = "camera"
	UploadTypeGoogleDrive = "google-drive"
	UploadTypeDropbox     = "dropbox"
)

// UploadTypes 全部来源
var UploadTypes = []string{UploadTypeUpload, UploadTypeCamera, UploadTypeGoogleDrive, UploadTypeDropbox}

// FishImage 图库中的一张鱼类图片，FilePath 指向存储中的对象
type FishImage struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FilePath   string    `gorm:"size:512;uniqueIndex;not null" json:"file_path"`
	FileSize   int64     `json:"file_size"`
	UploadType string    `gorm:"size:20;index;not null" json:"upload_type"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName 沿用 fish_images 表名
func (FishImage) TableName() string {
	return "fish_images"
}

// IsValidUploadType 校验来源取值
func IsValidUploadType(t string) bool {
	switch t {
	case UploadTypeUpload, UploadTypeCamera, UploadTypeGoogleDrive, UploadTypeDropbox:
		return true
	}
	return false
}
