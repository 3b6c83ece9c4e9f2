package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User 账户，邮箱即登录名
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName  string    `gorm:"size:100" json:"full_name"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:20;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName 欢迎语使用的名称：全名 > 邮箱前缀 > "User"
func (u *User) DisplayName() string {
	if u == nil {
		return "User"
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	if u.Email != "" {
		return u.Email
	}
	return "User"
}
