package model

import "time"

// 平台级角色
const (
	PlatformRoleMember = "member"
	PlatformRoleAdmin  = "admin"
	PlatformRoleLeader = "community_leader"
)

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	Username    string `gorm:"uniqueIndex;size:32;not null"`
	Password    string `gorm:"size:255;not null"`
	Email       string `gorm:"uniqueIndex;size:64;not null"`
	Role        string `gorm:"size:20;not null;default:member"`
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`
	Bio         string `gorm:"size:500"`
	Major       string `gorm:"size:100"`
	StudentID   string `gorm:"size:20"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
