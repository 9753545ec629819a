package model

import "time"

// 社区内角色
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleLeader = "community_leader"
)

func ValidMemberRole(role string) bool {
	switch role {
	case RoleMember, RoleAdmin, RoleLeader:
		return true
	}
	return false
}

type Community struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:100;not null"`
	Description string `gorm:"type:text"`
	CreatorID   uint64 `gorm:"not null;index"`
	IsPublic    bool   `gorm:"not null;default:true"`
	MaxMembers  uint   `gorm:"not null;default:1000"`
	Tags        string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityMember 成员台账：一个 (community, user) 只有一行，退出置 is_active=false，重新加入翻回来
type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	Role        string `gorm:"size:20;not null;default:member"`
	IsActive    bool   `gorm:"not null;default:true"`
	JoinedAt    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
