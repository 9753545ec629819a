package model

import "time"

// 活动状态机：draft → published → ongoing → completed，cancelled 可从任意非终态进入
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventOngoing   = "ongoing"
	EventCompleted = "completed"
	EventCancelled = "cancelled"
)

func ValidEventStatus(status string) bool {
	switch status {
	case EventDraft, EventPublished, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

type Event struct {
	ID                  uint64 `gorm:"primaryKey"`
	Title               string `gorm:"size:200;not null"`
	Description         string `gorm:"type:text"`
	CommunityID         uint64 `gorm:"not null;index"`
	CreatorID           uint64 `gorm:"not null;index"`
	StartTime           time.Time
	EndTime             time.Time
	Location            string  `gorm:"size:200"`
	MaxParticipants     *uint  // nil 表示不限人数
	CurrentParticipants uint   `gorm:"not null;default:0"`
	Status              string `gorm:"size:20;not null;default:draft;index"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EventParticipant 报名记录：退出时硬删除，重新报名就是新插入
type EventParticipant struct {
	ID           uint64 `gorm:"primaryKey"`
	EventID      uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	UserID       uint64 `gorm:"not null;index;uniqueIndex:uk_event_user"`
	IsAttended   bool   `gorm:"not null;default:false"`
	RegisteredAt time.Time
	CreatedAt    time.Time
}
