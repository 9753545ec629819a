package model

import "time"

const (
	NotifySystem    = "system"
	NotifyCommunity = "community"
	NotifyEvent     = "event"
	NotifyOther     = "other"
)

type Notification struct {
	ID          uint64 `gorm:"primaryKey"`
	RecipientID uint64 `gorm:"not null;index"`
	Content     string `gorm:"type:text;not null"`
	Type        string `gorm:"size:20;not null;default:system"`
	IsRead      bool   `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
}

// NotificationOutbox 通知事件监控表，后台 relayer 扫描 pending 行投递到 kafka
type NotificationOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"` // joined / role_changed / registered ...
	RecipientID uint64 `gorm:"not null"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0;comment:'0=pending,1=sent,2=failed'"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
