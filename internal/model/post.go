package model

import "time"

type Post struct {
	ID          uint64    `gorm:"primaryKey"`
	CommunityID uint64    `gorm:"not null;index:idx_community_time"`
	AuthorID    uint64    `gorm:"not null;index:idx_author_time"`
	Content     string    `gorm:"type:text;not null"`
	Status      int       `gorm:"not null;default:0"` // 0=normal 1=deleted
	LikeCount   int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"index:idx_community_time;index:idx_author_time"`
	UpdatedAt   time.Time
}

type PostLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_user_post"`
	PostID    uint64 `gorm:"not null;index;uniqueIndex:uk_user_post"`
	CreatedAt time.Time
}

func (PostLike) TableName() string {
	return "post_likes"
}
