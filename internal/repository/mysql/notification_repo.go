package mysql

import (
	"fmt"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) ListByRecipient(recipientID uint64, unreadOnly bool, offset, limit int) ([]model.Notification, error) {
	q := r.DB.Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var list []model.Notification
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

// MarkRead 只能标自己的通知
func (r *NotificationRepository) MarkRead(id, recipientID uint64) error {
	res := r.DB.Model(&model.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: notification not found", pkg.ErrNotFound)
	}
	return nil
}

func (r *NotificationRepository) CountUnread(recipientID uint64) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
