package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Uni_Hub/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// MaxOutboxRetry 失败事件最多重投的次数，超过后留在 failed 状态人工处理
const MaxOutboxRetry = 5

// insertOutbox 在业务事务里追加一条待投递的通知事件
func insertOutbox(tx *gorm.DB, eventType string, recipientID uint64, fields map[string]any) error {
	payload := map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"recipient":  recipientID,
	}
	for k, v := range fields {
		payload[k] = v
	}
	raw, _ := json.Marshal(payload)
	ob := &model.NotificationOutbox{
		EventType:   eventType,
		RecipientID: recipientID,
		Payload:     string(raw),
		Status:      0,
	}
	return tx.Create(ob).Error
}

// List 待投递批次：pending 行，加上重试次数没用完的 failed 行
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.NotificationOutbox, error) {
	var list []model.NotificationOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = 0 OR (status = 2 AND retry < ?)", MaxOutboxRetry).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败，记一次重试
func (r *OutboxRepository) RetryUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotificationOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.NotificationOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
