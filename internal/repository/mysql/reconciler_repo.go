package mysql

import (
	"context"

	"Uni_Hub/internal/model"

	"gorm.io/gorm"
)

// ParticipantCountReconcilerRepo 对账仓储：冗余计数可能被绕过计数路径的删除搞漂，
// 定时拿报名表的真实 COUNT 修正 events.current_participants
type ParticipantCountReconcilerRepo struct {
	DB *gorm.DB
}

// EventCountPair 对账消息结构体
type EventCountPair struct {
	ID                  uint64
	CurrentParticipants int64
}

// ReconcileList 按游标分批拉取待对账的活动
func (r *ParticipantCountReconcilerRepo) ReconcileList(ctx context.Context, batchSize int, lastID uint64) ([]EventCountPair, uint64, error) {
	var list []EventCountPair
	if err := r.DB.WithContext(ctx).Model(&model.Event{}).
		Select("id", "current_participants").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealCount 报名表里的真实人数
func (r *ParticipantCountReconcilerRepo) RealCount(ctx context.Context, eventID uint64) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&model.EventParticipant{}).
		Where("event_id = ?", eventID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ReconcileCount 用真实值覆盖冗余计数
func (r *ParticipantCountReconcilerRepo) ReconcileCount(ctx context.Context, eventID uint64, real int64) error {
	return r.DB.WithContext(ctx).Model(&model.Event{}).Where("id = ?", eventID).
		UpdateColumn("current_participants", real).Error
}
