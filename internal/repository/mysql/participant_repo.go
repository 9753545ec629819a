package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"

	"gorm.io/gorm"
)

type EventParticipantRepository struct {
	DB *gorm.DB
}

// Register 报名。人数校验和计数自增压在同一条带条件的 UPDATE 里，
// 和插入报名行同处一个事务：并发报名不可能把 current_participants
// 顶过 max_participants，唯一索引 uk_event_user 兜底重复报名。
func (r *EventParticipantRepository) Register(ctx context.Context, eventID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: event not found", pkg.ErrNotFound)
			}
			return err
		}

		if event.Status != model.EventPublished && event.Status != model.EventOngoing {
			return fmt.Errorf("%w: registration is not open for this event", pkg.ErrInvalidState)
		}

		var count int64
		if err := tx.Model(&model.EventParticipant{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: already registered for this event", pkg.ErrConflict)
		}

		// 条件自增：满员时 RowsAffected 为 0
		res := tx.Model(&model.Event{}).
			Where("id = ? AND (max_participants IS NULL OR current_participants < max_participants)", eventID).
			UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: event is full", pkg.ErrConflict)
		}

		p := &model.EventParticipant{
			EventID:      eventID,
			UserID:       userID,
			RegisteredAt: time.Now(),
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "event_registered", userID, map[string]any{"event_id": eventID})
	})
}

// Withdraw 退出报名：硬删除报名行，计数减一、保底不为负，同一事务。
// 没报过名按状态错误处理（400），404 留给活动本身不存在
func (r *EventParticipantRepository) Withdraw(ctx context.Context, eventID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&model.EventParticipant{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: not registered for this event", pkg.ErrInvalidState)
		}

		return tx.Model(&model.Event{}).
			Where("id = ?", eventID).
			UpdateColumn("current_participants",
				gorm.Expr("CASE WHEN current_participants > 0 THEN current_participants - 1 ELSE 0 END")).Error
	})
}

func (r *EventParticipantRepository) IsRegistered(eventID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *EventParticipantRepository) CountByEvent(eventID uint64) (int64, error) {
	var count int64
	err := r.DB.Model(&model.EventParticipant{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *EventParticipantRepository) ListByEvent(eventID uint64) ([]model.EventParticipant, error) {
	var list []model.EventParticipant
	err := r.DB.Where("event_id = ?", eventID).
		Order("registered_at DESC").Find(&list).Error
	return list, err
}

// MarkAttended 签到
func (r *EventParticipantRepository) MarkAttended(eventID, userID uint64) error {
	res := r.DB.Model(&model.EventParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Update("is_attended", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: not registered for this event", pkg.ErrInvalidState)
	}
	return nil
}
