package mysql

import (
	"errors"
	"fmt"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

// EventFilter 列表过滤条件，零值字段不参与
type EventFilter struct {
	Search        string
	Status        string
	CommunityID   uint64
	CreatorID     uint64 // my_events
	ParticipantID uint64 // my_participations
}

func (r *EventRepository) Create(e *model.Event) error {
	return r.DB.Create(e).Error
}

func (r *EventRepository) FindByID(id uint64) (*model.Event, error) {
	var event model.Event
	err := r.DB.First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: event not found", pkg.ErrNotFound)
	}
	return &event, err
}

func (r *EventRepository) List(f EventFilter, offset, limit int) ([]model.Event, error) {
	q := r.DB.Model(&model.Event{})
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ? OR location LIKE ?", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CommunityID > 0 {
		q = q.Where("community_id = ?", f.CommunityID)
	}
	if f.CreatorID > 0 {
		q = q.Where("creator_id = ?", f.CreatorID)
	}
	if f.ParticipantID > 0 {
		sub := r.DB.Model(&model.EventParticipant{}).
			Select("event_id").Where("user_id = ?", f.ParticipantID)
		q = q.Where("id IN (?)", sub)
	}

	var list []model.Event
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *EventRepository) Update(id uint64, fields map[string]any) error {
	res := r.DB.Model(&model.Event{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: event not found", pkg.ErrNotFound)
	}
	return nil
}

func (r *EventRepository) UpdateStatus(id uint64, status string) error {
	res := r.DB.Model(&model.Event{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: event not found", pkg.ErrNotFound)
	}
	return nil
}

// Delete 连带报名记录一起删
func (r *EventRepository) Delete(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.EventParticipant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Event{}, id).Error
	})
}
