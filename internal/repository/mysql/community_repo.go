package mysql

import (
	"errors"
	"time"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

// Create 建社区和创建者的 leader 成员记录在同一事务里落库，
// 不允许出现没有 leader 的社区
func (r *CommunityRepository) Create(c *model.Community) (*model.Community, error) {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		member := &model.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        model.RoleLeader,
			IsActive:    true,
			JoinedAt:    time.Now(),
		}
		return tx.Create(member).Error
	})
	return c, err
}

func (r *CommunityRepository) FindByID(id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.First(&community, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &community, err
}

func (r *CommunityRepository) FindByName(name string) (*model.Community, error) {
	var community model.Community
	err := r.DB.Where("name = ?", name).First(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &community, err
}

// List 公开社区列表，search 匹配名称或简介
func (r *CommunityRepository) List(search string, offset, limit int) ([]model.Community, error) {
	var list []model.Community
	q := r.DB.Where("is_public = ?", true)
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommunityRepository) Update(id uint64, fields map[string]any) error {
	res := r.DB.Model(&model.Community{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

// Delete 级联硬删除：成员台账、活动、报名记录一并清掉
func (r *CommunityRepository) Delete(id uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var eventIDs []uint64
		if err := tx.Model(&model.Event{}).Where("community_id = ?", id).Pluck("id", &eventIDs).Error; err != nil {
			return err
		}
		if len(eventIDs) > 0 {
			if err := tx.Where("event_id IN ?", eventIDs).Delete(&model.EventParticipant{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.Event{}).Error; err != nil {
			return err
		}
		if err := tx.Where("community_id = ?", id).Delete(&model.CommunityMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Community{}, id).Error
	})
}
