package mysql

import (
	"errors"
	"fmt"
	"time"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"

	"gorm.io/gorm"
)

type CommunityMemberRepository struct {
	DB *gorm.DB
}

// Join 加入社区。一个 (community, user) 永远只有一行：
// 活跃行存在则按重复加入拒绝；存在非活跃行（之前退出过）则翻回 active，
// 返回 rejoined=true；都没有才插入新行，角色默认 member。
// 唯一索引 uk_community_user 兜底并发下的重复插入。
func (r *CommunityMemberRepository) Join(communityID, userID uint64) (rejoined bool, err error) {
	err = r.DB.Transaction(func(tx *gorm.DB) error {
		var m model.CommunityMember
		findErr := tx.Where("community_id = ? AND user_id = ?", communityID, userID).First(&m).Error
		if findErr == nil {
			if m.IsActive {
				return fmt.Errorf("%w: already a member of this community", pkg.ErrConflict)
			}
			// 重新激活，角色回到 member，重置加入时间
			if err := tx.Model(&model.CommunityMember{}).Where("id = ?", m.ID).
				Updates(map[string]any{"is_active": true, "role": model.RoleMember, "joined_at": time.Now()}).Error; err != nil {
				return err
			}
			rejoined = true
			return insertOutbox(tx, "member_rejoined", userID, map[string]any{"community_id": communityID})
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		m = model.CommunityMember{
			CommunityID: communityID,
			UserID:      userID,
			Role:        model.RoleMember,
			IsActive:    true,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "member_joined", userID, map[string]any{"community_id": communityID})
	})
	return rejoined, err
}

// Leave 软删除：只翻 is_active，行保留。
// 没有活跃成员关系按状态错误处理（400），404 留给社区本身不存在
func (r *CommunityMemberRepository) Leave(communityID, userID uint64) error {
	res := r.DB.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ? AND is_active = ?", communityID, userID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: not an active member of this community", pkg.ErrInvalidState)
	}
	return nil
}

// AddWithRole 管理员直接拉人：存在则更新角色并重新激活，不存在则插入
func (r *CommunityMemberRepository) AddWithRole(communityID, userID uint64, role string) (*model.CommunityMember, error) {
	var m model.CommunityMember
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("community_id = ? AND user_id = ?", communityID, userID).First(&m).Error
		if findErr == nil {
			if err := tx.Model(&model.CommunityMember{}).Where("id = ?", m.ID).
				Updates(map[string]any{"role": role, "is_active": true}).Error; err != nil {
				return err
			}
			m.Role = role
			m.IsActive = true
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}
		m = model.CommunityMember{
			CommunityID: communityID,
			UserID:      userID,
			Role:        role,
			IsActive:    true,
			JoinedAt:    time.Now(),
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return insertOutbox(tx, "member_added", userID,
			map[string]any{"community_id": communityID, "role": role})
	})
	return &m, err
}

func (r *CommunityMemberRepository) FindByID(communityID, memberID uint64) (*model.CommunityMember, error) {
	var m model.CommunityMember
	err := r.DB.Where("id = ? AND community_id = ? AND is_active = ?", memberID, communityID, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: member not found", pkg.ErrNotFound)
	}
	return &m, err
}

func (r *CommunityMemberRepository) ChangeRole(communityID, memberID uint64, role string) error {
	res := r.DB.Model(&model.CommunityMember{}).
		Where("id = ? AND community_id = ? AND is_active = ?", memberID, communityID, true).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: member not found", pkg.ErrNotFound)
	}
	return nil
}

// RemoveByID 管理员移除成员，和 Leave 一样是软删除
func (r *CommunityMemberRepository) RemoveByID(communityID, memberID uint64) error {
	res := r.DB.Model(&model.CommunityMember{}).
		Where("id = ? AND community_id = ? AND is_active = ?", memberID, communityID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: member not found", pkg.ErrNotFound)
	}
	return nil
}

func (r *CommunityMemberRepository) FindActive(communityID, userID uint64) (*model.CommunityMember, error) {
	var m model.CommunityMember
	err := r.DB.Where("community_id = ? AND user_id = ? AND is_active = ?", communityID, userID, true).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &m, err
}

func (r *CommunityMemberRepository) IsActiveMember(communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ? AND is_active = ?", communityID, userID, true).
		Count(&count).Error
	return count > 0, err
}

// HasActiveRole 对象级权限查询：在这个社区里是否持有给定角色之一
func (r *CommunityMemberRepository) HasActiveRole(communityID, userID uint64, roles ...string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CommunityMember{}).
		Where("community_id = ? AND user_id = ? AND is_active = ? AND role IN ?", communityID, userID, true, roles).
		Count(&count).Error
	return count > 0, err
}

// HasRoleAnywhere 建社区资格用的全局查询：在任意社区持有给定角色之一
func (r *CommunityMemberRepository) HasRoleAnywhere(userID uint64, roles ...string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CommunityMember{}).
		Where("user_id = ? AND is_active = ? AND role IN ?", userID, true, roles).
		Count(&count).Error
	return count > 0, err
}

func (r *CommunityMemberRepository) ListActive(communityID uint64) ([]model.CommunityMember, error) {
	var list []model.CommunityMember
	err := r.DB.Where("community_id = ? AND is_active = ?", communityID, true).
		Order("joined_at DESC").Find(&list).Error
	return list, err
}

func (r *CommunityMemberRepository) CountActive(communityID uint64) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CommunityMember{}).
		Where("community_id = ? AND is_active = ?", communityID, true).
		Count(&count).Error
	return count, err
}
