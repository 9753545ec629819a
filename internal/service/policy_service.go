package service

import (
	"Uni_Hub/internal/model"
	"Uni_Hub/internal/repository/mysql"

	"gorm.io/gorm"
)

// PolicyService 鉴权决策的唯一入口。社区编辑/删除、改角色、移除成员、
// 活动管理都走 CanManage；建社区资格单独一条全局规则，两者不要混用。
type PolicyService struct {
	memberRepo *mysql.CommunityMemberRepository
}

func NewPolicyService(db *gorm.DB) *PolicyService {
	return &PolicyService{
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
	}
}

// CanManage 对象级权限，按顺序判定，命中即放行：
// 1. 平台 staff / superuser
// 2. 在该社区持有 admin 角色的活跃成员
// 3. 在该社区持有 community_leader 角色的活跃成员
func (s *PolicyService) CanManage(actor model.Actor, communityID uint64) (bool, error) {
	if actor.IsPlatformAdmin() {
		return true, nil
	}
	ok, err := s.memberRepo.HasActiveRole(communityID, actor.ID, model.RoleAdmin)
	if err != nil || ok {
		return ok, err
	}
	return s.memberRepo.HasActiveRole(communityID, actor.ID, model.RoleLeader)
}

// CanCreateCommunity 建社区资格：平台管理员，或在任意社区持有
// community_leader / admin 角色。注意这是全局查询，不落在某个社区上。
func (s *PolicyService) CanCreateCommunity(actor model.Actor) (bool, error) {
	if actor.IsPlatformAdmin() {
		return true, nil
	}
	return s.memberRepo.HasRoleAnywhere(actor.ID, model.RoleAdmin, model.RoleLeader)
}

// CanManageEvent 活动编辑/删除：创建者、平台 staff，或所属社区的管理者
func (s *PolicyService) CanManageEvent(actor model.Actor, event *model.Event) (bool, error) {
	if actor.ID == event.CreatorID {
		return true, nil
	}
	return s.CanManage(actor, event.CommunityID)
}

// CanTransitionEvent 状态流转只有创建者或平台 staff 能做
func (s *PolicyService) CanTransitionEvent(actor model.Actor, event *model.Event) bool {
	return actor.ID == event.CreatorID || actor.IsPlatformAdmin()
}
