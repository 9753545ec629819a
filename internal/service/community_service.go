package service

import (
	"fmt"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"

	"gorm.io/gorm"
)

type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
	policy     *PolicyService
	notifier   *NotificationService
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{
		repo:       &mysql.CommunityRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
		policy:     NewPolicyService(db),
		notifier:   NewNotificationService(db),
	}
}

// CommunityDetail 列表/详情的聚合视图
type CommunityDetail struct {
	Community   *model.Community
	MemberCount int64
	ActorRole   string // 当前用户在该社区的角色，非成员为空
}

func (s *CommunityService) Create(actor model.Actor, name, description, tags string, isPublic bool) (*model.Community, error) {
	ok, err := s.policy.CanCreateCommunity(actor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: not allowed to create communities", pkg.ErrPermissionDenied)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: community name required", pkg.ErrValidation)
	}
	if _, err := s.repo.FindByName(name); err == nil {
		return nil, fmt.Errorf("%w: community name already taken", pkg.ErrConflict)
	}

	community := &model.Community{
		Name:        name,
		Description: description,
		Tags:        tags,
		IsPublic:    isPublic,
		CreatorID:   actor.ID,
	}
	if _, err := s.repo.Create(community); err != nil {
		return nil, err
	}
	return community, nil
}

// Join 返回 rejoined=false 表示新加入，此时给用户发欢迎通知
func (s *CommunityService) Join(actor model.Actor, communityID uint64) (rejoined bool, err error) {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		return false, err
	}

	rejoined, err = s.memberRepo.Join(communityID, actor.ID)
	if err != nil {
		return false, err
	}
	if !rejoined {
		s.notifier.Notify(actor.ID,
			fmt.Sprintf("Welcome to join the community「%s」！", community.Name),
			model.NotifyCommunity)
	}
	return rejoined, nil
}

// Leave 社区不存在是 404，存在但没有活跃成员关系是 400
func (s *CommunityService) Leave(actor model.Actor, communityID uint64) error {
	if _, err := s.repo.FindByID(communityID); err != nil {
		return err
	}
	return s.memberRepo.Leave(communityID, actor.ID)
}

func (s *CommunityService) List(search string, page, size int) ([]model.Community, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.List(search, offset, size)
}

func (s *CommunityService) Get(actor model.Actor, communityID uint64) (*CommunityDetail, error) {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		return nil, err
	}
	count, err := s.memberRepo.CountActive(communityID)
	if err != nil {
		return nil, err
	}

	detail := &CommunityDetail{Community: community, MemberCount: count}
	if actor.IsSuperuser {
		detail.ActorRole = model.RoleAdmin
	} else if actor.ID > 0 {
		if m, err := s.memberRepo.FindActive(communityID, actor.ID); err == nil {
			detail.ActorRole = m.Role
		}
	}
	return detail, nil
}

func (s *CommunityService) Update(actor model.Actor, communityID uint64, fields map[string]any) error {
	if err := s.requireManage(actor, communityID); err != nil {
		return err
	}
	return s.repo.Update(communityID, fields)
}

func (s *CommunityService) Delete(actor model.Actor, communityID uint64) error {
	if _, err := s.repo.FindByID(communityID); err != nil {
		return err
	}
	if err := s.requireManage(actor, communityID); err != nil {
		return err
	}
	return s.repo.Delete(communityID)
}

func (s *CommunityService) Members(actor model.Actor, communityID uint64) ([]model.CommunityMember, error) {
	if _, err := s.repo.FindByID(communityID); err != nil {
		return nil, err
	}
	return s.memberRepo.ListActive(communityID)
}

// AddMember 管理员拉人进社区并指定角色，已存在则改角色并激活
func (s *CommunityService) AddMember(actor model.Actor, communityID, userID uint64, role string) (*model.CommunityMember, error) {
	community, err := s.repo.FindByID(communityID)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = model.RoleMember
	}
	if !model.ValidMemberRole(role) {
		return nil, fmt.Errorf("%w: invalid role value", pkg.ErrValidation)
	}
	if err := s.requireManage(actor, communityID); err != nil {
		return nil, err
	}

	m, err := s.memberRepo.AddWithRole(communityID, userID, role)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(userID,
		fmt.Sprintf("You have been added to the community「%s」as %s.", community.Name, role),
		model.NotifyCommunity)
	return m, nil
}

func (s *CommunityService) ChangeRole(actor model.Actor, communityID, memberID uint64, role string) error {
	if !model.ValidMemberRole(role) {
		return fmt.Errorf("%w: invalid role value", pkg.ErrValidation)
	}
	if err := s.requireManage(actor, communityID); err != nil {
		return err
	}

	member, err := s.memberRepo.FindByID(communityID, memberID)
	if err != nil {
		return err
	}
	if err := s.memberRepo.ChangeRole(communityID, memberID, role); err != nil {
		return err
	}
	s.notifier.Notify(member.UserID,
		fmt.Sprintf("Your role has been changed to %s.", role),
		model.NotifyCommunity)
	return nil
}

// RemoveMember 软删除，等价于替对方执行 Leave
func (s *CommunityService) RemoveMember(actor model.Actor, communityID, memberID uint64) error {
	if err := s.requireManage(actor, communityID); err != nil {
		return err
	}
	return s.memberRepo.RemoveByID(communityID, memberID)
}

func (s *CommunityService) requireManage(actor model.Actor, communityID uint64) error {
	ok, err := s.policy.CanManage(actor, communityID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no permission to manage this community", pkg.ErrPermissionDenied)
	}
	return nil
}
