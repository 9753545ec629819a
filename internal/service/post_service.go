package service

import (
	"fmt"
	"time"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"

	"gorm.io/gorm"
)

type PostService struct {
	repo       *mysql.PostRepository
	memberRepo *mysql.CommunityMemberRepository
	policy     *PolicyService
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		repo:       &mysql.PostRepository{DB: db},
		memberRepo: &mysql.CommunityMemberRepository{DB: db},
		policy:     NewPolicyService(db),
	}
}

// Create 只有社区活跃成员可以发帖
func (s *PostService) Create(actor model.Actor, communityID uint64, content string) (*model.Post, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content required", pkg.ErrValidation)
	}

	ok, err := s.memberRepo.IsActiveMember(communityID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: not a member of this community", pkg.ErrPermissionDenied)
	}

	post := &model.Post{
		CommunityID: communityID,
		AuthorID:    actor.ID,
		Content:     content,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(postID uint64) (*model.Post, error) {
	return s.repo.FindByID(postID)
}

func (s *PostService) ListByCommunity(communityID uint64, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByCommunity(communityID, offset, size)
}

// ListByCommunityCursor 游标分页：首页不传 lastID/lastCreatedAt
func (s *PostService) ListByCommunityCursor(communityID, lastID uint64, lastCreatedAt int64, size int) ([]model.Post, uint64, int64, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	var cursor time.Time
	if lastCreatedAt > 0 {
		cursor = time.Unix(lastCreatedAt, 0)
	}
	list, err := s.repo.ListByCommunityCursor(communityID, lastID, cursor, size)
	if err != nil {
		return nil, 0, 0, err
	}
	var nextID uint64
	var nextTS int64
	if len(list) > 0 {
		last := list[len(list)-1]
		nextID = last.ID
		nextTS = last.CreatedAt.Unix()
	}
	return list, nextID, nextTS, nil
}

// ListMine 当前用户自己的帖子
func (s *PostService) ListMine(actor model.Actor, page, size int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByAuthor(actor.ID, offset, size)
}

// Delete 作者本人或社区管理者可删，软删除幂等
func (s *PostService) Delete(actor model.Actor, postID uint64) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID {
		ok, err := s.policy.CanManage(actor, post.CommunityID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: no permission to delete this post", pkg.ErrPermissionDenied)
		}
	}
	return s.repo.Delete(postID)
}
