package service

import (
	"context"
	"fmt"
	"time"

	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"
	"Uni_Hub/internal/repository/redis"

	"gorm.io/gorm"
)

type PostLikeService struct {
	repo      *mysql.PostLikeRepository
	likeCache *redis.LikeCacheRepository
	lock      *redis.DistLock
}

func NewPostLikeService(db *gorm.DB) *PostLikeService {
	return &PostLikeService{
		repo:      &mysql.PostLikeRepository{DB: db},
		likeCache: redis.NewLikeCacheRepository(),
		lock:      &redis.DistLock{RDB: redis.Client},
	}
}

// Like 先写库，新增成功再同步缓存集合和计数
func (s *PostLikeService) Like(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, fmt.Errorf("%w: invalid id", pkg.ErrValidation)
	}

	changed, err := s.repo.Like(ctx, userID, postID)
	if err != nil || !changed {
		if err == nil {
			s.likeCache.WarmIsLiked(ctx, userID, postID, true)
		}
		return changed, err
	}

	_ = s.likeCache.AddLike(ctx, userID, postID)
	return true, nil
}

func (s *PostLikeService) Unlike(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, fmt.Errorf("%w: invalid id", pkg.ErrValidation)
	}
	changed, err := s.repo.Unlike(ctx, userID, postID)
	if err != nil || !changed {
		if err == nil {
			s.likeCache.WarmIsLiked(ctx, userID, postID, false)
		}
		return changed, err
	}

	_ = s.likeCache.RemoveLike(ctx, userID, postID)
	return true, nil
}

func (s *PostLikeService) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 || postID == 0 {
		return false, fmt.Errorf("%w: invalid id", pkg.ErrValidation)
	}
	if b, ok, err := s.likeCache.IsLikedCached(ctx, userID, postID); err == nil && ok {
		return b, nil
	}
	b, err := s.repo.IsLiked(ctx, userID, postID)
	if err == nil {
		s.likeCache.WarmIsLiked(ctx, userID, postID, b)
	}
	return b, err
}

// Invalidate 帖子删除后清掉计数缓存
func (s *PostLikeService) Invalidate(ctx context.Context, postID uint64) error {
	return s.likeCache.DeleteCount(ctx, postID)
}

// GetCount 缓存miss时用分布式锁做单兵回源，避免全体打DB
func (s *PostLikeService) GetCount(ctx context.Context, userID, postID uint64) (int64, error) {
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && ok {
		return v, nil
	}

	token := fmt.Sprintf("%d-%d-%d", userID, postID, time.Now().UnixNano())
	got, _ := s.lock.Acquire(ctx, postID, token)
	if got {
		defer func() { _ = s.lock.Release(ctx, postID, token) }()

		// 双检
		if v, ok, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && ok {
			return v, nil
		}
		v, err := s.repo.GetLikeCount(ctx, postID)
		if err != nil {
			return 0, err
		}
		_ = s.likeCache.SetLikeCount(ctx, postID, v)
		return v, nil
	}

	// 没拿到锁，短暂退避后再读一次缓存
	time.Sleep(50 * time.Millisecond)
	if v, ok, err := s.likeCache.GetLikeCountCached(ctx, postID); err == nil && ok {
		return v, nil
	}
	return s.repo.GetLikeCount(ctx, postID)
}
