package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEvent(t *testing.T, db *gorm.DB, status string, max *uint) *model.Event {
	t.Helper()
	e := &model.Event{
		Title:           "test event",
		CommunityID:     1,
		CreatorID:       1,
		StartTime:       time.Now().Add(time.Hour),
		EndTime:         time.Now().Add(2 * time.Hour),
		Status:          status,
		MaxParticipants: max,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func uintPtr(v uint) *uint { return &v }

func TestRegisterRespectsCapacity(t *testing.T) {
	db := newTestDB(t)
	repo := &EventParticipantRepository{DB: db}
	ctx := context.Background()

	e := seedEvent(t, db, model.EventPublished, uintPtr(2))

	require.NoError(t, repo.Register(ctx, e.ID, 10))
	require.NoError(t, repo.Register(ctx, e.ID, 11))

	err := repo.Register(ctx, e.ID, 12)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrConflict))

	// 计数顶在上限，报名行数和计数一致
	var got model.Event
	require.NoError(t, db.First(&got, e.ID).Error)
	assert.Equal(t, uint(2), got.CurrentParticipants)

	count, err := repo.CountByEvent(e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRegisterUnboundedWhenNoLimit(t *testing.T) {
	db := newTestDB(t)
	repo := &EventParticipantRepository{DB: db}
	ctx := context.Background()

	e := seedEvent(t, db, model.EventPublished, nil)

	for uid := uint64(1); uid <= 10; uid++ {
		require.NoError(t, repo.Register(ctx, e.ID, uid))
	}

	var got model.Event
	require.NoError(t, db.First(&got, e.ID).Error)
	assert.Equal(t, uint(10), got.CurrentParticipants)
}

func TestRegisterDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := &EventParticipantRepository{DB: db}
	ctx := context.Background()

	e := seedEvent(t, db, model.EventPublished, uintPtr(5))

	require.NoError(t, repo.Register(ctx, e.ID, 10))

	err := repo.Register(ctx, e.ID, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrConflict))

	// 重复报名不抬计数
	var got model.Event
	require.NoError(t, db.First(&got, e.ID).Error)
	assert.Equal(t, uint(1), got.CurrentParticipants)
}

func TestRegisterClosedStates(t *testing.T) {
	db := newTestDB(t)
	repo := &EventParticipantRepository{DB: db}
	ctx := context.Background()

	for _, status := range []string{model.EventDraft, model.EventCompleted, model.EventCancelled} {
		e := seedEvent(t, db, status, nil)
		err := repo.Register(ctx, e.ID, 10)
		require.Error(t, err, "status %s", status)
		assert.True(t, errors.Is(err, pkg.ErrInvalidState), "status %s", status)
	}

	// ongoing 放行
	e := seedEvent(t, db, model.EventOngoing, nil)
	require.NoError(t, repo.Register(ctx, e.ID, 10))
}

func TestRegisterEventNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := &EventParticipantRepository{DB: db}

	err := repo.Register(context.Background(), 999, 10)
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
}

func TestWithdrawFreesCapacity(t *testing.T) {
	db := newTestDB(t)
	repo := &EventParticipantRepository{DB: db}
	ctx := context.Background()

	e := seedEvent(t, db, model.EventPublished, uintPtr(1))

	require.NoError(t, repo.Register(ctx, e.ID, 10))

	err := repo.Register(ctx, e.ID, 11)
	assert.True(t, errors.Is(err, pkg.ErrConflict))

	require.NoError(t, repo.Withdraw(ctx, e.ID, 10))

	var got model.Event
	require.NoError(t, db.First(&got, e.ID).Error)
	assert.Equal(t, uint(0), got.CurrentParticipants)

	// 退出之后腾出名额
	require.NoError(t, repo.Register(ctx, e.ID, 11))
}

// 没报过名的退出是状态错误（400 一侧），不是 404
func TestWithdrawWithoutRegistration(t *testing.T) {
	db := newTestDB(t)
	repo := &EventParticipantRepository{DB: db}
	ctx := context.Background()

	e := seedEvent(t, db, model.EventPublished, nil)

	err := repo.Withdraw(ctx, e.ID, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrInvalidState))

	// 没报上名的退出绝不把计数推到负数
	var got model.Event
	require.NoError(t, db.First(&got, e.ID).Error)
	assert.Equal(t, uint(0), got.CurrentParticipants)
}

// 报名 -> 重复报名 -> 退出 -> 再退出的完整往返
func TestRegisterWithdrawRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := &EventParticipantRepository{DB: db}
	ctx := context.Background()

	e := seedEvent(t, db, model.EventPublished, uintPtr(10))

	require.NoError(t, repo.Register(ctx, e.ID, 10))
	assert.True(t, errors.Is(repo.Register(ctx, e.ID, 10), pkg.ErrConflict))

	ok, err := repo.IsRegistered(e.ID, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Withdraw(ctx, e.ID, 10))
	assert.True(t, errors.Is(repo.Withdraw(ctx, e.ID, 10), pkg.ErrInvalidState))

	ok, err = repo.IsRegistered(e.ID, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	count, err := repo.CountByEvent(e.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
