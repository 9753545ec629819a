package service

import (
	"context"
	"errors"
	"testing"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOutbox(t *testing.T, db *gorm.DB, eventType string, recipientID uint64) *model.NotificationOutbox {
	t.Helper()
	ob := &model.NotificationOutbox{
		EventType:   eventType,
		RecipientID: recipientID,
		Payload:     `{"event_type":"` + eventType + `"}`,
	}
	require.NoError(t, db.Create(ob).Error)
	return ob
}

func TestOutboxDrainMarksSent(t *testing.T) {
	db := newTestDB(t)

	seedOutbox(t, db, "member_joined", 10)
	seedOutbox(t, db, "event_registered", 11)

	var delivered []string
	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.NotificationOutbox) error {
		delivered = append(delivered, ob.EventType)
		return nil
	})
	relayer.drainOnce(context.Background())

	assert.ElementsMatch(t, []string{"member_joined", "event_registered"}, delivered)

	var pending int64
	db.Model(&model.NotificationOutbox{}).Where("status = ?", 0).Count(&pending)
	assert.Equal(t, int64(0), pending)

	var sent int64
	db.Model(&model.NotificationOutbox{}).Where("status = ?", 1).Count(&sent)
	assert.Equal(t, int64(2), sent)
}

func TestOutboxDrainRetriesFailure(t *testing.T) {
	db := newTestDB(t)

	ob := seedOutbox(t, db, "member_joined", 10)

	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.NotificationOutbox) error {
		return errors.New("broker down")
	})
	relayer.drainOnce(context.Background())

	var got model.NotificationOutbox
	require.NoError(t, db.First(&got, ob.ID).Error)
	assert.Equal(t, int8(2), got.Status)
	assert.Equal(t, 1, got.Retry)

	// 重试次数没用完，失败行还会进下一批
	repo := &mysql.OutboxRepository{DB: db}
	rows, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// broker 恢复后下一轮投出去
	ok := NewOutboxRelayer(db, func(ctx context.Context, ob *model.NotificationOutbox) error {
		return nil
	})
	ok.drainOnce(context.Background())

	require.NoError(t, db.First(&got, ob.ID).Error)
	assert.Equal(t, int8(1), got.Status)
}

func TestOutboxRetryExhaustion(t *testing.T) {
	db := newTestDB(t)

	ob := seedOutbox(t, db, "member_joined", 10)

	relayer := NewOutboxRelayer(db, func(ctx context.Context, ob *model.NotificationOutbox) error {
		return errors.New("broker down")
	})
	for i := 0; i < mysql.MaxOutboxRetry; i++ {
		relayer.drainOnce(context.Background())
	}

	var got model.NotificationOutbox
	require.NoError(t, db.First(&got, ob.ID).Error)
	assert.Equal(t, int8(2), got.Status)
	assert.Equal(t, mysql.MaxOutboxRetry, got.Retry)

	// 次数用完，彻底离开投递批次
	repo := &mysql.OutboxRepository{DB: db}
	rows, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNotificationListAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)

	svc.Notify(10, "hello", model.NotifySystem)
	svc.Notify(10, "world", model.NotifyEvent)
	svc.Notify(11, "other", model.NotifySystem)

	list, err := svc.List(model.Actor{ID: 10}, false, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 2)

	count, err := svc.CountUnread(model.Actor{ID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.MarkRead(model.Actor{ID: 10}, list[0].ID))

	unread, err := svc.List(model.Actor{ID: 10}, true, 1, 20)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	// 只能标自己的
	err = svc.MarkRead(model.Actor{ID: 11}, list[1].ID)
	require.Error(t, err)
}
