package service

import (
	"context"
	"log"
	"time"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"

	"gorm.io/gorm"
)

type NotificationService struct {
	repo *mysql.NotificationRepository
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		repo: &mysql.NotificationRepository{DB: db},
	}
}

// Notify 业务事务提交之后调用，失败只打日志，绝不反过来影响主流程
func (s *NotificationService) Notify(recipientID uint64, content, notifyType string) {
	n := &model.Notification{
		RecipientID: recipientID,
		Content:     content,
		Type:        notifyType,
	}
	if err := s.repo.Create(n); err != nil {
		log.Printf("notify user=%d failed: %v", recipientID, err)
	}
}

func (s *NotificationService) List(actor model.Actor, unreadOnly bool, page, size int) ([]model.Notification, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.ListByRecipient(actor.ID, unreadOnly, offset, size)
}

func (s *NotificationService) MarkRead(actor model.Actor, id uint64) error {
	return s.repo.MarkRead(id, actor.ID)
}

func (s *NotificationService) CountUnread(actor model.Actor) (int64, error) {
	return s.repo.CountUnread(actor.ID)
}

type Sender func(ctx context.Context, ob *model.NotificationOutbox) error

// OutboxRelayer 把 outbox 表里的 pending 事件批量投递出去
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(db *gorm.DB, sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: db},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// 一批一批读待投递行，成功标 sent；失败标 failed 并记重试次数，
// 次数没用完的下一批还会带上
func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.List(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query err: %v", err)
		return
	}
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			_ = r.repo.RetryUpdate(ctx, ob.ID)
			continue
		}
		_ = r.repo.SuccessUpdate(ctx, ob.ID)
	}
}

// KafkaSender 把 outbox 事件按接收者分区投到 kafka
func KafkaSender(producer *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.NotificationOutbox) error {
		return producer.Send(ctx, pkg.RecipientKey(ob.RecipientID), []byte(ob.Payload))
	}
}

// LogSender 默认 sender：kafka 不可用时先打印
func LogSender(ctx context.Context, ob *model.NotificationOutbox) error {
	log.Printf("OUTBOX SEND type=%s recipient=%d payload=%s", ob.EventType, ob.RecipientID, ob.Payload)
	return nil
}
