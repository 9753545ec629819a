package service

import (
	"context"
	"log"
	"time"

	"Uni_Hub/internal/repository/mysql"

	"gorm.io/gorm"
)

// ParticipantCountReconciler 报名人数对账任务：
// current_participants 是冗余计数，定时用报名表的真实 COUNT 修正漂移
type ParticipantCountReconciler struct {
	repo      *mysql.ParticipantCountReconcilerRepo
	batchSize int
	interval  time.Duration
}

func NewParticipantCountReconciler(db *gorm.DB) *ParticipantCountReconciler {
	return &ParticipantCountReconciler{
		repo:      &mysql.ParticipantCountReconcilerRepo{DB: db},
		batchSize: 500,
		interval:  5 * time.Minute,
	}
}

func (r *ParticipantCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.reconcileOnce(ctx)
		}
	}
}

// 全表按游标分批扫一遍
func (r *ParticipantCountReconciler) reconcileOnce(ctx context.Context) {
	var lastID uint64
	for {
		events, next, err := r.repo.ReconcileList(ctx, r.batchSize, lastID)
		if err != nil {
			log.Printf("reconcile list err: %v", err)
			return
		}
		if len(events) == 0 {
			return
		}
		for _, e := range events {
			real, err := r.repo.RealCount(ctx, e.ID)
			if err != nil {
				continue
			}
			if real != e.CurrentParticipants {
				_ = r.repo.ReconcileCount(ctx, e.ID, real)
			}
		}
		lastID = next
	}
}
