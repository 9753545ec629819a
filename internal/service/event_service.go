package service

import (
	"context"
	"fmt"
	"time"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"

	"gorm.io/gorm"
)

type EventService struct {
	repo            *mysql.EventRepository
	participantRepo *mysql.EventParticipantRepository
	memberRepo      *mysql.CommunityMemberRepository
	policy          *PolicyService
	notifier        *NotificationService
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{
		repo:            &mysql.EventRepository{DB: db},
		participantRepo: &mysql.EventParticipantRepository{DB: db},
		memberRepo:      &mysql.CommunityMemberRepository{DB: db},
		policy:          NewPolicyService(db),
		notifier:        NewNotificationService(db),
	}
}

type EventCreateInput struct {
	Title           string
	Description     string
	CommunityID     uint64
	StartTime       time.Time
	EndTime         time.Time
	Location        string
	MaxParticipants *uint
}

// EventDetail 详情视图，带当前用户是否已报名
type EventDetail struct {
	Event         *model.Event
	IsParticipant bool
}

// Create 只有所属社区的活跃成员能建活动，初始状态 draft
func (s *EventService) Create(actor model.Actor, in EventCreateInput) (*model.Event, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: event title required", pkg.ErrValidation)
	}
	if in.CommunityID == 0 {
		return nil, fmt.Errorf("%w: community required", pkg.ErrValidation)
	}
	if !in.EndTime.IsZero() && in.EndTime.Before(in.StartTime) {
		return nil, fmt.Errorf("%w: end time before start time", pkg.ErrValidation)
	}

	isMember, err := s.memberRepo.IsActiveMember(in.CommunityID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: you can only create events in communities you are a member of", pkg.ErrPermissionDenied)
	}

	event := &model.Event{
		Title:           in.Title,
		Description:     in.Description,
		CommunityID:     in.CommunityID,
		CreatorID:       actor.ID,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Location:        in.Location,
		MaxParticipants: in.MaxParticipants,
		Status:          model.EventDraft,
	}
	if err := s.repo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) List(f mysql.EventFilter, page, size int) ([]model.Event, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	offset := (page - 1) * size
	return s.repo.List(f, offset, size)
}

func (s *EventService) Get(actor model.Actor, eventID uint64) (*EventDetail, error) {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		return nil, err
	}
	detail := &EventDetail{Event: event}
	if actor.ID > 0 {
		registered, err := s.participantRepo.IsRegistered(eventID, actor.ID)
		if err != nil {
			return nil, err
		}
		detail.IsParticipant = registered
	}
	return detail, nil
}

func (s *EventService) Update(actor model.Actor, eventID uint64, fields map[string]any) error {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		return err
	}
	ok, err := s.policy.CanManageEvent(actor, event)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no permission to operate this event", pkg.ErrPermissionDenied)
	}
	return s.repo.Update(eventID, fields)
}

func (s *EventService) Delete(actor model.Actor, eventID uint64) error {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		return err
	}
	ok, err := s.policy.CanManageEvent(actor, event)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no permission to operate this event", pkg.ErrPermissionDenied)
	}
	return s.repo.Delete(eventID)
}

// ChangeStatus 状态流转，只有创建者或平台 staff 可操作。
// 终态（completed / cancelled）不再流转。
func (s *EventService) ChangeStatus(actor model.Actor, eventID uint64, status string) error {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		return err
	}
	if !s.policy.CanTransitionEvent(actor, event) {
		return fmt.Errorf("%w: no permission to operate this event", pkg.ErrPermissionDenied)
	}
	if !model.ValidEventStatus(status) {
		return fmt.Errorf("%w: invalid status value", pkg.ErrValidation)
	}
	if event.Status == model.EventCompleted || event.Status == model.EventCancelled {
		return fmt.Errorf("%w: event is already %s", pkg.ErrInvalidState, event.Status)
	}
	return s.repo.UpdateStatus(eventID, status)
}

// Register 报名成功后发确认通知（在事务提交之后，失败不回滚报名）
func (s *EventService) Register(ctx context.Context, actor model.Actor, eventID uint64) error {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		return err
	}
	if err := s.participantRepo.Register(ctx, eventID, actor.ID); err != nil {
		return err
	}
	s.notifier.Notify(actor.ID,
		fmt.Sprintf("You have successfully registered for the event「%s」", event.Title),
		model.NotifyEvent)
	return nil
}

func (s *EventService) Withdraw(ctx context.Context, actor model.Actor, eventID uint64) error {
	if _, err := s.repo.FindByID(eventID); err != nil {
		return err
	}
	return s.participantRepo.Withdraw(ctx, eventID, actor.ID)
}

// MarkAttended 签到由活动管理者代为操作
func (s *EventService) MarkAttended(actor model.Actor, eventID, userID uint64) error {
	event, err := s.repo.FindByID(eventID)
	if err != nil {
		return err
	}
	ok, err := s.policy.CanManageEvent(actor, event)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no permission to operate this event", pkg.ErrPermissionDenied)
	}
	return s.participantRepo.MarkAttended(eventID, userID)
}

func (s *EventService) Participants(eventID uint64) ([]model.EventParticipant, error) {
	if _, err := s.repo.FindByID(eventID); err != nil {
		return nil, err
	}
	return s.participantRepo.ListByEvent(eventID)
}
