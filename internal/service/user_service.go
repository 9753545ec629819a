package service

import (
	"fmt"
	"log"

	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"
	"Uni_Hub/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	repo     *mysql.UserRepository
	rUser    *redis.UserRepository
	emailSvc *EmailService
	notifier *NotificationService
}

func NewUserService(db *gorm.DB, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		rUser:    &redis.UserRepository{},
		emailSvc: emailSvc,
		notifier: NewNotificationService(db),
	}
}

func (s *UserService) Register(username, password, email, code string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", pkg.ErrValidation)
	}

	ok, err := s.emailSvc.VerifyCode("register", email, code)
	if err != nil || !ok {
		return fmt.Errorf("%w: verification failed", pkg.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
		Role:     model.PlatformRoleMember,
	}
	if err := s.repo.Create(user); err != nil {
		return err
	}

	// 欢迎邮件和站内通知都是尽力而为
	go func() {
		if err := s.emailSvc.SendWelcome(email, username); err != nil {
			log.Printf("welcome email to %s failed: %v", email, err)
		}
	}()
	s.notifier.Notify(user.ID, "Welcome to Uni Hub!", model.NotifySystem)
	return nil
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", pkg.ErrNotFound)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid password", pkg.ErrValidation)
	}

	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	// 单点登录：新 token 顶掉旧会话
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	pair, err := pkg.Refresh(refreshToken)
	if err != nil {
		return nil, err
	}
	claims, err := pkg.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, err
	}
	if err = s.rUser.AddUserToken(claims.UserID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// ResetPassword 忘记密码：邮箱验证码换新密码
func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode("reset", email, code)
	if err != nil || !ok {
		return fmt.Errorf("%w: verification failed", pkg.ErrValidation)
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

// ChangePassword 登录态修改密码，改完踢掉当前会话
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return fmt.Errorf("%w: old password is incorrect", pkg.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(usrID)
}

func (s *UserService) GetProfile(usrID uint64) (*model.User, error) {
	return s.repo.FindByID(usrID)
}

func (s *UserService) UpdateProfile(usrID uint64, bio, major, studentID string) error {
	return s.repo.UpdateProfile(usrID, map[string]any{
		"bio":        bio,
		"major":      major,
		"student_id": studentID,
	})
}
