package service

import (
	"fmt"

	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

// SendCode 生成验证码、写 redis、发邮件。scope 只认 register / reset
func (s *EmailService) SendCode(scope, email string) error {
	if scope != "register" && scope != "reset" {
		return fmt.Errorf("%w: unknown code scope", pkg.ErrValidation)
	}
	code, err := pkg.NewVerifyCode()
	if err != nil {
		return err
	}
	if err = s.rds.SetCode(scope, email, code); err != nil {
		return err
	}

	subject := "注册验证"
	if scope == "reset" {
		subject = "重置密码"
	}
	html := pkg.EmailCodeHTML(subject, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject+"验证码", html); err != nil {
		// 发信失败就把码清掉，避免撞上残留的旧码
		_ = s.rds.DeleteCode(scope, email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码，匹配则一次性删除
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.GetCode(scope, email)
	if err != nil {
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteCode(scope, email); err != nil {
		return false, err
	}
	return true, nil
}

func (s *EmailService) SendWelcome(email, username string) error {
	return pkg.SendEmail(s.emailCfg, email, "Welcome to Uni Hub!", pkg.WelcomeHTML(username))
}
