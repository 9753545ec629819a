package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"Uni_Hub/internal/configs"
	"Uni_Hub/internal/model"
	"Uni_Hub/internal/pkg"
	"Uni_Hub/internal/repository/mysql"
	"Uni_Hub/internal/repository/redis"
	"Uni_Hub/internal/router"
	"Uni_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	confPath := flag.String("conf", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := configs.LoadConfig(*confPath)
	if err != nil {
		panic(err)
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	pkg.SetSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		panic(err)
	}

	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		panic(err)
	}
	defer redis.Close()

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Event{},
		&model.EventParticipant{},
		&model.Notification{},
		&model.NotificationOutbox{},
		&model.Post{},
		&model.PostLike{},
	); err != nil {
		panic(err)
	}

	// kafka 不可用时退化成日志投递，不拦启动
	sender := service.LogSender
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		if err != nil {
			log.Printf("kafka init failed, fallback to log sender: %v", err)
		} else {
			defer producer.Close()
			sender = service.KafkaSender(producer)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go service.NewOutboxRelayer(mysql.DB, sender).Run(ctx)
	go service.NewParticipantCountReconciler(mysql.DB).Run(ctx)

	emailSvc := service.NewEmailService(pkg.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	r := router.InitRouter(mysql.DB, router.Services{
		User:         service.NewUserService(mysql.DB, emailSvc),
		Email:        emailSvc,
		Community:    service.NewCommunityService(mysql.DB),
		Event:        service.NewEventService(mysql.DB),
		Notification: service.NewNotificationService(mysql.DB),
		Post:         service.NewPostService(mysql.DB),
		PostLike:     service.NewPostLikeService(mysql.DB),
	})

	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		panic(err)
	}
}
