package main

import (
	"context"
	"log"
	"os"

	"anno-go/internal/config"
	"anno-go/internal/models"
	"anno-go/internal/repository"
	"anno-go/internal/router"
	"anno-go/internal/service"
	"anno-go/pkg/session_lock"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

func main() {
	// 加载配置（从项目根目录读取）
	cfg, err := config.LoadConfig("./config/config.yaml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	// 初始化数据库（标注流水）
	if err := models.InitDB(cfg); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	db := models.GetDB()

	// 初始化Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddress(),
		DB:       cfg.Redis.DB,
		Password: cfg.Redis.Password,
	})

	// 会话锁：同一输出文件只允许一个写者
	outputPath := cfg.ResolvedOutputPath()
	lock := session_lock.NewSessionLock(redisClient, cfg.Redis.GetLockTTL())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := lock.Acquire(ctx, outputPath, cfg.Annotator.Name); err != nil {
		log.Fatalf("获取会话锁失败: %v", err)
	}
	defer lock.Release(context.Background(), outputPath, cfg.Annotator.Name)
	go lock.KeepAlive(ctx, outputPath, cfg.Annotator.Name)

	// 加载数据集并校验必需列
	variant := models.Variant(cfg.Dataset.Variant)
	loader := service.NewDatasetLoader()
	header, rows, err := loader.Load(cfg.Dataset.InputPath, variant)
	if err != nil {
		log.Fatalf("加载数据集失败: %v", err)
	}

	// 从已有输出文件计算续标起点
	tracker := service.NewProgressTracker()
	startIndex, err := tracker.ResumePoint(outputPath, header, len(rows))
	if err != nil {
		log.Fatalf("计算续标起点失败: %v", err)
	}
	if startIndex > 0 {
		logger.Infof("检测到已有输出文件 %s，从第 %d 行继续标注", outputPath, startIndex)
	}

	// 组装标注会话
	sink := service.NewCSVSink(outputPath, header)
	eventRepo := repository.NewAnnotationEventRepository(db)
	session, err := service.NewReviewSession(
		cfg.Annotator.Name,
		cfg.Dataset.InputPath,
		rows,
		startIndex,
		service.NewDecisionApplier(),
		sink,
		eventRepo,
		logger,
	)
	if err != nil {
		log.Fatalf("创建标注会话失败: %v", err)
	}
	if session.Done() {
		logger.Info("所有行均已标注完成")
	}

	// 设置路由
	r := router.SetupRouter(cfg, logger, db, session)

	// 启动服务器
	addr := cfg.Server.GetAddress()
	logger.Infof("标注服务启动在 %s, 标注员: %s, 变体: %s", addr, cfg.Annotator.Name, variant)
	logger.Infof("输入文件: %s, 输出文件: %s, 共 %d 行", cfg.Dataset.InputPath, outputPath, len(rows))

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}
