package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"newsroom/internal/cache"
	"newsroom/internal/config"
	"newsroom/internal/handlers"
	"newsroom/internal/media"
	"newsroom/internal/metrics"
	"newsroom/internal/middlewares"
	"newsroom/internal/services"
	"newsroom/internal/storage"
)

// main 为内容 API 服务入口：加载配置、初始化日志/存储/服务、注册路由并启动 HTTP 服务。
func main() {
	// 配置结构化日志格式
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// 加载配置（以配置文件为主，配合内置默认值）
	cfg := config.Load()
	// 生产环境基线检查：禁止默认密钥与默认数据库密码进入生产。
	if cfg.Env == "prod" {
		if cfg.MySQL.Password == "123456" || cfg.MySQL.Password == "password" || cfg.MySQL.Password == "" {
			log.Fatal("insecure mysql password in prod; configure mysql.password in config.yaml")
		}
		if cfg.Auth.JWTSecret == "dev-jwt-secret-change-me" || cfg.Auth.JWTSecret == "" {
			log.Fatal("insecure jwt secret in prod; set auth.jwt_secret")
		}
	}
	log.WithFields(log.Fields{
		"env":        cfg.Env,
		"http_addr":  cfg.HTTPAddr,
		"mysql_dsn":  cfg.MySQL.DSNMasked(),
		"redis_addr": cfg.Redis.Addr,
		"cache_ttl":  cfg.Cache.TTL.String(),
		"media_root": cfg.Media.Root,
	}).Info("configuration loaded")

	// 初始化存储（MySQL + Redis）
	db, err := storage.InitMySQL(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect mysql")
	}
	defer storage.CloseMySQL(db)

	rdb, err := storage.InitRedis(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect redis")
	}
	defer func() { _ = rdb.Close() }()

	// 初始化核心服务
	mediaStore := media.NewStore(cfg.Media.Root)
	categorySvc := services.NewCategoryService(db)
	newsSvc := services.NewNewsService(db, mediaStore)
	commentSvc := services.NewCommentService(db)
	userSvc := services.NewUserService(db)
	authSvc := services.NewAuthService(userSvc, rdb, cfg)
	logSvc := services.NewLogService(db)
	respCache := cache.New(rdb, cfg.Cache.TTL)

	// HTTP 路由与中间件
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(metrics.Handler())

	// 装载 HTTP 处理器
	h := handlers.New(cfg, categorySvc, newsSvc, commentSvc, userSvc, authSvc, logSvc, respCache, rdb)
	h.RegisterRoutes(router)
	// 已落盘的媒体文件直接由本服务静态托管
	router.Static("/media", cfg.Media.Root)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server exited")
		}
	}()

	// 优雅退出：等待信号后给未完成请求一个收尾窗口
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}
