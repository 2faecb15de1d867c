package main

// @title           newsdesk CMS API
// @version         0.1.0
// @description     基于 Go(Gin) 的内容管理后端：分类、新闻（含图片附件）与评论的 CRUD，评论变更受作者归属保护。
// @schemes         http https
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"newsdesk/internal/config"
	"newsdesk/internal/handlers"
	"newsdesk/internal/metrics"
	"newsdesk/internal/middlewares"
	"newsdesk/internal/services"
	"newsdesk/internal/storage"
)

// main 为服务入口：加载配置、初始化日志/存储/服务、注册路由并启动 HTTP 服务。
func main() {
	// 配置结构化日志格式
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// 加载配置（以配置文件为主，配合内置默认值）
	cfg := config.Load()
	// 生产环境基线检查：禁止默认数据库密码与默认签名密钥进入生产。
	if cfg.Env == "prod" {
		if cfg.MySQL.Password == "123456" || cfg.MySQL.Password == "password" || cfg.MySQL.Password == "" {
			log.Fatal("insecure mysql password in prod; configure mysql.password in config.yaml")
		}
		if cfg.Auth.Secret == "dev-secret-change-me" || cfg.Auth.Secret == "" {
			log.Fatal("insecure auth secret in prod; set auth.secret in config.yaml")
		}
	}
	log.WithFields(log.Fields{
		"env":           cfg.Env,
		"http_addr":     cfg.HTTPAddr,
		"mysql_dsn":     cfg.MySQL.DSNMasked(),
		"redis_addr":    cfg.Redis.Addr,
		"media_backend": cfg.Media.Backend,
	}).Info("configuration loaded")

	// 初始化存储（MySQL + Redis + 文件存储）
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

	files, err := services.NewFileStore(cfg)
	if err != nil {
		log.WithError(err).Fatal("init file store")
	}

	// 初始化核心服务
	revokeSvc := services.NewRevocationService(rdb)
	tokenSvc := services.NewTokenService(cfg, revokeSvc)
	userSvc := services.NewUserService(db)
	categorySvc := services.NewCategoryService(db)
	newsSvc := services.NewNewsService(db, files)
	commentSvc := services.NewCommentService(db)
	auditSvc := services.NewAuditService(db)

	// HTTP 路由与中间件
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestID())
	router.Use(middlewares.RequestLogger())
	router.Use(middlewares.SecurityHeaders(cfg))
	router.Use(metrics.Handler())

	// 装载 HTTP 处理器
	h := handlers.New(cfg, categorySvc, newsSvc, commentSvc, userSvc, tokenSvc, auditSvc, files, rdb)
	h.RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	// 优雅退出
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server shutdown")
	} else {
		log.Info("server stopped")
	}
}
