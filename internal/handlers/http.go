package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"newsdesk/internal/config"
	"newsdesk/internal/metrics"
	"newsdesk/internal/middlewares"
	"newsdesk/internal/services"
)

// Handler 聚合所有依赖（配置、存储、服务）并注册所有 HTTP 路由。
type Handler struct {
	cfg        config.Config
	categories *services.CategoryService
	news       *services.NewsService
	comments   *services.CommentService
	users      *services.UserService
	tokens     *services.TokenService
	audit      *services.AuditService
	files      services.FileStore
	rdb        *redis.Client
}

// New 构造 Handler，将各领域服务注入，用于后续路由注册与处理。
func New(cfg config.Config, cats *services.CategoryService, news *services.NewsService, comments *services.CommentService, users *services.UserService, tokens *services.TokenService, audit *services.AuditService, files services.FileStore, rdb *redis.Client) *Handler {
	return &Handler{cfg: cfg, categories: cats, news: news, comments: comments, users: users, tokens: tokens, audit: audit, files: files, rdb: rdb}
}

// RegisterRoutes 在 Gin 路由上挂载全部端点（分类、新闻、评论、认证与运维）。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	window := h.cfg.Limits.Window
	if window <= 0 {
		window = time.Minute
	}

	// 分类
	r.GET("/categories", h.listCategories)
	r.POST("/categories", h.createCategory)
	r.GET("/categories/:id", h.getCategory)
	r.PUT("/categories/:id", h.updateCategory)
	r.PATCH("/categories/:id", h.patchCategory)
	r.DELETE("/categories/:id", h.deleteCategory)

	// 新闻（创建/更新接受 multipart 上传或 JSON 引用列表）
	r.GET("/news", h.listNews)
	r.POST("/news", h.createNews)
	r.GET("/news/:id", h.getNews)
	r.PUT("/news/:id", h.updateNews)
	r.DELETE("/news/:id", h.deleteNews)

	// 评论（变更需要已认证调用者；创建按用户限流）
	r.GET("/comments", h.listComments)
	r.POST("/comments", middlewares.RateLimit(h.rdb, "comment", h.cfg.Limits.CommentPerMinute, window, func(c *gin.Context) string { return c.ClientIP() }), h.createComment)
	r.GET("/comments/:id", h.getComment)
	r.PUT("/comments/:id", h.updateComment)
	r.DELETE("/comments/:id", h.deleteComment)

	// 认证协作方端点
	r.POST("/auth/register", h.register)
	r.POST("/auth/login", middlewares.RateLimit(h.rdb, "login", h.cfg.Limits.LoginPerMinute, window, func(c *gin.Context) string { return c.ClientIP() }), h.login)
	r.POST("/auth/logout", h.logout)

	// 运维端点
	r.GET("/metrics", metrics.Exposer())
	r.GET("/healthz", h.healthz)

	// 本地存储后端时挂载媒体目录静态访问
	if local, ok := h.files.(*services.LocalStore); ok {
		r.Static("/media", local.Dir())
	}
}

// @Summary      健康检查
// @Tags         ops
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       /healthz [get]
func (h *Handler) healthz(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
