package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"newsroom/internal/cache"
	"newsroom/internal/config"
	"newsroom/internal/metrics"
	"newsroom/internal/middlewares"
	"newsroom/internal/services"
)

// Handler 聚合所有依赖（配置、服务、缓存）并注册所有 HTTP 路由。
type Handler struct {
	cfg         config.Config
	categorySvc *services.CategoryService
	newsSvc     *services.NewsService
	commentSvc  *services.CommentService
	userSvc     *services.UserService
	authSvc     *services.AuthService
	logSvc      *services.LogService
	cache       *cache.Client
	rdb         *redis.Client
}

// New 构造 Handler，将各领域服务注入，用于后续路由注册与处理。
func New(cfg config.Config, cats *services.CategoryService, news *services.NewsService, comments *services.CommentService, users *services.UserService, auth *services.AuthService, logs *services.LogService, cc *cache.Client, rdb *redis.Client) *Handler {
	return &Handler{cfg: cfg, categorySvc: cats, newsSvc: news, commentSvc: comments, userSvc: users, authSvc: auth, logSvc: logs, cache: cc, rdb: rdb}
}

// RegisterRoutes 在 Gin 路由上挂载平台的全部端点。
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", metrics.Exposer())

	// 认证（注册/登录/邮箱验证）
	r.POST("/auth/register", h.register)
	r.POST("/auth/login", middlewares.RateLimit(h.rdb, "login", h.cfg.Limits.LoginPerMinute, h.limitWindow(), func(c *gin.Context) string { return c.ClientIP() }), h.login)
	r.POST("/auth/verify/send", h.authRequired(), h.sendVerification)
	r.POST("/auth/verify", h.authRequired(), h.verifyEmail)

	// 栏目
	r.GET("/categories", h.listCategories)
	r.GET("/categories/:id", h.getCategory)
	r.POST("/categories", h.authRequired(), h.createCategory)
	r.PUT("/categories/:id", h.authRequired(), h.updateCategory)
	r.PATCH("/categories/:id", h.authRequired(), h.patchCategory)
	r.DELETE("/categories/:id", h.authRequired(), h.deleteCategory)

	// 新闻（创建走 multipart，图片并发落盘）
	r.GET("/news", h.listNews)
	r.GET("/news/:id", h.getNews)
	r.POST("/news", h.authRequired(), h.createNews)
	r.PUT("/news/:id", h.authRequired(), h.updateNews)
	r.PATCH("/news/:id", h.authRequired(), h.patchNews)
	r.DELETE("/news/:id", h.authRequired(), h.deleteNews)

	// 评论（变更仅限属主）
	r.GET("/comments", h.listComments)
	r.GET("/comments/:id", h.getComment)
	r.POST("/comments", h.authRequired(), h.createComment)
	r.PUT("/comments/:id", h.authRequired(), h.updateComment)
	r.PATCH("/comments/:id", h.authRequired(), h.patchComment)
	r.DELETE("/comments/:id", h.authRequired(), h.deleteComment)
}

func (h *Handler) limitWindow() time.Duration {
	if h.cfg.Limits.Window > 0 {
		return h.cfg.Limits.Window
	}
	return time.Minute
}
