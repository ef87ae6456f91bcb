package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"newsroom/internal/services"
	"newsroom/internal/storage"
)

// writeError 将服务层错误映射到 HTTP 状态码：
// NotFound→404，Forbidden→403，其余按内部错误处理（不泄露细节）。
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, services.ErrCodeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code_mismatch"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

// pagination 解析 offset/limit 查询参数并套用默认值与上限。
func (h *Handler) pagination(c *gin.Context) (int, int) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", ""))
	if err != nil || limit <= 0 {
		limit = h.cfg.Page.DefaultLimit
	}
	if limit > h.cfg.Page.MaxLimit {
		limit = h.cfg.Page.MaxLimit
	}
	return offset, limit
}

// idParam 解析路径中的主键参数。
func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id"})
		return 0, false
	}
	return id, true
}

// authRequired 解析 Bearer 令牌并把用户 id 写入上下文。
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if !strings.HasPrefix(raw, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}
		uid, err := h.authSvc.ParseToken(strings.TrimPrefix(raw, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}
		c.Set("user_id", uid)
		c.Next()
	}
}

// currentUser 读取 authRequired 写入的用户 id。
func currentUser(c *gin.Context) uint64 {
	v, _ := c.Get("user_id")
	id, _ := v.(uint64)
	return id
}

// audit 记录一条内容变更审计日志。
func (h *Handler) audit(c *gin.Context, event, desc string) {
	uid := currentUser(c)
	var uidPtr *uint64
	if uid != 0 {
		uidPtr = &uid
	}
	h.logSvc.Write(c.Request.Context(), event, uidPtr, desc, c.ClientIP(), c.GetString("request_id"))
}
