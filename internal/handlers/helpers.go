package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"newsdesk/internal/services"
	"newsdesk/internal/storage"
)

// writeError 将服务层的类型化失败映射为稳定的 HTTP 状态。
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(404, gin.H{"error": "not_found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(403, gin.H{"error": "forbidden"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(401, gin.H{"error": "unauthorized"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(409, gin.H{"error": "conflict"})
	default:
		c.JSON(500, gin.H{"error": "db"})
	}
}

// paramID 解析路径中的数字主键。
func paramID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(400, gin.H{"error": "bad_id"})
		return 0, false
	}
	return id, true
}

// pageParams 解析 offset/limit 查询参数；缺省 offset=0、limit=10。
func pageParams(c *gin.Context) (int, int) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}
	return offset, limit
}

// bearerToken 从 Authorization 头提取 Bearer 凭证。
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// currentUser 通过授权门解析调用者身份；失败时返回 401 并终止请求。
func (h *Handler) currentUser(c *gin.Context) (uint64, bool) {
	uid, err := h.tokens.Resolve(c, bearerToken(c))
	if err != nil {
		c.AbortWithStatusJSON(401, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return uid, true
}

// --- 领域对象到响应体的转换 ---

func categoryJSON(cat *storage.Category) gin.H {
	return gin.H{
		"id":      cat.ID,
		"name":    cat.Name,
		"created": cat.CreatedAt,
	}
}

func newsJSON(n *storage.News) gin.H {
	return gin.H{
		"id":          n.ID,
		"title":       n.Title,
		"content":     n.Content,
		"images":      n.ImageRefs(),
		"category_id": n.CategoryID,
		"created":     n.CreatedAt,
		"updated":     n.UpdatedAt,
	}
}

func commentJSON(cm *storage.Comment) gin.H {
	return gin.H{
		"id":      cm.ID,
		"content": cm.Content,
		"news_id": cm.NewsID,
		"user_id": cm.UserID,
		"created": cm.CreatedAt,
		"updated": cm.UpdatedAt,
	}
}
