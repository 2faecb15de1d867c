package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"newsdesk/internal/metrics"
)

// @Summary      评论列表
// @Tags         comments
// @Produce      json
// @Param        news_id query int false "按新闻过滤"
// @Param        offset query int false "偏移"
// @Param        limit query int false "页大小"
// @Success      200 {array} map[string]interface{}
// @Router       /comments [get]
func (h *Handler) listComments(c *gin.Context) {
	offset, limit := pageParams(c)
	var newsID *uint64
	if raw := c.Query("news_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "bad_news_id"})
			return
		}
		newsID = &id
	}
	list, err := h.comments.List(c, newsID, offset, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, commentJSON(&list[i]))
	}
	c.JSON(200, out)
}

// @Summary      评论详情
// @Tags         comments
// @Produce      json
// @Param        id path int true "评论ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /comments/{id} [get]
func (h *Handler) getComment(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	cm, err := h.comments.GetByID(c, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, commentJSON(cm))
}

// @Summary      创建评论
// @Description  作者取自 Bearer 凭证解析出的调用者身份，从不接受客户端指定。
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        body body object true "{content, news_id}"
// @Success      201 {object} map[string]interface{}
// @Failure      401 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /comments [post]
func (h *Handler) createComment(c *gin.Context) {
	uid, ok := h.currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required,max=1000"`
		NewsID  uint64 `json:"news_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "content_and_news_required"})
		return
	}
	cm, err := h.comments.Create(c, uid, req.NewsID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("comment", "create").Inc()
	h.audit.Write(c, "COMMENT_CREATED", "comment", cm.ID, &uid, "", c.ClientIP())
	c.JSON(201, commentJSON(cm))
}

// @Summary      更新评论
// @Description  仅作者本人可更新；他人操作返回 403。
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id path int true "评论ID"
// @Param        body body object true "{content}"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /comments/{id} [put]
func (h *Handler) updateComment(c *gin.Context) {
	uid, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "content_required"})
		return
	}
	cm, err := h.comments.Update(c, uid, id, map[string]any{"content": req.Content})
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("comment", "update").Inc()
	h.audit.Write(c, "COMMENT_UPDATED", "comment", cm.ID, &uid, "", c.ClientIP())
	c.JSON(200, commentJSON(cm))
}

// @Summary      删除评论
// @Description  仅作者本人可删除；他人操作返回 403。
// @Tags         comments
// @Param        id path int true "评论ID"
// @Success      204 {string} string "No Content"
// @Failure      401 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /comments/{id} [delete]
func (h *Handler) deleteComment(c *gin.Context) {
	uid, ok := h.currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.comments.Delete(c, uid, id); err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("comment", "delete").Inc()
	h.audit.Write(c, "COMMENT_DELETED", "comment", id, &uid, "", c.ClientIP())
	c.Status(204)
}
