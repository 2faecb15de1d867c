package handlers

import (
	"github.com/gin-gonic/gin"

	"newsdesk/internal/metrics"
)

// @Summary      分类列表
// @Tags         categories
// @Produce      json
// @Param        offset query int false "偏移"
// @Param        limit query int false "页大小"
// @Success      200 {array} map[string]interface{}
// @Router       /categories [get]
func (h *Handler) listCategories(c *gin.Context) {
	offset, limit := pageParams(c)
	list, err := h.categories.List(c, offset, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, categoryJSON(&list[i]))
	}
	c.JSON(200, out)
}

// @Summary      分类详情
// @Tags         categories
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /categories/{id} [get]
func (h *Handler) getCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	cat, err := h.categories.GetByID(c, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, categoryJSON(cat))
}

// @Summary      创建分类
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body body object true "{name}"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /categories [post]
func (h *Handler) createCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "name_required"})
		return
	}
	cat, err := h.categories.Create(c, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("category", "create").Inc()
	h.audit.Write(c, "CATEGORY_CREATED", "category", cat.ID, nil, cat.Name, c.ClientIP())
	c.JSON(201, categoryJSON(cat))
}

// @Summary      更新分类
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path int true "分类ID"
// @Param        body body object true "{name}"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /categories/{id} [put]
func (h *Handler) updateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "name_required"})
		return
	}
	h.applyCategoryUpdate(c, map[string]any{"name": req.Name})
}

// @Summary      部分更新分类
// @Description  仅应用请求中出现的字段；创建时间戳不受影响。
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /categories/{id} [patch]
func (h *Handler) patchCategory(c *gin.Context) {
	var req struct {
		Name *string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "bad_body"})
		return
	}
	data := map[string]any{}
	if req.Name != nil {
		data["name"] = *req.Name
	}
	h.applyCategoryUpdate(c, data)
}

func (h *Handler) applyCategoryUpdate(c *gin.Context, data map[string]any) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	cat, err := h.categories.Update(c, id, data)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("category", "update").Inc()
	h.audit.Write(c, "CATEGORY_UPDATED", "category", cat.ID, nil, cat.Name, c.ClientIP())
	c.JSON(200, categoryJSON(cat))
}

// @Summary      删除分类
// @Description  存在依赖新闻时拒绝删除（409）。
// @Tags         categories
// @Param        id path int true "分类ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /categories/{id} [delete]
func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(c, id); err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("category", "delete").Inc()
	h.audit.Write(c, "CATEGORY_DELETED", "category", id, nil, "", c.ClientIP())
	c.Status(204)
}
