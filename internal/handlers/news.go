package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"newsdesk/internal/metrics"
	"newsdesk/internal/services"
)

// @Summary      新闻列表
// @Tags         news
// @Produce      json
// @Param        offset query int false "偏移"
// @Param        limit query int false "页大小"
// @Success      200 {array} map[string]interface{}
// @Router       /news [get]
func (h *Handler) listNews(c *gin.Context) {
	offset, limit := pageParams(c)
	list, err := h.news.List(c, offset, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, newsJSON(&list[i]))
	}
	c.JSON(200, out)
}

// @Summary      新闻详情
// @Tags         news
// @Produce      json
// @Param        id path int true "新闻ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /news/{id} [get]
func (h *Handler) getNews(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	n, err := h.news.GetByID(c, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(200, newsJSON(n))
}

// newsJSONBody 为 JSON 形式的创建/更新请求体；Images 为已存储引用。
type newsJSONBody struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Images     []string `json:"images"`
	CategoryID *uint64  `json:"category_id"`
}

// @Summary      创建新闻
// @Description  接受 multipart/form-data（title/content/category_id 字段与 images 文件）
// @Description  或 JSON（images 为已存储引用列表）。上传文件先落盘再入库。
// @Tags         news
// @Accept       mpfd
// @Accept       json
// @Produce      json
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /news [post]
func (h *Handler) createNews(c *gin.Context) {
	var in services.CreateNewsInput
	if isMultipart(c) {
		title := c.PostForm("title")
		cid, err := strconv.ParseUint(c.PostForm("category_id"), 10, 64)
		if title == "" || err != nil {
			c.JSON(400, gin.H{"error": "title_and_category_required"})
			return
		}
		refs, ok := h.saveUploads(c)
		if !ok {
			return
		}
		in = services.CreateNewsInput{Title: title, Content: c.PostForm("content"), Images: refs, CategoryID: cid}
	} else {
		var req newsJSONBody
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == nil || *req.Title == "" || req.CategoryID == nil {
			c.JSON(400, gin.H{"error": "title_and_category_required"})
			return
		}
		in = services.CreateNewsInput{Title: *req.Title, Images: req.Images, CategoryID: *req.CategoryID}
		if req.Content != nil {
			in.Content = *req.Content
		}
	}
	n, err := h.news.Create(c, in)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("news", "create").Inc()
	h.audit.Write(c, "NEWS_CREATED", "news", n.ID, nil, n.Title, c.ClientIP())
	c.JSON(201, newsJSON(n))
}

// @Summary      更新新闻
// @Description  仅应用请求中出现的字段；携带图片（上传或引用）时整表替换图片列表。
// @Tags         news
// @Accept       mpfd
// @Accept       json
// @Produce      json
// @Param        id path int true "新闻ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /news/{id} [put]
func (h *Handler) updateNews(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	data := map[string]any{}
	if isMultipart(c) {
		if v, present := c.GetPostForm("title"); present {
			data["title"] = v
		}
		if v, present := c.GetPostForm("content"); present {
			data["content"] = v
		}
		if v, present := c.GetPostForm("category_id"); present {
			cid, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(400, gin.H{"error": "bad_category"})
				return
			}
			data["category_id"] = cid
		}
		if form, err := c.MultipartForm(); err == nil && len(form.File["images"]) > 0 {
			refs, ok := h.saveUploads(c)
			if !ok {
				return
			}
			data["images"] = refs
		}
	} else {
		var req newsJSONBody
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "bad_body"})
			return
		}
		if req.Title != nil {
			data["title"] = *req.Title
		}
		if req.Content != nil {
			data["content"] = *req.Content
		}
		if req.CategoryID != nil {
			data["category_id"] = *req.CategoryID
		}
		if req.Images != nil {
			data["images"] = req.Images
		}
	}
	n, err := h.news.Update(c, id, data)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("news", "update").Inc()
	h.audit.Write(c, "NEWS_UPDATED", "news", n.ID, nil, n.Title, c.ClientIP())
	c.JSON(200, newsJSON(n))
}

// @Summary      删除新闻
// @Description  先删除全部依赖评论与新闻行，再尽力删除已存储图片文件。
// @Tags         news
// @Param        id path int true "新闻ID"
// @Success      204 {string} string "No Content"
// @Failure      404 {object} map[string]string
// @Router       /news/{id} [delete]
func (h *Handler) deleteNews(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.news.Delete(c, id); err != nil {
		writeError(c, err)
		return
	}
	metrics.EntityMutations.WithLabelValues("news", "delete").Inc()
	h.audit.Write(c, "NEWS_DELETED", "news", id, nil, "", c.ClientIP())
	c.Status(204)
}

// saveUploads 将 multipart 的 images 文件逐个写入文件存储，返回引用列表。
// 失败时回应 500 并返回 ok=false。
func (h *Handler) saveUploads(c *gin.Context) ([]string, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(400, gin.H{"error": "bad_multipart"})
		return nil, false
	}
	var refs []string
	for _, fh := range form.File["images"] {
		ref, err := h.saveUpload(c, fh)
		if err != nil {
			c.JSON(500, gin.H{"error": "upload_failed"})
			return nil, false
		}
		refs = append(refs, ref)
	}
	return refs, true
}

func (h *Handler) saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.files.Save(c, f, fh.Filename)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}
