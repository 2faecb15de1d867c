package handlers

import (
	"github.com/gin-gonic/gin"
)

// @Summary      注册用户
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body object true "{username, password, email, name}"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,max=190"`
		Password string `json:"password" binding:"required"`
		Email    string `json:"email"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "username_and_password_required"})
		return
	}
	u, err := h.users.Register(c, req.Username, req.Password, req.Email, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	h.audit.Write(c, "USER_REGISTERED", "user", u.ID, &u.ID, u.Username, c.ClientIP())
	c.JSON(201, gin.H{"id": u.ID, "username": u.Username})
}

// @Summary      登录并签发访问令牌
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body object true "{username, password}"
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} map[string]string
// @Router       /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "username_and_password_required"})
		return
	}
	u, err := h.users.FindByUsername(c, req.Username)
	if err != nil || !h.users.CheckPassword(u, req.Password) {
		// 不区分用户不存在与口令错误
		c.JSON(401, gin.H{"error": "bad_credentials"})
		return
	}
	token, exp, _, err := h.tokens.Issue(u.ID)
	if err != nil {
		c.JSON(500, gin.H{"error": "token"})
		return
	}
	h.audit.Write(c, "USER_LOGIN", "user", u.ID, &u.ID, "", c.ClientIP())
	c.JSON(200, gin.H{"access_token": token, "token_type": "bearer", "expires_at": exp.Unix()})
}

// @Summary      注销（撤销当前访问令牌）
// @Tags         auth
// @Success      204 {string} string "No Content"
// @Failure      401 {object} map[string]string
// @Router       /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	uid, ok := h.currentUser(c)
	if !ok {
		return
	}
	if err := h.tokens.Revoke(c, bearerToken(c)); err != nil {
		c.JSON(500, gin.H{"error": "revoke"})
		return
	}
	h.audit.Write(c, "USER_LOGOUT", "user", uid, &uid, "", c.ClientIP())
	c.Status(204)
}
