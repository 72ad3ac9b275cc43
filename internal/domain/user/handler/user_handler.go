package handler

import (
	"errors"
	"net/http"

	"svu_forum/internal/domain/user/model"
	"svu_forum/internal/domain/user/service"
	"svu_forum/internal/pkg/middleware"
	"svu_forum/pkg/response"
	"svu_forum/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	service service.UserService
}

// NewUserHandler 创建处理器
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// LoginInput 登录输入
type LoginInput struct {
	Username string `json:"username" form:"username" binding:"required"`
}

// LoginResult 登录结果
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login 登录 (用户名不存在时自动注册)
// @Summary 登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "用户名"
// @Success 200 {object} response.Response{data=LoginResult}
// @Failure 400 {object} response.Response
// @Router /auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, user, err := h.service.Login(input.Username)
	if err != nil {
		if errors.Is(err, model.ErrInvalidUsername) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrAuthFailed, err.Error())
		return
	}

	response.Success(c, LoginResult{Token: token, User: user})
}

// Me 当前登录用户
// @Summary 当前登录用户
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=model.User}
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(middleware.GetUsername(c))
	if err != nil {
		// token 有效但用户已不在内存中（例如服务重启）
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, err.Error())
		return
	}
	response.Success(c, user)
}

// GetUsers 获取用户列表
// @Summary 用户列表
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	p.GetPageOffset()

	users, total, err := h.service.GetUsers(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to fetch users")
		return
	}
	response.Success(c, utils.PageResult{
		List:  users,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}
