package handler

import (
	"errors"
	"net/http"

	"svu_forum/internal/domain/chat/model"
	"svu_forum/internal/domain/chat/service"
	"svu_forum/internal/pkg/middleware"
	"svu_forum/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	service service.ChatService
}

func NewChatHandler(s service.ChatService) *ChatHandler {
	return &ChatHandler{service: s}
}

// SendInput 发送消息输入
type SendInput struct {
	Username string `json:"username" form:"username"`
	Message  string `json:"message" form:"message"`
}

// Send 发送聊天消息
// @Summary 发送聊天消息 (已登录时使用登录名)
// @Tags Chat
// @Accept json
// @Produce json
// @Param input body SendInput true "消息"
// @Success 201 {object} response.Response{data=model.Message}
// @Failure 400 {object} response.Response
// @Router /chat [post]
func (h *ChatHandler) Send(c *gin.Context) {
	var input SendInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	username := middleware.GetUsername(c)
	if username == "" {
		username = input.Username
	}

	msg, err := h.service.Send(c.Request.Context(), username, input.Message)
	if err != nil {
		if errors.Is(err, model.ErrEmptyMessage) {
			response.Error(c, http.StatusBadRequest, response.ErrChatEmpty, err.Error())
			return
		}
		middleware.TraceLogger(c).Error("chat send failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "internal server error")
		return
	}
	response.Created(c, msg)
}

// History 聊天记录
// @Summary 聊天记录 (按发送顺序)
// @Tags Chat
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Message}
// @Router /chat [get]
func (h *ChatHandler) History(c *gin.Context) {
	messages, err := h.service.History(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}
	response.Success(c, messages)
}
