package handler

import (
	"errors"
	"net/http"
	"strconv"

	"svu_forum/internal/domain/forum/model"
	"svu_forum/internal/domain/forum/service"
	"svu_forum/internal/pkg/middleware"
	"svu_forum/pkg/response"
	"svu_forum/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ForumHandler struct {
	service       service.ForumService
	maxUploadSize int64
}

func NewForumHandler(s service.ForumService, maxUploadSize int64) *ForumHandler {
	return &ForumHandler{service: s, maxUploadSize: maxUploadSize}
}

// CommentInput 评论/回复输入
type CommentInput struct {
	Text string `json:"text" form:"text" binding:"required"`
}

// VoteInput 投票输入
type VoteInput struct {
	Action string `json:"action" form:"action" binding:"required"`
}

// PostView 帖子输出，附带附件地址和当前会话的收藏状态
type PostView struct {
	*model.Post
	AttachmentURL string `json:"attachmentUrl,omitempty"`
	Saved         bool   `json:"saved"`
}

// VoteResult 投票结果
type VoteResult struct {
	Score int64 `json:"score"`
}

// StarResult 收藏结果
type StarResult struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message"`
}

// CreatePost 发帖
// @Summary 发帖 (标题、正文、附件至少一项)
// @Tags Forum
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string false "标题"
// @Param text formData string false "正文"
// @Param file formData file false "附件"
// @Success 201 {object} response.Response{data=PostView}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /forum/posts [post]
func (h *ForumHandler) CreatePost(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	file, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		file, err = nil, nil
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, response.ErrInvalidParam, "file too large")
			return
		}
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), service.CreatePostInput{
		Title:  c.PostForm("title"),
		Text:   c.PostForm("text"),
		Author: middleware.GetUsername(c),
		File:   file,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, h.view(post, false))
}

// ListPosts 帖子列表
// @Summary 帖子列表 (按创建顺序)
// @Tags Forum
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /forum/posts [get]
func (h *ForumHandler) ListPosts(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	p.GetPageOffset()

	posts, total, err := h.service.ListPosts(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}

	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, h.view(post, false))
	}
	response.Success(c, utils.PageResult{
		List:  views,
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	})
}

// GetPost 帖子详情，含完整评论树
// @Summary 帖子详情
// @Tags Forum
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=PostView}
// @Failure 404 {object} response.Response
// @Router /forum/posts/{id} [get]
func (h *ForumHandler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	saved, err := h.service.IsSaved(c.Request.Context(), middleware.GetSessionID(c), id)
	if err != nil {
		// 收藏状态只是展示信息，读取失败不影响帖子本身
		middleware.TraceLogger(c).Warn("read saved state failed", zap.Uint64("post_id", id), zap.Error(err))
	}
	response.Success(c, h.view(post, saved))
}

// AddComment 评论帖子
// @Summary 发表评论
// @Tags Forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Param input body CommentInput true "评论内容"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 404 {object} response.Response
// @Router /forum/posts/{id}/comments [post]
func (h *ForumHandler) AddComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), postID, middleware.GetUsername(c), input.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, comment)
}

// AddReply 回复评论，可以无限嵌套
// @Summary 回复评论
// @Tags Forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Param commentId path int true "父评论ID"
// @Param input body CommentInput true "回复内容"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 404 {object} response.Response
// @Router /forum/posts/{id}/comments/{commentId}/replies [post]
func (h *ForumHandler) AddReply(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	parentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	reply, err := h.service.AddReply(c.Request.Context(), postID, parentID, middleware.GetUsername(c), input.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, reply)
}

// VotePost 帖子投票
// @Summary 赞/踩帖子
// @Tags Forum
// @Accept json
// @Produce json
// @Param id path int true "帖子ID"
// @Param input body VoteInput true "up 或 down"
// @Success 200 {object} response.Response{data=VoteResult}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /forum/posts/{id}/vote [post]
func (h *ForumHandler) VotePost(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input VoteInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidDirection, err.Error())
		return
	}

	score, err := h.service.VotePost(c.Request.Context(), postID, input.Action)
	if err != nil {
		h.failVote(c, err)
		return
	}
	response.Success(c, VoteResult{Score: score})
}

// VoteComment 评论投票
// @Summary 赞/踩评论或回复
// @Tags Forum
// @Accept json
// @Produce json
// @Param id path int true "帖子ID"
// @Param commentId path int true "评论ID"
// @Param input body VoteInput true "up 或 down"
// @Success 200 {object} response.Response{data=VoteResult}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /forum/posts/{id}/comments/{commentId}/vote [post]
func (h *ForumHandler) VoteComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var input VoteInput
	if err := c.ShouldBind(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidDirection, err.Error())
		return
	}

	score, err := h.service.VoteComment(c.Request.Context(), postID, commentID, input.Action)
	if err != nil {
		h.failVote(c, err)
		return
	}
	response.Success(c, VoteResult{Score: score})
}

// ToggleStar 收藏/取消收藏
// @Summary 收藏/取消收藏帖子 (按会话)
// @Tags Forum
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=StarResult}
// @Failure 404 {object} response.Response
// @Router /forum/posts/{id}/star [post]
func (h *ForumHandler) ToggleStar(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	saved, msg, err := h.service.ToggleStar(c.Request.Context(), middleware.GetSessionID(c), postID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.SuccessWithMessage(c, msg, StarResult{Saved: saved, Message: msg})
}

// ListSaved 当前会话收藏的帖子
// @Summary 收藏列表
// @Tags Forum
// @Produce json
// @Success 200 {object} response.Response{data=[]PostView}
// @Router /forum/saved [get]
func (h *ForumHandler) ListSaved(c *gin.Context) {
	posts, err := h.service.ListSaved(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	views := make([]PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, h.view(post, true))
	}
	response.Success(c, views)
}

func (h *ForumHandler) view(post *model.Post, saved bool) PostView {
	v := PostView{Post: post, Saved: saved}
	if post.Attachment != nil {
		v.AttachmentURL = h.service.AttachmentURL(post.Attachment.StoredName)
	}
	return v
}

// fail 领域错误到 HTTP 状态码的映射
func (h *ForumHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLoginRequired):
		response.Error(c, http.StatusUnauthorized, response.ErrLoginRequired, err.Error())
	case errors.Is(err, model.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.ErrPostNotFound, err.Error())
	case errors.Is(err, model.ErrCommentNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCommentNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidArgument):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, model.ErrStorageFailure):
		response.Error(c, http.StatusBadGateway, response.ErrStorageFailure, "attachment storage failed")
	default:
		middleware.TraceLogger(c).Error("forum request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "internal server error")
	}
}

func (h *ForumHandler) failVote(c *gin.Context, err error) {
	if errors.Is(err, model.ErrInvalidArgument) {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidDirection, err.Error())
		return
	}
	h.fail(c, err)
}

// pathID 解析路径中的数字 ID，失败时直接写 400
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "invalid "+name)
		return 0, false
	}
	return id, true
}
