package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"svu_forum/internal/domain/forum/model"
	"svu_forum/internal/domain/forum/repository"
	savedRepo "svu_forum/internal/domain/saved/repository"
	"svu_forum/internal/pkg/uploader"
	"svu_forum/pkg/logger"
	"svu_forum/pkg/metrics"
	"svu_forum/pkg/utils"

	"go.uber.org/zap"
)

// ErrLoginRequired 发帖、评论需要登录
var ErrLoginRequired = errors.New("login required")

// CreatePostInput 发帖参数，File 为空表示无附件
type CreatePostInput struct {
	Title  string
	Text   string
	Author string
	File   *multipart.FileHeader
}

type ForumService interface {
	CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error)
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	ListPosts(ctx context.Context, p utils.Pagination) ([]*model.Post, int64, error)

	AddComment(ctx context.Context, postID uint64, author, text string) (*model.Comment, error)
	AddReply(ctx context.Context, postID, parentID uint64, author, text string) (*model.Comment, error)

	VotePost(ctx context.Context, postID uint64, action string) (int64, error)
	VoteComment(ctx context.Context, postID, commentID uint64, action string) (int64, error)

	ToggleStar(ctx context.Context, sessionID string, postID uint64) (bool, string, error) // 返回是否已收藏及提示语
	IsSaved(ctx context.Context, sessionID string, postID uint64) (bool, error)
	ListSaved(ctx context.Context, sessionID string) ([]*model.Post, error)

	AttachmentURL(storedName string) string
}

type forumService struct {
	posts    repository.PostRepository
	saved    savedRepo.SavedRepository
	uploader uploader.Uploader
	metrics  *metrics.MetricsCollector
}

func NewForumService(posts repository.PostRepository, saved savedRepo.SavedRepository, up uploader.Uploader, m *metrics.MetricsCollector) ForumService {
	return &forumService{posts: posts, saved: saved, uploader: up, metrics: m}
}

func (s *forumService) CreatePost(ctx context.Context, in CreatePostInput) (*model.Post, error) {
	if in.Author == "" {
		return nil, ErrLoginRequired
	}
	title := strings.TrimSpace(in.Title)
	text := strings.TrimSpace(in.Text)
	if title == "" && text == "" && in.File == nil {
		return nil, fmt.Errorf("%w: post needs a title, text or file", model.ErrInvalidArgument)
	}

	var attachment *model.Attachment
	if in.File != nil && in.File.Filename != "" {
		stored, err := s.uploader.UploadFile(in.File)
		if err != nil {
			logger.L().Error("attachment upload failed",
				zap.String("filename", in.File.Filename),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
		}
		// 类型按用户上传时的原始文件名判断
		attachment = &model.Attachment{
			StoredName: stored,
			Kind:       model.Classify(in.File.Filename),
		}
		s.metrics.AttachmentStored(string(attachment.Kind))
	}

	post := s.posts.CreatePost(repository.NewPost{
		Title:      title,
		Text:       text,
		Author:     in.Author,
		Attachment: attachment,
	})
	s.metrics.PostCreated()

	logger.L().Info("post created",
		zap.Uint64("post_id", post.ID),
		zap.String("author", in.Author),
		zap.Bool("attachment", attachment != nil),
	)
	return post, nil
}

func (s *forumService) GetPost(_ context.Context, id uint64) (*model.Post, error) {
	return s.posts.GetPost(id)
}

func (s *forumService) ListPosts(_ context.Context, p utils.Pagination) ([]*model.Post, int64, error) {
	offset, limit := p.GetPageOffset()
	posts, total := s.posts.ListPosts(offset, limit)
	return posts, total, nil
}

func (s *forumService) AddComment(_ context.Context, postID uint64, author, text string) (*model.Comment, error) {
	if author == "" {
		return nil, ErrLoginRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is empty", model.ErrInvalidArgument)
	}

	c, err := s.posts.AddComment(postID, author, text)
	if err != nil {
		return nil, err
	}
	s.metrics.CommentCreated("comment")
	return c, nil
}

func (s *forumService) AddReply(_ context.Context, postID, parentID uint64, author, text string) (*model.Comment, error) {
	if author == "" {
		return nil, ErrLoginRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: reply text is empty", model.ErrInvalidArgument)
	}

	c, err := s.posts.AddReply(postID, parentID, author, text)
	if err != nil {
		// 父评论不存在时明确返回错误，不再静默丢弃
		logger.L().Warn("reply rejected",
			zap.Uint64("post_id", postID),
			zap.Uint64("parent_id", parentID),
			zap.Error(err),
		)
		return nil, err
	}
	s.metrics.CommentCreated("reply")
	return c, nil
}

func (s *forumService) VotePost(_ context.Context, postID uint64, action string) (int64, error) {
	d, err := model.ParseDirection(action)
	if err != nil {
		return 0, err
	}
	score, err := s.posts.VotePost(postID, d)
	if err != nil {
		return 0, err
	}
	s.metrics.Voted("post", string(d))
	return score, nil
}

func (s *forumService) VoteComment(_ context.Context, postID, commentID uint64, action string) (int64, error) {
	d, err := model.ParseDirection(action)
	if err != nil {
		return 0, err
	}
	score, err := s.posts.VoteComment(postID, commentID, d)
	if err != nil {
		return 0, err
	}
	s.metrics.Voted("comment", string(d))
	return score, nil
}

func (s *forumService) ToggleStar(ctx context.Context, sessionID string, postID uint64) (bool, string, error) {
	if sessionID == "" {
		return false, "", fmt.Errorf("%w: missing session", model.ErrInvalidArgument)
	}
	if _, err := s.posts.GetPost(postID); err != nil {
		return false, "", err
	}

	saved, err := s.saved.Toggle(ctx, sessionID, postID)
	if err != nil {
		return false, "", err
	}
	s.metrics.Starred(saved)

	if saved {
		return true, "Post saved!", nil
	}
	return false, "Post unsaved!", nil
}

func (s *forumService) IsSaved(ctx context.Context, sessionID string, postID uint64) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return s.saved.Contains(ctx, sessionID, postID)
}

func (s *forumService) ListSaved(ctx context.Context, sessionID string) ([]*model.Post, error) {
	if sessionID == "" {
		return []*model.Post{}, nil
	}
	ids, err := s.saved.IDs(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	posts := s.posts.FilterByIDs(ids)
	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

func (s *forumService) AttachmentURL(storedName string) string {
	return s.uploader.URL(storedName)
}
