package service

import (
	"context"
	"strings"

	"svu_forum/internal/domain/chat/model"
	"svu_forum/internal/domain/chat/repository"
	"svu_forum/pkg/logger"
	"svu_forum/pkg/metrics"

	"go.uber.org/zap"
)

type ChatService interface {
	Send(ctx context.Context, username, message string) (*model.Message, error)
	History(ctx context.Context) ([]model.Message, error)
}

type chatService struct {
	repo    repository.ChatRepository
	metrics *metrics.MetricsCollector
}

func NewChatService(repo repository.ChatRepository, m *metrics.MetricsCollector) ChatService {
	return &chatService{repo: repo, metrics: m}
}

// Send 追加一条消息，用户名为空时记为 Anonymous
func (s *chatService) Send(_ context.Context, username, message string) (*model.Message, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, model.ErrEmptyMessage
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = model.AnonymousUsername
	}

	msg := s.repo.Append(username, message)
	s.metrics.ChatMessage()
	logger.L().Debug("chat message", zap.Uint64("id", msg.ID), zap.String("username", username))
	return &msg, nil
}

func (s *chatService) History(_ context.Context) ([]model.Message, error) {
	return s.repo.List(), nil
}
