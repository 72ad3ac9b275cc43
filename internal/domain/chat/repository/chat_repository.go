package repository

import (
	"sync"
	"time"

	"svu_forum/internal/domain/chat/model"
)

type ChatRepository interface {
	Append(username, message string) model.Message
	// List 按写入顺序返回全部消息的副本
	List() []model.Message
}

// MemoryChatRepository 进程内聊天记录
type MemoryChatRepository struct {
	mu       sync.RWMutex
	messages []model.Message
	lastID   uint64
	now      func() time.Time
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{now: time.Now}
}

func (r *MemoryChatRepository) Append(username, message string) model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	msg := model.Message{
		ID:        r.lastID,
		Username:  username,
		Message:   message,
		CreatedAt: r.now(),
	}
	r.messages = append(r.messages, msg)
	return msg
}

func (r *MemoryChatRepository) List() []model.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Message, len(r.messages))
	copy(out, r.messages)
	return out
}
