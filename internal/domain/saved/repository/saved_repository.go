package repository

import (
	"context"
	"sync"
)

// SavedRepository 每个会话一份的收藏集合
type SavedRepository interface {
	// Toggle 切换收藏状态，返回切换后是否处于收藏中
	Toggle(ctx context.Context, sessionID string, postID uint64) (bool, error)
	Contains(ctx context.Context, sessionID string, postID uint64) (bool, error)
	IDs(ctx context.Context, sessionID string) (map[uint64]struct{}, error)
}

// MemorySavedRepository 进程内实现
type MemorySavedRepository struct {
	mu   sync.Mutex
	sets map[string]map[uint64]struct{}
}

func NewMemorySavedRepository() *MemorySavedRepository {
	return &MemorySavedRepository{sets: make(map[string]map[uint64]struct{})}
}

func (r *MemorySavedRepository) Toggle(_ context.Context, sessionID string, postID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sets[sessionID]
	if !ok {
		set = make(map[uint64]struct{})
		r.sets[sessionID] = set
	}
	if _, saved := set[postID]; saved {
		delete(set, postID)
		return false, nil
	}
	set[postID] = struct{}{}
	return true, nil
}

func (r *MemorySavedRepository) Contains(_ context.Context, sessionID string, postID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sets[sessionID][postID]
	return ok, nil
}

func (r *MemorySavedRepository) IDs(_ context.Context, sessionID string) (map[uint64]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uint64]struct{}, len(r.sets[sessionID]))
	for id := range r.sets[sessionID] {
		out[id] = struct{}{}
	}
	return out, nil
}
