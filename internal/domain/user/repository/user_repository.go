package repository

import (
	"sort"
	"sync"

	"svu_forum/internal/domain/user/model"
)

// UserRepository 接口定义
type UserRepository interface {
	Create(user *model.User) error
	GetByUsername(username string) (*model.User, error)
	GetList(offset, limit int) ([]model.User, int64, error)
	Update(user *model.User) error
}

// userRepository 内存实现
type userRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewUserRepository 创建新的仓库实例
func NewUserRepository() UserRepository {
	return &userRepository{users: make(map[string]model.User)}
}

// Create 创建用户
func (r *userRepository) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return model.ErrUserExists
	}
	r.users[user.Username] = *user
	return nil
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(username string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

// GetList 获取用户列表（分页，按注册时间）
func (r *userRepository) GetList(offset, limit int) ([]model.User, int64, error) {
	r.mu.RLock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	r.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].Username < users[j].Username
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	total := int64(len(users))
	if offset >= len(users) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(users) {
		end = len(users)
	}
	return users[offset:end], total, nil
}

// Update 更新用户
func (r *userRepository) Update(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; !ok {
		return model.ErrUserNotFound
	}
	r.users[user.Username] = *user
	return nil
}
