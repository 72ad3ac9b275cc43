package service

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"svu_forum/internal/domain/user/model"
	"svu_forum/internal/domain/user/repository"
	"svu_forum/pkg/utils"
)

// UserService 用户服务接口
type UserService interface {
	Login(username string) (string, *model.User, error)
	GetUser(username string) (*model.User, error)
	GetUsers(page, limit int) ([]model.User, int64, error)
}

// userService 实现
type userService struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo, now: time.Now}
}

// Login 登录，用户名不存在时自动注册
func (s *userService) Login(username string) (string, *model.User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return "", nil, err
	}

	now := s.now()
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			return "", nil, err
		}
		user = &model.User{Username: username, CreatedAt: now}
		// 并发注册同名用户时，后到的按已存在处理
		if err := s.repo.Create(user); err != nil {
			if !errors.Is(err, model.ErrUserExists) {
				return "", nil, err
			}
			if user, err = s.repo.GetByUsername(username); err != nil {
				return "", nil, err
			}
		}
	}

	user.LastLoginAt = now
	if err := s.repo.Update(user); err != nil {
		return "", nil, err
	}

	token, _, err := utils.GenerateToken(user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GetUser 获取单个用户
func (s *userService) GetUser(username string) (*model.User, error) {
	return s.repo.GetByUsername(username)
}

// GetUsers 获取用户列表（分页）
func (s *userService) GetUsers(page, limit int) ([]model.User, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetList(offset, limit)
}

// validateUsername 非空、不超长、不含空白和控制字符
func validateUsername(username string) error {
	if username == "" || utf8.RuneCountInString(username) > model.MaxUsernameLength {
		return model.ErrInvalidUsername
	}
	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return model.ErrInvalidUsername
		}
	}
	return nil
}
