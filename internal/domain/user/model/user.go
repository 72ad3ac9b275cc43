package model

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrInvalidUsername = errors.New("invalid username")
)

// MaxUsernameLength 用户名最大字符数
const MaxUsernameLength = 32

// User 用户模型，论坛只按用户名识别身份
type User struct {
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}
