package model

import (
	"errors"
	"time"
)

// AnonymousUsername 未填写用户名时的显示名
const AnonymousUsername = "Anonymous"

// ErrEmptyMessage 消息内容为空
var ErrEmptyMessage = errors.New("message is empty")

// Message 聊天消息，只追加不修改
type Message struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
