package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 帖子或评论不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument 参数不合法（投票方向、空内容等）
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrStorageFailure 附件存储失败，原样透传存储层错误
	ErrStorageFailure = errors.New("storage failure")

	ErrPostNotFound    = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrNotFound)
)
