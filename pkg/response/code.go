package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 用户模块错误 100xx
	ErrAuthFailed    = 10003
	ErrTokenInvalid  = 10004
	ErrLoginRequired = 10006

	// 论坛模块错误 300xx
	ErrPostNotFound     = 30001
	ErrCommentNotFound  = 30002
	ErrInvalidDirection = 30003
	ErrStorageFailure   = 30004
	ErrFileNotFound     = 30005

	// 聊天模块错误 400xx
	ErrChatEmpty = 40001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
