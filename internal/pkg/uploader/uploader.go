package uploader

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strings"

	"svu_forum/internal/pkg/config"

	"github.com/google/uuid"
)

// Uploader 附件存储，返回存储名（后续读取凭据）
type Uploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
	// URL 根据存储名得到可访问地址
	URL(storedName string) string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename 去掉路径，只保留安全字符
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

// StoredName <uuid hex>_<清洗后的原文件名>
func StoredName(original string) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "") + "_" + SanitizeFilename(original)
}

// New 按配置选择存储后端
func New(cfg *config.Config) (Uploader, error) {
	switch cfg.Upload.Backend {
	case config.BackendOSS:
		return NewAliyunOSSUploader(cfg.OSS)
	case config.BackendLocal:
		return NewLocalUploader(cfg.Upload.Dir, "/uploads")
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}
}
