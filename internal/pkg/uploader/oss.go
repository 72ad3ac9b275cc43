package uploader

import (
	"fmt"
	"mime/multipart"
	"path"
	"time"

	"svu_forum/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// AliyunOSSUploader 附件存到阿里云 OSS
type AliyunOSSUploader struct {
	client *oss.Client
	bucket *oss.Bucket
	config config.OSSConfig
}

func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		client: client,
		bucket: bucket,
		config: cfg,
	}, nil
}

// UploadFile 对象名: YYYYMMDD/<uuid>_<原文件名>，返回对象名
func (u *AliyunOSSUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	objectKey := path.Join(time.Now().Format("20060102"), StoredName(file.Filename))
	if err := u.bucket.PutObject(objectKey, src); err != nil {
		return "", err
	}
	return objectKey, nil
}

// URL 公共读 bucket 下的访问地址
func (u *AliyunOSSUploader) URL(storedName string) string {
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, storedName)
}
