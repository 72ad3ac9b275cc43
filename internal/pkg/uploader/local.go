package uploader

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

var ErrInvalidName = errors.New("invalid stored name")

// LocalUploader 附件存到本地目录
type LocalUploader struct {
	dir       string
	urlPrefix string
}

func NewLocalUploader(dir, urlPrefix string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalUploader{dir: dir, urlPrefix: urlPrefix}, nil
}

func (u *LocalUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := StoredName(file.Filename)
	dst, err := os.OpenFile(filepath.Join(u.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func (u *LocalUploader) URL(storedName string) string {
	return u.urlPrefix + "/" + storedName
}

// Path 存储名对应的本地路径，拒绝带目录的名字
func (u *LocalUploader) Path(storedName string) (string, error) {
	if storedName == "" || storedName != filepath.Base(storedName) || storedName == "." || storedName == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(u.dir, storedName), nil
}
