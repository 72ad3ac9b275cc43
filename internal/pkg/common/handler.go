package handler

import (
	"errors"
	"net/http"
	"os"

	"svu_forum/internal/pkg/uploader"
	"svu_forum/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// maxParallelUploads 批量上传的并发上限
const maxParallelUploads = 5

// CommonHandler 通用接口：批量上传、读取本地附件
type CommonHandler struct {
	uploader uploader.Uploader
}

func NewCommonHandler(up uploader.Uploader) *CommonHandler {
	return &CommonHandler{uploader: up}
}

// UploadResult 单个文件的上传结果
type UploadResult struct {
	Filename   string `json:"filename"`
	StoredName string `json:"storedName"`
	URL        string `json:"url"`
}

// UploadFiles 上传文件 (支持批量)
// @Summary 上传文件 (支持批量)
// @Tags Common
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Files"
// @Success 200 {object} response.Response{data=[]UploadResult}
// @Router /upload [post]
func (h *CommonHandler) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No files uploaded")
		return
	}

	// 按索引写入结果，保证与上传顺序一致
	results := make([]UploadResult, len(files))

	var g errgroup.Group
	g.SetLimit(maxParallelUploads)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			stored, err := h.uploader.UploadFile(file)
			if err != nil {
				return err
			}
			results[i] = UploadResult{
				Filename:   file.Filename,
				StoredName: stored,
				URL:        h.uploader.URL(stored),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		response.Error(c, http.StatusBadGateway, response.ErrStorageFailure, "Upload failed: "+err.Error())
		return
	}

	response.Success(c, results)
}

// ServeUpload 读取本地存储的附件
// @Summary 下载附件 (local 存储)
// @Tags Common
// @Param name path string true "存储名"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /uploads/{name} [get]
func (h *CommonHandler) ServeUpload(c *gin.Context) {
	local, ok := h.uploader.(*uploader.LocalUploader)
	if !ok {
		response.Error(c, http.StatusNotFound, response.ErrFileNotFound, "file not found")
		return
	}

	path, err := local.Path(c.Param("name"))
	if err != nil {
		response.Error(c, http.StatusNotFound, response.ErrFileNotFound, "file not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			response.Error(c, http.StatusNotFound, response.ErrFileNotFound, "file not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	c.File(path)
}
