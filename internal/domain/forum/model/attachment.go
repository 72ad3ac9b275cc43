package model

import (
	"path/filepath"
	"strings"
)

// AttachmentKind 附件的粗粒度媒体类型
type AttachmentKind string

const (
	KindImage AttachmentKind = "image"
	KindVideo AttachmentKind = "video"
	KindAudio AttachmentKind = "audio"
	KindPDF   AttachmentKind = "pdf"
	KindZip   AttachmentKind = "zip"
	KindOther AttachmentKind = "other"
)

// Attachment 帖子附件，文件内容由 uploader 持有
type Attachment struct {
	StoredName string         `json:"storedName"`
	Kind       AttachmentKind `json:"kind"`
}

// 按顺序匹配，先命中者生效。.ogg 同时出现在 video 和 audio 中，
// 因此永远归为 video，这是有意保留的现有行为。
var kindRules = []struct {
	kind AttachmentKind
	exts []string
}{
	{KindImage, []string{".png", ".jpg", ".jpeg", ".gif"}},
	{KindVideo, []string{".mp4", ".webm", ".ogg"}},
	{KindAudio, []string{".mp3", ".wav", ".ogg"}},
	{KindPDF, []string{".pdf"}},
	{KindZip, []string{".zip"}},
}

// Classify 根据文件扩展名（忽略大小写）判断附件类型
func Classify(filename string) AttachmentKind {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, rule := range kindRules {
		for _, e := range rule.exts {
			if ext == e {
				return rule.kind
			}
		}
	}
	return KindOther
}
