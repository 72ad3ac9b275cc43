package model

import "time"

// Post 帖子
type Post struct {
	ID         uint64      `json:"id"`
	Title      string      `json:"title,omitempty"`
	Text       string      `json:"text,omitempty"`
	Author     string      `json:"author,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Comments   []*Comment  `json:"comments"`
	Votes      Votes       `json:"votes"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Comment 评论/回复节点，回复只是父节点为评论的评论
type Comment struct {
	ID        uint64     `json:"id"`
	Text      string     `json:"text"`
	Author    string     `json:"author,omitempty"`
	Votes     Votes      `json:"votes"`
	Replies   []*Comment `json:"replies"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Clone 深拷贝，返回给调用方的数据不与存储共享指针
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Attachment != nil {
		a := *p.Attachment
		cp.Attachment = &a
	}
	cp.Comments = cloneComments(p.Comments)
	return &cp
}

// Clone 深拷贝整棵子树
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Replies = cloneComments(c.Replies)
	return &cp
}

func cloneComments(src []*Comment) []*Comment {
	out := make([]*Comment, len(src))
	for i, c := range src {
		out[i] = c.Clone()
	}
	return out
}
