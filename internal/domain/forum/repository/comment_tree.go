package repository

import (
	"fmt"
	"time"

	"svu_forum/internal/domain/forum/model"
)

// CommentTree 一个帖子下的评论树
//
// 节点由父节点持有（顶层评论由树持有），index 只是按 ID 的快速定位，
// 不改变遍历顺序。CommentTree 自身不加锁，由所属帖子的锁保护。
type CommentTree struct {
	roots []*model.Comment
	index map[uint64]*model.Comment
	seq   *Sequence
	now   func() time.Time
}

// NewCommentTree seq 为全局共享的评论 ID 序列
func NewCommentTree(seq *Sequence, now func() time.Time) *CommentTree {
	if now == nil {
		now = time.Now
	}
	return &CommentTree{
		index: make(map[uint64]*model.Comment),
		seq:   seq,
		now:   now,
	}
}

func (t *CommentTree) newNode(author, text string) *model.Comment {
	c := &model.Comment{
		ID:        t.seq.Next(),
		Text:      text,
		Author:    author,
		Replies:   []*model.Comment{},
		CreatedAt: t.now(),
	}
	t.index[c.ID] = c
	return c
}

// AddComment 追加一条顶层评论
func (t *CommentTree) AddComment(author, text string) *model.Comment {
	c := t.newNode(author, text)
	t.roots = append(t.roots, c)
	return c
}

// AddReply 在 parentID 对应节点下追加回复
// 父节点不存在时返回 ErrCommentNotFound，且不分配 ID、不修改树
func (t *CommentTree) AddReply(parentID uint64, author, text string) (*model.Comment, error) {
	parent, ok := t.Find(parentID)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", model.ErrCommentNotFound, parentID)
	}
	c := t.newNode(author, text)
	parent.Replies = append(parent.Replies, c)
	return c, nil
}

// Find 按 ID 查找节点。ID 全局唯一，结果与先序深度优先查找一致
func (t *CommentTree) Find(id uint64) (*model.Comment, bool) {
	c, ok := t.index[id]
	return c, ok
}

// Vote 给评论投票并返回新得分
func (t *CommentTree) Vote(id uint64, d model.Direction) (int64, error) {
	c, ok := t.Find(id)
	if !ok {
		return 0, fmt.Errorf("%w: id %d", model.ErrCommentNotFound, id)
	}
	if err := c.Votes.Apply(d); err != nil {
		return 0, err
	}
	return c.Votes.Score(), nil
}

// Walk 先序遍历：顶层按插入顺序，每个节点之后紧跟其回复子树
// fn 返回 false 时停止遍历
func (t *CommentTree) Walk(fn func(c *model.Comment, depth int) bool) {
	walk(t.roots, 0, fn)
}

func walk(nodes []*model.Comment, depth int, fn func(*model.Comment, int) bool) bool {
	for _, c := range nodes {
		if !fn(c, depth) {
			return false
		}
		if !walk(c.Replies, depth+1, fn) {
			return false
		}
	}
	return true
}

// Len 树中节点总数
func (t *CommentTree) Len() int {
	return len(t.index)
}

// Snapshot 深拷贝顶层评论列表
func (t *CommentTree) Snapshot() []*model.Comment {
	out := make([]*model.Comment, len(t.roots))
	for i, c := range t.roots {
		out[i] = c.Clone()
	}
	return out
}
