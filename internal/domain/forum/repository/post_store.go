package repository

import (
	"fmt"
	"sync"
	"time"

	"svu_forum/internal/domain/forum/model"
)

// PostRepository 帖子存储接口
type PostRepository interface {
	CreatePost(in NewPost) *model.Post
	GetPost(id uint64) (*model.Post, error)
	ListPosts(offset, limit int) ([]*model.Post, int64)
	FilterByIDs(ids map[uint64]struct{}) []*model.Post
	VotePost(id uint64, d model.Direction) (int64, error)

	AddComment(postID uint64, author, text string) (*model.Comment, error)
	AddReply(postID, parentID uint64, author, text string) (*model.Comment, error)
	FindComment(postID, commentID uint64) (*model.Comment, error)
	VoteComment(postID, commentID uint64, d model.Direction) (int64, error)
}

// NewPost 创建帖子所需字段
type NewPost struct {
	Title      string
	Text       string
	Author     string
	Attachment *model.Attachment
}

// postEntry 单个帖子及其评论树，mu 串行化对该帖子的所有写操作
type postEntry struct {
	mu   sync.Mutex
	post model.Post
	tree *CommentTree
}

func (e *postEntry) snapshot() *model.Post {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.post.Clone()
	p.Comments = e.tree.Snapshot()
	return p
}

// MemoryPostStore 进程内帖子存储，重启即丢失
//
// mu 保护有序列表和索引；每个帖子自带锁，不同帖子的写操作互不阻塞。
// 对外只返回深拷贝。
type MemoryPostStore struct {
	mu    sync.RWMutex
	posts []*postEntry
	byID  map[uint64]*postEntry
	now   func() time.Time

	postSeq Sequence
	// 评论与回复共用，跨所有帖子全局唯一
	commentSeq Sequence
}

// NewMemoryPostStore 创建内存帖子存储
func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{
		byID: make(map[uint64]*postEntry),
		now:  time.Now,
	}
}

// CreatePost 分配 ID 并追加到列表末尾
// ID 在写锁内分配，保证 ID 顺序与列表顺序一致
func (s *MemoryPostStore) CreatePost(in NewPost) *model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &postEntry{
		post: model.Post{
			ID:         s.postSeq.Next(),
			Title:      in.Title,
			Text:       in.Text,
			Author:     in.Author,
			Attachment: in.Attachment,
			CreatedAt:  s.now(),
		},
		tree: NewCommentTree(&s.commentSeq, s.now),
	}
	s.posts = append(s.posts, e)
	s.byID[e.post.ID] = e

	p := e.post.Clone()
	p.Comments = []*model.Comment{}
	return p
}

func (s *MemoryPostStore) entry(id uint64) (*postEntry, error) {
	s.mu.RLock()
	e, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: id %d", model.ErrPostNotFound, id)
	}
	return e, nil
}

// GetPost 返回帖子快照
func (s *MemoryPostStore) GetPost(id uint64) (*model.Post, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.snapshot(), nil
}

// ListPosts 按创建顺序（旧的在前）分页，limit <= 0 表示不分页
func (s *MemoryPostStore) ListPosts(offset, limit int) ([]*model.Post, int64) {
	s.mu.RLock()
	total := len(s.posts)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	page := make([]*postEntry, end-offset)
	copy(page, s.posts[offset:end])
	s.mu.RUnlock()

	out := make([]*model.Post, len(page))
	for i, e := range page {
		out[i] = e.snapshot()
	}
	return out, int64(total)
}

// FilterByIDs 返回 ID 在集合中的帖子，顺序以存储顺序为准
func (s *MemoryPostStore) FilterByIDs(ids map[uint64]struct{}) []*model.Post {
	s.mu.RLock()
	var matched []*postEntry
	for _, e := range s.posts {
		if _, ok := ids[e.post.ID]; ok {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	out := make([]*model.Post, len(matched))
	for i, e := range matched {
		out[i] = e.snapshot()
	}
	return out
}

// VotePost 给帖子投票，返回新得分
func (s *MemoryPostStore) VotePost(id uint64, d model.Direction) (int64, error) {
	e, err := s.entry(id)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.post.Votes.Apply(d); err != nil {
		return 0, err
	}
	return e.post.Votes.Score(), nil
}

// AddComment 追加顶层评论
func (s *MemoryPostStore) AddComment(postID uint64, author, text string) (*model.Comment, error) {
	e, err := s.entry(postID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.AddComment(author, text).Clone(), nil
}

// AddReply 回复任意深度的评论
func (s *MemoryPostStore) AddReply(postID, parentID uint64, author, text string) (*model.Comment, error) {
	e, err := s.entry(postID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, err := e.tree.AddReply(parentID, author, text)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// FindComment 在帖子的评论树中查找节点
func (s *MemoryPostStore) FindComment(postID, commentID uint64) (*model.Comment, error) {
	e, err := s.entry(postID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.tree.Find(commentID)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", model.ErrCommentNotFound, commentID)
	}
	return c.Clone(), nil
}

// VoteComment 给评论或回复投票，返回新得分
func (s *MemoryPostStore) VoteComment(postID, commentID uint64, d model.Direction) (int64, error) {
	e, err := s.entry(postID)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.Vote(commentID, d)
}
