package repository

import (
	"sync"
	"testing"

	"svu_forum/internal/domain/forum/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPosts(s *MemoryPostStore, n int) []*model.Post {
	posts := make([]*model.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, s.CreatePost(NewPost{Title: "post", Text: "body"}))
	}
	return posts
}

func TestCreatePostIDs(t *testing.T) {
	s := NewMemoryPostStore()
	posts := seedPosts(s, 10)

	for i, p := range posts {
		assert.Equal(t, uint64(i+1), p.ID)
		assert.Empty(t, p.Comments)
		assert.Equal(t, model.Votes{}, p.Votes)
	}
}

func TestCreatePostConcurrentIDsMatchOrder(t *testing.T) {
	s := NewMemoryPostStore()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.CreatePost(NewPost{Text: "x"})
		}()
	}
	wg.Wait()

	all, total := s.ListPosts(0, 0)
	require.Equal(t, int64(n), total)
	for i, p := range all {
		assert.Equal(t, uint64(i+1), p.ID)
	}
}

func TestGetPost(t *testing.T) {
	s := NewMemoryPostStore()
	created := s.CreatePost(NewPost{
		Title:      "hello",
		Text:       "world",
		Author:     "alice",
		Attachment: &model.Attachment{StoredName: "abc_photo.png", Kind: model.KindImage},
	})

	t.Run("Found", func(t *testing.T) {
		p, err := s.GetPost(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", p.Title)
		assert.Equal(t, "alice", p.Author)
		assert.Equal(t, model.KindImage, p.Attachment.Kind)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := s.GetPost(99)
		assert.ErrorIs(t, err, model.ErrPostNotFound)
	})

	t.Run("Returned post is a copy", func(t *testing.T) {
		p, _ := s.GetPost(created.ID)
		p.Title = "mutated"
		p.Attachment.StoredName = "mutated"

		again, _ := s.GetPost(created.ID)
		assert.Equal(t, "hello", again.Title)
		assert.Equal(t, "abc_photo.png", again.Attachment.StoredName)
	})
}

func TestListPostsPaging(t *testing.T) {
	s := NewMemoryPostStore()
	seedPosts(s, 5)

	page, total := s.ListPosts(2, 2)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(3), page[0].ID)
	assert.Equal(t, uint64(4), page[1].ID)

	page, _ = s.ListPosts(4, 10)
	require.Len(t, page, 1)
	assert.Equal(t, uint64(5), page[0].ID)

	page, _ = s.ListPosts(10, 10)
	assert.Empty(t, page)
}

func TestFilterByIDsKeepsStoreOrder(t *testing.T) {
	s := NewMemoryPostStore()
	seedPosts(s, 5)

	got := s.FilterByIDs(map[uint64]struct{}{5: {}, 2: {}, 42: {}})

	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[0].ID)
	assert.Equal(t, uint64(5), got[1].ID)

	assert.Empty(t, s.FilterByIDs(nil))
}

func TestVotePost(t *testing.T) {
	s := NewMemoryPostStore()
	p := s.CreatePost(NewPost{Text: "vote"})

	for i := 0; i < 3; i++ {
		_, err := s.VotePost(p.ID, model.DirectionUp)
		require.NoError(t, err)
	}
	score, err := s.VotePost(p.ID, model.DirectionDown)
	require.NoError(t, err)
	assert.Equal(t, int64(2), score)

	got, _ := s.GetPost(p.ID)
	assert.Equal(t, uint64(3), got.Votes.Upvotes)
	assert.Equal(t, uint64(1), got.Votes.Downvotes)

	_, err = s.VotePost(77, model.DirectionUp)
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestVotePostConcurrent(t *testing.T) {
	s := NewMemoryPostStore()
	p := s.CreatePost(NewPost{Text: "hot"})
	const n = 500

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.VotePost(p.ID, model.DirectionUp)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, _ := s.GetPost(p.ID)
	assert.Equal(t, uint64(n), got.Votes.Upvotes)
	assert.Equal(t, int64(n), got.Votes.Score())
}

func TestCommentIDsAreGlobal(t *testing.T) {
	s := NewMemoryPostStore()
	p1 := s.CreatePost(NewPost{Text: "one"})
	p2 := s.CreatePost(NewPost{Text: "two"})

	c1, err := s.AddComment(p1.ID, "", "a")
	require.NoError(t, err)
	c2, err := s.AddComment(p2.ID, "", "b")
	require.NoError(t, err)
	r1, err := s.AddReply(p1.ID, c1.ID, "", "c")
	require.NoError(t, err)
	c3, err := s.AddComment(p2.ID, "", "d")
	require.NoError(t, err)

	assert.Equal(t, []uint64{1, 2, 3, 4}, []uint64{c1.ID, c2.ID, r1.ID, c3.ID})

	t.Run("Comment of another post is not visible", func(t *testing.T) {
		_, err := s.FindComment(p2.ID, c1.ID)
		assert.ErrorIs(t, err, model.ErrCommentNotFound)

		_, err = s.AddReply(p2.ID, c1.ID, "", "cross")
		assert.ErrorIs(t, err, model.ErrCommentNotFound)
	})
}

func TestCommentIDsConcurrentAcrossPosts(t *testing.T) {
	s := NewMemoryPostStore()
	posts := seedPosts(s, 4)
	const perPost = 100

	var mu sync.Mutex
	seen := make(map[uint64]bool)
	var wg sync.WaitGroup
	for _, p := range posts {
		for i := 0; i < perPost; i++ {
			wg.Add(1)
			go func(postID uint64) {
				defer wg.Done()
				c, err := s.AddComment(postID, "", "x")
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
				seen[c.ID] = true
			}(p.ID)
		}
	}
	wg.Wait()

	assert.Len(t, seen, len(posts)*perPost)
	for _, p := range posts {
		got, _ := s.GetPost(p.ID)
		assert.Len(t, got.Comments, perPost)
	}
}

func TestConcurrentRepliesToSameComment(t *testing.T) {
	s := NewMemoryPostStore()
	p := s.CreatePost(NewPost{Text: "thread"})
	c, _ := s.AddComment(p.ID, "", "root")
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AddReply(p.ID, c.ID, "", "reply")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	node, err := s.FindComment(p.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, node.Replies, n)
	for i := 1; i < n; i++ {
		assert.Less(t, node.Replies[i-1].ID, node.Replies[i].ID)
	}
}

func TestVoteComment(t *testing.T) {
	s := NewMemoryPostStore()
	p := s.CreatePost(NewPost{Text: "post"})
	c, _ := s.AddComment(p.ID, "", "comment")
	r, _ := s.AddReply(p.ID, c.ID, "", "reply")

	score, err := s.VoteComment(p.ID, r.ID, model.DirectionDown)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), score)

	_, err = s.VoteComment(p.ID, 1000, model.DirectionUp)
	assert.ErrorIs(t, err, model.ErrCommentNotFound)

	_, err = s.VoteComment(1000, c.ID, model.DirectionUp)
	assert.ErrorIs(t, err, model.ErrPostNotFound)

	got, _ := s.GetPost(p.ID)
	assert.Equal(t, int64(-1), got.Comments[0].Replies[0].Votes.Score())
	assert.Equal(t, int64(0), got.Comments[0].Votes.Score())
}

func TestAddReplyUnknownParentLeavesPostUnchanged(t *testing.T) {
	s := NewMemoryPostStore()
	p := s.CreatePost(NewPost{Text: "post"})
	c, _ := s.AddComment(p.ID, "", "comment")
	_, _ = s.AddReply(p.ID, c.ID, "", "reply")

	before, _ := s.GetPost(p.ID)
	_, err := s.AddReply(p.ID, 12345, "", "lost")
	after, _ := s.GetPost(p.ID)

	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, before, after)

	next, _ := s.AddComment(p.ID, "", "next")
	assert.Equal(t, uint64(3), next.ID)
}
