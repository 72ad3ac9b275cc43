package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T) (*RedisSavedRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSavedRepository(client, "test:", time.Hour), mr
}

func backends(t *testing.T) map[string]SavedRepository {
	redisRepo, _ := newRedisRepo(t)
	return map[string]SavedRepository{
		"memory": NewMemorySavedRepository(),
		"redis":  redisRepo,
	}
}

func TestSavedToggle(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			saved, err := repo.Toggle(ctx, "s1", 7)
			require.NoError(t, err)
			assert.True(t, saved)

			ok, err := repo.Contains(ctx, "s1", 7)
			require.NoError(t, err)
			assert.True(t, ok)

			saved, err = repo.Toggle(ctx, "s1", 7)
			require.NoError(t, err)
			assert.False(t, saved)

			ok, err = repo.Contains(ctx, "s1", 7)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSavedSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Toggle(ctx, "alice", 1)
			require.NoError(t, err)
			_, err = repo.Toggle(ctx, "alice", 3)
			require.NoError(t, err)
			_, err = repo.Toggle(ctx, "bob", 2)
			require.NoError(t, err)

			ids, err := repo.IDs(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, map[uint64]struct{}{1: {}, 3: {}}, ids)

			ids, err = repo.IDs(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, map[uint64]struct{}{2: {}}, ids)

			ids, err = repo.IDs(ctx, "nobody")
			require.NoError(t, err)
			assert.Empty(t, ids)
		})
	}
}

func TestSavedConcurrentToggleIsAtomic(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			// 偶数次切换后必须回到未收藏
			const n = 50
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := repo.Toggle(ctx, "double-click", 9)
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			ok, err := repo.Contains(ctx, "double-click", 9)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRedisSavedKeyAndTTL(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	_, err := repo.Toggle(ctx, "abc", 5)
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:saved:abc"))
	assert.Equal(t, time.Hour, mr.TTL("test:saved:abc"))

	members, err := mr.Members("test:saved:abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, members)
}

func TestRedisSavedSkipsGarbageMembers(t *testing.T) {
	repo, mr := newRedisRepo(t)
	ctx := context.Background()

	_, err := mr.SetAdd("test:saved:abc", "4", "not-a-number")
	require.NoError(t, err)

	ids, err := repo.IDs(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, map[uint64]struct{}{4: {}}, ids)
}
