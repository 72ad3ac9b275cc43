package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// 在 Redis 端原子切换，避免双击时 SISMEMBER 与 SADD/SREM 之间被插队
var toggleScript = redis.NewScript(`
if redis.call("SISMEMBER", KEYS[1], ARGV[1]) == 1 then
	redis.call("SREM", KEYS[1], ARGV[1])
	return 0
end
redis.call("SADD", KEYS[1], ARGV[1])
redis.call("EXPIRE", KEYS[1], ARGV[2])
return 1
`)

// RedisSavedRepository 每个会话一个 SET: <prefix>saved:<sessionID>
type RedisSavedRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSavedRepository ttl 与会话 cookie 有效期保持一致
func NewRedisSavedRepository(client *redis.Client, prefix string, ttl time.Duration) *RedisSavedRepository {
	return &RedisSavedRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisSavedRepository) key(sessionID string) string {
	return r.prefix + "saved:" + sessionID
}

func (r *RedisSavedRepository) Toggle(ctx context.Context, sessionID string, postID uint64) (bool, error) {
	res, err := toggleScript.Run(ctx, r.client,
		[]string{r.key(sessionID)},
		strconv.FormatUint(postID, 10), int(r.ttl.Seconds()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("saved toggle error: %w", err)
	}
	return res == 1, nil
}

func (r *RedisSavedRepository) Contains(ctx context.Context, sessionID string, postID uint64) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.key(sessionID), strconv.FormatUint(postID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("saved contains error: %w", err)
	}
	return ok, nil
}

func (r *RedisSavedRepository) IDs(ctx context.Context, sessionID string) (map[uint64]struct{}, error) {
	members, err := r.client.SMembers(ctx, r.key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("saved members error: %w", err)
	}
	out := make(map[uint64]struct{}, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			// 外部写入的脏数据，跳过
			continue
		}
		out[id] = struct{}{}
	}
	return out, nil
}
