package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// 乐观事务冲突时的最大重试次数
const maxTxRetries = 5

// 文档注释：Redis 会话存储
// 背景：多实例部署时共享会话；值为 JSON，键 canvass:session:<id>，每次写入刷新 TTL。
// 约束：Update 使用 WATCH/MULTI 乐观事务，冲突重试有限次后返回 ErrConflict。
type RedisStore struct {
	rc     *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rc *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rc: rc, ttl: ttl, prefix: "canvass:session:"}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) Create(ctx context.Context) (*Record, error) {
	r := newRecord()
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if err := s.rc.Set(ctx, s.key(r.ID), b, s.ttl).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	b, err := s.rc.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeRecord(b)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(r *Record) error) (*Record, error) {
	key := s.key(id)
	var out *Record
	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		r, err := decodeRecord(b)
		if err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
		r.Version++
		nb, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, nb, s.ttl)
			return nil
		})
		if err == nil {
			out = r
		}
		return err
	}
	for i := 0; i < maxTxRetries; i++ {
		err := s.rc.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrConflict
}

func decodeRecord(b []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	return r.clone(), nil
}
