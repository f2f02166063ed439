package session

import (
	"context"
	"sync"
	"time"
)

// 文档注释：进程内会话存储
// 背景：单实例部署的默认实现；过期会话在创建新会话时顺带清理。
// 约束：返回副本，调用方修改不会绕过 Update 的互斥。
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	recs map[string]*Record
	seen map[string]time.Time
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, recs: make(map[string]*Record), seen: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Create(ctx context.Context) (*Record, error) {
	r := newRecord()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.recs[r.ID] = r
	s.seen[r.ID] = s.now()
	return r.clone(), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.live(id)
	if !ok {
		return nil, ErrNotFound
	}
	return r.clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, fn func(r *Record) error) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.live(id)
	if !ok {
		return nil, ErrNotFound
	}
	work := r.clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	work.Version++
	s.recs[id] = work
	s.seen[id] = s.now()
	return work.clone(), nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

func (s *MemoryStore) live(id string) (*Record, bool) {
	r, ok := s.recs[id]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(s.seen[id]) > s.ttl {
		delete(s.recs, id)
		delete(s.seen, id)
		return nil, false
	}
	return r, true
}

func (s *MemoryStore) sweep() {
	if s.ttl <= 0 {
		return
	}
	now := s.now()
	for id, t := range s.seen {
		if now.Sub(t) > s.ttl {
			delete(s.recs, id)
			delete(s.seen, id)
		}
	}
}
