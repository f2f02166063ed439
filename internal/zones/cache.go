package zones

import (
	"container/list"
	"sync"
)

// 文档注释：落点结果 LRU 缓存（geohash 为键）
// 背景：同一街区的目标地址会重复判定，缓存区域下标以跳过包围盒过滤与多边形判定。
// 约束：值为区域下标，-1 表示不在任何区域内；集合只读，因此不设过期时间。
type lru struct {
	mu   sync.Mutex
	cap  int
	lst  *list.List
	dict map[string]*list.Element
}

type entry struct {
	k   string
	idx int
}

func newLRU(capacity int) *lru {
	if capacity <= 0 {
		capacity = 1
	}
	return &lru{cap: capacity, lst: list.New(), dict: make(map[string]*list.Element)}
}

func (c *lru) get(k string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		c.lst.MoveToFront(e)
		return e.Value.(entry).idx, true
	}
	return 0, false
}

func (c *lru) set(k string, idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.dict[k]; ok {
		e.Value = entry{k: k, idx: idx}
		c.lst.MoveToFront(e)
		return
	}
	c.dict[k] = c.lst.PushFront(entry{k: k, idx: idx})
	for c.lst.Len() > c.cap {
		back := c.lst.Back()
		if back == nil {
			break
		}
		delete(c.dict, back.Value.(entry).k)
		c.lst.Remove(back)
	}
}

func (c *lru) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lst.Len()
}
