package targets

// 文档注释：目标集合（只读快照）
// 背景：保留文件中的原始顺序用于回退打印，同时按 ID 建立索引供路线解析。
// 约束：ID 重复时以首次出现为准；集合创建后不再修改。
type Collection struct {
	list []Target
	byID map[string]int
}

func NewCollection(list []Target) *Collection {
	c := &Collection{list: list, byID: make(map[string]int, len(list))}
	for i, t := range list {
		if _, ok := c.byID[t.ID]; !ok {
			c.byID[t.ID] = i
		}
	}
	return c
}

// All：按文件原始顺序返回全部目标
func (c *Collection) All() []Target {
	if c == nil {
		return nil
	}
	return c.list
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.list)
}

func (c *Collection) Get(id string) (Target, bool) {
	if c == nil {
		return Target{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Target{}, false
	}
	return c.list[i], true
}

// Resolve：把路线中的 ID 序列解析为目标，保持顺序；未知 ID 跳过
func (c *Collection) Resolve(ids []string) []Target {
	out := make([]Target, 0, len(ids))
	for _, id := range ids {
		if t, ok := c.Get(id); ok {
			out = append(out, t)
		}
	}
	return out
}
