// 包 session：会话存储。一次页面加载对应一个会话，刷新页面即开启新会话（计数与路线归零）
package session

import (
	"context"
	"errors"
	"maps"
	"slices"
	"time"

	"canvass-map/internal/canvass"
	"canvass-map/internal/render"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrConflict = errors.New("session update conflict")
)

// 文档注释：会话记录
// 背景：视图状态与“已绘制图层指纹”一起保存，使多次请求之间的图层增删保持幂等。
// 约束：Version 每次成功 Update 加一，页面据此丢弃过期响应并在发现缺口时请求全量重绘。
type Record struct {
	ID        string        `json:"id"`
	Version   int64         `json:"version"`
	State     canvass.State `json:"state"`
	Drawn     render.Drawn  `json:"drawn"`
	CreatedAt time.Time     `json:"created_at"`
}

// Store：会话存取；Update 对同一会话的读-改-写串行化
type Store interface {
	Create(ctx context.Context) (*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	Update(ctx context.Context, id string, fn func(r *Record) error) (*Record, error)
}

func newRecord() *Record {
	return &Record{
		ID:        uuid.NewString(),
		State:     canvass.NewState(),
		Drawn:     render.Drawn{},
		CreatedAt: time.Now().UTC(),
	}
}

func (r *Record) clone() *Record {
	c := *r
	c.State.Route = slices.Clone(r.State.Route)
	if c.State.Route == nil {
		c.State.Route = []string{}
	}
	c.Drawn = maps.Clone(r.Drawn)
	if c.Drawn == nil {
		c.Drawn = render.Drawn{}
	}
	return &c
}
