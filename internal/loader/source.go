// 包 loader：启动期并发拉取资格区与目标两份静态文档，任一失败即降级为空集合
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"canvass-map/internal/targets"
	"canvass-map/internal/zones"
)

// Fetcher：读取一份原始文档
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// 本地文件（DATA_DIR 下的相对路径）
type FileFetcher struct{ Path string }

func (f FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(f.Path)
}

// 文档注释：HTTP 拉取
// 背景：静态文件可由 CDN/对象存储托管；与浏览器按相对路径 fetch 的语义一致。
// 约束：非 2xx 视为失败；不重试；超时由调用方传入的 Client 决定，nil 时不设超时。
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	c := f.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: status %d", f.URL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

type ZoneSource interface {
	Zones(ctx context.Context) (*zones.Collection, error)
}

type TargetSource interface {
	Targets(ctx context.Context) ([]targets.Target, error)
}

// ZoneDocument：GeoJSON 文档形式的资格区来源
type ZoneDocument struct{ Fetcher Fetcher }

func (d ZoneDocument) Zones(ctx context.Context) (*zones.Collection, error) {
	b, err := d.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return zones.Decode(b)
}

// TargetDocument：ranked_targets.json 形式的目标来源
type TargetDocument struct{ Fetcher Fetcher }

func (d TargetDocument) Targets(ctx context.Context) ([]targets.Target, error) {
	b, err := d.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return targets.Decode(b)
}
