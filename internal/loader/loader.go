package loader

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"canvass-map/internal/metrics"
	"canvass-map/internal/targets"
	"canvass-map/internal/zones"

	"golang.org/x/sync/errgroup"
)

// 落点缓存容量：目标数量为数百级
const zoneCacheSize = 4096

// 文档注释：一次加载的只读快照
// 背景：资格区、目标与落点索引一起发布，处理请求时整体读取，避免看到半成品。
type Dataset struct {
	Zones   *zones.Collection
	Targets *targets.Collection
	index   *zones.Index
}

func NewDataset(zc *zones.Collection, ts []targets.Target) *Dataset {
	if zc == nil {
		zc = zones.NewCollection(nil)
	}
	return &Dataset{Zones: zc, Targets: targets.NewCollection(ts), index: zones.NewIndex(zc, zoneCacheSize)}
}

// ZoneOf：目标所在的资格区；不在任何区域内返回 false
func (d *Dataset) ZoneOf(t targets.Target) (zones.Zone, bool) {
	return d.index.Locate(t.Lat, t.Lng)
}

// 文档注释：启动加载器
// 背景：两份文档并发请求、互不阻塞；任一失败（传输、解析、缺字段）只影响自身，替换为空集合。
// 约束：整个进程只执行一次，不重试、不缓存、不重新校验；两者都结束后 loading 标志才清除。
type Loader struct {
	zs  ZoneSource
	ts  TargetSource
	log *slog.Logger

	once    sync.Once
	loading atomic.Bool
	data    atomic.Pointer[Dataset]
	done    chan struct{}
}

func New(zs ZoneSource, ts TargetSource, log *slog.Logger) *Loader {
	l := &Loader{zs: zs, ts: ts, log: log, done: make(chan struct{})}
	l.loading.Store(true)
	l.data.Store(NewDataset(nil, nil))
	return l
}

// Load：并发拉取两份文档；重复调用无效果，阻塞到首次加载结束
func (l *Loader) Load(ctx context.Context) {
	l.once.Do(func() {
		var (
			g  errgroup.Group
			zc *zones.Collection
			ts []targets.Target
		)
		g.Go(func() error {
			t0 := time.Now()
			c, err := l.zs.Zones(ctx)
			if err != nil {
				l.log.Warn("data_load_error", "source", "zones", "err", err)
				metrics.DataLoadTotal.WithLabelValues("zones", "error").Inc()
				return nil
			}
			zc = c
			l.log.Info("data_load_ok", "source", "zones", "count", c.Len(), "duration_ms", time.Since(t0).Milliseconds())
			metrics.DataLoadTotal.WithLabelValues("zones", "ok").Inc()
			return nil
		})
		g.Go(func() error {
			t0 := time.Now()
			list, err := l.ts.Targets(ctx)
			if err != nil {
				l.log.Warn("data_load_error", "source", "targets", "err", err)
				metrics.DataLoadTotal.WithLabelValues("targets", "error").Inc()
				return nil
			}
			ts = list
			l.log.Info("data_load_ok", "source", "targets", "count", len(list), "duration_ms", time.Since(t0).Milliseconds())
			metrics.DataLoadTotal.WithLabelValues("targets", "ok").Inc()
			return nil
		})
		_ = g.Wait()
		l.data.Store(NewDataset(zc, ts))
		l.loading.Store(false)
		close(l.done)
	})
	<-l.done
}

func (l *Loader) Loading() bool { return l.loading.Load() }

// Dataset：当前快照；加载完成前为空集合
func (l *Loader) Dataset() *Dataset { return l.data.Load() }

// Done：首次加载结束时关闭
func (l *Loader) Done() <-chan struct{} { return l.done }
