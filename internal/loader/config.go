package loader

import (
	"context"
	"log/slog"
	"net/http"

	"canvass-map/internal/config"
	"canvass-map/internal/store"
	"canvass-map/internal/utils"
)

// failing：来源在打开阶段就失败时使用，加载时返回该错误，从而降级为空集合
type failing struct{ err error }

func (f failing) Fetch(context.Context) ([]byte, error) { return nil, f.err }

// 文档注释：按配置选择两份文档的来源
// 背景：资格区来自本地文件或 ZONES_URL；目标来自文件、TARGETS_URL 或 PostgreSQL 只读表。
// 约束：数据库不可用时不退出进程，与文件缺失同样处理；返回的 closer 始终非空。
func SourcesFromConfig(ctx context.Context, cfg config.Config, log *slog.Logger) (ZoneSource, TargetSource, func()) {
	closer := func() {}
	var client *http.Client
	if cfg.FetchTimeout > 0 {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}

	var zs ZoneSource = ZoneDocument{Fetcher: FileFetcher{Path: cfg.ZonesPath}}
	if cfg.ZonesURL != "" {
		zs = ZoneDocument{Fetcher: HTTPFetcher{URL: cfg.ZonesURL, Client: client}}
	}

	switch cfg.TargetsSource {
	case config.SourceHTTP:
		return zs, TargetDocument{Fetcher: HTTPFetcher{URL: cfg.TargetsURL, Client: client}}, closer
	case config.SourcePostgres:
		db, err := utils.OpenPostgresFromEnv(ctx)
		if err != nil {
			log.Warn("db_open_error", "err", err)
			return zs, TargetDocument{Fetcher: failing{err: err}}, closer
		}
		log.Info("db_open_ok")
		st := store.AttachDB(db)
		tt, err := st.Targets(cfg.TargetsTable)
		if err != nil {
			log.Warn("db_table_error", "table", cfg.TargetsTable, "err", err)
			_ = st.Close()
			return zs, TargetDocument{Fetcher: failing{err: err}}, closer
		}
		return zs, tt, func() { _ = st.Close() }
	}
	return zs, TargetDocument{Fetcher: FileFetcher{Path: cfg.TargetsPath}}, closer
}
