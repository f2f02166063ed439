// 包 store: PostgreSQL 只读数据访问层，提供目标表作为 ranked_targets.json 的替代来源
package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"canvass-map/internal/logger"
	"canvass-map/internal/targets"

	_ "github.com/lib/pq"
)

// 表名只允许 schema.table 形式的标识符，避免拼接 SQL 时注入
var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Store: 数据库访问入口，持有连接池
type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

// 文档注释：目标表来源
// 背景：离线管线可直接把评分结果写入数据库；本服务只读，按 ord 列还原文件中的原始顺序。
// 约束：列 id, lat, lng, address, score, lmi, kwh, owner, sqft, year, ord；任一列为 NULL 时扫描失败，由加载层降级为空集合。
type TargetTable struct {
	s     *Store
	table string
}

func (s *Store) Targets(table string) (*TargetTable, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &TargetTable{s: s, table: table}, nil
}

func (t *TargetTable) Targets(ctx context.Context) ([]targets.Target, error) {
	q := "SELECT id, lat, lng, address, score, lmi, kwh, owner, sqft, year FROM " + t.table + " ORDER BY ord ASC"
	logger.L().Debug("db_targets_begin", "table", t.table)
	rows, err := t.s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []targets.Target
	for rows.Next() {
		var tg targets.Target
		if err := rows.Scan(&tg.ID, &tg.Lat, &tg.Lng, &tg.Address, &tg.Score, &tg.LMI, &tg.KWh, &tg.Owner, &tg.SqFt, &tg.Year); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out = append(out, tg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("db_targets_done", "table", t.table, "count", len(out))
	return out, nil
}
