// 包 config：从环境变量读取运行配置（.env 由入口预先加载），所有项都有内置默认值
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// 目标数据来源
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// 会话存储后端
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Addr    string
	APIBase string
	DataDir string

	ZonesPath     string
	TargetsPath   string
	ZonesURL      string
	TargetsURL    string
	TargetsSource string
	TargetsTable  string
	FetchTimeout  time.Duration

	SessionBackend string
	SessionTTL     time.Duration

	GeoIPPath   string
	DefaultLat  float64
	DefaultLng  float64
	DefaultZoom int

	TLSEnable   bool
	TLSCertPath string
	TLSKeyPath  string

	RateLimitEnabled bool
	RateLimitQPS     int
}

// 文档注释：读取配置
// 背景：沿用“环境变量 + 内联默认值”的方式，部署时只需覆盖需要的项。
// 约束：数值解析失败时回退默认值；TARGETS_SOURCE 未设置时，配置了 TARGETS_URL 则走 http，否则读本地文件。
func FromEnv() Config {
	dataDir := envOr("DATA_DIR", filepath.Join("data"))
	c := Config{
		Addr:           envOr("ADDR", ":8080"),
		APIBase:        strings.TrimRight(envOr("API_BASE", "/api"), "/"),
		DataDir:        dataDir,
		ZonesPath:      envOr("ZONES_PATH", filepath.Join(dataDir, "blue_zones.geojson")),
		TargetsPath:    envOr("TARGETS_PATH", filepath.Join(dataDir, "ranked_targets.json")),
		ZonesURL:       os.Getenv("ZONES_URL"),
		TargetsURL:     os.Getenv("TARGETS_URL"),
		TargetsTable:   envOr("TARGETS_TABLE", "ranked_targets"),
		FetchTimeout:   time.Duration(envInt("FETCH_TIMEOUT_S", 0)) * time.Second,
		SessionBackend: strings.ToLower(envOr("SESSION_BACKEND", BackendMemory)),
		SessionTTL:     time.Duration(envInt("SESSION_TTL_S", 12*3600)) * time.Second,
		GeoIPPath:      os.Getenv("GEOIP_DB_PATH"),
		DefaultLat:     envFloat("DEFAULT_CENTER_LAT", 37.4316),
		DefaultLng:     envFloat("DEFAULT_CENTER_LNG", -78.6569),
		DefaultZoom:    envInt("DEFAULT_CENTER_ZOOM", 7),
		TLSCertPath:    envOr("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
		TLSKeyPath:     envOr("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
		RateLimitQPS:   envInt("RATE_LIMIT_QPS", 200),
	}
	tls := os.Getenv("TLS_ENABLE")
	c.TLSEnable = tls == "" || tls == "true"
	c.RateLimitEnabled = os.Getenv("RATE_LIMIT_ENABLED") == "true"
	c.TargetsSource = strings.ToLower(os.Getenv("TARGETS_SOURCE"))
	if c.TargetsSource == "" {
		c.TargetsSource = SourceFile
		if c.TargetsURL != "" {
			c.TargetsSource = SourceHTTP
		}
	}
	return c
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return def
}
