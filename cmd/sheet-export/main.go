// 离线街道表导出：不启动服务，直接从数据文件（或配置的来源）生成可打印 HTML 或 xlsx
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"canvass-map/internal/config"
	"canvass-map/internal/loader"
	"canvass-map/internal/logger"
	"canvass-map/internal/sheet"

	"github.com/joho/godotenv"
)

type options struct {
	envFile string
	format  string
	out     string
	route   []string
}

func printHelp() {
	fmt.Println("usage: sheet-export [--env file] [--format html|xlsx] [--out path] [--route id1,id2,...]")
	fmt.Println("  without --route every target is printed in file order")
	fmt.Println("  without --out the sheet is written to stdout")
}

func parseArgs(args []string) (options, error) {
	o := options{format: "html"}
	for i := 0; i < len(args); i++ {
		next := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s needs a value", args[i])
			}
			i++
			return args[i], nil
		}
		var err error
		switch args[i] {
		case "--env":
			o.envFile, err = next()
		case "--format":
			o.format, err = next()
		case "--out":
			o.out, err = next()
		case "--route":
			var v string
			v, err = next()
			for _, id := range strings.Split(v, ",") {
				if id = strings.TrimSpace(id); id != "" {
					o.route = append(o.route, id)
				}
			}
		default:
			if strings.HasSuffix(args[i], ".env") {
				o.envFile = args[i]
				continue
			}
			return o, fmt.Errorf("unknown argument %q", args[i])
		}
		if err != nil {
			return o, err
		}
	}
	o.format = strings.ToLower(o.format)
	if o.format != "html" && o.format != "xlsx" {
		return o, fmt.Errorf("unknown format %q", o.format)
	}
	return o, nil
}

// export：路线中不存在的 ID 跳过并提示
func export(w io.Writer, ds *loader.Dataset, o options) (sheet.Sheet, error) {
	route := ds.Targets.Resolve(o.route)
	if len(route) != len(o.route) {
		logger.L().Warn("route_ids_skipped", "requested", len(o.route), "found", len(route))
	}
	sh := sheet.Build(ds.Targets.All(), route)
	if o.format == "xlsx" {
		return sh, sh.WriteXLSX(w)
	}
	return sh, sh.WriteHTML(w)
}

func main() {
	o, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Println("error:", err)
		printHelp()
		os.Exit(2)
	}
	if o.envFile != "" {
		_ = godotenv.Load(o.envFile)
	} else {
		_ = godotenv.Load(".env")
	}
	l := logger.Setup()
	cfg := config.FromEnv()
	ctx := context.Background()

	zs, ts, closeSources := loader.SourcesFromConfig(ctx, cfg, l)
	ld := loader.New(zs, ts, l)
	ld.Load(ctx)
	closeSources()
	ds := ld.Dataset()
	if ds.Targets.Len() == 0 {
		l.Warn("no_targets_loaded", "source", cfg.TargetsSource)
	}

	var w io.Writer = os.Stdout
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			fmt.Println("output error:", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	sh, err := export(w, ds, o)
	if err != nil {
		fmt.Println("render error:", err)
		os.Exit(1)
	}
	l.Info("sheet_exported", "format", o.format, "source", sh.Source, "rows", len(sh.Rows), "out", o.out)
}
