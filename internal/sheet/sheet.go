// 包 sheet：纸质“街道表”（上门拜访工作表）的行构建、可打印 HTML 与 xlsx 导出
package sheet

import (
	"embed"
	"html/template"
	"io"
	"time"

	"canvass-map/internal/targets"
)

//go:embed templates/street_sheet.html
var templatesFS embed.FS

var sheetTmpl = template.Must(template.ParseFS(templatesFS, "templates/street_sheet.html"))

const (
	checkMark = "✓"
	renter    = "R"
)

// 行来源
const (
	SourceRoute = "route"
	SourceAll   = "all"
)

// Row：一行地址；Result/Notes 两列留空供手写
type Row struct {
	Seq     int
	ID      string
	Address string
	Score   float64
	LMI     bool
	Owner   bool
	KWh     float64
	Tier    targets.Tier
}

func (r Row) ScoreText() string { return targets.FormatNumber(r.Score) }
func (r Row) KWhText() string   { return targets.FormatNumber(r.KWh) }

// LMIText：符合条件打勾，否则留空
func (r Row) LMIText() string {
	if r.LMI {
		return checkMark
	}
	return ""
}

// OwnerText：业主打勾，租户标 R
func (r Row) OwnerText() string {
	if r.Owner {
		return checkMark
	}
	return renter
}

// 文档注释：街道表
// 背景：路线非空时打印路线（按分数降序，最高优先）；路线为空时回退为全部目标，保持文件原始顺序。
type Sheet struct {
	Title       string
	Source      string
	Rows        []Row
	GeneratedAt time.Time
	AutoPrint   bool
}

func Build(all []targets.Target, route []targets.Target) Sheet {
	s := Sheet{Title: "Street Sheet", Source: SourceAll, GeneratedAt: time.Now()}
	list := all
	if len(route) > 0 {
		s.Source = SourceRoute
		list = targets.ByScoreDesc(route)
	}
	s.Rows = make([]Row, 0, len(list))
	for i, t := range list {
		s.Rows = append(s.Rows, Row{
			Seq: i + 1, ID: t.ID, Address: t.Address, Score: t.Score,
			LMI: t.LMI, Owner: t.Owner, KWh: t.KWh, Tier: t.Tier(),
		})
	}
	return s
}

// WriteHTML：可打印页面；AutoPrint 为 true 时页面加载后调用浏览器原生打印
func (s Sheet) WriteHTML(w io.Writer) error { return sheetTmpl.Execute(w, s) }
