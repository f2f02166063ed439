package sheet

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Street Sheet"

var header = []string{"#", "Address", "Score", "LMI", "Owner", "kWh/mo", "Result", "Notes"}

// 文档注释：导出 xlsx 工作簿
// 背景：部分团队在平板上填写结果后回传；列与纸质表一致，Result/Notes 留空。
func (s Sheet) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", bold); err != nil {
		return err
	}
	for i, r := range s.Rows {
		row := i + 2
		vals := []any{r.Seq, r.Address, r.Score, r.LMIText(), r.OwnerText(), r.KWh, "", ""}
		for j, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}
	_ = f.SetColWidth(sheetName, "B", "B", 42)
	_ = f.SetColWidth(sheetName, "G", "H", 24)
	return f.Write(w)
}
