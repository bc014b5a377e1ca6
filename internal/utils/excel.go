package utils

import (
	"bytes"
	"fmt"

	"github.com/och-dev/shiftkun/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetPreferences = "希望一覧"
	SheetTravel      = "出張"
	SheetSchedule    = "勤務表"
	SheetTally       = "回数"
)

type sheetSpec struct {
	name   string
	header []any
	rows   [][]any
	widths []float64
}

// BuildWorkbook 把某个月的希望、出差和排班导出为 Excel，schedule 为空时只导出前两个工作表
func BuildWorkbook(prefs []*domain.Preference, travels []*domain.Travel, schedule *domain.Schedule) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}

	sheets := []sheetSpec{
		{
			name:   SheetPreferences,
			header: []any{"月", "氏名", "希望", "登録日時"},
			rows:   preferenceRows(prefs),
			widths: []float64{12, 14, 60, 20},
		},
		{
			name:   SheetTravel,
			header: []any{"月", "氏名", "日数", "日付"},
			rows:   travelRows(travels),
			widths: []float64{12, 14, 8, 40},
		},
	}

	if schedule != nil {
		tableRows := ParseMarkdownTable(schedule.Table)
		header := []any{}
		rows := [][]any{}
		for i, cells := range tableRows {
			row := make([]any, len(cells))
			for j, cell := range cells {
				row[j] = cell
			}
			if i == 0 {
				header = row
				continue
			}
			rows = append(rows, row)
		}
		sheets = append(sheets, sheetSpec{SheetSchedule, header, rows, []float64{10, 6, 14, 14, 14, 14}})

		tallyRows := [][]any{}
		for _, row := range TallyFromTable(schedule.Table) {
			tallyRows = append(tallyRows, []any{row.Staff, row.Counts[0], row.Counts[1], row.Counts[2], row.Counts[3], row.Total()})
		}
		sheets = append(sheets, sheetSpec{SheetTally, []any{"医師", "早番", "日勤", "準夜", "夜勤", "合計"}, tallyRows, []float64{14, 8, 8, 8, 8, 8}})
	}

	for i, sheet := range sheets {
		idx, err := f.NewSheet(sheet.name)
		if err != nil {
			return nil, fmt.Errorf("创建工作表 %s 失败: %w", sheet.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		for col, width := range sheet.widths {
			name, _ := excelize.ColumnNumberToName(col + 1)
			_ = f.SetColWidth(sheet.name, name, name, width)
		}

		if len(sheet.header) > 0 {
			if err := f.SetSheetRow(sheet.name, "A1", &sheet.header); err != nil {
				return nil, err
			}
			last, _ := excelize.CoordinatesToCellName(len(sheet.header), 1)
			_ = f.SetCellStyle(sheet.name, "A1", last, headerStyle)
		}

		for r, row := range sheet.rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return nil, err
			}
		}
	}

	// excelize 默认会创建 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("生成 Excel 文件失败: %w", err)
	}

	return buf, nil
}

func preferenceRows(prefs []*domain.Preference) [][]any {
	rows := make([][]any, 0, len(prefs))
	for _, pref := range prefs {
		rows = append(rows, []any{pref.Month, pref.Staff, pref.Text, pref.CreatedAt.Format("2006-01-02 15:04:05")})
	}
	return rows
}

func travelRows(travels []*domain.Travel) [][]any {
	rows := make([][]any, 0, len(travels))
	for _, t := range travels {
		row := []any{t.Month, t.Staff, "", ""}
		if t.Days != nil {
			row[2] = *t.Days
		}
		if t.Dates != nil {
			row[3] = *t.Dates
		}
		rows = append(rows, row)
	}
	return rows
}
