package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/och-dev/shiftkun/internal/domain"
)

// 勤务表的列顺序：日付 | 曜 | 早番 | 日勤 | 準夜 | 夜勤
var ShiftLabels = []string{"早番", "日勤", "準夜", "夜勤"}

const TallyHeader = "医師,早番,日勤,準夜,夜勤,合計"

// 表示该班次无人的占位写法
var vacantMarks = map[string]bool{"欠員": true, "空欄": true, "-": true}

var separatorCell = regexp.MustCompile(`^:?-+:?$`)

// ParseMarkdownTable 解析 Markdown 表格，跳过分隔行，保留空单元格
func ParseMarkdownTable(text string) [][]string {
	rows := make([][]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "|") {
			continue
		}
		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")

		cells := strings.Split(line, "|")
		separator := true
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
			if !separatorCell.MatchString(cells[i]) {
				separator = false
			}
		}
		if separator {
			continue
		}
		rows = append(rows, cells)
	}
	return rows
}

type TallyRow struct {
	Staff  string
	Counts [4]int
}

func (r TallyRow) Total() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// TallyFromTable 按出现顺序统计勤务表中每个人各班次的次数
func TallyFromTable(table string) []TallyRow {
	tally := make([]TallyRow, 0)
	index := make(map[string]int)

	for _, cells := range ParseMarkdownTable(table) {
		if len(cells) < 2+len(ShiftLabels) || cells[0] == "日付" {
			continue
		}
		for shift := range ShiftLabels {
			name := cells[2+shift]
			if name == "" || vacantMarks[name] {
				continue
			}
			i, ok := index[name]
			if !ok {
				i = len(tally)
				index[name] = i
				tally = append(tally, TallyRow{Staff: name})
			}
			tally[i].Counts[shift]++
		}
	}

	return tally
}

func RenderTally(tally []TallyRow) string {
	lines := []string{TallyHeader}
	for _, row := range tally {
		lines = append(lines, fmt.Sprintf("%s,%d,%d,%d,%d,%d", row.Staff, row.Counts[0], row.Counts[1], row.Counts[2], row.Counts[3], row.Total()))
	}
	return strings.Join(lines, "\n")
}

type StaffTotal struct {
	Staff           string `json:"staff"`
	Total           int    `json:"total"`
	Travel          int    `json:"travel"`
	TotalWithTravel int    `json:"totalWithTravel"`
}

// SharedTotals 从集计表中读取每个人的合计，再加上出差天数
func SharedTotals(tallyText string, travelDays map[string]int) []StaffTotal {
	totals := make([]StaffTotal, 0)
	for _, line := range strings.Split(tallyText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "医師") || strings.HasPrefix(line, "医者") || strings.HasPrefix(line, "スタッフ") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 6 {
			continue
		}
		total, err := strconv.Atoi(strings.TrimSpace(parts[5]))
		if err != nil {
			continue
		}

		name := strings.TrimSpace(parts[0])
		travel := travelDays[name]
		totals = append(totals, StaffTotal{
			Staff:           name,
			Total:           total,
			Travel:          travel,
			TotalWithTravel: total + travel,
		})
	}
	return totals
}

// TravelDaysFromPreferences 在没有出差记录时，用希望文本中「出張」出现的次数代替
func TravelDaysFromPreferences(prefs []*domain.Preference) map[string]int {
	days := make(map[string]int)
	for _, pref := range prefs {
		text, _, _ := strings.Cut(pref.Text, strings.TrimSpace(domain.PreferenceNoteSeparator))
		days[pref.Staff] += strings.Count(text, "出張")
	}
	return days
}

func TravelDays(travels []*domain.Travel) map[string]int {
	days := make(map[string]int)
	for _, t := range travels {
		if t.Days != nil {
			days[t.Staff] = int(*t.Days)
		}
	}
	return days
}
