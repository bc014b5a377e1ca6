package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var ErrInvalidMonth = errors.New("対象月の形式が不正です。例: 2026年4月")

var monthPattern = regexp.MustCompile(`^\s*(\d{4})\s*年\s*(\d{1,2})\s*月\s*$`)

// ParseMonth 解析「2026年4月」格式的月份
func ParseMonth(label string) (int, time.Month, error) {
	m := monthPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, ErrInvalidMonth
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, ErrInvalidMonth
	}

	return year, time.Month(month), nil
}

func IsValidMonth(label string) bool {
	_, _, err := ParseMonth(label)
	return err == nil
}

// NormalizeMonth 把「2026年04月」「 2026 年 4 月」之类的写法统一成「2026年4月」
func NormalizeMonth(label string) (string, error) {
	year, month, err := ParseMonth(label)
	if err != nil {
		return "", err
	}
	return FormatMonth(year, month), nil
}

func FormatMonth(year int, month time.Month) string {
	return fmt.Sprintf("%d年%d月", year, int(month))
}

// MonthChoices 返回从下个月开始的三个月，用于表单的下拉选项
func MonthChoices(now time.Time) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	choices := make([]string, 0, 3)
	for i := 1; i <= 3; i++ {
		t := first.AddDate(0, i, 0)
		choices = append(choices, FormatMonth(t.Year(), t.Month()))
	}
	return choices
}
